package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/brightboard/brightboard-backend/internal/data/repos/testutil"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
)

func TestCourseCreateAndUpdate(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-cc@test.dev", types.RoleInstructor)

	course, err := s.courses.Create(ctx, CreateCourseInput{
		OwnerID:     instructor.ID,
		Title:       "  Intro to Biology  ",
		Description: "cells and such",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if course.Title != "Intro to Biology" {
		t.Fatalf("title not trimmed: %q", course.Title)
	}

	if _, err := s.courses.Create(ctx, CreateCourseInput{OwnerID: instructor.ID, Title: "   "}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("blank title: want ErrInvalidArgument, got %v", err)
	}

	newTitle := "Biology 101"
	updated, err := s.courses.Update(ctx, course.ID, &newTitle, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != newTitle || updated.Description != "cells and such" {
		t.Fatalf("Update: got title=%q desc=%q", updated.Title, updated.Description)
	}

	// no-op update returns the current row
	same, err := s.courses.Update(ctx, course.ID, nil, nil)
	if err != nil || same.Title != newTitle {
		t.Fatalf("no-op Update: row=%v err=%v", same, err)
	}

	if _, err := s.courses.Update(ctx, uuid.New(), &newTitle, nil); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Update missing: want ErrNotFound, got %v", err)
	}
}

func TestCourseEnrollmentLifecycle(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-ce@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-ce@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)

	row, err := s.courses.Enroll(ctx, course.ID, student.ID)
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if row.CourseID != course.ID || row.StudentID != student.ID {
		t.Fatalf("Enroll row = %+v", row)
	}

	// second enrollment of the same pair is a conflict
	if _, err := s.courses.Enroll(ctx, course.ID, student.ID); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("duplicate Enroll: want ErrConflict, got %v", err)
	}
	if _, err := s.courses.Enroll(ctx, course.ID, uuid.New()); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Enroll unknown student: want ErrNotFound, got %v", err)
	}
	if _, err := s.courses.Enroll(ctx, uuid.New(), student.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Enroll unknown course: want ErrNotFound, got %v", err)
	}

	// enrollment writes a course_enrolled notification for the student
	notes, err := s.notifications.List(ctx, student.ID, 10)
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	found := false
	for _, n := range notes {
		if n.Type == types.NotificationCourseEnrolled {
			found = true
		}
	}
	if !found {
		t.Fatalf("no course_enrolled notification after Enroll, got %d rows", len(notes))
	}

	enrolled, err := s.courses.ListEnrolled(ctx, student.ID)
	if err != nil || len(enrolled) != 1 || enrolled[0].ID != course.ID {
		t.Fatalf("ListEnrolled = %v, err=%v", enrolled, err)
	}
	ok, err := s.courses.IsEnrolled(ctx, course.ID, student.ID)
	if err != nil || !ok {
		t.Fatalf("IsEnrolled = %v, err=%v", ok, err)
	}

	roster, err := s.courses.Roster(ctx, course.ID)
	if err != nil || len(roster) != 1 {
		t.Fatalf("Roster = %v, err=%v", roster, err)
	}

	if err := s.courses.Unenroll(ctx, course.ID, student.ID); err != nil {
		t.Fatalf("Unenroll: %v", err)
	}
	if err := s.courses.Unenroll(ctx, course.ID, student.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("second Unenroll: want ErrNotFound, got %v", err)
	}
	if ok, _ := s.courses.IsEnrolled(ctx, course.ID, student.ID); ok {
		t.Fatalf("still enrolled after Unenroll")
	}
}

func TestCourseListOwnedAndDelete(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-cl@test.dev", types.RoleInstructor)
	other := testutil.SeedUser(t, ctx, s.tx, "inst-cl2@test.dev", types.RoleInstructor)
	c1 := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	testutil.SeedCourse(t, ctx, s.tx, other.ID)

	owned, err := s.courses.ListOwned(ctx, instructor.ID)
	if err != nil {
		t.Fatalf("ListOwned: %v", err)
	}
	if len(owned) != 1 || owned[0].ID != c1.ID {
		t.Fatalf("ListOwned = %v", owned)
	}

	if err := s.courses.Delete(ctx, c1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.courses.Get(ctx, c1.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Get after Delete: want ErrNotFound, got %v", err)
	}
	if err := s.courses.Delete(ctx, c1.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("second Delete: want ErrNotFound, got %v", err)
	}
}
