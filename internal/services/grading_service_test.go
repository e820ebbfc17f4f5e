package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/brightboard/brightboard-backend/internal/clients/gcp"
	"github.com/brightboard/brightboard-backend/internal/data/repos/testutil"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
)

func TestGradeSubmission(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-gs@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-gs@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentActive)
	sub := testutil.SeedSubmission(t, ctx, s.tx, asg.ID, student.ID, types.SubmissionSubmitted)

	feedback := "solid work"
	graded, err := s.grading.Grade(ctx, GradeInput{
		SubmissionID: sub.ID,
		Grade:        8.5,
		Feedback:     &feedback,
		GradedBy:     instructor.ID,
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if graded.Status != types.SubmissionGraded {
		t.Fatalf("status = %q, want graded", graded.Status)
	}
	if graded.Grade == nil || *graded.Grade != 8.5 {
		t.Fatalf("grade = %v", graded.Grade)
	}
	if graded.GradedAt == nil {
		t.Fatalf("graded_at not set")
	}
	if graded.Feedback == nil || *graded.Feedback != feedback {
		t.Fatalf("feedback = %v", graded.Feedback)
	}

	// Grading emits a notification to the student.
	rows, err := s.notifications.List(ctx, student.ID, 0)
	if err != nil || len(rows) != 1 || rows[0].Type != types.NotificationAssignmentGraded {
		t.Fatalf("notifications: err=%v rows=%+v", err, rows)
	}

	// Re-grading overwrites.
	regraded, err := s.grading.Grade(ctx, GradeInput{SubmissionID: sub.ID, Grade: 9, GradedBy: instructor.ID})
	if err != nil {
		t.Fatalf("re-grade: %v", err)
	}
	if regraded.Grade == nil || *regraded.Grade != 9 {
		t.Fatalf("re-grade = %v", regraded.Grade)
	}
}

func TestGradeBounds(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-gb@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-gb@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentActive)
	sub := testutil.SeedSubmission(t, ctx, s.tx, asg.ID, student.ID, types.SubmissionLate)

	if _, err := s.grading.Grade(ctx, GradeInput{SubmissionID: sub.ID, Grade: -1}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("negative grade: want ErrInvalidArgument, got %v", err)
	}
	if _, err := s.grading.Grade(ctx, GradeInput{SubmissionID: sub.ID, Grade: asg.MaxScore + 0.1}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("over max: want ErrInvalidArgument, got %v", err)
	}
	// Boundary values are valid, and a late submission is gradable.
	if _, err := s.grading.Grade(ctx, GradeInput{SubmissionID: sub.ID, Grade: 0}); err != nil {
		t.Fatalf("zero grade: %v", err)
	}
	if _, err := s.grading.Grade(ctx, GradeInput{SubmissionID: sub.ID, Grade: asg.MaxScore}); err != nil {
		t.Fatalf("max grade: %v", err)
	}
}

func TestGradeRejectsPendingAndMissing(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-gp@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-gp@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentActive)
	pending := testutil.SeedSubmission(t, ctx, s.tx, asg.ID, student.ID, types.SubmissionPending)

	if _, err := s.grading.Grade(ctx, GradeInput{SubmissionID: pending.ID, Grade: 5}); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("pending: want ErrInvalidState, got %v", err)
	}
	if _, err := s.grading.Grade(ctx, GradeInput{SubmissionID: uuid.New(), Grade: 5}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("missing: want ErrNotFound, got %v", err)
	}
}

// Exercises the whole path a real class goes through: publish, submit with
// attachments, grade.
func TestSubmitThenGradeFlow(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-fl@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-fl@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	testutil.SeedEnrollment(t, ctx, s.tx, course.ID, student.ID)

	due := time.Now().UTC().Add(24 * time.Hour)
	asg, err := s.assignments.Create(ctx, CreateAssignmentInput{
		CourseID:  course.ID,
		CreatedBy: instructor.ID,
		Title:     "Final Essay",
		DueDate:   &due,
		MaxScore:  10,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.assignments.SetStatus(ctx, asg.ID, types.AssignmentActive); err != nil {
		t.Fatalf("publish: %v", err)
	}

	res, err := s.submissions.Submit(ctx, asg.ID, student.ID, "final draft", []FileUpload{
		{Name: "essay.pdf", Size: 16, Content: strings.NewReader("abcdefghijklmnop")},
		{Name: "sources.zip", Size: 8, Content: strings.NewReader("12345678")},
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(res.FileErrors) != 0 || len(res.Submission.Files) != 2 {
		t.Fatalf("files = %d, errors = %+v", len(res.Submission.Files), res.FileErrors)
	}
	if res.Submission.Status != types.SubmissionSubmitted {
		t.Fatalf("status = %q, want submitted", res.Submission.Status)
	}

	graded, err := s.grading.Grade(ctx, GradeInput{
		SubmissionID: res.Submission.ID,
		Grade:        7.5,
		GradedBy:     instructor.ID,
	})
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if graded.Status != types.SubmissionGraded || graded.Grade == nil || *graded.Grade != 7.5 {
		t.Fatalf("graded row = %+v", graded)
	}

	// Both attachments stay retrievable through their stored paths.
	for _, f := range res.Submission.Files {
		rc, err := s.bucket.DownloadFile(ctx, gcp.BucketCategorySubmission, f.FilePath)
		if err != nil {
			t.Fatalf("download %s: %v", f.FileName, err)
		}
		rc.Close()
	}

	// Exactly one graded notification for the student.
	rows, err := s.notifications.List(ctx, student.ID, 0)
	if err != nil {
		t.Fatalf("List notifications: %v", err)
	}
	gradedNotes := 0
	for _, n := range rows {
		if n.Type == types.NotificationAssignmentGraded {
			gradedNotes++
		}
	}
	if gradedNotes != 1 {
		t.Fatalf("graded notifications = %d, want 1", gradedNotes)
	}
}
