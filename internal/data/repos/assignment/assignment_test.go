package assignment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/brightboard/brightboard-backend/internal/data/repos/testutil"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
)

func TestAssignmentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewAssignmentRepo(db, testutil.Logger(t))

	instructor := testutil.SeedUser(t, ctx, tx, "inst-ar@test.dev", types.RoleInstructor)
	course1 := testutil.SeedCourse(t, ctx, tx, instructor.ID)
	course2 := testutil.SeedCourse(t, ctx, tx, instructor.ID)

	a1 := &types.Assignment{ID: uuid.New(), CourseID: course1.ID, Title: "a1", MaxScore: types.DefaultMaxScore, Status: types.AssignmentDraft, CreatedBy: instructor.ID}
	a2 := &types.Assignment{ID: uuid.New(), CourseID: course1.ID, Title: "a2", MaxScore: 20, Status: types.AssignmentActive, CreatedBy: instructor.ID}
	a3 := &types.Assignment{ID: uuid.New(), CourseID: course2.ID, Title: "a3", MaxScore: types.DefaultMaxScore, Status: types.AssignmentDraft, CreatedBy: instructor.ID}
	if _, err := repo.Create(ctx, tx, []*types.Assignment{a1, a2, a3}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if got, err := repo.GetByID(ctx, tx, a1.ID); err != nil || got == nil || got.ID != a1.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{a1.ID, a2.ID, a3.ID}); err != nil || len(rows) != 3 {
		t.Fatalf("GetByIDs: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListByCourse(ctx, tx, course1.ID); err != nil || len(rows) != 2 {
		t.Fatalf("ListByCourse: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListByCourseIDs(ctx, tx, []uuid.UUID{course1.ID, course2.ID}); err != nil || len(rows) != 3 {
		t.Fatalf("ListByCourseIDs: err=%v len=%d", err, len(rows))
	}
	if n, err := repo.CountByCreator(ctx, tx, instructor.ID); err != nil || n != 3 {
		t.Fatalf("CountByCreator: err=%v n=%d", err, n)
	}

	a1.Title = "a1b"
	if err := repo.Update(ctx, tx, a1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := repo.UpdateFields(ctx, tx, a2.ID, map[string]interface{}{"status": types.AssignmentArchived}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	if got, err := repo.GetByID(ctx, tx, a2.ID); err != nil || got == nil || got.Status != types.AssignmentArchived {
		t.Fatalf("after UpdateFields GetByID: got=%v err=%v", got, err)
	}

	if err := repo.DeleteByID(ctx, tx, a3.ID); err != nil {
		t.Fatalf("DeleteByID: %v", err)
	}
	if got, err := repo.GetByID(ctx, tx, a3.ID); err != nil || got != nil {
		t.Fatalf("after DeleteByID GetByID: got=%v err=%v", got, err)
	}
}

func TestSubmissionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSubmissionRepo(db, testutil.Logger(t))

	instructor := testutil.SeedUser(t, ctx, tx, "inst-sr@test.dev", types.RoleInstructor)
	student1 := testutil.SeedUser(t, ctx, tx, "stud1-sr@test.dev", types.RoleStudent)
	student2 := testutil.SeedUser(t, ctx, tx, "stud2-sr@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, tx, course.ID, instructor.ID, types.AssignmentActive)

	s1 := testutil.SeedSubmission(t, ctx, tx, asg.ID, student1.ID, types.SubmissionSubmitted)
	testutil.SeedSubmission(t, ctx, tx, asg.ID, student2.ID, types.SubmissionLate)

	// Second row for the same (assignment, student) pair must conflict.
	dup := &types.Submission{ID: uuid.New(), AssignmentID: asg.ID, StudentID: student1.ID, Content: "dup", Status: types.SubmissionSubmitted}
	if _, err := repo.Create(ctx, tx, dup); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("duplicate Create: want ErrConflict, got %v", err)
	}

	if got, err := repo.GetByID(ctx, tx, s1.ID); err != nil || got == nil || got.ID != s1.ID {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := repo.GetByAssignmentAndStudent(ctx, tx, asg.ID, student1.ID); err != nil || got == nil || got.ID != s1.ID {
		t.Fatalf("GetByAssignmentAndStudent: got=%v err=%v", got, err)
	}
	if rows, err := repo.ListByAssignment(ctx, tx, asg.ID); err != nil || len(rows) != 2 {
		t.Fatalf("ListByAssignment: err=%v len=%d", err, len(rows))
	}
	if ids, err := repo.ListIDsByAssignment(ctx, tx, asg.ID); err != nil || len(ids) != 2 {
		t.Fatalf("ListIDsByAssignment: err=%v len=%d", err, len(ids))
	}
	if n, err := repo.CountByStudent(ctx, tx, student1.ID); err != nil || n != 1 {
		t.Fatalf("CountByStudent: err=%v n=%d", err, n)
	}

	if err := repo.UpdateFields(ctx, tx, s1.ID, map[string]interface{}{
		"status": types.SubmissionGraded,
		"grade":  8.5,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	scores, err := repo.ListGradedScoresByStudent(ctx, tx, student1.ID)
	if err != nil || len(scores) != 1 {
		t.Fatalf("ListGradedScoresByStudent: err=%v len=%d", err, len(scores))
	}
	if scores[0].Grade != 8.5 || scores[0].MaxScore != types.DefaultMaxScore {
		t.Fatalf("ListGradedScoresByStudent: got %+v", scores[0])
	}

	if err := repo.DeleteByAssignmentID(ctx, tx, asg.ID); err != nil {
		t.Fatalf("DeleteByAssignmentID: %v", err)
	}
	if rows, err := repo.ListByAssignment(ctx, tx, asg.ID); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteByAssignmentID ListByAssignment: err=%v len=%d", err, len(rows))
	}
}

func TestSubmissionFileRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewSubmissionFileRepo(db, testutil.Logger(t))

	instructor := testutil.SeedUser(t, ctx, tx, "inst-sf@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, tx, "stud-sf@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, tx, course.ID, instructor.ID, types.AssignmentActive)
	sub := testutil.SeedSubmission(t, ctx, tx, asg.ID, student.ID, types.SubmissionSubmitted)

	f1 := testutil.SeedSubmissionFile(t, ctx, tx, sub.ID, "one.pdf")
	testutil.SeedSubmissionFile(t, ctx, tx, sub.ID, "two.pdf")

	if got, err := repo.GetByID(ctx, tx, f1.ID); err != nil || got == nil || got.FileName != "one.pdf" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if rows, err := repo.ListBySubmission(ctx, tx, sub.ID); err != nil || len(rows) != 2 {
		t.Fatalf("ListBySubmission: err=%v len=%d", err, len(rows))
	}

	if err := repo.DeleteByIDs(ctx, tx, []uuid.UUID{f1.ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if rows, err := repo.ListBySubmission(ctx, tx, sub.ID); err != nil || len(rows) != 1 {
		t.Fatalf("after DeleteByIDs ListBySubmission: err=%v len=%d", err, len(rows))
	}

	if err := repo.DeleteBySubmissionIDs(ctx, tx, []uuid.UUID{sub.ID}); err != nil {
		t.Fatalf("DeleteBySubmissionIDs: %v", err)
	}
	if rows, err := repo.ListBySubmission(ctx, tx, sub.ID); err != nil || len(rows) != 0 {
		t.Fatalf("after DeleteBySubmissionIDs ListBySubmission: err=%v len=%d", err, len(rows))
	}
}

func TestAssignmentDocumentRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewDocumentRepo(db, testutil.Logger(t))

	instructor := testutil.SeedUser(t, ctx, tx, "inst-ad@test.dev", types.RoleInstructor)
	course := testutil.SeedCourse(t, ctx, tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, tx, course.ID, instructor.ID, types.AssignmentDraft)

	d1 := testutil.SeedAssignmentDocument(t, ctx, tx, asg.ID, instructor.ID, "brief.pdf")
	testutil.SeedAssignmentDocument(t, ctx, tx, asg.ID, instructor.ID, "rubric.pdf")

	if got, err := repo.GetByID(ctx, tx, d1.ID); err != nil || got == nil || got.FileName != "brief.pdf" {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if rows, err := repo.ListByAssignment(ctx, tx, asg.ID); err != nil || len(rows) != 2 {
		t.Fatalf("ListByAssignment: err=%v len=%d", err, len(rows))
	}

	if err := repo.DeleteByIDs(ctx, tx, []uuid.UUID{d1.ID}); err != nil {
		t.Fatalf("DeleteByIDs: %v", err)
	}
	if err := repo.DeleteByAssignmentID(ctx, tx, asg.ID); err != nil {
		t.Fatalf("DeleteByAssignmentID: %v", err)
	}
	if rows, err := repo.ListByAssignment(ctx, tx, asg.ID); err != nil || len(rows) != 0 {
		t.Fatalf("after deletes ListByAssignment: err=%v len=%d", err, len(rows))
	}
}
