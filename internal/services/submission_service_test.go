package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/brightboard/brightboard-backend/internal/data/repos/testutil"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
)

func TestSubmitOnTime(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-so@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-so@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentActive)

	res, err := s.submissions.Submit(ctx, asg.ID, student.ID, "my answer", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Submission.Status != types.SubmissionSubmitted {
		t.Fatalf("status = %q, want submitted", res.Submission.Status)
	}
	if res.Submission.SubmittedAt == nil {
		t.Fatalf("submitted_at not set")
	}

	// Resubmit overwrites the same row.
	res2, err := s.submissions.Submit(ctx, asg.ID, student.ID, "revised answer", nil)
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if res2.Submission.ID != res.Submission.ID {
		t.Fatalf("resubmit created a second row: %s vs %s", res2.Submission.ID, res.Submission.ID)
	}
	if res2.Submission.Content != "revised answer" {
		t.Fatalf("content = %q", res2.Submission.Content)
	}
}

func TestSubmitPastDueIsLate(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-sl@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-sl@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentActive)

	past := time.Now().UTC().Add(-time.Hour)
	if err := s.assignmentRepo.UpdateFields(ctx, s.tx, asg.ID, map[string]interface{}{"due_date": past}); err != nil {
		t.Fatalf("set due date: %v", err)
	}

	res, err := s.submissions.Submit(ctx, asg.ID, student.ID, "late answer", nil)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Submission.Status != types.SubmissionLate {
		t.Fatalf("status = %q, want late", res.Submission.Status)
	}

	// Moving the due date afterward does not reclassify the row.
	future := time.Now().UTC().Add(time.Hour)
	if err := s.assignmentRepo.UpdateFields(ctx, s.tx, asg.ID, map[string]interface{}{"due_date": future}); err != nil {
		t.Fatalf("move due date: %v", err)
	}
	got, err := s.submissions.GetForStudent(ctx, asg.ID, student.ID)
	if err != nil || got.Status != types.SubmissionLate {
		t.Fatalf("after due-date move: status=%q err=%v", got.Status, err)
	}
}

func TestSubmitValidation(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-sv@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-sv@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)

	draft := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentDraft)
	archived := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentArchived)
	active := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentActive)

	if _, err := s.submissions.Submit(ctx, active.ID, student.ID, "   ", nil); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("blank content: want ErrInvalidArgument, got %v", err)
	}
	if _, err := s.submissions.Submit(ctx, draft.ID, student.ID, "x", nil); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("draft assignment: want ErrInvalidState, got %v", err)
	}
	if _, err := s.submissions.Submit(ctx, archived.ID, student.ID, "x", nil); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("archived assignment: want ErrInvalidState, got %v", err)
	}

	// A graded submission is frozen.
	sub := testutil.SeedSubmission(t, ctx, s.tx, active.ID, student.ID, types.SubmissionSubmitted)
	if err := s.submissionRepo.UpdateFields(ctx, s.tx, sub.ID, map[string]interface{}{
		"status": types.SubmissionGraded, "grade": 7.0,
	}); err != nil {
		t.Fatalf("grade row: %v", err)
	}
	if _, err := s.submissions.Submit(ctx, active.ID, student.ID, "too late", nil); !errors.Is(err, errs.ErrInvalidState) {
		t.Fatalf("resubmit graded: want ErrInvalidState, got %v", err)
	}
}

func TestSubmitFileIsolation(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-fi@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-fi@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentActive)

	// One upload fails in storage, one has a disallowed extension, one works.
	s.bucket.failSubstrings = []string{"broken.pdf"}
	files := []FileUpload{
		{Name: "good.pdf", Size: 64, Content: strings.NewReader(strings.Repeat("a", 64))},
		{Name: "broken.pdf", Size: 64, Content: strings.NewReader(strings.Repeat("b", 64))},
		{Name: "malware.exe", Size: 64, Content: strings.NewReader(strings.Repeat("c", 64))},
	}

	res, err := s.submissions.Submit(ctx, asg.ID, student.ID, "answer with files", files)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(res.FileErrors) != 2 {
		t.Fatalf("file errors = %d, want 2: %+v", len(res.FileErrors), res.FileErrors)
	}
	if len(res.Submission.Files) != 1 || res.Submission.Files[0].FileName != "good.pdf" {
		t.Fatalf("attached files = %+v", res.Submission.Files)
	}
	if s.bucket.count() != 1 {
		t.Fatalf("bucket objects = %d, want 1", s.bucket.count())
	}
}

func TestSubmitFileSizeLimit(t *testing.T) {
	if err := ValidateSubmissionFile("big.pdf", MaxSubmissionFileSize+1); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("oversize: want ErrInvalidArgument, got %v", err)
	}
	if err := ValidateSubmissionFile("ok.pdf", MaxSubmissionFileSize); err != nil {
		t.Fatalf("at limit: %v", err)
	}
	if err := ValidateSubmissionFile("empty.pdf", 0); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("empty: want ErrInvalidArgument, got %v", err)
	}
	if err := ValidateSubmissionFile("script.sh", 10); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("bad ext: want ErrInvalidArgument, got %v", err)
	}
	if err := ValidateSubmissionFile("notes.txt", 10); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("txt: want ErrInvalidArgument, got %v", err)
	}
}

func TestRemoveAttachment(t *testing.T) {
	s := newTestStack(t)
	ctx := context.Background()

	instructor := testutil.SeedUser(t, ctx, s.tx, "inst-ra@test.dev", types.RoleInstructor)
	student := testutil.SeedUser(t, ctx, s.tx, "stud-ra@test.dev", types.RoleStudent)
	other := testutil.SeedUser(t, ctx, s.tx, "other-ra@test.dev", types.RoleStudent)
	course := testutil.SeedCourse(t, ctx, s.tx, instructor.ID)
	asg := testutil.SeedAssignment(t, ctx, s.tx, course.ID, instructor.ID, types.AssignmentActive)

	res, err := s.submissions.Submit(ctx, asg.ID, student.ID, "answer", []FileUpload{
		{Name: "keep.pdf", Size: 8, Content: strings.NewReader("12345678")},
	})
	if err != nil || len(res.Submission.Files) != 1 {
		t.Fatalf("Submit: err=%v files=%d", err, len(res.Submission.Files))
	}
	fileID := res.Submission.Files[0].ID

	// Another student cannot touch it.
	if err := s.submissions.RemoveAttachment(ctx, fileID, other.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("foreign RemoveAttachment: want ErrNotFound, got %v", err)
	}

	if err := s.submissions.RemoveAttachment(ctx, fileID, student.ID); err != nil {
		t.Fatalf("RemoveAttachment: %v", err)
	}
	if s.bucket.count() != 0 {
		t.Fatalf("blob not deleted, bucket objects = %d", s.bucket.count())
	}
	if err := s.submissions.RemoveAttachment(ctx, fileID, student.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("second RemoveAttachment: want ErrNotFound, got %v", err)
	}
}
