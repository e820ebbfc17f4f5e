package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/brightboard/brightboard-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "A",
		LastName:  "B",
		Role:      role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   "course",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:        uuid.New(),
		CourseID:  courseID,
		StudentID: studentID,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedAssignment(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID, createdBy uuid.UUID, status string) *types.Assignment {
	tb.Helper()
	a := &types.Assignment{
		ID:        uuid.New(),
		CourseID:  courseID,
		Title:     "assignment",
		MaxScore:  types.DefaultMaxScore,
		Status:    status,
		CreatedBy: createdBy,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed assignment: %v", err)
	}
	return a
}

func SeedSubmission(tb testing.TB, ctx context.Context, tx *gorm.DB, assignmentID, studentID uuid.UUID, status string) *types.Submission {
	tb.Helper()
	now := time.Now().UTC()
	s := &types.Submission{
		ID:           uuid.New(),
		AssignmentID: assignmentID,
		StudentID:    studentID,
		Content:      "answer",
		Status:       status,
	}
	if status != types.SubmissionPending {
		s.SubmittedAt = PtrTime(now)
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed submission: %v", err)
	}
	return s
}

func SeedSubmissionFile(tb testing.TB, ctx context.Context, tx *gorm.DB, submissionID uuid.UUID, name string) *types.SubmissionFile {
	tb.Helper()
	f := &types.SubmissionFile{
		ID:           uuid.New(),
		SubmissionID: submissionID,
		FileName:     name,
		FilePath:     "submissions/" + submissionID.String() + "/" + name,
		FileType:     "application/pdf",
		FileSize:     128,
		UploadedAt:   time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(f).Error; err != nil {
		tb.Fatalf("seed submission file: %v", err)
	}
	return f
}

func SeedAssignmentDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, assignmentID, uploadedBy uuid.UUID, name string) *types.AssignmentDocument {
	tb.Helper()
	d := &types.AssignmentDocument{
		ID:           uuid.New(),
		AssignmentID: assignmentID,
		Title:        name,
		FileName:     name,
		FilePath:     "assignments/" + assignmentID.String() + "/" + name,
		FileType:     "application/pdf",
		FileSize:     256,
		UploadedBy:   uploadedBy,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed assignment document: %v", err)
	}
	return d
}

func SeedCourseDocument(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID, uploadedBy uuid.UUID, name string) *types.CourseDocument {
	tb.Helper()
	d := &types.CourseDocument{
		ID:         uuid.New(),
		CourseID:   courseID,
		Title:      name,
		FileName:   name,
		FilePath:   "courses/" + courseID.String() + "/" + name,
		FileType:   "application/pdf",
		FileSize:   256,
		UploadedBy: uploadedBy,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed course document: %v", err)
	}
	return d
}

func SeedNotification(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, typ string, read bool) *types.Notification {
	tb.Helper()
	n := &types.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Title:   "notification",
		Type:    typ,
		Payload: datatypes.JSON([]byte("{}")),
		IsRead:  read,
	}
	if err := tx.WithContext(ctx).Create(n).Error; err != nil {
		tb.Fatalf("seed notification: %v", err)
	}
	return n
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }

func PtrFloat(v float64) *float64 { return &v }

func PtrString(v string) *string { return &v }
