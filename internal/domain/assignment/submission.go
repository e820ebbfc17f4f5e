package assignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/brightboard/brightboard-backend/internal/domain/user"
)

const (
	SubmissionPending   = "pending"
	SubmissionSubmitted = "submitted"
	SubmissionGraded    = "graded"
	SubmissionLate      = "late"
)

// Submission is a student's single, overwritable response to an assignment.
// At most one row exists per (assignment, student); a re-submit rewrites
// content and submitted_at instead of inserting. Grade is non-nil exactly
// when status is "graded".
type Submission struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_assignment_student" json:"assignment_id"`
	StudentID    uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:uq_assignment_student" json:"student_id"`
	Student      *user.User `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`

	Content     string     `gorm:"column:content;type:text" json:"content,omitempty"`
	Status      string     `gorm:"column:status;not null;default:'pending';index" json:"status"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`

	Grade    *float64   `gorm:"column:grade" json:"grade,omitempty"`
	Feedback *string    `gorm:"column:feedback;type:text" json:"feedback,omitempty"`
	GradedAt *time.Time `gorm:"column:graded_at" json:"graded_at,omitempty"`

	Files []SubmissionFile `gorm:"foreignKey:SubmissionID;references:ID" json:"files,omitempty"`
}

func (Submission) TableName() string { return "assignment_submissions" }

// Gradable reports whether a grade may be applied in the current status.
// A pending slot was never submitted; a graded row may be re-graded.
func (s *Submission) Gradable() bool {
	switch s.Status {
	case SubmissionSubmitted, SubmissionLate, SubmissionGraded:
		return true
	default:
		return false
	}
}

// ClassifySubmission computes the one-time lateness classification. due is
// the assignment due date at the moment of submission; a nil due date can
// never be late.
func ClassifySubmission(now time.Time, due *time.Time) string {
	if due != nil && now.After(*due) {
		return SubmissionLate
	}
	return SubmissionSubmitted
}

// SubmissionFile is metadata for one uploaded file attached to a submission.
// The bytes live in the blob store under FilePath.
type SubmissionFile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID uuid.UUID `gorm:"type:uuid;not null;index" json:"submission_id"`

	FileName string `gorm:"column:file_name;not null" json:"file_name"`
	FilePath string `gorm:"column:file_path;not null" json:"file_path"`
	FileType string `gorm:"column:file_type" json:"file_type,omitempty"`
	FileSize int64  `gorm:"column:file_size" json:"file_size,omitempty"`

	UploadedAt time.Time `gorm:"column:uploaded_at;not null;default:now()" json:"uploaded_at"`
}

func (SubmissionFile) TableName() string { return "assignment_submission_files" }
