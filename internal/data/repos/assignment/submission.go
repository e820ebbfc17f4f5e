package assignment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brightboard/brightboard-backend/internal/domain"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

// GradedScore is one graded submission's score alongside the max score of its
// assignment, for average-grade aggregation.
type GradedScore struct {
	Grade    float64
	MaxScore float64
}

type SubmissionRepo interface {
	// Create inserts one submission. The (assignment_id, student_id) unique
	// constraint maps a duplicate insert to errs.ErrConflict so a racing
	// first-submit can be retried as an update.
	Create(ctx context.Context, tx *gorm.DB, row *types.Submission) (*types.Submission, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Submission, error)
	GetByAssignmentAndStudent(ctx context.Context, tx *gorm.DB, assignmentID, studentID uuid.UUID) (*types.Submission, error)
	ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) ([]*types.Submission, error)
	ListIDsByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) ([]uuid.UUID, error)
	CountByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error)
	ListGradedScoresByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]GradedScore, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	DeleteByAssignmentID(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) error
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Submission) (*types.Submission, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, nil
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		if errs.IsUniqueViolation(err) {
			return nil, errs.ErrConflict
		}
		return nil, err
	}
	return row, nil
}

func (r *submissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Submission, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.Submission
	if err := t.WithContext(ctx).
		Preload("Files").
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *submissionRepo) GetByAssignmentAndStudent(ctx context.Context, tx *gorm.DB, assignmentID, studentID uuid.UUID) (*types.Submission, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if assignmentID == uuid.Nil || studentID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Submission
	if err := t.WithContext(ctx).
		Preload("Files").
		Where("assignment_id = ? AND student_id = ?", assignmentID, studentID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *submissionRepo) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) ([]*types.Submission, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Submission
	if assignmentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Files").
		Preload("Student").
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) ListIDsByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if assignmentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.Submission{}).
		Where("assignment_id = ?", assignmentID).
		Pluck("id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) CountByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if studentID == uuid.Nil {
		return 0, nil
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.Submission{}).
		Where("student_id = ?", studentID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *submissionRepo) ListGradedScoresByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]GradedScore, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []GradedScore
	if studentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.Submission{}).
		Select("assignment_submissions.grade AS grade, assignments.max_score AS max_score").
		Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
		Where("assignment_submissions.student_id = ? AND assignment_submissions.grade IS NOT NULL", studentID).
		Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	return t.WithContext(ctx).
		Model(&types.Submission{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *submissionRepo) DeleteByAssignmentID(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if assignmentID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&types.Submission{}).Error
}
