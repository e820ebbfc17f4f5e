package assignment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brightboard/brightboard-backend/internal/domain"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

type SubmissionFileRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.SubmissionFile) ([]*types.SubmissionFile, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SubmissionFile, error)
	ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*types.SubmissionFile, error)
	ListBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.SubmissionFile, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	DeleteBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) error
}

type submissionFileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionFileRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionFileRepo {
	return &submissionFileRepo{db: db, log: baseLog.With("repo", "SubmissionFileRepo")}
}

func (r *submissionFileRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.SubmissionFile) ([]*types.SubmissionFile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.SubmissionFile{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *submissionFileRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.SubmissionFile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.SubmissionFile
	if err := t.WithContext(ctx).
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

func (r *submissionFileRepo) ListBySubmission(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*types.SubmissionFile, error) {
	if submissionID == uuid.Nil {
		return nil, nil
	}
	return r.ListBySubmissionIDs(ctx, tx, []uuid.UUID{submissionID})
}

func (r *submissionFileRepo) ListBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) ([]*types.SubmissionFile, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.SubmissionFile
	if len(submissionIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("submission_id IN ?", submissionIDs).
		Order("uploaded_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *submissionFileRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&types.SubmissionFile{}).Error
}

func (r *submissionFileRepo) DeleteBySubmissionIDs(ctx context.Context, tx *gorm.DB, submissionIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(submissionIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("submission_id IN ?", submissionIDs).
		Delete(&types.SubmissionFile{}).Error
}
