package assignment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brightboard/brightboard-backend/internal/domain"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

type DocumentRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.AssignmentDocument) ([]*types.AssignmentDocument, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssignmentDocument, error)
	ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) ([]*types.AssignmentDocument, error)
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	DeleteByAssignmentID(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "AssignmentDocumentRepo")}
}

func (r *documentRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.AssignmentDocument) ([]*types.AssignmentDocument, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.AssignmentDocument{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *documentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssignmentDocument, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.AssignmentDocument
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

func (r *documentRepo) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) ([]*types.AssignmentDocument, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.AssignmentDocument
	if assignmentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *documentRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).Where("id IN ?", ids).Delete(&types.AssignmentDocument{}).Error
}

func (r *documentRepo) DeleteByAssignmentID(ctx context.Context, tx *gorm.DB, assignmentID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if assignmentID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Delete(&types.AssignmentDocument{}).Error
}
