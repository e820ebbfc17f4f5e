package course

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/brightboard/brightboard-backend/internal/domain"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

type EnrollmentRepo interface {
	// Create inserts one enrollment. A duplicate (course, student) pair
	// returns errs.ErrConflict.
	Create(ctx context.Context, tx *gorm.DB, row *types.Enrollment) (*types.Enrollment, error)
	GetByCourseAndStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) (*types.Enrollment, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Enrollment, error)
	ListStudentIDsByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error)
	ListCourseIDsByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]uuid.UUID, error)
	CountByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) (int64, error)
	CountByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error)
	DeleteByCourseAndStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Enrollment) (*types.Enrollment, error) {
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

func (r *enrollmentRepo) GetByCourseAndStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) (*types.Enrollment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if courseID == uuid.Nil || studentID == uuid.Nil {
		return nil, nil
	}
	var out []*types.Enrollment
	if err := t.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *enrollmentRepo) ListByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Enrollment, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Enrollment
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Preload("Student").
		Where("course_id = ?", courseID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) ListStudentIDsByCourse(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("course_id = ?", courseID).
		Pluck("student_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) ListCourseIDsByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]uuid.UUID, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []uuid.UUID
	if studentID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("student_id = ?", studentID).
		Pluck("course_id", &out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(courseIDs) == 0 {
		return 0, nil
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("course_id IN ?", courseIDs).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *enrollmentRepo) CountByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if studentID == uuid.Nil {
		return 0, nil
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.Enrollment{}).
		Where("student_id = ?", studentID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *enrollmentRepo) DeleteByCourseAndStudent(ctx context.Context, tx *gorm.DB, courseID, studentID uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if courseID == uuid.Nil || studentID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Delete(&types.Enrollment{}).Error
}
