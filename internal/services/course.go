package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	courserepo "github.com/brightboard/brightboard-backend/internal/data/repos/course"
	userrepo "github.com/brightboard/brightboard-backend/internal/data/repos/user"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

type CreateCourseInput struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
}

type CourseService interface {
	Create(ctx context.Context, in CreateCourseInput) (*types.Course, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Course, error)
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]*types.Course, error)
	ListEnrolled(ctx context.Context, studentID uuid.UUID) ([]*types.Course, error)
	Update(ctx context.Context, id uuid.UUID, title, description *string) (*types.Course, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Enroll links a student to a course. Enrolling twice is a conflict.
	Enroll(ctx context.Context, courseID, studentID uuid.UUID) (*types.Enrollment, error)
	Unenroll(ctx context.Context, courseID, studentID uuid.UUID) error
	Roster(ctx context.Context, courseID uuid.UUID) ([]*types.Enrollment, error)
	IsEnrolled(ctx context.Context, courseID, studentID uuid.UUID) (bool, error)
}

type courseService struct {
	db  *gorm.DB
	log *logger.Logger

	courseRepo     courserepo.CourseRepo
	enrollmentRepo courserepo.EnrollmentRepo
	userRepo       userrepo.UserRepo
	notifier       NotificationService
}

func NewCourseService(
	gdb *gorm.DB,
	log *logger.Logger,
	courseRepo courserepo.CourseRepo,
	enrollmentRepo courserepo.EnrollmentRepo,
	userRepo userrepo.UserRepo,
	notifier NotificationService,
) CourseService {
	return &courseService{
		db:             gdb,
		log:            log.With("service", "CourseService"),
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		userRepo:       userRepo,
		notifier:       notifier,
	}
}

func (s *courseService) Create(ctx context.Context, in CreateCourseInput) (*types.Course, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errs.NewValidation("title", "must not be empty")
	}
	if in.OwnerID == uuid.Nil {
		return nil, errs.NewValidation("owner_id", "required")
	}
	owner, err := s.userRepo.GetByID(ctx, nil, in.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, fmt.Errorf("user %s: %w", in.OwnerID, errs.ErrNotFound)
	}
	if owner.Role != types.RoleInstructor {
		return nil, fmt.Errorf("user %s is not an instructor: %w", in.OwnerID, errs.ErrInvalidState)
	}

	row := &types.Course{
		ID:          uuid.New(),
		OwnerID:     in.OwnerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
	}
	if _, err := s.courseRepo.Create(ctx, nil, []*types.Course{row}); err != nil {
		return nil, err
	}
	s.log.Info("course created", "course_id", row.ID, "owner_id", row.OwnerID)
	return row, nil
}

func (s *courseService) Get(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	row, err := s.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("course %s: %w", id, errs.ErrNotFound)
	}
	return row, nil
}

func (s *courseService) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]*types.Course, error) {
	if ownerID == uuid.Nil {
		return nil, errs.NewValidation("owner_id", "required")
	}
	return s.courseRepo.ListByOwner(ctx, nil, ownerID)
}

func (s *courseService) ListEnrolled(ctx context.Context, studentID uuid.UUID) ([]*types.Course, error) {
	if studentID == uuid.Nil {
		return nil, errs.NewValidation("student_id", "required")
	}
	ids, err := s.enrollmentRepo.ListCourseIDsByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	return s.courseRepo.GetByIDs(ctx, nil, ids)
}

func (s *courseService) Update(ctx context.Context, id uuid.UUID, title, description *string) (*types.Course, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if title != nil {
		if strings.TrimSpace(*title) == "" {
			return nil, errs.NewValidation("title", "must not be empty")
		}
		updates["title"] = strings.TrimSpace(*title)
	}
	if description != nil {
		updates["description"] = *description
	}
	if len(updates) == 0 {
		return row, nil
	}
	if err := s.courseRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *courseService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.courseRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{id})
}

func (s *courseService) Enroll(ctx context.Context, courseID, studentID uuid.UUID) (*types.Enrollment, error) {
	course, err := s.Get(ctx, courseID)
	if err != nil {
		return nil, err
	}
	student, err := s.userRepo.GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, fmt.Errorf("user %s: %w", studentID, errs.ErrNotFound)
	}

	row := &types.Enrollment{
		ID:        uuid.New(),
		CourseID:  courseID,
		StudentID: studentID,
	}
	if _, err := s.enrollmentRepo.Create(ctx, nil, row); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return nil, fmt.Errorf("student %s already enrolled in course %s: %w", studentID, courseID, errs.ErrConflict)
		}
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyCourseEnrolled(ctx, courseID, studentID, course.Title); err != nil {
			s.log.Warn("enrollment notification failed", "course_id", courseID, "student_id", studentID, "error", err)
		}
	}
	return row, nil
}

func (s *courseService) Unenroll(ctx context.Context, courseID, studentID uuid.UUID) error {
	existing, err := s.enrollmentRepo.GetByCourseAndStudent(ctx, nil, courseID, studentID)
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("enrollment: %w", errs.ErrNotFound)
	}
	return s.enrollmentRepo.DeleteByCourseAndStudent(ctx, nil, courseID, studentID)
}

func (s *courseService) Roster(ctx context.Context, courseID uuid.UUID) ([]*types.Enrollment, error) {
	if courseID == uuid.Nil {
		return nil, errs.NewValidation("course_id", "required")
	}
	return s.enrollmentRepo.ListByCourse(ctx, nil, courseID)
}

func (s *courseService) IsEnrolled(ctx context.Context, courseID, studentID uuid.UUID) (bool, error) {
	row, err := s.enrollmentRepo.GetByCourseAndStudent(ctx, nil, courseID, studentID)
	if err != nil {
		return false, err
	}
	return row != nil, nil
}
