package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	assignmentrepo "github.com/brightboard/brightboard-backend/internal/data/repos/assignment"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	"github.com/brightboard/brightboard-backend/internal/observability"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

// GradeInput carries one grading action. Feedback is optional.
type GradeInput struct {
	SubmissionID uuid.UUID
	Grade        float64
	Feedback     *string
	GradedBy     uuid.UUID
}

type GradingService interface {
	// Grade validates the score against the assignment's max score, marks
	// the submission graded and notifies the student. Re-grading a graded
	// submission overwrites grade and feedback. The grade persists even if
	// the notification write fails; that failure is logged, not returned.
	Grade(ctx context.Context, in GradeInput) (*types.Submission, error)
}

type gradingService struct {
	db  *gorm.DB
	log *logger.Logger

	assignmentRepo assignmentrepo.AssignmentRepo
	submissionRepo assignmentrepo.SubmissionRepo
	notifier       NotificationService
	metrics        *observability.Metrics
}

// NewGradingService accepts a nil metrics handle.
func NewGradingService(
	gdb *gorm.DB,
	log *logger.Logger,
	assignmentRepo assignmentrepo.AssignmentRepo,
	submissionRepo assignmentrepo.SubmissionRepo,
	notifier NotificationService,
	metrics *observability.Metrics,
) GradingService {
	return &gradingService{
		db:             gdb,
		log:            log.With("service", "GradingService"),
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		notifier:       notifier,
		metrics:        metrics,
	}
}

func (s *gradingService) Grade(ctx context.Context, in GradeInput) (*types.Submission, error) {
	if in.SubmissionID == uuid.Nil {
		return nil, errs.NewValidation("submission_id", "required")
	}

	sub, err := s.submissionRepo.GetByID(ctx, nil, in.SubmissionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("submission %s: %w", in.SubmissionID, errs.ErrNotFound)
	}
	if !sub.Gradable() {
		return nil, fmt.Errorf("submission %s is %s: %w", in.SubmissionID, sub.Status, errs.ErrInvalidState)
	}

	asg, err := s.assignmentRepo.GetByID(ctx, nil, sub.AssignmentID)
	if err != nil {
		return nil, err
	}
	if asg == nil {
		return nil, fmt.Errorf("assignment %s: %w", sub.AssignmentID, errs.ErrNotFound)
	}

	if in.Grade < 0 {
		return nil, errs.NewValidation("grade", "must not be negative")
	}
	if in.Grade > asg.MaxScore {
		return nil, errs.NewValidation("grade", fmt.Sprintf("exceeds max score %.1f", asg.MaxScore))
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":    types.SubmissionGraded,
		"grade":     in.Grade,
		"graded_at": now,
	}
	if in.Feedback != nil {
		updates["feedback"] = *in.Feedback
	}
	if err := s.submissionRepo.UpdateFields(ctx, nil, sub.ID, updates); err != nil {
		return nil, err
	}
	sub.Status = types.SubmissionGraded
	sub.Grade = &in.Grade
	sub.GradedAt = &now
	if in.Feedback != nil {
		sub.Feedback = in.Feedback
	}

	if s.metrics != nil {
		s.metrics.SubmissionsGraded.Add(1)
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyAssignmentGraded(ctx, asg, sub); err != nil {
			s.log.Warn("grade notification failed",
				"submission_id", sub.ID, "student_id", sub.StudentID, "error", err)
		}
	}

	s.log.Info("submission graded",
		"submission_id", sub.ID,
		"assignment_id", asg.ID,
		"grade", in.Grade,
		"graded_by", in.GradedBy)
	return sub, nil
}
