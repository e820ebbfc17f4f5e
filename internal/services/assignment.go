package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightboard/brightboard-backend/internal/clients/gcp"
	"github.com/brightboard/brightboard-backend/internal/data/db"
	assignmentrepo "github.com/brightboard/brightboard-backend/internal/data/repos/assignment"
	courserepo "github.com/brightboard/brightboard-backend/internal/data/repos/course"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	domainassignment "github.com/brightboard/brightboard-backend/internal/domain/assignment"
	"github.com/brightboard/brightboard-backend/internal/pkg/dbctx"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

// CreateAssignmentInput carries the instructor-supplied fields for a new
// assignment. Zero MaxScore falls back to the default.
type CreateAssignmentInput struct {
	CourseID    uuid.UUID
	Title       string
	Description string
	DueDate     *time.Time
	MaxScore    float64
	CreatedBy   uuid.UUID
}

// UpdateAssignmentInput is a sparse update: nil fields are left untouched.
// CreatedBy and Status are deliberately absent; authorship never changes and
// status moves only through SetStatus.
type UpdateAssignmentInput struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	ClearDue    bool
	MaxScore    *float64
}

type AssignmentService interface {
	Create(ctx context.Context, in CreateAssignmentInput) (*types.Assignment, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Assignment, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Assignment, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateAssignmentInput) (*types.Assignment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) (*types.Assignment, error)
	// Delete removes an assignment and everything hanging off it in one
	// transaction: documents first, then submission files, then submissions,
	// then the assignment row. A failure at any step surfaces as a
	// CascadeError naming the step and rolls the whole thing back.
	Delete(ctx context.Context, id uuid.UUID) error
}

type assignmentService struct {
	db       *gorm.DB
	log      *logger.Logger
	txRunner db.TxRunner

	assignmentRepo assignmentrepo.AssignmentRepo
	submissionRepo assignmentrepo.SubmissionRepo
	fileRepo       assignmentrepo.SubmissionFileRepo
	documentRepo   assignmentrepo.DocumentRepo
	courseRepo     courserepo.CourseRepo

	bucketService gcp.BucketService
	notifier      NotificationService
}

func NewAssignmentService(
	gdb *gorm.DB,
	log *logger.Logger,
	txRunner db.TxRunner,
	assignmentRepo assignmentrepo.AssignmentRepo,
	submissionRepo assignmentrepo.SubmissionRepo,
	fileRepo assignmentrepo.SubmissionFileRepo,
	documentRepo assignmentrepo.DocumentRepo,
	courseRepo courserepo.CourseRepo,
	bucketService gcp.BucketService,
	notifier NotificationService,
) AssignmentService {
	return &assignmentService{
		db:             gdb,
		log:            log.With("service", "AssignmentService"),
		txRunner:       txRunner,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		fileRepo:       fileRepo,
		documentRepo:   documentRepo,
		courseRepo:     courseRepo,
		bucketService:  bucketService,
		notifier:       notifier,
	}
}

func (s *assignmentService) Create(ctx context.Context, in CreateAssignmentInput) (*types.Assignment, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errs.NewValidation("title", "must not be empty")
	}
	if in.CourseID == uuid.Nil {
		return nil, errs.NewValidation("course_id", "required")
	}
	if in.CreatedBy == uuid.Nil {
		return nil, errs.NewValidation("created_by", "required")
	}
	if in.MaxScore < 0 {
		return nil, errs.NewValidation("max_score", "must not be negative")
	}

	course, err := s.courseRepo.GetByID(ctx, nil, in.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", in.CourseID, errs.ErrNotFound)
	}

	maxScore := in.MaxScore
	if maxScore == 0 {
		maxScore = types.DefaultMaxScore
	}

	row := &types.Assignment{
		ID:          uuid.New(),
		CourseID:    in.CourseID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		DueDate:     in.DueDate,
		MaxScore:    maxScore,
		Status:      types.AssignmentDraft,
		CreatedBy:   in.CreatedBy,
	}
	if _, err := s.assignmentRepo.Create(ctx, nil, []*types.Assignment{row}); err != nil {
		return nil, err
	}
	s.log.Info("assignment created", "assignment_id", row.ID, "course_id", row.CourseID)
	return row, nil
}

func (s *assignmentService) Get(ctx context.Context, id uuid.UUID) (*types.Assignment, error) {
	row, err := s.assignmentRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, fmt.Errorf("assignment %s: %w", id, errs.ErrNotFound)
	}
	return row, nil
}

func (s *assignmentService) ListByCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Assignment, error) {
	if courseID == uuid.Nil {
		return nil, errs.NewValidation("course_id", "required")
	}
	return s.assignmentRepo.ListByCourse(ctx, nil, courseID)
}

func (s *assignmentService) Update(ctx context.Context, id uuid.UUID, in UpdateAssignmentInput) (*types.Assignment, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, errs.NewValidation("title", "must not be empty")
		}
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.ClearDue {
		updates["due_date"] = nil
	} else if in.DueDate != nil {
		updates["due_date"] = *in.DueDate
	}
	if in.MaxScore != nil {
		if *in.MaxScore <= 0 {
			return nil, errs.NewValidation("max_score", "must be positive")
		}
		updates["max_score"] = *in.MaxScore
	}
	if len(updates) == 0 {
		return row, nil
	}

	if err := s.assignmentRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *assignmentService) SetStatus(ctx context.Context, id uuid.UUID, status string) (*types.Assignment, error) {
	if !domainassignment.ValidStatus(status) {
		return nil, errs.NewValidation("status", "unknown status "+status)
	}
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.Status == status {
		return row, nil
	}
	if !domainassignment.CanTransition(row.Status, status) {
		return nil, fmt.Errorf("assignment %s: %s -> %s: %w", id, row.Status, status, errs.ErrInvalidTransition)
	}

	if err := s.assignmentRepo.UpdateFields(ctx, nil, id, map[string]interface{}{"status": status}); err != nil {
		return nil, err
	}
	row.Status = status

	if status == types.AssignmentActive && s.notifier != nil {
		// Activation announces the assignment to every enrolled student.
		// A notification failure never rolls back the transition.
		if err := s.notifier.NotifyAssignmentCreated(ctx, row); err != nil {
			s.log.Warn("assignment activation notification failed",
				"assignment_id", id, "error", err)
		}
	}
	s.log.Info("assignment status changed", "assignment_id", id, "status", status)
	return row, nil
}

func (s *assignmentService) Delete(ctx context.Context, id uuid.UUID) error {
	row, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	// Blob keys are collected inside the transaction but deleted after
	// commit; storage cleanup must never abort the row cascade.
	var docKeys, fileKeys []string

	err = s.txRunner.InTx(ctx, func(dbc dbctx.Context) error {
		docs, err := s.documentRepo.ListByAssignment(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return &errs.CascadeError{Step: "list_documents", Err: err}
		}
		for _, d := range docs {
			docKeys = append(docKeys, d.FilePath)
		}
		if err := s.documentRepo.DeleteByAssignmentID(dbc.Ctx, dbc.Tx, id); err != nil {
			return &errs.CascadeError{Step: "delete_documents", Err: err}
		}

		subIDs, err := s.submissionRepo.ListIDsByAssignment(dbc.Ctx, dbc.Tx, id)
		if err != nil {
			return &errs.CascadeError{Step: "list_submissions", Err: err}
		}
		files, err := s.fileRepo.ListBySubmissionIDs(dbc.Ctx, dbc.Tx, subIDs)
		if err != nil {
			return &errs.CascadeError{Step: "list_submission_files", Err: err}
		}
		for _, f := range files {
			fileKeys = append(fileKeys, f.FilePath)
		}
		if err := s.fileRepo.DeleteBySubmissionIDs(dbc.Ctx, dbc.Tx, subIDs); err != nil {
			return &errs.CascadeError{Step: "delete_submission_files", Err: err}
		}

		if err := s.submissionRepo.DeleteByAssignmentID(dbc.Ctx, dbc.Tx, id); err != nil {
			return &errs.CascadeError{Step: "delete_submissions", Err: err}
		}

		if err := s.assignmentRepo.DeleteByID(dbc.Ctx, dbc.Tx, id); err != nil {
			return &errs.CascadeError{Step: "delete_assignment", Err: err}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.bucketService != nil {
		for _, key := range docKeys {
			if key == "" {
				continue
			}
			if err := s.bucketService.DeleteFile(ctx, gcp.BucketCategoryDocument, key); err != nil {
				s.log.Warn("orphaned document blob delete failed", "key", key, "error", err)
			}
		}
		for _, key := range fileKeys {
			if key == "" {
				continue
			}
			if err := s.bucketService.DeleteFile(ctx, gcp.BucketCategorySubmission, key); err != nil {
				s.log.Warn("orphaned submission blob delete failed", "key", key, "error", err)
			}
		}
	}

	s.log.Info("assignment deleted", "assignment_id", id, "course_id", row.CourseID)
	return nil
}
