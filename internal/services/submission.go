package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/brightboard/brightboard-backend/internal/clients/gcp"
	"github.com/brightboard/brightboard-backend/internal/data/db"
	assignmentrepo "github.com/brightboard/brightboard-backend/internal/data/repos/assignment"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	domainassignment "github.com/brightboard/brightboard-backend/internal/domain/assignment"
	"github.com/brightboard/brightboard-backend/internal/observability"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

const (
	// MaxSubmissionFileSize bounds a single attached file.
	MaxSubmissionFileSize = 10 << 20

	maxConcurrentUploads = 4
)

var allowedSubmissionExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".zip":  true,
}

// FileUpload is one file attached to a submit call. Size is the declared
// length; the upload is capped at it.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// FileError reports one file that failed to attach. Submit succeeds for the
// text content and the remaining files regardless.
type FileError struct {
	FileName string `json:"file_name"`
	Reason   string `json:"reason"`
}

// SubmitResult is the outcome of a submit: the persisted submission plus
// per-file failures, if any.
type SubmitResult struct {
	Submission *types.Submission `json:"submission"`
	FileErrors []FileError       `json:"file_errors,omitempty"`
}

type SubmissionService interface {
	// Submit creates or overwrites the student's single submission for the
	// assignment. Lateness is classified against the due date at this
	// moment and is not revisited when the due date later changes.
	Submit(ctx context.Context, assignmentID, studentID uuid.UUID, content string, files []FileUpload) (*SubmitResult, error)
	GetForStudent(ctx context.Context, assignmentID, studentID uuid.UUID) (*types.Submission, error)
	// ListForInstructor returns every submission row with student and file
	// preloads for the grading view.
	ListForInstructor(ctx context.Context, assignmentID uuid.UUID) ([]*types.Submission, error)
	RemoveAttachment(ctx context.Context, fileID, studentID uuid.UUID) error
}

type submissionService struct {
	db       *gorm.DB
	log      *logger.Logger
	txRunner db.TxRunner

	assignmentRepo assignmentrepo.AssignmentRepo
	submissionRepo assignmentrepo.SubmissionRepo
	fileRepo       assignmentrepo.SubmissionFileRepo

	bucketService gcp.BucketService
	metrics       *observability.Metrics
}

// NewSubmissionService accepts a nil metrics handle.
func NewSubmissionService(
	gdb *gorm.DB,
	log *logger.Logger,
	txRunner db.TxRunner,
	assignmentRepo assignmentrepo.AssignmentRepo,
	submissionRepo assignmentrepo.SubmissionRepo,
	fileRepo assignmentrepo.SubmissionFileRepo,
	bucketService gcp.BucketService,
	metrics *observability.Metrics,
) SubmissionService {
	return &submissionService{
		db:             gdb,
		log:            log.With("service", "SubmissionService"),
		txRunner:       txRunner,
		assignmentRepo: assignmentRepo,
		submissionRepo: submissionRepo,
		fileRepo:       fileRepo,
		bucketService:  bucketService,
		metrics:        metrics,
	}
}

func ValidateSubmissionFile(name string, size int64) error {
	ext := strings.ToLower(path.Ext(name))
	if !allowedSubmissionExts[ext] {
		return errs.NewValidation("file", fmt.Sprintf("file type %q not allowed", ext))
	}
	if size <= 0 {
		return errs.NewValidation("file", "empty file")
	}
	if size > MaxSubmissionFileSize {
		return errs.NewValidation("file", "file exceeds 10MB limit")
	}
	return nil
}

func (s *submissionService) Submit(ctx context.Context, assignmentID, studentID uuid.UUID, content string, files []FileUpload) (*SubmitResult, error) {
	if strings.TrimSpace(content) == "" {
		return nil, errs.NewValidation("content", "must not be empty")
	}
	if assignmentID == uuid.Nil {
		return nil, errs.NewValidation("assignment_id", "required")
	}
	if studentID == uuid.Nil {
		return nil, errs.NewValidation("student_id", "required")
	}

	asg, err := s.assignmentRepo.GetByID(ctx, nil, assignmentID)
	if err != nil {
		return nil, err
	}
	if asg == nil {
		return nil, fmt.Errorf("assignment %s: %w", assignmentID, errs.ErrNotFound)
	}
	if asg.Status != types.AssignmentActive {
		return nil, fmt.Errorf("assignment %s is %s: %w", assignmentID, asg.Status, errs.ErrInvalidState)
	}

	now := time.Now().UTC()
	status := domainassignment.ClassifySubmission(now, asg.DueDate)

	sub, err := s.upsertSubmission(ctx, asg, studentID, content, status, now)
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{Submission: sub}
	if len(files) > 0 {
		result.FileErrors = s.attachFiles(ctx, sub, files)
		// Reload so Files reflects what actually attached.
		if fresh, err := s.submissionRepo.GetByID(ctx, nil, sub.ID); err == nil && fresh != nil {
			result.Submission = fresh
		}
	}

	if s.metrics != nil {
		s.metrics.SubmissionsReceived.Add(1)
		s.metrics.FilesUploaded.Add(int64(len(files) - len(result.FileErrors)))
		s.metrics.FilesRejected.Add(int64(len(result.FileErrors)))
	}

	s.log.Info("submission recorded",
		"assignment_id", assignmentID,
		"student_id", studentID,
		"status", sub.Status,
		"file_errors", len(result.FileErrors))
	return result, nil
}

// upsertSubmission writes the one row per (assignment, student). An insert
// losing the unique-index race falls through to the update path against the
// surviving row.
func (s *submissionService) upsertSubmission(ctx context.Context, asg *types.Assignment, studentID uuid.UUID, content, status string, now time.Time) (*types.Submission, error) {
	existing, err := s.submissionRepo.GetByAssignmentAndStudent(ctx, nil, asg.ID, studentID)
	if err != nil {
		return nil, err
	}

	if existing == nil {
		row := &types.Submission{
			ID:           uuid.New(),
			AssignmentID: asg.ID,
			StudentID:    studentID,
			Content:      content,
			Status:       status,
			SubmittedAt:  &now,
		}
		created, err := s.submissionRepo.Create(ctx, nil, row)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, errs.ErrConflict) {
			return nil, err
		}
		existing, err = s.submissionRepo.GetByAssignmentAndStudent(ctx, nil, asg.ID, studentID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, errs.ErrConflict
		}
	}

	if existing.Status == types.SubmissionGraded {
		return nil, fmt.Errorf("submission already graded: %w", errs.ErrInvalidState)
	}

	if err := s.submissionRepo.UpdateFields(ctx, nil, existing.ID, map[string]interface{}{
		"content":      content,
		"status":       status,
		"submitted_at": now,
	}); err != nil {
		return nil, err
	}
	existing.Content = content
	existing.Status = status
	existing.SubmittedAt = &now
	return existing, nil
}

// attachFiles uploads and records each file independently. One bad file never
// voids the submission or its siblings.
func (s *submissionService) attachFiles(ctx context.Context, sub *types.Submission, files []FileUpload) []FileError {
	var (
		mu       sync.Mutex
		failures []FileError
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentUploads)

	for _, f := range files {
		f := f
		g.Go(func() error {
			if err := s.attachOne(gctx, sub, f); err != nil {
				mu.Lock()
				failures = append(failures, FileError{FileName: f.Name, Reason: err.Error()})
				mu.Unlock()
				s.log.Warn("submission file attach failed",
					"submission_id", sub.ID, "file", f.Name, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return failures
}

func (s *submissionService) attachOne(ctx context.Context, sub *types.Submission, f FileUpload) error {
	if err := ValidateSubmissionFile(f.Name, f.Size); err != nil {
		return err
	}
	if s.bucketService == nil {
		return fmt.Errorf("storage unavailable: %w", errs.ErrStorage)
	}

	key := fmt.Sprintf("submissions/%s/%d_%s", sub.ID, time.Now().UnixNano(), path.Base(f.Name))
	if err := s.bucketService.UploadFile(ctx, gcp.BucketCategorySubmission, key, io.LimitReader(f.Content, f.Size)); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}

	row := &types.SubmissionFile{
		ID:           uuid.New(),
		SubmissionID: sub.ID,
		FileName:     path.Base(f.Name),
		FilePath:     key,
		FileType:     strings.ToLower(path.Ext(f.Name)),
		FileSize:     f.Size,
		UploadedAt:   time.Now().UTC(),
	}
	if _, err := s.fileRepo.Create(ctx, nil, []*types.SubmissionFile{row}); err != nil {
		// Metadata write failed after upload; drop the orphan blob.
		if delErr := s.bucketService.DeleteFile(ctx, gcp.BucketCategorySubmission, key); delErr != nil {
			s.log.Warn("orphan blob cleanup failed", "key", key, "error", delErr)
		}
		return err
	}
	return nil
}

func (s *submissionService) GetForStudent(ctx context.Context, assignmentID, studentID uuid.UUID) (*types.Submission, error) {
	if assignmentID == uuid.Nil || studentID == uuid.Nil {
		return nil, errs.NewValidation("id", "assignment_id and student_id required")
	}
	sub, err := s.submissionRepo.GetByAssignmentAndStudent(ctx, nil, assignmentID, studentID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("submission: %w", errs.ErrNotFound)
	}
	return sub, nil
}

func (s *submissionService) ListForInstructor(ctx context.Context, assignmentID uuid.UUID) ([]*types.Submission, error) {
	if assignmentID == uuid.Nil {
		return nil, errs.NewValidation("assignment_id", "required")
	}
	return s.submissionRepo.ListByAssignment(ctx, nil, assignmentID)
}

func (s *submissionService) RemoveAttachment(ctx context.Context, fileID, studentID uuid.UUID) error {
	file, err := s.fileRepo.GetByID(ctx, nil, fileID)
	if err != nil {
		return err
	}
	if file == nil {
		return fmt.Errorf("submission file %s: %w", fileID, errs.ErrNotFound)
	}
	sub, err := s.submissionRepo.GetByID(ctx, nil, file.SubmissionID)
	if err != nil {
		return err
	}
	if sub == nil || sub.StudentID != studentID {
		return fmt.Errorf("submission file %s: %w", fileID, errs.ErrNotFound)
	}
	if sub.Status == types.SubmissionGraded {
		return fmt.Errorf("submission already graded: %w", errs.ErrInvalidState)
	}

	if err := s.fileRepo.DeleteByIDs(ctx, nil, []uuid.UUID{fileID}); err != nil {
		return err
	}
	if s.bucketService != nil && file.FilePath != "" {
		if err := s.bucketService.DeleteFile(ctx, gcp.BucketCategorySubmission, file.FilePath); err != nil {
			s.log.Warn("attachment blob delete failed", "key", file.FilePath, "error", err)
		}
	}
	return nil
}
