package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/brightboard/brightboard-backend/internal/clients/gcp"
	assignmentrepo "github.com/brightboard/brightboard-backend/internal/data/repos/assignment"
	courserepo "github.com/brightboard/brightboard-backend/internal/data/repos/course"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

// MaxDocumentFileSize bounds instructor-uploaded material.
const MaxDocumentFileSize = 20 << 20

var allowedDocumentExts = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".zip":  true,
}

func ValidateDocumentFile(name string, size int64) error {
	ext := strings.ToLower(path.Ext(name))
	if !allowedDocumentExts[ext] {
		return errs.NewValidation("file", fmt.Sprintf("file type %q not allowed", ext))
	}
	if size <= 0 {
		return errs.NewValidation("file", "empty file")
	}
	if size > MaxDocumentFileSize {
		return errs.NewValidation("file", "file exceeds 20MB limit")
	}
	return nil
}

type DocumentService interface {
	UploadAssignmentDocument(ctx context.Context, assignmentID, uploadedBy uuid.UUID, title string, file FileUpload) (*types.AssignmentDocument, error)
	ListAssignmentDocuments(ctx context.Context, assignmentID uuid.UUID) ([]*types.AssignmentDocument, error)
	DeleteAssignmentDocument(ctx context.Context, documentID uuid.UUID) error

	UploadCourseDocument(ctx context.Context, courseID, uploadedBy uuid.UUID, title string, file FileUpload) (*types.CourseDocument, error)
	ListCourseDocuments(ctx context.Context, courseID uuid.UUID) ([]*types.CourseDocument, error)
	DeleteCourseDocument(ctx context.Context, documentID uuid.UUID) error

	AssignmentDocumentURL(ctx context.Context, documentID uuid.UUID) (string, error)
	CourseDocumentURL(ctx context.Context, documentID uuid.UUID) (string, error)

	// DownloadURL resolves the public URL for a stored key.
	DownloadURL(key string) string
}

type documentService struct {
	db  *gorm.DB
	log *logger.Logger

	assignmentRepo    assignmentrepo.AssignmentRepo
	assignmentDocRepo assignmentrepo.DocumentRepo
	courseRepo        courserepo.CourseRepo
	courseDocRepo     courserepo.DocumentRepo

	bucketService gcp.BucketService
	notifier      NotificationService
}

func NewDocumentService(
	gdb *gorm.DB,
	log *logger.Logger,
	assignmentRepo assignmentrepo.AssignmentRepo,
	assignmentDocRepo assignmentrepo.DocumentRepo,
	courseRepo courserepo.CourseRepo,
	courseDocRepo courserepo.DocumentRepo,
	bucketService gcp.BucketService,
	notifier NotificationService,
) DocumentService {
	return &documentService{
		db:                gdb,
		log:               log.With("service", "DocumentService"),
		assignmentRepo:    assignmentRepo,
		assignmentDocRepo: assignmentDocRepo,
		courseRepo:        courseRepo,
		courseDocRepo:     courseDocRepo,
		bucketService:     bucketService,
		notifier:          notifier,
	}
}

func (s *documentService) upload(ctx context.Context, keyPrefix string, file FileUpload) (string, error) {
	if err := ValidateDocumentFile(file.Name, file.Size); err != nil {
		return "", err
	}
	if s.bucketService == nil {
		return "", fmt.Errorf("storage unavailable: %w", errs.ErrStorage)
	}
	key := fmt.Sprintf("%s/%d_%s", keyPrefix, time.Now().UnixNano(), path.Base(file.Name))
	if err := s.bucketService.UploadFile(ctx, gcp.BucketCategoryDocument, key, io.LimitReader(file.Content, file.Size)); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrStorage, err)
	}
	return key, nil
}

func (s *documentService) deleteBlob(ctx context.Context, key string) {
	if s.bucketService == nil || key == "" {
		return
	}
	if err := s.bucketService.DeleteFile(ctx, gcp.BucketCategoryDocument, key); err != nil {
		s.log.Warn("document blob delete failed", "key", key, "error", err)
	}
}

func (s *documentService) UploadAssignmentDocument(ctx context.Context, assignmentID, uploadedBy uuid.UUID, title string, file FileUpload) (*types.AssignmentDocument, error) {
	asg, err := s.assignmentRepo.GetByID(ctx, nil, assignmentID)
	if err != nil {
		return nil, err
	}
	if asg == nil {
		return nil, fmt.Errorf("assignment %s: %w", assignmentID, errs.ErrNotFound)
	}
	if asg.Status == types.AssignmentArchived {
		return nil, fmt.Errorf("assignment %s is archived: %w", assignmentID, errs.ErrInvalidState)
	}

	key, err := s.upload(ctx, "assignments/"+assignmentID.String(), file)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) == "" {
		title = path.Base(file.Name)
	}
	row := &types.AssignmentDocument{
		ID:           uuid.New(),
		AssignmentID: assignmentID,
		Title:        title,
		FileName:     path.Base(file.Name),
		FilePath:     key,
		FileType:     strings.ToLower(path.Ext(file.Name)),
		FileSize:     file.Size,
		UploadedBy:   uploadedBy,
	}
	if _, err := s.assignmentDocRepo.Create(ctx, nil, []*types.AssignmentDocument{row}); err != nil {
		s.deleteBlob(ctx, key)
		return nil, err
	}
	return row, nil
}

func (s *documentService) ListAssignmentDocuments(ctx context.Context, assignmentID uuid.UUID) ([]*types.AssignmentDocument, error) {
	if assignmentID == uuid.Nil {
		return nil, errs.NewValidation("assignment_id", "required")
	}
	return s.assignmentDocRepo.ListByAssignment(ctx, nil, assignmentID)
}

func (s *documentService) DeleteAssignmentDocument(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.assignmentDocRepo.GetByID(ctx, nil, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("assignment document %s: %w", documentID, errs.ErrNotFound)
	}
	if err := s.assignmentDocRepo.DeleteByIDs(ctx, nil, []uuid.UUID{documentID}); err != nil {
		return err
	}
	s.deleteBlob(ctx, doc.FilePath)
	return nil
}

func (s *documentService) UploadCourseDocument(ctx context.Context, courseID, uploadedBy uuid.UUID, title string, file FileUpload) (*types.CourseDocument, error) {
	course, err := s.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, fmt.Errorf("course %s: %w", courseID, errs.ErrNotFound)
	}

	key, err := s.upload(ctx, "courses/"+courseID.String(), file)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(title) == "" {
		title = path.Base(file.Name)
	}
	row := &types.CourseDocument{
		ID:         uuid.New(),
		CourseID:   courseID,
		Title:      title,
		FileName:   path.Base(file.Name),
		FilePath:   key,
		FileType:   strings.ToLower(path.Ext(file.Name)),
		FileSize:   file.Size,
		UploadedBy: uploadedBy,
	}
	if _, err := s.courseDocRepo.Create(ctx, nil, []*types.CourseDocument{row}); err != nil {
		s.deleteBlob(ctx, key)
		return nil, err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyDocumentUploaded(ctx, courseID, row.Title, uploadedBy); err != nil {
			s.log.Warn("document upload notification failed", "course_id", courseID, "error", err)
		}
	}
	return row, nil
}

func (s *documentService) ListCourseDocuments(ctx context.Context, courseID uuid.UUID) ([]*types.CourseDocument, error) {
	if courseID == uuid.Nil {
		return nil, errs.NewValidation("course_id", "required")
	}
	return s.courseDocRepo.ListByCourse(ctx, nil, courseID)
}

func (s *documentService) DeleteCourseDocument(ctx context.Context, documentID uuid.UUID) error {
	doc, err := s.courseDocRepo.GetByID(ctx, nil, documentID)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("course document %s: %w", documentID, errs.ErrNotFound)
	}
	if err := s.courseDocRepo.DeleteByIDs(ctx, nil, []uuid.UUID{documentID}); err != nil {
		return err
	}
	s.deleteBlob(ctx, doc.FilePath)
	return nil
}

func (s *documentService) AssignmentDocumentURL(ctx context.Context, documentID uuid.UUID) (string, error) {
	doc, err := s.assignmentDocRepo.GetByID(ctx, nil, documentID)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("assignment document %s: %w", documentID, errs.ErrNotFound)
	}
	return s.DownloadURL(doc.FilePath), nil
}

func (s *documentService) CourseDocumentURL(ctx context.Context, documentID uuid.UUID) (string, error) {
	doc, err := s.courseDocRepo.GetByID(ctx, nil, documentID)
	if err != nil {
		return "", err
	}
	if doc == nil {
		return "", fmt.Errorf("course document %s: %w", documentID, errs.ErrNotFound)
	}
	return s.DownloadURL(doc.FilePath), nil
}

func (s *documentService) DownloadURL(key string) string {
	if s.bucketService == nil {
		return key
	}
	return s.bucketService.GetPublicURL(gcp.BucketCategoryDocument, key)
}
