package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/brightboard/brightboard-backend/internal/clients/redis"
	courserepo "github.com/brightboard/brightboard-backend/internal/data/repos/course"
	notificationrepo "github.com/brightboard/brightboard-backend/internal/data/repos/notification"
	types "github.com/brightboard/brightboard-backend/internal/domain"
	"github.com/brightboard/brightboard-backend/internal/observability"
	errs "github.com/brightboard/brightboard-backend/internal/pkg/errors"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

// UnreadCounts is the badge pair returned to clients.
type UnreadCounts struct {
	Messages      int64 `json:"messages"`
	Notifications int64 `json:"notifications"`
}

type NotificationService interface {
	NotifyAssignmentCreated(ctx context.Context, asg *types.Assignment) error
	NotifyAssignmentGraded(ctx context.Context, asg *types.Assignment, sub *types.Submission) error
	NotifyDocumentUploaded(ctx context.Context, courseID uuid.UUID, docTitle string, uploadedBy uuid.UUID) error
	NotifyCourseEnrolled(ctx context.Context, courseID, studentID uuid.UUID, courseTitle string) error

	List(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Notification, error)
	MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	// Unread returns exact counts from rows. The redis cache only shortcuts
	// repeat reads inside its TTL; it is never authoritative.
	Unread(ctx context.Context, userID uuid.UUID) (UnreadCounts, error)
}

type notificationService struct {
	db  *gorm.DB
	log *logger.Logger

	notificationRepo notificationrepo.NotificationRepo
	enrollmentRepo   courserepo.EnrollmentRepo

	cache   redis.UnreadCache
	metrics *observability.Metrics
}

// NewNotificationService accepts a nil cache; the service then always counts
// from rows. Metrics may also be nil.
func NewNotificationService(
	gdb *gorm.DB,
	log *logger.Logger,
	notificationRepo notificationrepo.NotificationRepo,
	enrollmentRepo courserepo.EnrollmentRepo,
	cache redis.UnreadCache,
	metrics *observability.Metrics,
) NotificationService {
	return &notificationService{
		db:               gdb,
		log:              log.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
		enrollmentRepo:   enrollmentRepo,
		cache:            cache,
		metrics:          metrics,
	}
}

func payloadJSON(fields map[string]interface{}) datatypes.JSON {
	raw, err := json.Marshal(fields)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}
	return datatypes.JSON(raw)
}

func (s *notificationService) create(ctx context.Context, rows []*types.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	if _, err := s.notificationRepo.Create(ctx, nil, rows); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.NotificationsWritten.Add(int64(len(rows)))
	}
	if s.cache != nil {
		for _, n := range rows {
			s.cache.Invalidate(ctx, n.UserID)
		}
	}
	return nil
}

func (s *notificationService) NotifyAssignmentCreated(ctx context.Context, asg *types.Assignment) error {
	if asg == nil {
		return errs.NewValidation("assignment", "required")
	}
	studentIDs, err := s.enrollmentRepo.ListStudentIDsByCourse(ctx, nil, asg.CourseID)
	if err != nil {
		return err
	}
	payload := payloadJSON(map[string]interface{}{
		"assignment_id": asg.ID,
		"course_id":     asg.CourseID,
	})
	rows := make([]*types.Notification, 0, len(studentIDs))
	for _, sid := range studentIDs {
		rows = append(rows, &types.Notification{
			ID:      uuid.New(),
			UserID:  sid,
			Title:   "New assignment: " + asg.Title,
			Content: asg.Description,
			Type:    types.NotificationAssignmentCreated,
			Payload: payload,
		})
	}
	return s.create(ctx, rows)
}

func (s *notificationService) NotifyAssignmentGraded(ctx context.Context, asg *types.Assignment, sub *types.Submission) error {
	if asg == nil || sub == nil {
		return errs.NewValidation("submission", "required")
	}
	grade := 0.0
	if sub.Grade != nil {
		grade = *sub.Grade
	}
	row := &types.Notification{
		ID:     uuid.New(),
		UserID: sub.StudentID,
		Title:  "Graded: " + asg.Title,
		Content: fmt.Sprintf("Your submission was graded %.1f / %.1f",
			grade, asg.MaxScore),
		Type: types.NotificationAssignmentGraded,
		Payload: payloadJSON(map[string]interface{}{
			"assignment_id": asg.ID,
			"submission_id": sub.ID,
			"course_id":     asg.CourseID,
		}),
	}
	return s.create(ctx, []*types.Notification{row})
}

func (s *notificationService) NotifyDocumentUploaded(ctx context.Context, courseID uuid.UUID, docTitle string, uploadedBy uuid.UUID) error {
	studentIDs, err := s.enrollmentRepo.ListStudentIDsByCourse(ctx, nil, courseID)
	if err != nil {
		return err
	}
	payload := payloadJSON(map[string]interface{}{"course_id": courseID})
	rows := make([]*types.Notification, 0, len(studentIDs))
	for _, sid := range studentIDs {
		if sid == uploadedBy {
			continue
		}
		rows = append(rows, &types.Notification{
			ID:      uuid.New(),
			UserID:  sid,
			Title:   "New course material: " + docTitle,
			Type:    types.NotificationDocumentUploaded,
			Payload: payload,
		})
	}
	return s.create(ctx, rows)
}

func (s *notificationService) NotifyCourseEnrolled(ctx context.Context, courseID, studentID uuid.UUID, courseTitle string) error {
	row := &types.Notification{
		ID:      uuid.New(),
		UserID:  studentID,
		Title:   "Enrolled in " + courseTitle,
		Type:    types.NotificationCourseEnrolled,
		Payload: payloadJSON(map[string]interface{}{"course_id": courseID}),
	}
	return s.create(ctx, []*types.Notification{row})
}

func (s *notificationService) List(ctx context.Context, userID uuid.UUID, limit int) ([]*types.Notification, error) {
	if userID == uuid.Nil {
		return nil, errs.NewValidation("user_id", "required")
	}
	return s.notificationRepo.ListByUser(ctx, nil, userID, limit)
}

func (s *notificationService) MarkRead(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, errs.NewValidation("user_id", "required")
	}
	n, err := s.notificationRepo.MarkRead(ctx, nil, userID, ids)
	if err != nil {
		return 0, err
	}
	if n > 0 && s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if userID == uuid.Nil {
		return 0, errs.NewValidation("user_id", "required")
	}
	n, err := s.notificationRepo.MarkAllRead(ctx, nil, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 && s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return n, nil
}

func (s *notificationService) Unread(ctx context.Context, userID uuid.UUID) (UnreadCounts, error) {
	if userID == uuid.Nil {
		return UnreadCounts{}, errs.NewValidation("user_id", "required")
	}
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID); ok {
			return UnreadCounts{Messages: cached.Messages, Notifications: cached.Notifications}, nil
		}
	}
	counts, err := s.notificationRepo.CountUnreadByUser(ctx, nil, userID)
	if err != nil {
		return UnreadCounts{}, err
	}
	out := UnreadCounts{Messages: counts.Messages, Notifications: counts.Notifications}
	if s.cache != nil {
		s.cache.Set(ctx, userID, redis.UnreadCounts{Messages: out.Messages, Notifications: out.Notifications})
	}
	return out, nil
}
