package app

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/brightboard/brightboard-backend/internal/data/db"
	"github.com/brightboard/brightboard-backend/internal/observability"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
	"github.com/brightboard/brightboard-backend/internal/services"
)

type Services struct {
	Avatar services.AvatarService
	User   services.UserService
	Auth   services.AuthService

	Course       services.CourseService
	Assignment   services.AssignmentService
	Submission   services.SubmissionService
	Grading      services.GradingService
	Document     services.DocumentService
	Notification services.NotificationService
	Stats        services.StatsService

	Metrics *observability.Metrics
}

func wireServices(gdb *gorm.DB, log *logger.Logger, repos Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	txRunner := db.NewTxRunner(gdb)
	metrics := observability.NewMetrics()

	avatarService, err := services.NewAvatarService(gdb, log, repos.User, clients.GcpBucket)
	if err != nil {
		return Services{}, fmt.Errorf("init avatar service: %w", err)
	}

	userService := services.NewUserService(gdb, log, repos.User, avatarService)

	authService, err := services.NewAuthService(log, userService)
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	notificationService := services.NewNotificationService(gdb, log, repos.Notification, repos.Enrollment, clients.UnreadCache, metrics)

	courseService := services.NewCourseService(gdb, log, repos.Course, repos.Enrollment, repos.User, notificationService)

	assignmentService := services.NewAssignmentService(
		gdb, log, txRunner,
		repos.Assignment,
		repos.Submission,
		repos.SubmissionFile,
		repos.AssignmentDocument,
		repos.Course,
		clients.GcpBucket,
		notificationService,
	)

	submissionService := services.NewSubmissionService(
		gdb, log, txRunner,
		repos.Assignment,
		repos.Submission,
		repos.SubmissionFile,
		clients.GcpBucket,
		metrics,
	)

	gradingService := services.NewGradingService(gdb, log, repos.Assignment, repos.Submission, notificationService, metrics)

	documentService := services.NewDocumentService(
		gdb, log,
		repos.Assignment,
		repos.AssignmentDocument,
		repos.Course,
		repos.CourseDocument,
		clients.GcpBucket,
		notificationService,
	)

	statsService := services.NewStatsService(gdb, log, repos.Course, repos.Enrollment, repos.CourseDocument, repos.Assignment, repos.Submission)

	return Services{
		Avatar:       avatarService,
		User:         userService,
		Auth:         authService,
		Course:       courseService,
		Assignment:   assignmentService,
		Submission:   submissionService,
		Grading:      gradingService,
		Document:     documentService,
		Notification: notificationService,
		Stats:        statsService,
		Metrics:      metrics,
	}, nil
}
