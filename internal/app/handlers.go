package app

import (
	"github.com/brightboard/brightboard-backend/internal/handlers"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
)

type Handlers struct {
	User         *handlers.UserHandler
	Course       *handlers.CourseHandler
	Assignment   *handlers.AssignmentHandler
	Submission   *handlers.SubmissionHandler
	Notification *handlers.NotificationHandler
	Stats        *handlers.StatsHandler
}

func wireHandlers(log *logger.Logger, svcs Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		User:         handlers.NewUserHandler(log, svcs.User),
		Course:       handlers.NewCourseHandler(log, svcs.Course, svcs.Document),
		Assignment:   handlers.NewAssignmentHandler(log, svcs.Assignment, svcs.Document),
		Submission:   handlers.NewSubmissionHandler(log, svcs.Submission, svcs.Grading),
		Notification: handlers.NewNotificationHandler(log, svcs.Notification),
		Stats:        handlers.NewStatsHandler(log, svcs.Stats),
	}
}
