package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/brightboard/brightboard-backend/internal/handlers"
	"github.com/brightboard/brightboard-backend/internal/middleware"
	"github.com/brightboard/brightboard-backend/internal/observability"
)

type RouterConfig struct {
	ServiceName  string
	AllowOrigins []string
	Metrics      *observability.Metrics

	AuthMiddleware      *middleware.AuthMiddleware
	UserHandler         *handlers.UserHandler
	CourseHandler       *handlers.CourseHandler
	AssignmentHandler   *handlers.AssignmentHandler
	SubmissionHandler   *handlers.SubmissionHandler
	NotificationHandler *handlers.NotificationHandler
	StatsHandler        *handlers.StatsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.GET("/metrics", handlers.Metrics(cfg.Metrics))

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/api")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	// User
	protected.GET("/me", cfg.UserHandler.GetMe)
	protected.PATCH("/me", cfg.UserHandler.UpdateMe)
	protected.POST("/me/avatar", cfg.UserHandler.UploadAvatar)

	// Courses
	protected.GET("/courses", cfg.CourseHandler.List)
	protected.GET("/courses/:courseID", cfg.CourseHandler.Get)
	protected.GET("/courses/:courseID/roster", cfg.CourseHandler.Roster)
	protected.GET("/courses/:courseID/documents", cfg.CourseHandler.ListDocuments)
	protected.GET("/course-documents/:documentID/download", cfg.CourseHandler.DocumentDownloadURL)

	// Assignments
	protected.GET("/courses/:courseID/assignments", cfg.AssignmentHandler.ListByCourse)
	protected.GET("/assignments/:assignmentID", cfg.AssignmentHandler.Get)
	protected.GET("/assignments/:assignmentID/documents", cfg.AssignmentHandler.ListDocuments)
	protected.GET("/assignment-documents/:documentID/download", cfg.AssignmentHandler.DocumentDownloadURL)

	// Submissions (student side)
	protected.POST("/assignments/:assignmentID/submission", cfg.SubmissionHandler.Submit)
	protected.GET("/assignments/:assignmentID/submission", cfg.SubmissionHandler.GetMine)
	protected.DELETE("/submission-files/:fileID", cfg.SubmissionHandler.RemoveAttachment)

	// Notifications
	protected.GET("/notifications", cfg.NotificationHandler.List)
	protected.GET("/notifications/unread", cfg.NotificationHandler.Unread)
	protected.POST("/notifications/read", cfg.NotificationHandler.MarkRead)
	protected.POST("/notifications/read-all", cfg.NotificationHandler.MarkAllRead)

	// Stats
	protected.GET("/stats/overview", cfg.StatsHandler.Overview)

	// ================
	// || Instructor ||
	// ================
	instructor := protected.Group("/")
	instructor.Use(cfg.AuthMiddleware.RequireInstructor())

	// Course management
	instructor.POST("/courses", cfg.CourseHandler.Create)
	instructor.PATCH("/courses/:courseID", cfg.CourseHandler.Update)
	instructor.DELETE("/courses/:courseID", cfg.CourseHandler.Delete)
	instructor.POST("/courses/:courseID/enrollments", cfg.CourseHandler.Enroll)
	instructor.DELETE("/courses/:courseID/enrollments/:studentID", cfg.CourseHandler.Unenroll)
	instructor.POST("/courses/:courseID/documents", cfg.CourseHandler.UploadDocument)
	instructor.DELETE("/course-documents/:documentID", cfg.CourseHandler.DeleteDocument)

	// Assignment management
	instructor.POST("/courses/:courseID/assignments", cfg.AssignmentHandler.Create)
	instructor.PATCH("/assignments/:assignmentID", cfg.AssignmentHandler.Update)
	instructor.POST("/assignments/:assignmentID/status", cfg.AssignmentHandler.SetStatus)
	instructor.DELETE("/assignments/:assignmentID", cfg.AssignmentHandler.Delete)
	instructor.POST("/assignments/:assignmentID/documents", cfg.AssignmentHandler.UploadDocument)
	instructor.DELETE("/assignment-documents/:documentID", cfg.AssignmentHandler.DeleteDocument)

	// Grading
	instructor.GET("/assignments/:assignmentID/submissions", cfg.SubmissionHandler.ListForInstructor)
	instructor.POST("/submissions/:submissionID/grade", cfg.SubmissionHandler.Grade)

	return router
}
