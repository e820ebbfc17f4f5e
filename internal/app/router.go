package app

import (
	"github.com/gin-gonic/gin"

	"github.com/brightboard/brightboard-backend/internal/server"
)

func wireRouter(cfg Config, handlerset Handlers, mw Middleware, svcs Services) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		ServiceName:  "brightboard",
		AllowOrigins: cfg.AllowOrigins,
		Metrics:      svcs.Metrics,

		AuthMiddleware:      mw.Auth,
		UserHandler:         handlerset.User,
		CourseHandler:       handlerset.Course,
		AssignmentHandler:   handlerset.Assignment,
		SubmissionHandler:   handlerset.Submission,
		NotificationHandler: handlerset.Notification,
		StatsHandler:        handlerset.Stats,
	})
}
