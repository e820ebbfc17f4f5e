package handlers

import (
	"github.com/gin-gonic/gin"

	types "github.com/brightboard/brightboard-backend/internal/domain"
	"github.com/brightboard/brightboard-backend/internal/pkg/logger"
	"github.com/brightboard/brightboard-backend/internal/requestdata"
	"github.com/brightboard/brightboard-backend/internal/services"
)

type StatsHandler struct {
	log          *logger.Logger
	statsService services.StatsService
}

func NewStatsHandler(log *logger.Logger, statsService services.StatsService) *StatsHandler {
	return &StatsHandler{
		log:          log.With("handler", "StatsHandler"),
		statsService: statsService,
	}
}

// Overview is role scoped: instructors get authored totals, students get
// their enrollment and grade summary.
func (h *StatsHandler) Overview(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd.Role == types.RoleInstructor {
		overview, err := h.statsService.InstructorOverview(c.Request.Context(), rd.UserID)
		if err != nil {
			RespondServiceError(c, err)
			return
		}
		RespondOK(c, overview)
		return
	}
	overview, err := h.statsService.StudentOverview(c.Request.Context(), rd.UserID)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, overview)
}
