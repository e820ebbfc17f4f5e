package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brightboard/brightboard-backend/internal/observability"
)

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Metrics reports the in-process counters.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, m.Snapshot())
	}
}
