package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/projectboard/internal/health"
	"github.com/monocle-dev/projectboard/internal/response"
	"github.com/sirupsen/logrus"
)

type Health struct {
	db  health.Pinger
	log *logrus.Entry
}

// NewHealthHandler reports liveness. With a nil db the database probe is
// skipped.
func NewHealthHandler(db health.Pinger, log *logrus.Entry) *Health {
	return &Health{db: db, log: log}
}

func (h *Health) HealthCheck(c *gin.Context) {
	status := gin.H{
		"status":    "ok",
		"database":  "skipped",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if h.db != nil {
		if err := health.CheckDatabase(c.Request.Context(), h.db, health.DefaultTimeout); err != nil {
			h.log.WithError(err).Error("health check failed")
			status["status"] = "degraded"
			status["database"] = "unreachable"
			c.JSON(http.StatusServiceUnavailable, response.Envelope{
				Success: false,
				Message: "Database unreachable",
				Data:    status,
			})
			return
		}
		status["database"] = "ok"
	}

	response.OK(c, http.StatusOK, "Projectboard is running", status)
}
