package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/threadlikes/models"
)

// Version is reported by the health probe.
const Version = "0.1.0"

// Health returns a handler for GET /api/health.
//
// It never contacts the upstream, so probes stay cheap and cannot trip the
// target site's own rate limiting.
func Health(targetURL string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    "healthy",
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			Version:   Version,
			TargetURL: targetURL,
		})
	}
}
