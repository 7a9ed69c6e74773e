package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/tractorguru/models"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health returns a handler for GET /api/v1/health.
//
// It always answers 200. A client that failed to initialize is reported
// as "unavailable".
func Health(d Deps, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := models.HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now().UTC(),
			Uptime:    time.Since(startTime).Round(time.Second).String(),
			Version:   Version,
		}

		switch {
		case d.InitErr != nil:
			resp.Status = "unavailable"
			resp.Error = d.InitErr.Error()
		case d.Catalog == nil:
			resp.Status = "unavailable"
		default:
			stats := d.Catalog.Stats()
			resp.Cache = &stats
		}

		c.JSON(http.StatusOK, resp)
	}
}
