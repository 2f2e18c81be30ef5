package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitscout/fitscout/models"
)

// Health returns a handler for GET /api/v1/health.
//
// Browsers launch per query rather than at boot, so there is no pool to
// report on; a responsive process with registered adapters is healthy.
func Health(adapterCount int, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{
			Status:   "healthy",
			Uptime:   time.Since(startTime).Round(time.Second).String(),
			Adapters: adapterCount,
			Version:  "0.1.0",
		})
	}
}

// Sites returns a handler for GET /api/v1/sites: the fixed source
// enumeration, in extraction order.
func Sites(names []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.SitesResponse{Sites: names})
	}
}
