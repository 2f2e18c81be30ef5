package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fitscout/fitscout/api/handler"
	"github.com/fitscout/fitscout/api/middleware"
	"github.com/fitscout/fitscout/cache"
	"github.com/fitscout/fitscout/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(runner handler.Runner, siteNames []string, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(len(siteNames), startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Search
	protected.GET("/search", handler.Search(runner, cc, cfg.Cache.TTL))

	// Site enumeration for the client's filter control.
	protected.GET("/sites", handler.Sites(siteNames))

	return r
}
