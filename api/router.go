package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/threadlikes/api/handler"
	"github.com/use-agent/threadlikes/api/middleware"
	"github.com/use-agent/threadlikes/config"
	"github.com/use-agent/threadlikes/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	/api:    CORS
func NewRouter(f scraper.Fetcher, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	api := r.Group("/api")
	api.Use(middleware.CORS())

	api.GET("/likes", handler.Likes(f))
	api.OPTIONS("/likes", handler.Preflight())

	api.GET("/health", handler.Health(cfg.Upstream.TargetURL, startTime))

	return r
}
