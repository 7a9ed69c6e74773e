package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/tractorguru/api/handler"
	"github.com/use-agent/tractorguru/api/middleware"
	"github.com/use-agent/tractorguru/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	Data:    RateLimit
//
// Health sits outside the rate limit so monitoring checks always work. The
// limiter's cleanup goroutine stops when ctx is done.
func NewRouter(ctx context.Context, deps handler.Deps, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(deps, startTime))

	data := v1.Group("")
	data.Use(middleware.RateLimit(ctx, cfg.RateLimit))

	data.GET("/brands", handler.Brands(deps))
	data.GET("/models", handler.Models(deps))
	data.GET("/model", handler.Model(deps))

	return r
}
