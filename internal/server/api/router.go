package api

import (
	"net/http"

	"treefs/internal/server/config"
	"treefs/internal/server/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupRouter creates and configures the echo router with all routes and
// middleware. The returned limiter's sweep must be stopped by the caller.
func SetupRouter(handler *Handler, cfg *config.Config, auth *AdminAuth) (*echo.Echo, *RateLimiter) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(RequestLogger())

	// Health & metrics
	e.GET("/health", handler.HandleHealth)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	// Queries
	api := e.Group("/api")
	api.GET("/stats", handler.HandleStats)
	api.GET("/pwd", handler.HandlePwd)
	api.GET("/ls", handler.HandleList)
	api.GET("/find", handler.HandleFind)
	api.GET("/stat", handler.HandleStat)
	api.GET("/glob", handler.HandleGlob)
	api.GET("/tree", handler.HandleTree)
	api.GET("/snapshot", handler.HandleSnapshot)

	// Mutations (rate-limited, admin-only when a password is set)
	limiter := NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	mutate := api.Group("", limiter.Middleware(), auth.Middleware())
	mutate.POST("/cd", handler.HandleChangeDirectory)
	mutate.POST("/entries", handler.HandleCreate)
	mutate.DELETE("/entries/:name", handler.HandleDelete)
	mutate.POST("/move", handler.HandleMove)
	mutate.POST("/sort", handler.HandleSort)

	return e, limiter
}
