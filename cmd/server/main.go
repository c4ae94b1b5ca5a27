package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"treefs/internal/core"
	"treefs/internal/server/api"
	"treefs/internal/server/config"
	"treefs/internal/server/service"

	"github.com/go-git/go-billy/v5/osfs"
)

func main() {
	// Load config
	cfg := config.Load()

	// Structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("configuration loaded",
		"port", cfg.Port,
		"seed_path", cfg.SeedPath,
		"rate_limit_rps", cfg.RateLimitRPS,
		"rate_limit_burst", cfg.RateLimitBurst,
		"auth_enabled", cfg.AuthEnabled(),
	)

	// Build the tree
	ft := core.New()
	if cfg.SeedPath != "" {
		seeded, err := core.BuildFiletree(osfs.New(cfg.SeedPath), "/")
		if err != nil {
			slog.Error("failed to seed tree", "path", cfg.SeedPath, "error", err)
			os.Exit(1)
		}
		ft = seeded
		slog.Info("tree seeded", "path", cfg.SeedPath, "elements", ft.Size())
	}

	// Initialize service and auth
	svc := service.NewTreeService(ft)
	auth, err := api.NewAdminAuth(cfg.AdminPassword)
	if err != nil {
		slog.Error("failed to hash admin password", "error", err)
		os.Exit(1)
	}

	// Setup HTTP router
	handler := api.NewHandler(svc)
	e, limiter := api.SetupRouter(handler, cfg, auth)
	defer limiter.Stop()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		slog.Info("starting server", "addr", addr)
		if err := e.Start(addr); err != nil {
			slog.Info("server stopped", "reason", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down", "signal", sig)

	// Stop accepting new requests, finish in-flight with 30s timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server exited cleanly")
}
