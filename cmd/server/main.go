package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dom/daily-checkin/internal/api"
	"github.com/dom/daily-checkin/internal/config"
	"github.com/dom/daily-checkin/internal/logger"
	"github.com/dom/daily-checkin/internal/repository/postgres"
	"github.com/dom/daily-checkin/internal/service"
	"github.com/dom/daily-checkin/internal/websocket"
	gormLogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Config{Level: "info"})
		logger.Fatal("failed to load config", "err", err)
	}

	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	}); err != nil {
		logger.Fatal("failed to initialize logger", "err", err)
	}

	// Initialize database
	db, err := postgres.NewConnection(cfg.DatabaseDriver, cfg.DatabaseURL, gormLogLevel(cfg))
	if err != nil {
		logger.Fatal("failed to connect to database", "driver", cfg.DatabaseDriver, "err", err)
	}

	// Initialize repositories
	repos := postgres.NewRepositories(db)

	// Initialize WebSocket hub
	hub := websocket.NewHub(repos.User)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, cfg, hub, service.SystemClock{})

	// Initialize router
	router := api.NewRouter(services, hub, cfg)

	// Create server
	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "driver", cfg.DatabaseDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", "err", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "err", err)
	}
	hub.Stop()

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("server stopped")
}

func gormLogLevel(cfg *config.Config) gormLogger.LogLevel {
	switch {
	case cfg.LogLevel == "debug":
		return gormLogger.Info
	case cfg.IsProduction():
		return gormLogger.Error
	default:
		return gormLogger.Warn
	}
}
