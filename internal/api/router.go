package api

import (
	"net/http"
	"time"

	"github.com/dom/daily-checkin/internal/api/handlers"
	"github.com/dom/daily-checkin/internal/api/middleware"
	"github.com/dom/daily-checkin/internal/config"
	"github.com/dom/daily-checkin/internal/logger"
	"github.com/dom/daily-checkin/internal/service"
	"github.com/dom/daily-checkin/internal/websocket"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

func NewRouter(services *service.Services, hub *websocket.Hub, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.RequestLogger(&chiMiddleware.DefaultLogFormatter{
		Logger:  logger.StandardLog(),
		NoColor: cfg.IsProduction() || cfg.LogFormat != "text",
	}))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Auth)
	definitionHandler := handlers.NewDefinitionHandler(services.Definition, services.Auth)
	scheduleHandler := handlers.NewScheduleHandler(services.Schedule, services.Auth)
	checkinHandler := handlers.NewCheckinHandler(services.Checkin, services.Schedule)
	wsHandler := handlers.NewWebSocketHandler(hub, services.Auth)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth routes
		r.Route("/auth", func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(requestTimeout))
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(services.Auth))
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(chiMiddleware.Timeout(requestTimeout))
			r.Use(middleware.Auth(services.Auth))

			// Caller's own schedule
			r.Route("/schedule", func(r chi.Router) {
				r.Get("/", scheduleHandler.Day)
				r.Get("/history", scheduleHandler.History)
			})

			r.Route("/definitions", func(r chi.Router) {
				r.Get("/", definitionHandler.List)
				r.Post("/", definitionHandler.Create)
				r.Get("/{definitionId}", definitionHandler.Get)
				r.Patch("/{definitionId}", definitionHandler.Update)
				r.Delete("/{definitionId}", definitionHandler.Delete)
			})

			r.Post("/checkins/toggle", checkinHandler.Toggle)
			r.Put("/entries/{entryId}/reason", checkinHandler.SetReason)

			// Read-only views of any user
			r.Route("/users", func(r chi.Router) {
				r.Get("/", authHandler.ListUsers)
				r.Get("/{userId}/schedule", scheduleHandler.DayForUser)
				r.Get("/{userId}/schedule/history", scheduleHandler.HistoryForUser)
				r.Get("/{userId}/definitions", definitionHandler.ListForUser)
			})
		})

		// WebSocket endpoint
		r.Get("/ws", wsHandler.Handle)
	})

	return r
}
