// Package api provides the HTTP API for TripWise.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/api/handler"
	"github.com/tripwise/tripwise/internal/api/middleware"
	"github.com/tripwise/tripwise/internal/catalog"
	"github.com/tripwise/tripwise/internal/notification"
	"github.com/tripwise/tripwise/internal/trip"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	RequireTLS  bool

	Tokens              middleware.TokenValidator
	TripService         *trip.Service
	NotificationService *notification.Service
	Catalog             *catalog.Static

	// Subsystems are pinged by the readiness and status endpoints.
	Subsystems map[string]handler.Pinger
	// Providers report circuit breaker state on the status endpoint.
	Providers []handler.CircuitReporter
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "tripwise-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireTLS(cfg.RequireTLS))
	r.Use(middleware.ContentTypeJSON)

	opsHandler := handler.NewOpsHandler(handler.OpsConfig{
		Version:    cfg.Version,
		BuildTime:  cfg.BuildTime,
		Subsystems: cfg.Subsystems,
		Providers:  cfg.Providers,
	})
	metadataHandler := handler.NewMetadataHandler(cfg.Catalog)
	tripHandler := handler.NewTripHandler(cfg.TripService)
	notificationHandler := handler.NewNotificationHandler(cfg.NotificationService)

	authMiddleware := middleware.Auth(cfg.Tokens)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)
	userRateLimit := middleware.RateLimitByUser(middleware.StandardRateLimit)
	planningRateLimit := middleware.RateLimitByUser(middleware.PlanningRateLimit)

	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Metadata endpoints (public)
		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/enums", metadataHandler.GetEnums)
			r.Get("/destinations", metadataHandler.ListDestinations)
		})

		r.Route("/trips", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(userRateLimit)
			r.Get("/", tripHandler.ListTrips)
			r.With(planningRateLimit).Post("/", tripHandler.CreateTrip)
			r.Route("/{tripId}", func(r chi.Router) {
				r.Get("/", tripHandler.GetTrip)
				r.With(planningRateLimit).Put("/", tripHandler.UpdateTrip)
				r.Delete("/", tripHandler.DeleteTrip)
				r.Put("/hotel", tripHandler.UpdateHotel)
				r.Post("/directions", tripHandler.Directions)
				r.Put("/days/{dayId}/selection", tripHandler.SelectActivity)
			})
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(userRateLimit)
			r.Get("/", notificationHandler.ListNotifications)
			r.Get("/unread-count", notificationHandler.UnreadCount)
			r.Post("/read-all", notificationHandler.MarkAllRead)
			r.Post("/{notificationId}/read", notificationHandler.MarkRead)
		})
	})

	return r
}
