// Package main provides the entrypoint for the TripWise API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/api"
	"github.com/tripwise/tripwise/internal/api/handler"
	"github.com/tripwise/tripwise/internal/api/middleware"
	"github.com/tripwise/tripwise/internal/auth"
	"github.com/tripwise/tripwise/internal/catalog"
	"github.com/tripwise/tripwise/internal/database"
	"github.com/tripwise/tripwise/internal/geocoding"
	"github.com/tripwise/tripwise/internal/geocoding/nominatim"
	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/internal/notification"
	"github.com/tripwise/tripwise/internal/telemetry"
	"github.com/tripwise/tripwise/internal/trip"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripwise-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TripWise API")

	port := getEnvOrDefault("APP_PORT", "8080")

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryConfig := telemetry.ConfigFromEnv(serviceName, Version)
	tp, err := telemetry.Init(ctx, telemetryConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryConfig.Enabled {
		log.Info().
			Str("otlp_endpoint", telemetryConfig.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	if dbConfig.Migrate {
		if err := database.Migrate(dbConfig, log); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	subsystems := map[string]handler.Pinger{"postgres": pool}

	// Geocoding: known cities, then the Redis cache, then Nominatim.
	geocoder := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:   os.Getenv("NOMINATIM_BASE_URL"),
		UserAgent: os.Getenv("NOMINATIM_USER_AGENT"),
		Email:     os.Getenv("NOMINATIM_EMAIL"),
		Logger:    log,
	})
	geocodingConfig := geocoding.ServiceConfig{Geocoder: geocoder, Logger: log}

	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		redisClient, err := geocoding.Connect(ctx, redisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()

		ttl, _ := time.ParseDuration(os.Getenv("GEOCODE_CACHE_TTL"))
		cache := geocoding.NewRedisCache(redisClient, ttl)
		geocodingConfig.Cache = cache
		subsystems["redis"] = cache
		log.Info().Msg("geocode cache connected")
	} else {
		log.Warn().Msg("REDIS_URL not set - geocode results will not be cached")
	}
	locator := geocoding.NewService(geocodingConfig)

	// JWT validation (tokens are issued by the identity service)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     getEnvOrDefault("JWT_ISSUER", "https://auth.tripwise.app"),
		Audience:   getEnvOrDefault("JWT_AUDIENCE", "tripwise-api"),
	})

	destinations := catalog.Builtin()

	notificationService := notification.NewService(notification.ServiceConfig{
		Repository: notification.NewPostgresRepository(pool),
		Logger:     log,
	})

	tripService := trip.NewService(trip.ServiceConfig{
		Repository: trip.NewPostgresRepository(pool),
		Generator:  itinerary.NewGenerator(itinerary.GeneratorConfig{Catalog: destinations}),
		Locator:    locator,
		Cleaner:    notificationService,
		Logger:     log,
	})
	log.Info().Msg("trip service initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:             Version,
		BuildTime:           BuildTime,
		Logger:              log,
		ServiceName:         serviceName,
		Metrics:             metrics,
		RequireTLS:          os.Getenv("REQUIRE_TLS") == "true",
		Tokens:              jwtService,
		TripService:         tripService,
		NotificationService: notificationService,
		Catalog:             destinations,
		Subsystems:          subsystems,
		Providers:           []handler.CircuitReporter{geocoder},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
