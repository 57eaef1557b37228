// Package main provides the entrypoint for the TripWise worker.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/database"
	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/internal/notification"
	"github.com/tripwise/tripwise/internal/telemetry"
	"github.com/tripwise/tripwise/internal/trip"
	"github.com/tripwise/tripwise/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripwise-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting TripWise worker")

	// Worker also exposes health endpoint for Cloud Run
	port := getEnvOrDefault("APP_PORT", "8080")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, err := telemetry.Init(ctx, telemetry.ConfigFromEnv(serviceName, Version))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	if dbConfig.Migrate {
		if err := database.Migrate(dbConfig, log); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	sweepConfig := worker.DefaultSweepConfig()
	if window, err := time.ParseDuration(os.Getenv("SWEEP_WINDOW")); err == nil {
		sweepConfig.Window = window
	}
	if n, err := strconv.Atoi(os.Getenv("SWEEP_CONCURRENCY")); err == nil {
		sweepConfig.Concurrency = n
	}
	probability, _ := strconv.ParseFloat(os.Getenv("SWEEP_CHANGE_PROBABILITY"), 64)

	notifications := notification.NewService(notification.ServiceConfig{
		Repository: notification.NewPostgresRepository(pool),
		Logger:     log,
	})

	sweep := worker.NewWeatherSweepJob(worker.SweepJobConfig{
		Config:   sweepConfig,
		Store:    trip.NewPostgresRepository(pool),
		Notifier: notifications,
		Adjuster: itinerary.NewAdjuster(itinerary.AdjusterConfig{ChangeProbability: probability}),
		Logger:   log,
	})
	dispatcher := worker.NewDispatcher(sweep, log)

	// Health and metrics endpoints
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := map[string]any{"status": "healthy", "version": Version}
		if err := sweep.Check(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "unhealthy"
			body["error"] = err.Error()
		}
		writeJSON(w, status, body)
	})
	r.Get("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, sweep.MetricsSnapshot())
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Jobs arrive over Pub/Sub when configured, otherwise the sweep runs on
	// a fixed interval.
	if subscription := os.Getenv("PUBSUB_SUBSCRIPTION"); subscription != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        os.Getenv("PUBSUB_PROJECT_ID"),
			SubscriptionName: subscription,
			Dispatcher:       dispatcher,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		interval, err := time.ParseDuration(getEnvOrDefault("SWEEP_INTERVAL", "24h"))
		if err != nil || interval <= 0 {
			interval = 24 * time.Hour
		}
		log.Info().Dur("interval", interval).Msg("PUBSUB_SUBSCRIPTION not set - running sweep on a timer")

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					sweep.Run(ctx)
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
