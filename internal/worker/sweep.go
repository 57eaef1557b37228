package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/errgroup"

	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/internal/trip"
)

const meterName = "github.com/tripwise/tripwise/internal/worker"

// Sweep stages reported in SweepError.
const (
	StageListTrips = "list_trips"
	StageListDays  = "list_days"
	StageUpdateDay = "update_day"
	StageNotify    = "notify"
)

// TripStore is the part of the trip repository the sweep needs.
type TripStore interface {
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*trip.Trip, error)
	ListDays(ctx context.Context, tripID string) ([]*trip.Day, error)
	UpdateDay(ctx context.Context, day *trip.Day) error
}

// Notifier delivers weather change messages to users.
type Notifier interface {
	Notify(ctx context.Context, userID, tripID, message string) error
}

// WeatherSweepJob re-evaluates the weather of upcoming trips and adjusts
// their itineraries.
type WeatherSweepJob struct {
	config   SweepConfig
	store    TripStore
	notifier Notifier
	adjuster *itinerary.Adjuster
	logger   zerolog.Logger
	now      func() time.Time

	adjustments metric.Int64Counter
	metrics     *SweepMetrics
}

// SweepMetrics tracks cumulative sweep statistics.
type SweepMetrics struct {
	mu sync.RWMutex

	TotalSweeps       int64
	TripsProcessed    int64
	DaysChecked       int64
	DaysChanged       int64
	NotificationsSent int64
	Failures          int64

	LastSweepAt       time.Time
	LastSweepDuration time.Duration
	TotalDuration     time.Duration
}

// SweepJobConfig holds configuration for creating a WeatherSweepJob.
type SweepJobConfig struct {
	Config   SweepConfig
	Store    TripStore
	Notifier Notifier
	// Adjuster decides weather changes. Defaults to the standard change
	// probability.
	Adjuster *itinerary.Adjuster
	Logger   zerolog.Logger
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewWeatherSweepJob creates a new sweep job.
func NewWeatherSweepJob(cfg SweepJobConfig) *WeatherSweepJob {
	if cfg.Adjuster == nil {
		cfg.Adjuster = itinerary.NewAdjuster(itinerary.AdjusterConfig{})
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	adjustments, err := otel.Meter(meterName).Int64Counter(
		"tripwise.weather.adjustments",
		metric.WithDescription("Itinerary days adjusted after a weather change"),
		metric.WithUnit("{day}"),
	)
	if err != nil {
		cfg.Logger.Warn().Err(err).Msg("failed to create adjustments counter")
	}

	return &WeatherSweepJob{
		config:      cfg.Config.withDefaults(),
		store:       cfg.Store,
		notifier:    cfg.Notifier,
		adjuster:    cfg.Adjuster,
		logger:      cfg.Logger,
		now:         cfg.Now,
		adjustments: adjustments,
		metrics:     &SweepMetrics{},
	}
}

// SweepResult contains the result of a sweep.
type SweepResult struct {
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
	Trips             int
	DaysChecked       int
	DaysChanged       int
	NotificationsSent int
	Failed            int
	Errors            []SweepError
}

// SweepError represents an error during a sweep.
type SweepError struct {
	TripID string
	DayID  string
	Stage  string
	Error  string
}

type tripResult struct {
	checked  int
	changed  int
	notified int
	errors   []SweepError
}

// Run re-evaluates all trips starting within the configured window.
func (j *WeatherSweepJob) Run(ctx context.Context) *SweepResult {
	startTime := j.now()
	result := &SweepResult{StartTime: startTime}

	from := today(startTime)
	to := from.Add(j.config.Window)

	trips, err := j.store.ListStartingBetween(ctx, from, to)
	if err != nil {
		result.Errors = append(result.Errors, SweepError{Stage: StageListTrips, Error: err.Error()})
		result.Failed++
		j.finish(result)
		return result
	}
	result.Trips = len(trips)

	j.logger.Info().
		Int("trips", len(trips)).
		Int("concurrency", j.config.Concurrency).
		Time("from", from).
		Time("to", to).
		Msg("starting weather sweep")

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(j.config.Concurrency)

	for _, t := range trips {
		g.Go(func() error {
			tr := j.sweepTrip(gctx, t)

			mu.Lock()
			result.DaysChecked += tr.checked
			result.DaysChanged += tr.changed
			result.NotificationsSent += tr.notified
			result.Failed += len(tr.errors)
			result.Errors = append(result.Errors, tr.errors...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	j.finish(result)
	return result
}

func (j *WeatherSweepJob) sweepTrip(ctx context.Context, t *trip.Trip) tripResult {
	var out tripResult

	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	days, err := j.store.ListDays(ctx, t.ID)
	if err != nil {
		out.errors = append(out.errors, SweepError{TripID: t.ID, Stage: StageListDays, Error: err.Error()})
		return out
	}

	for _, day := range days {
		out.checked++

		adj := j.adjuster.Reevaluate(day.Plan, t.Destination)
		if !adj.Changed {
			continue
		}

		day.Plan = adj.Plan
		day.UpdatedAt = j.now()
		if err := j.store.UpdateDay(ctx, day); err != nil {
			out.errors = append(out.errors, SweepError{TripID: t.ID, DayID: day.ID, Stage: StageUpdateDay, Error: err.Error()})
			continue
		}
		out.changed++

		if j.adjustments != nil {
			j.adjustments.Add(ctx, 1, metric.WithAttributes(
				attribute.String("from", string(adj.Previous)),
				attribute.String("to", string(adj.Plan.Weather)),
			))
		}

		j.logger.Debug().
			Str("trip_id", t.ID).
			Str("day_id", day.ID).
			Str("from", string(adj.Previous)).
			Str("to", string(adj.Plan.Weather)).
			Msg("weather changed")

		if j.notifier == nil {
			continue
		}
		if err := j.notifier.Notify(ctx, t.UserID, t.ID, adj.Message); err != nil {
			out.errors = append(out.errors, SweepError{TripID: t.ID, DayID: day.ID, Stage: StageNotify, Error: err.Error()})
			continue
		}
		out.notified++
	}

	return out
}

func (j *WeatherSweepJob) finish(result *SweepResult) {
	result.EndTime = j.now()
	result.Duration = result.EndTime.Sub(result.StartTime)

	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("trips", result.Trips).
		Int("days_checked", result.DaysChecked).
		Int("days_changed", result.DaysChanged).
		Int("notifications_sent", result.NotificationsSent).
		Int("failed", result.Failed).
		Msg("weather sweep completed")
}

// Check verifies that the trip store answers.
func (j *WeatherSweepJob) Check(ctx context.Context) error {
	from := today(j.now())
	_, err := j.store.ListStartingBetween(ctx, from, from)
	return err
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (j *WeatherSweepJob) updateMetrics(result *SweepResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalSweeps++
	j.metrics.TripsProcessed += int64(result.Trips)
	j.metrics.DaysChecked += int64(result.DaysChecked)
	j.metrics.DaysChanged += int64(result.DaysChanged)
	j.metrics.NotificationsSent += int64(result.NotificationsSent)
	j.metrics.Failures += int64(result.Failed)
	j.metrics.LastSweepAt = result.EndTime
	j.metrics.LastSweepDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *WeatherSweepJob) GetMetrics() SweepMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return SweepMetrics{
		TotalSweeps:       j.metrics.TotalSweeps,
		TripsProcessed:    j.metrics.TripsProcessed,
		DaysChecked:       j.metrics.DaysChecked,
		DaysChanged:       j.metrics.DaysChanged,
		NotificationsSent: j.metrics.NotificationsSent,
		Failures:          j.metrics.Failures,
		LastSweepAt:       j.metrics.LastSweepAt,
		LastSweepDuration: j.metrics.LastSweepDuration,
		TotalDuration:     j.metrics.TotalDuration,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *WeatherSweepJob) MetricsSnapshot() map[string]any {
	m := j.GetMetrics()
	return map[string]any{
		"total_sweeps":        m.TotalSweeps,
		"trips_processed":     m.TripsProcessed,
		"days_checked":        m.DaysChecked,
		"days_changed":        m.DaysChanged,
		"notifications_sent":  m.NotificationsSent,
		"failures":            m.Failures,
		"last_sweep_at":       m.LastSweepAt,
		"last_sweep_duration": m.LastSweepDuration.String(),
		"total_duration":      m.TotalDuration.String(),
	}
}
