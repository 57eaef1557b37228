package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/catalog"
	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/internal/trip"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/internal/worker"
)

// constSource always returns the same value.
type constSource float64

func (c constSource) Float64() float64 { return float64(c) }

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (n *recordingNotifier) Notify(_ context.Context, _, _, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, message)
	return nil
}

// failingStore wraps a repository and fails UpdateDay for one day.
type failingStore struct {
	*trip.InMemoryRepository
	failDay string
	listErr error
}

func (s *failingStore) UpdateDay(ctx context.Context, day *trip.Day) error {
	if day.ID == s.failDay {
		return errors.New("write failed")
	}
	return s.InMemoryRepository.UpdateDay(ctx, day)
}

func (s *failingStore) ListStartingBetween(ctx context.Context, from, to time.Time) ([]*trip.Trip, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.InMemoryRepository.ListStartingBetween(ctx, from, to)
}

var now = time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

func seedTrip(t *testing.T, repo *trip.InMemoryRepository, id string, start time.Time, days int) {
	t.Helper()
	gen := itinerary.NewGenerator(itinerary.GeneratorConfig{})
	plans := gen.Generate(itinerary.Request{
		Destination: "Paris",
		StartDate:   start,
		Days:        days,
		Style:       catalog.StyleCultural,
		Budget:      catalog.BudgetMedium,
	})

	tr := &trip.Trip{ID: id, UserID: "usr_" + id, Destination: "Paris", StartDate: start, NumberOfDays: days}
	var ds []*trip.Day
	for _, p := range plans {
		ds = append(ds, &trip.Day{ID: id + "_day" + string(rune('0'+p.DayNumber)), TripID: id, Plan: p})
	}
	require.NoError(t, repo.Create(context.Background(), tr, ds))
}

func newJob(store worker.TripStore, notifier worker.Notifier, probability float64) *worker.WeatherSweepJob {
	return worker.NewWeatherSweepJob(worker.SweepJobConfig{
		Store:    store,
		Notifier: notifier,
		Adjuster: itinerary.NewAdjuster(itinerary.AdjusterConfig{
			ChangeProbability: probability,
			Random:            constSource(0.1),
		}),
		Logger: zerolog.Nop(),
		Now:    func() time.Time { return now },
	})
}

func TestDefaultSweepConfig(t *testing.T) {
	cfg := worker.DefaultSweepConfig()

	assert.Equal(t, 7*24*time.Hour, cfg.Window)
	assert.Equal(t, 3, cfg.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestWeatherSweepJob_Run_AdjustsUpcomingTrips(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	seedTrip(t, repo, "soon", now.AddDate(0, 0, 2).Truncate(24*time.Hour), 2)
	seedTrip(t, repo, "today", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 1)
	seedTrip(t, repo, "later", now.AddDate(0, 0, 30), 3)
	seedTrip(t, repo, "past", now.AddDate(0, 0, -3), 2)

	notifier := &recordingNotifier{}
	job := newJob(repo, notifier, 1)

	result := job.Run(context.Background())

	assert.Equal(t, 2, result.Trips)
	assert.Equal(t, 3, result.DaysChecked)
	assert.Equal(t, 3, result.DaysChanged)
	assert.Equal(t, 3, result.NotificationsSent)
	assert.Zero(t, result.Failed)
	assert.Len(t, notifier.messages, 3)
	assert.Contains(t, notifier.messages[0], "Weather update for your Paris trip")

	days, err := repo.ListDays(context.Background(), "soon")
	require.NoError(t, err)
	for _, d := range days {
		assert.True(t, d.Plan.WeatherAdjusted)
		if d.Plan.Weather == weather.Rainy || d.Plan.Weather == weather.Stormy {
			assert.Equal(t, itinerary.Indoor, d.Plan.DaytimeMain.Kind)
		} else {
			assert.Equal(t, itinerary.Outdoor, d.Plan.DaytimeMain.Kind)
		}
	}

	later, err := repo.ListDays(context.Background(), "later")
	require.NoError(t, err)
	for _, d := range later {
		assert.False(t, d.Plan.WeatherAdjusted)
	}
}

func TestWeatherSweepJob_Run_GateMissChangesNothing(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	seedTrip(t, repo, "soon", now.AddDate(0, 0, 1), 3)

	notifier := &recordingNotifier{}
	job := newJob(repo, notifier, 0.05)

	result := job.Run(context.Background())

	assert.Equal(t, 3, result.DaysChecked)
	assert.Zero(t, result.DaysChanged)
	assert.Empty(t, notifier.messages)
}

func TestWeatherSweepJob_Run_IsolatesFailures(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	seedTrip(t, repo, "a", now.AddDate(0, 0, 1), 3)
	seedTrip(t, repo, "b", now.AddDate(0, 0, 2), 2)

	store := &failingStore{InMemoryRepository: repo, failDay: "a_day2"}
	job := newJob(store, &recordingNotifier{}, 1)

	result := job.Run(context.Background())

	assert.Equal(t, 5, result.DaysChecked)
	assert.Equal(t, 4, result.DaysChanged)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, worker.SweepError{TripID: "a", DayID: "a_day2", Stage: worker.StageUpdateDay, Error: "write failed"}, result.Errors[0])
}

func TestWeatherSweepJob_Run_NotifyFailure(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	seedTrip(t, repo, "a", now.AddDate(0, 0, 1), 2)

	job := newJob(repo, &recordingNotifier{err: errors.New("db down")}, 1)
	result := job.Run(context.Background())

	assert.Equal(t, 2, result.DaysChanged)
	assert.Zero(t, result.NotificationsSent)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, worker.StageNotify, result.Errors[0].Stage)
}

func TestWeatherSweepJob_Run_ListFailure(t *testing.T) {
	store := &failingStore{InMemoryRepository: trip.NewInMemoryRepository(), listErr: errors.New("timeout")}
	job := newJob(store, nil, 1)

	result := job.Run(context.Background())

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, worker.StageListTrips, result.Errors[0].Stage)
	assert.Error(t, job.Check(context.Background()))
}

func TestWeatherSweepJob_Metrics(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	seedTrip(t, repo, "a", now.AddDate(0, 0, 1), 2)
	job := newJob(repo, &recordingNotifier{}, 1)

	job.Run(context.Background())
	job.Run(context.Background())

	m := job.GetMetrics()
	assert.Equal(t, int64(2), m.TotalSweeps)
	assert.Equal(t, int64(2), m.TripsProcessed)
	assert.Equal(t, int64(4), m.DaysChecked)
	assert.Equal(t, int64(4), m.DaysChanged)
	assert.Equal(t, now, m.LastSweepAt)

	snapshot := job.MetricsSnapshot()
	assert.Equal(t, int64(2), snapshot["total_sweeps"])
	assert.Equal(t, int64(4), snapshot["notifications_sent"])
}

func TestDispatcher(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	seedTrip(t, repo, "a", now.AddDate(0, 0, 1), 2)
	notifier := &recordingNotifier{}
	d := worker.NewDispatcher(newJob(repo, notifier, 1), zerolog.Nop())
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, []byte(`{"job_type":"weather_sweep"}`)))
	assert.Len(t, notifier.messages, 2)

	assert.NoError(t, d.Dispatch(ctx, []byte(`{"job_type":"health_check"}`)))
	assert.NoError(t, d.Dispatch(ctx, []byte(`{"job_type":"reindex"}`)))
	assert.Error(t, d.Dispatch(ctx, []byte(`not json`)))
}

func TestDispatcher_MostlyFailedSweepErrors(t *testing.T) {
	repo := trip.NewInMemoryRepository()
	store := &failingStore{InMemoryRepository: repo, listErr: errors.New("timeout")}
	d := worker.NewDispatcher(newJob(store, nil, 1), zerolog.Nop())

	assert.Error(t, d.Dispatch(context.Background(), []byte(`{"job_type":"weather_sweep"}`)))
	assert.Error(t, d.Dispatch(context.Background(), []byte(`{"job_type":"health_check"}`)))
}
