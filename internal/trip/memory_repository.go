package trip

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing and local development.
type InMemoryRepository struct {
	mu    sync.RWMutex
	trips map[string]*Trip
	days  map[string]*Day
}

// NewInMemoryRepository creates a new in-memory trip repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		trips: make(map[string]*Trip),
		days:  make(map[string]*Day),
	}
}

// Get retrieves a trip by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[id]
	if !ok {
		return nil, ErrTripNotFound
	}
	cpy := *t
	return &cpy, nil
}

// GetByUserAndID retrieves a trip owned by the user.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, tripID string) (*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.trips[tripID]
	if !ok || t.UserID != userID {
		return nil, ErrTripNotFound
	}
	cpy := *t
	return &cpy, nil
}

// List retrieves the user's trips, latest start date first.
func (r *InMemoryRepository) List(_ context.Context, userID string) ([]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := r.collect(func(t *Trip) bool { return t.UserID == userID })
	sort.SliceStable(trips, func(i, j int) bool {
		if trips[i].StartDate.Equal(trips[j].StartDate) {
			return trips[i].CreatedAt.After(trips[j].CreatedAt)
		}
		return trips[i].StartDate.After(trips[j].StartDate)
	})
	return trips, nil
}

// ListStartingBetween retrieves trips starting within [from, to].
func (r *InMemoryRepository) ListStartingBetween(_ context.Context, from, to time.Time) ([]*Trip, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	trips := r.collect(func(t *Trip) bool {
		return !t.StartDate.Before(from) && !t.StartDate.After(to)
	})
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].StartDate.Before(trips[j].StartDate)
	})
	return trips, nil
}

func (r *InMemoryRepository) collect(match func(*Trip) bool) []*Trip {
	var trips []*Trip
	for _, t := range r.trips {
		if match(t) {
			cpy := *t
			trips = append(trips, &cpy)
		}
	}
	return trips
}

// Create stores a trip with its days.
func (r *InMemoryRepository) Create(_ context.Context, t *Trip, days []*Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *t
	r.trips[t.ID] = &cpy
	r.putDays(days)
	return nil
}

// Update updates the trip fields.
func (r *InMemoryRepository) Update(_ context.Context, t *Trip) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[t.ID]; !ok {
		return ErrTripNotFound
	}
	cpy := *t
	r.trips[t.ID] = &cpy
	return nil
}

// UpdateWithDays updates the trip fields and swaps its itinerary.
func (r *InMemoryRepository) UpdateWithDays(_ context.Context, t *Trip, days []*Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.trips[t.ID]; !ok {
		return ErrTripNotFound
	}
	cpy := *t
	r.trips[t.ID] = &cpy
	r.deleteDays(t.ID)
	r.putDays(days)
	return nil
}

// Delete deletes a trip and its days.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.trips, id)
	r.deleteDays(id)
	return nil
}

func (r *InMemoryRepository) putDays(days []*Day) {
	for _, d := range days {
		cpy := *d
		r.days[d.ID] = &cpy
	}
}

func (r *InMemoryRepository) deleteDays(tripID string) {
	for id, d := range r.days {
		if d.TripID == tripID {
			delete(r.days, id)
		}
	}
}

// ListDays retrieves the days of a trip ordered by day number.
func (r *InMemoryRepository) ListDays(_ context.Context, tripID string) ([]*Day, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var days []*Day
	for _, d := range r.days {
		if d.TripID == tripID {
			cpy := *d
			days = append(days, &cpy)
		}
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Plan.DayNumber < days[j].Plan.DayNumber
	})
	return days, nil
}

// GetDay retrieves a day by ID.
func (r *InMemoryRepository) GetDay(_ context.Context, dayID string) (*Day, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.days[dayID]
	if !ok {
		return nil, ErrDayNotFound
	}
	cpy := *d
	return &cpy, nil
}

// UpdateDay updates the plan of a day.
func (r *InMemoryRepository) UpdateDay(_ context.Context, day *Day) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.days[day.ID]; !ok {
		return ErrDayNotFound
	}
	cpy := *day
	r.days[day.ID] = &cpy
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
