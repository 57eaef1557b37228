package trip

import (
	"context"
	"time"
)

// Repository defines the interface for trip persistence.
type Repository interface {
	// Get retrieves a trip by ID.
	Get(ctx context.Context, id string) (*Trip, error)

	// GetByUserAndID retrieves a trip owned by the user.
	// Returns ErrTripNotFound if the trip doesn't exist or belongs to someone else.
	GetByUserAndID(ctx context.Context, userID, tripID string) (*Trip, error)

	// List retrieves the user's trips, latest start date first.
	List(ctx context.Context, userID string) ([]*Trip, error)

	// ListStartingBetween retrieves trips of all users whose start date is
	// within [from, to].
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]*Trip, error)

	// Create stores a trip with its days.
	Create(ctx context.Context, trip *Trip, days []*Day) error

	// Update updates the trip fields. Days are left untouched.
	Update(ctx context.Context, trip *Trip) error

	// UpdateWithDays updates the trip fields and swaps its itinerary
	// atomically. Either both writes land or neither does.
	UpdateWithDays(ctx context.Context, trip *Trip, days []*Day) error

	// Delete deletes a trip and its days.
	Delete(ctx context.Context, id string) error

	// ListDays retrieves the days of a trip ordered by day number.
	ListDays(ctx context.Context, tripID string) ([]*Day, error)

	// GetDay retrieves a day by ID.
	GetDay(ctx context.Context, dayID string) (*Day, error)

	// UpdateDay updates the plan of a day.
	UpdateDay(ctx context.Context, day *Day) error
}
