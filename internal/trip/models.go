// Package trip manages trips and their itineraries.
package trip

import (
	"errors"
	"time"

	"github.com/tripwise/tripwise/internal/catalog"
	"github.com/tripwise/tripwise/internal/itinerary"
	"github.com/tripwise/tripwise/pkg/geo"
)

// Repository errors.
var (
	ErrTripNotFound = errors.New("trip not found")
	ErrDayNotFound  = errors.New("itinerary day not found")
)

// Trip is a planned trip owned by a user.
type Trip struct {
	ID                string
	UserID            string
	Destination       string
	Center            geo.Point
	Country           string
	StartDate         time.Time
	NumberOfDays      int
	TravelStyle       catalog.TravelStyle
	BudgetLevel       catalog.BudgetLevel
	BudgetAmount      float64
	NumberOfTravelers int
	TripType          itinerary.TripType
	Hotel             Hotel
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// EndDate returns the date of the last day of the trip.
func (t *Trip) EndDate() time.Time {
	if t.NumberOfDays <= 1 {
		return t.StartDate
	}
	return t.StartDate.AddDate(0, 0, t.NumberOfDays-1)
}

// Origin returns where directions start from: the hotel if its location is
// known, else the destination center.
func (t *Trip) Origin() geo.Point {
	if !t.Hotel.Location.IsZero() {
		return t.Hotel.Location
	}
	return t.Center
}

// Hotel is the lodging of a trip.
type Hotel struct {
	Name     string
	Address  string
	Location geo.Point
}

// Day is a persisted itinerary day.
type Day struct {
	ID        string
	TripID    string
	Plan      itinerary.DayPlan
	UpdatedAt time.Time
}
