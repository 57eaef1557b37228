// Package itinerary assembles day-by-day trip plans from the destination
// catalog and keeps them consistent with the simulated weather.
package itinerary

import (
	"time"

	"github.com/tripwise/tripwise/internal/catalog"
	"github.com/tripwise/tripwise/internal/weather"
	"github.com/tripwise/tripwise/pkg/geo"
)

// TripType describes who is travelling. It drives the group discount.
type TripType string

const (
	TripSolo    TripType = "solo"
	TripCouple  TripType = "couple"
	TripFamily  TripType = "family"
	TripFriends TripType = "friends"
)

// TripTypes lists the supported trip types.
var TripTypes = []TripType{TripSolo, TripCouple, TripFamily, TripFriends}

// Valid reports whether t is a supported trip type.
func (t TripType) Valid() bool {
	for _, tt := range TripTypes {
		if t == tt {
			return true
		}
	}
	return false
}

// Kind tells whether an activity happens indoors or outdoors.
type Kind string

const (
	Indoor  Kind = "indoor"
	Outdoor Kind = "outdoor"
)

// Selection is the user's pick between a main activity and its alternative.
type Selection string

const (
	SelectMain        Selection = "main"
	SelectAlternative Selection = "alternative"
)

// Valid reports whether s is a known selection.
func (s Selection) Valid() bool {
	return s == SelectMain || s == SelectAlternative
}

// Location is where an activity takes place. Zero coordinates mean unknown.
type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Name    string  `json:"name"`
	Address string  `json:"address"`
}

// Point returns the location coordinates.
func (l Location) Point() geo.Point {
	return geo.Point{Lat: l.Lat, Lng: l.Lng}
}

// Activity is a POI realized for a trip, priced per person.
type Activity struct {
	Name           string   `json:"name"`
	Kind           Kind     `json:"kind"`
	DurationHours  int      `json:"durationHours"`
	Location       Location `json:"location"`
	PricePerPerson int      `json:"pricePerPerson"`
}

// DayPlan is the plan for one day of a trip: a daytime and a nighttime
// activity, each with an alternative.
type DayPlan struct {
	DayNumber         int               `json:"dayNumber"`
	Date              time.Time         `json:"date"`
	Weather           weather.Condition `json:"weather"`
	DaytimeMain       Activity          `json:"daytimeMain"`
	DaytimeAlt        Activity          `json:"daytimeAlternative"`
	NighttimeMain     Activity          `json:"nighttimeMain"`
	NighttimeAlt      Activity          `json:"nighttimeAlternative"`
	SelectedDaytime   Selection         `json:"selectedDaytime"`
	SelectedNighttime Selection         `json:"selectedNighttime"`
	WeatherAdjusted   bool              `json:"weatherAdjusted"`
}

// Activities returns the four activities of the day in display order.
func (p DayPlan) Activities() []Activity {
	return []Activity{p.DaytimeMain, p.DaytimeAlt, p.NighttimeMain, p.NighttimeAlt}
}

// SelectedDaytimeActivity returns the daytime activity the user picked.
func (p DayPlan) SelectedDaytimeActivity() Activity {
	if p.SelectedDaytime == SelectAlternative {
		return p.DaytimeAlt
	}
	return p.DaytimeMain
}

// SelectedNighttimeActivity returns the nighttime activity the user picked.
func (p DayPlan) SelectedNighttimeActivity() Activity {
	if p.SelectedNighttime == SelectAlternative {
		return p.NighttimeAlt
	}
	return p.NighttimeMain
}

// Request describes the trip an itinerary is generated for.
type Request struct {
	Destination string
	StartDate   time.Time
	Days        int
	Style       catalog.TravelStyle
	Budget      catalog.BudgetLevel
	TripType    TripType
	// Center is the geocoded destination, if known.
	Center *geo.Point
}
