// Package directions estimates how long and how much it takes to get from a
// lodging to an activity by foot, public transport or taxi.
//
// Estimates are straight-line heuristics, not routed travel times.
package directions

import (
	"math"
	"sort"
	"strings"

	"github.com/tripwise/tripwise/pkg/geo"
)

// Mode is a way of getting to an activity.
type Mode string

const (
	ModeWalking         Mode = "walking"
	ModePublicTransport Mode = "public_transport"
	ModeTaxi            Mode = "taxi"
)

// Heuristic speeds (km/h) and fixed overheads (minutes).
const (
	walkingSpeed = 5.0

	transitShortSpeed = 15.0
	transitLongSpeed  = 20.0
	transitShortKm    = 3.0
	transitWaitMin    = 10

	taxiShortSpeed = 20.0
	taxiLongSpeed  = 35.0
	taxiShortKm    = 5.0
	taxiPickupMin  = 5
)

// ModeEstimate is the expected travel time and distance for one mode.
type ModeEstimate struct {
	DurationMinutes int     `json:"durationMinutes"`
	DistanceKm      float64 `json:"distanceKm"`
}

// TaxiEstimate adds the expected fare to a ModeEstimate.
type TaxiEstimate struct {
	ModeEstimate
	EstimatedCost int `json:"estimatedCost"`
}

// Estimate holds the travel options between two points.
type Estimate struct {
	Walking         ModeEstimate `json:"walking"`
	PublicTransport ModeEstimate `json:"publicTransport"`
	Taxi            TaxiEstimate `json:"taxi"`
	// Geometry is the straight-line leg as an encoded polyline (precision 5).
	Geometry string `json:"geometry"`
}

// Option is one ranked travel option.
type Option struct {
	Mode            Mode
	DurationMinutes int
}

// Options returns the modes ordered from fastest to slowest. Ties keep the
// walking, public transport, taxi order.
func (e Estimate) Options() []Option {
	opts := []Option{
		{Mode: ModeWalking, DurationMinutes: e.Walking.DurationMinutes},
		{Mode: ModePublicTransport, DurationMinutes: e.PublicTransport.DurationMinutes},
		{Mode: ModeTaxi, DurationMinutes: e.Taxi.DurationMinutes},
	}
	sort.SliceStable(opts, func(i, j int) bool {
		return opts[i].DurationMinutes < opts[j].DurationMinutes
	})
	return opts
}

// Fastest returns the quickest mode.
func (e Estimate) Fastest() Mode {
	return e.Options()[0].Mode
}

// Calculate estimates travel between from and to. country selects the taxi
// fare table and may be empty.
func Calculate(from, to geo.Point, country string) Estimate {
	km := geo.HaversineKm(from, to)
	distance := geo.RoundTo(km, 1)

	transitSpeed := transitLongSpeed
	if km < transitShortKm {
		transitSpeed = transitShortSpeed
	}
	taxiSpeed := taxiLongSpeed
	if km < taxiShortKm {
		taxiSpeed = taxiShortSpeed
	}

	rate := RateFor(country)

	return Estimate{
		Walking: ModeEstimate{
			DurationMinutes: minutes(km, walkingSpeed),
			DistanceKm:      distance,
		},
		PublicTransport: ModeEstimate{
			DurationMinutes: minutes(km, transitSpeed) + transitWaitMin,
			DistanceKm:      distance,
		},
		Taxi: TaxiEstimate{
			ModeEstimate: ModeEstimate{
				DurationMinutes: minutes(km, taxiSpeed) + taxiPickupMin,
				DistanceKm:      distance,
			},
			EstimatedCost: rate.Fare(km),
		},
		Geometry: geo.EncodePolyline([]geo.Point{from, to}),
	}
}

func minutes(km, speed float64) int {
	return int(math.Round(km / speed * 60))
}

// Rate is a taxi fare table in local currency units.
type Rate struct {
	Base  float64
	PerKm float64
}

// Fare returns the rounded fare for a ride of km kilometres.
func (r Rate) Fare(km float64) int {
	return int(math.Round(r.Base + km*r.PerKm))
}

// DefaultRate applies to countries without a table.
var DefaultRate = Rate{Base: 3, PerKm: 1.5}

var taxiRates = map[string]Rate{
	"usa":       {Base: 3.5, PerKm: 2.5},
	"france":    {Base: 4, PerKm: 1.8},
	"japan":     {Base: 5, PerKm: 3},
	"uk":        {Base: 3, PerKm: 2},
	"indonesia": {Base: 1, PerKm: 0.5},
}

var countryAliases = map[string]string{
	"united states":            "usa",
	"united states of america": "usa",
	"us":                       "usa",
	"united kingdom":           "uk",
	"gb":                       "uk",
	"great britain":            "uk",
}

// RateFor returns the taxi fare table for a country name or code.
func RateFor(country string) Rate {
	key := strings.ToLower(strings.TrimSpace(country))
	if alias, ok := countryAliases[key]; ok {
		key = alias
	}
	if rate, ok := taxiRates[key]; ok {
		return rate
	}
	return DefaultRate
}
