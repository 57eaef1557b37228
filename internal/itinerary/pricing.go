package itinerary

import (
	"math"

	"github.com/tripwise/tripwise/internal/catalog"
)

var groupMultipliers = map[TripType]float64{
	TripSolo:    1.0,
	TripCouple:  0.9,
	TripFamily:  0.8,
	TripFriends: 0.85,
}

// Multiplier returns the per-person price factor for a trip type.
// Unknown types pay full price.
func Multiplier(t TripType) float64 {
	if m, ok := groupMultipliers[t]; ok {
		return m
	}
	return 1.0
}

// Price returns the per-person price of a POI for the budget and trip type.
func Price(poi catalog.POI, budget catalog.BudgetLevel, tripType TripType) int {
	return int(math.Round(float64(poi.Price.For(budget)) * Multiplier(tripType)))
}
