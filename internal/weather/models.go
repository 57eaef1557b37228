// Package weather simulates daily weather conditions for trip destinations.
//
// The simulator is a deterministic pseudo-random generator weighted by
// climate and season. It does not forecast real weather.
package weather

import "strings"

// Condition is the simulated weather for a single day.
type Condition string

const (
	Sunny  Condition = "sunny"
	Cloudy Condition = "cloudy"
	Rainy  Condition = "rainy"
	Stormy Condition = "stormy"
)

// Conditions lists every condition in the fixed order used for sampling
// and for cycling to the next condition.
var Conditions = []Condition{Sunny, Cloudy, Rainy, Stormy}

// IsRainy reports whether the condition calls for indoor plans.
func (c Condition) IsRainy() bool {
	return c == Rainy || c == Stormy
}

// Next returns the condition that follows c in cyclic order.
// Unknown conditions are treated as sunny.
func (c Condition) Next() Condition {
	for i, cond := range Conditions {
		if cond == c {
			return Conditions[(i+1)%len(Conditions)]
		}
	}
	return Cloudy
}

// Valid reports whether c is one of the known conditions.
func (c Condition) Valid() bool {
	for _, cond := range Conditions {
		if cond == c {
			return true
		}
	}
	return false
}

// Climate is the coarse climate bucket of a destination.
type Climate string

const (
	ClimateTropical  Climate = "tropical"
	ClimateDesert    Climate = "desert"
	ClimateTemperate Climate = "temperate"
)

var (
	tropicalKeywords = []string{"bali", "thailand", "hawaii", "caribbean"}
	desertKeywords   = []string{"dubai", "egypt", "morocco"}
)

// ClassifyClimate buckets a destination by keyword containment.
func ClassifyClimate(destination string) Climate {
	name := strings.ToLower(destination)
	if containsAny(name, tropicalKeywords) {
		return ClimateTropical
	}
	if containsAny(name, desertKeywords) {
		return ClimateDesert
	}
	return ClimateTemperate
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

// Distribution is the probability mass of each condition, in Conditions order.
type Distribution [4]float64

// Seasonal probability tables.
var (
	tropicalMonsoon = Distribution{0.30, 0.30, 0.35, 0.05}
	tropicalDry     = Distribution{0.60, 0.25, 0.12, 0.03}
	desertAllYear   = Distribution{0.75, 0.20, 0.04, 0.01}
	temperateWinter = Distribution{0.25, 0.35, 0.30, 0.10}
	temperateSpring = Distribution{0.40, 0.30, 0.25, 0.05}
	temperateSummer = Distribution{0.60, 0.25, 0.10, 0.05}
	temperateAutumn = Distribution{0.35, 0.35, 0.25, 0.05}
)
