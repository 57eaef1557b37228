package weather

import (
	"math"
	"time"
	"unicode/utf8"
)

// Simulate returns the weather for a destination on the given date.
//
// The result depends only on the calendar day and month of date (in its own
// location) and on the destination name, so repeated calls always agree.
func Simulate(date time.Time, destination string) Condition {
	month := int(date.Month()) - 1
	seed := date.Day() + utf8.RuneCountInString(destination) + month

	return sample(DistributionFor(ClassifyClimate(destination), date.Month()), seededRandom(seed))
}

// DistributionFor returns the condition probabilities for a climate in a month.
func DistributionFor(climate Climate, month time.Month) Distribution {
	switch climate {
	case ClimateTropical:
		if month >= time.June && month <= time.October {
			return tropicalMonsoon
		}
		return tropicalDry
	case ClimateDesert:
		return desertAllYear
	}

	switch {
	case month == time.December || month <= time.February:
		return temperateWinter
	case month <= time.May:
		return temperateSpring
	case month <= time.August:
		return temperateSummer
	default:
		return temperateAutumn
	}
}

// sample walks the conditions accumulating probability mass and returns the
// first whose cumulative mass exceeds r.
func sample(dist Distribution, r float64) Condition {
	cumulative := 0.0
	for i, cond := range Conditions {
		cumulative += dist[i]
		if r < cumulative {
			return cond
		}
	}
	return Sunny
}

// seededRandom maps an integer seed to a value in [0, 1).
func seededRandom(seed int) float64 {
	x := math.Sin(float64(seed)*9999) * 10000
	return x - math.Floor(x)
}
