package itinerary

import (
	"fmt"
	"time"

	"github.com/tripwise/tripwise/internal/weather"
)

// DefaultChangeProbability is the chance that a re-evaluation finds a
// different forecast.
const DefaultChangeProbability = 0.2

// AdjusterConfig holds configuration for the weather adjuster.
type AdjusterConfig struct {
	// ChangeProbability gates each re-evaluation. Values outside (0, 1]
	// use DefaultChangeProbability.
	ChangeProbability float64
	Random            RandomSource
}

// Adjuster re-evaluates the weather of planned days and swaps activities
// when the forecast changes.
type Adjuster struct {
	probability float64
	rng         RandomSource
}

// NewAdjuster creates an adjuster.
func NewAdjuster(cfg AdjusterConfig) *Adjuster {
	if cfg.ChangeProbability <= 0 || cfg.ChangeProbability > 1 {
		cfg.ChangeProbability = DefaultChangeProbability
	}
	if cfg.Random == nil {
		cfg.Random = DefaultRandom()
	}
	return &Adjuster{probability: cfg.ChangeProbability, rng: cfg.Random}
}

// Adjustment is the outcome of a re-evaluation.
type Adjustment struct {
	Changed  bool
	Plan     DayPlan
	Previous weather.Condition
	Message  string
}

// Reevaluate decides whether the forecast for the day changed and, if so,
// returns the plan with the new weather and the daytime pair re-ordered.
func (a *Adjuster) Reevaluate(plan DayPlan, destination string) Adjustment {
	previous := plan.Weather
	if a.rng.Float64() >= a.probability {
		return Adjustment{Plan: plan, Previous: previous}
	}

	offset := time.Duration(a.rng.Float64() * float64(24*time.Hour))
	next := weather.Simulate(plan.Date.Add(offset), destination)
	if next == previous {
		next = previous.Next()
	}

	plan.DaytimeMain, plan.DaytimeAlt = ApplyRainSwap(plan.DaytimeMain, plan.DaytimeAlt, next)
	plan.Weather = next
	plan.WeatherAdjusted = true

	return Adjustment{
		Changed:  true,
		Plan:     plan,
		Previous: previous,
		Message:  ChangeMessage(destination, plan.DayNumber, previous, next),
	}
}

// ApplyRainSwap orders a daytime pair for the given weather: indoor first
// when it rains, outdoor first otherwise. Pairs that already fit are
// returned unchanged.
func ApplyRainSwap(main, alt Activity, cond weather.Condition) (Activity, Activity) {
	if cond.IsRainy() {
		if main.Kind == Outdoor {
			return alt, main
		}
		return main, alt
	}
	if main.Kind == Indoor && alt.Kind == Outdoor {
		return alt, main
	}
	return main, alt
}

// ChangeMessage formats the notification sent when a day's weather changes.
func ChangeMessage(destination string, day int, from, to weather.Condition) string {
	return fmt.Sprintf("Weather update for your %s trip on Day %d: Changed from %s to %s. Activities have been adjusted.",
		destination, day, from, to)
}
