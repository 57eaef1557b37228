// Package worker provides background job processing for TripWise.
package worker

import (
	"time"
)

// SweepConfig holds configuration for the weather sweep job.
type SweepConfig struct {
	// Window is how far ahead trips are re-evaluated, counted from today.
	// Default: 7 days
	Window time.Duration

	// Concurrency is the number of trips processed at once.
	// Default: 3
	Concurrency int

	// Timeout bounds the processing of one trip.
	// Default: 30 seconds
	Timeout time.Duration
}

// DefaultSweepConfig returns the default sweep configuration.
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Window:      7 * 24 * time.Hour,
		Concurrency: 3,
		Timeout:     30 * time.Second,
	}
}

func (c SweepConfig) withDefaults() SweepConfig {
	def := DefaultSweepConfig()
	if c.Window <= 0 {
		c.Window = def.Window
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	return c
}
