package itinerary

import "math/rand/v2"

// RandomSource yields uniformly distributed values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultRandom returns a goroutine-safe source backed by math/rand/v2.
func DefaultRandom() RandomSource {
	return globalSource{}
}

// randomIndex maps a draw from rng onto [0, n).
func randomIndex(rng RandomSource, n int) int {
	i := int(rng.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}
