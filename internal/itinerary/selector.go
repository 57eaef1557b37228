package itinerary

import "github.com/tripwise/tripwise/internal/catalog"

// UsedSet records which indices of a pool have been picked.
type UsedSet map[int]struct{}

// SelectionState tracks picks per pool for one generation run.
type SelectionState struct {
	Outdoor   UsedSet
	Indoor    UsedSet
	Nightlife UsedSet
}

// NewSelectionState returns an empty state.
func NewSelectionState() *SelectionState {
	return &SelectionState{
		Outdoor:   make(UsedSet),
		Indoor:    make(UsedSet),
		Nightlife: make(UsedSet),
	}
}

// Selector picks POIs without repeating until a pool is exhausted.
type Selector struct {
	rng RandomSource
}

// NewSelector creates a selector. A nil source uses DefaultRandom.
func NewSelector(rng RandomSource) *Selector {
	if rng == nil {
		rng = DefaultRandom()
	}
	return &Selector{rng: rng}
}

// Select picks a POI uniformly among the indices not in used and marks it.
// Once every index is used the set is cleared and the pool cycles.
// It returns false only for an empty pool.
func (s *Selector) Select(pool []catalog.POI, used UsedSet) (catalog.POI, bool) {
	if len(pool) == 0 {
		return catalog.POI{}, false
	}

	available := make([]int, 0, len(pool))
	for i := range pool {
		if _, ok := used[i]; !ok {
			available = append(available, i)
		}
	}

	var idx int
	if len(available) == 0 {
		clear(used)
		idx = randomIndex(s.rng, len(pool))
	} else {
		idx = available[randomIndex(s.rng, len(available))]
	}
	used[idx] = struct{}{}

	return pool[idx], true
}
