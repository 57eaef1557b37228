package itinerary

import (
	"github.com/tripwise/tripwise/internal/catalog"
	"github.com/tripwise/tripwise/internal/weather"
)

// GeneratorConfig holds configuration for the itinerary generator.
type GeneratorConfig struct {
	Catalog catalog.Catalog
	Random  RandomSource
}

// Generator builds itineraries.
type Generator struct {
	catalog  catalog.Catalog
	selector *Selector
}

// NewGenerator creates a generator. Missing fields default to the builtin
// catalog and the global random source.
func NewGenerator(cfg GeneratorConfig) *Generator {
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.Builtin()
	}
	return &Generator{
		catalog:  cfg.Catalog,
		selector: NewSelector(cfg.Random),
	}
}

// Generate returns one plan per day of the request, in day order.
func (g *Generator) Generate(req Request) []DayPlan {
	if req.Days <= 0 {
		return nil
	}
	if req.TripType == "" {
		req.TripType = TripSolo
	}

	dest := catalog.Resolve(g.catalog, req.Destination, req.Center)
	pools := dest.PoolsFor(req.Style)
	state := NewSelectionState()

	plans := make([]DayPlan, 0, req.Days)
	for d := 1; d <= req.Days; d++ {
		date := req.StartDate.AddDate(0, 0, d-1)
		cond := weather.Simulate(date, req.Destination)

		mainPool, mainUsed, mainKind := pools.Outdoor, state.Outdoor, Outdoor
		altPool, altUsed, altKind := pools.Indoor, state.Indoor, Indoor
		if cond.IsRainy() {
			mainPool, mainUsed, mainKind = pools.Indoor, state.Indoor, Indoor
			altPool, altUsed, altKind = pools.Outdoor, state.Outdoor, Outdoor
		}

		dayMain, _ := g.selector.Select(mainPool, mainUsed)
		dayAlt, _ := g.selector.Select(altPool, altUsed)
		nightMain, _ := g.selector.Select(pools.Nightlife, state.Nightlife)
		nightAlt, _ := g.selector.Select(pools.Indoor, make(UsedSet))

		plans = append(plans, DayPlan{
			DayNumber:         d,
			Date:              date,
			Weather:           cond,
			DaytimeMain:       newActivity(dayMain, mainKind, req),
			DaytimeAlt:        newActivity(dayAlt, altKind, req),
			NighttimeMain:     newActivity(nightMain, Indoor, req),
			NighttimeAlt:      newActivity(nightAlt, Indoor, req),
			SelectedDaytime:   SelectMain,
			SelectedNighttime: SelectMain,
		})
	}
	return plans
}

func newActivity(poi catalog.POI, kind Kind, req Request) Activity {
	return Activity{
		Name:          poi.Activity,
		Kind:          kind,
		DurationHours: poi.DurationHours,
		Location: Location{
			Lat:     poi.Lat,
			Lng:     poi.Lng,
			Name:    poi.Name,
			Address: poi.Address,
		},
		PricePerPerson: Price(poi, req.Budget, req.TripType),
	}
}
