package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/pkg/geo"
)

func TestGenerate_Shape(t *testing.T) {
	dest := Generate(64.1466, -21.9426, "Reykjavik")

	require.Len(t, dest.Styles, len(TravelStyles))
	for _, style := range TravelStyles {
		pools := dest.Styles[style]
		for label, pool := range map[string][]POI{
			"outdoor":   pools.Outdoor,
			"indoor":    pools.Indoor,
			"nightlife": pools.Nightlife,
		} {
			require.Len(t, pool, 5, "%s/%s", style, label)

			seen := make(map[geo.Point]bool)
			for _, poi := range pool {
				assert.False(t, seen[poi.Point()], "%s/%s repeats %v", style, label, poi.Point())
				seen[poi.Point()] = true
				assert.False(t, poi.Point().IsZero())
			}
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(38.7223, -9.1393, "Lisbon")
	b := Generate(38.7223, -9.1393, "Lisbon")
	assert.Equal(t, a, b)
}

func TestGenerate_NamesAndAddresses(t *testing.T) {
	dest := Generate(38.7223, -9.1393, "Lisbon")

	relax := dest.Styles[StyleRelax]
	assert.Equal(t, "Lisbon Park", relax.Outdoor[0].Name)
	assert.Equal(t, "Relaxing Park Walk", relax.Outdoor[0].Activity)
	assert.Equal(t, "Historic Lisbon", relax.Outdoor[2].Name)
	assert.Equal(t, "Historic Lisbon, Lisbon", relax.Outdoor[2].Address)
	assert.Equal(t, "Lisbon Museum", relax.Indoor[0].Name)
	assert.Equal(t, "Lisbon Rooftop", relax.Nightlife[0].Name)

	assert.Equal(t, "Exploring Park Walk", dest.Styles[StyleAdventure].Outdoor[0].Activity)
	assert.Equal(t, PriceTiers{Low: 45, Medium: 90, High: 180}, relax.Indoor[2].Price)

	assert.Equal(t, "Unknown", dest.Country)
	assert.Equal(t, "UTC", dest.Timezone)
}

func TestGenerate_StaysNearCenter(t *testing.T) {
	center := geo.Point{Lat: 38.7223, Lng: -9.1393}
	dest := Generate(center.Lat, center.Lng, "Lisbon")

	for _, style := range TravelStyles {
		for _, poi := range dest.Styles[style].Outdoor {
			assert.Less(t, geo.HaversineKm(center, poi.Point()), 5.0)
		}
	}
}

func TestCoord_FirstPointOnAxis(t *testing.T) {
	// Angle 0 at i=0 places the point at base + spread/2.
	assert.InDelta(t, 10.0075, coord(0, 0, 10, 0.015), 1e-9)
}
