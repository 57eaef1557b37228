package catalog

import (
	"fmt"
	"math"

	"github.com/tripwise/tripwise/pkg/geo"
)

type poiTemplate struct {
	name     string
	activity string
	duration int
	price    PriceTiers
}

// Coordinate spread (degrees) and angle offsets for one generated pool.
type scatter struct {
	latSpread, lngSpread float64
	latOffset, lngOffset int
}

const poisPerPool = 5

var (
	outdoorScatter   = scatter{latSpread: 0.015, lngSpread: 0.02, latOffset: 0, lngOffset: 2}
	indoorScatter    = scatter{latSpread: 0.012, lngSpread: 0.018, latOffset: 1, lngOffset: 3}
	nightlifeScatter = scatter{latSpread: 0.01, lngSpread: 0.015, latOffset: 2, lngOffset: 1}
)

// Generate builds a destination whose POIs are spread around (lat, lng).
// Output is fully determined by its inputs.
func Generate(lat, lng float64, name string) *Destination {
	dest := &Destination{
		Key:      name,
		Center:   geo.Point{Lat: lat, Lng: lng},
		Country:  "Unknown",
		Currency: "USD",
		Timezone: "UTC",
		Image:    "default",
		Styles:   make(map[TravelStyle]Pools, len(TravelStyles)),
	}

	for _, style := range TravelStyles {
		dest.Styles[style] = Pools{
			Outdoor:   scatterPOIs(outdoorTemplates(name, style), lat, lng, name, outdoorScatter),
			Indoor:    scatterPOIs(indoorTemplates(name), lat, lng, name, indoorScatter),
			Nightlife: scatterPOIs(nightlifeTemplates(name), lat, lng, name, nightlifeScatter),
		}
	}
	return dest
}

func scatterPOIs(templates []poiTemplate, lat, lng float64, name string, s scatter) []POI {
	pois := make([]POI, len(templates))
	for i, t := range templates {
		pois[i] = POI{
			Name:          t.name,
			Lat:           coord(i, s.latOffset, lat, s.latSpread),
			Lng:           coord(i, s.lngOffset, lng, s.lngSpread),
			Address:       fmt.Sprintf("%s, %s", t.name, name),
			Activity:      t.activity,
			DurationHours: t.duration,
			Price:         t.price,
		}
	}
	return pois
}

// coord places the i-th POI on a circle around base. The radius grows with i
// so no two POIs of a pool coincide.
func coord(i, offset int, base, spread float64) float64 {
	angle := float64(i+offset) / poisPerPool * 2 * math.Pi
	radius := spread * (0.5 + 0.1*float64(i))
	return base + math.Cos(angle)*radius
}

func outdoorTemplates(name string, style TravelStyle) []poiTemplate {
	walk := "Exploring Park Walk"
	if style == StyleRelax {
		walk = "Relaxing Park Walk"
	}
	return []poiTemplate{
		{name + " Park", walk, 3, PriceTiers{0, 15, 40}},
		{name + " Gardens", "Garden Visit", 2, PriceTiers{5, 20, 45}},
		{"Historic " + name, "Historic District Walk", 3, PriceTiers{0, 25, 60}},
		{name + " Waterfront", "Waterfront Stroll", 2, PriceTiers{0, 10, 30}},
		{name + " Market", "Local Market Visit", 2, PriceTiers{15, 35, 70}},
	}
}

func indoorTemplates(name string) []poiTemplate {
	return []poiTemplate{
		{name + " Museum", "Museum Tour", 3, PriceTiers{12, 25, 55}},
		{"Art Gallery", "Art Exhibition Visit", 2, PriceTiers{10, 22, 50}},
		{"Wellness Center", "Spa & Wellness", 3, PriceTiers{45, 90, 180}},
		{"Shopping District", "Shopping Experience", 3, PriceTiers{0, 50, 150}},
		{"Cultural Center", "Cultural Experience", 2, PriceTiers{15, 35, 75}},
	}
}

func nightlifeTemplates(name string) []poiTemplate {
	return []poiTemplate{
		{name + " Rooftop", "Rooftop Evening Drinks", 2, PriceTiers{25, 55, 110}},
		{"Live Music Venue", "Live Music Night", 3, PriceTiers{20, 45, 95}},
		{"Fine Dining", "Dinner Experience", 2, PriceTiers{40, 80, 160}},
		{"Night Market", "Evening Market Exploration", 2, PriceTiers{15, 35, 75}},
		{"Entertainment Area", "Nightlife Experience", 3, PriceTiers{30, 65, 140}},
	}
}
