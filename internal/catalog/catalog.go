// Package catalog provides the destination knowledge base used to build
// itineraries: curated points of interest per travel style, with a
// coordinate-driven generator for destinations that are not curated.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/tripwise/tripwise/pkg/geo"
)

//go:embed destinations.yaml
var destinationsYAML []byte

// TravelStyle selects which POI pools a trip draws from.
type TravelStyle string

const (
	StyleRelax     TravelStyle = "relax"
	StyleAdventure TravelStyle = "adventure"
	StyleCultural  TravelStyle = "cultural"
	StyleFood      TravelStyle = "food"
)

// TravelStyles lists the supported styles.
var TravelStyles = []TravelStyle{StyleRelax, StyleAdventure, StyleCultural, StyleFood}

// Valid reports whether s is a supported travel style.
func (s TravelStyle) Valid() bool {
	for _, style := range TravelStyles {
		if s == style {
			return true
		}
	}
	return false
}

// BudgetLevel selects a price tier.
type BudgetLevel string

const (
	BudgetLow    BudgetLevel = "low"
	BudgetMedium BudgetLevel = "medium"
	BudgetHigh   BudgetLevel = "high"
)

// BudgetLevels lists the supported budget levels.
var BudgetLevels = []BudgetLevel{BudgetLow, BudgetMedium, BudgetHigh}

// Valid reports whether b is a supported budget level.
func (b BudgetLevel) Valid() bool {
	return b == BudgetLow || b == BudgetMedium || b == BudgetHigh
}

// PriceTiers holds the per-person price of a POI at each budget level.
type PriceTiers struct {
	Low    int `yaml:"low" json:"low"`
	Medium int `yaml:"medium" json:"medium"`
	High   int `yaml:"high" json:"high"`
}

// For returns the tier matching the budget level. Unknown levels use medium.
func (p PriceTiers) For(level BudgetLevel) int {
	switch level {
	case BudgetLow:
		return p.Low
	case BudgetHigh:
		return p.High
	default:
		return p.Medium
	}
}

// POI is a point of interest an activity can be built from.
type POI struct {
	Name          string     `yaml:"name"`
	Lat           float64    `yaml:"lat"`
	Lng           float64    `yaml:"lng"`
	Address       string     `yaml:"address"`
	Activity      string     `yaml:"activity"`
	DurationHours int        `yaml:"duration"`
	Price         PriceTiers `yaml:"price"`
}

// Point returns the POI location.
func (p POI) Point() geo.Point {
	return geo.Point{Lat: p.Lat, Lng: p.Lng}
}

// Pools groups the POIs of one travel style by activity slot.
type Pools struct {
	Outdoor   []POI `yaml:"outdoor"`
	Indoor    []POI `yaml:"indoor"`
	Nightlife []POI `yaml:"nightlife"`
}

// Destination is immutable reference data for a place.
type Destination struct {
	Key      string                `yaml:"key"`
	Center   geo.Point             `yaml:"center"`
	Country  string                `yaml:"country"`
	Currency string                `yaml:"currency"`
	Timezone string                `yaml:"timezone"`
	Image    string                `yaml:"image"`
	Styles   map[TravelStyle]Pools `yaml:"styles"`
}

// PoolsFor returns the pools for a style, falling back to relax when the
// destination does not carry the style.
func (d *Destination) PoolsFor(style TravelStyle) Pools {
	if pools, ok := d.Styles[style]; ok {
		return pools
	}
	return d.Styles[StyleRelax]
}

// Catalog looks up destinations by name.
type Catalog interface {
	// Lookup returns the curated destination whose key is contained in name.
	Lookup(name string) (*Destination, bool)
	// GenerateFallback builds a destination around a known coordinate.
	GenerateFallback(lat, lng float64, name string) *Destination
}

// Resolve returns the curated destination for name when one matches, a
// generated destination when center is known, and the default template
// otherwise.
func Resolve(c Catalog, name string, center *geo.Point) *Destination {
	if dest, ok := c.Lookup(name); ok {
		return dest
	}
	if center != nil && !center.IsZero() {
		return c.GenerateFallback(center.Lat, center.Lng, name)
	}
	return Default()
}

type catalogFile struct {
	Destinations []*Destination `yaml:"destinations"`
	Default      *Destination   `yaml:"default"`
}

// Static is a Catalog backed by a fixed, ordered list of destinations.
type Static struct {
	destinations []*Destination
}

// Ensure Static implements Catalog.
var _ Catalog = (*Static)(nil)

// NewStatic creates a catalog that matches destinations in the given order.
func NewStatic(destinations ...*Destination) *Static {
	return &Static{destinations: destinations}
}

// Parse decodes a catalog document and validates its pools.
func Parse(data []byte) (*Static, *Destination, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	for _, dest := range file.Destinations {
		if dest.Key == "" {
			return nil, nil, fmt.Errorf("destination without key")
		}
		dest.Key = strings.ToLower(dest.Key)
		if err := validatePools(dest); err != nil {
			return nil, nil, err
		}
	}
	if file.Default != nil {
		if err := validatePools(file.Default); err != nil {
			return nil, nil, err
		}
	}

	return NewStatic(file.Destinations...), file.Default, nil
}

func validatePools(dest *Destination) error {
	for _, style := range TravelStyles {
		pools, ok := dest.Styles[style]
		if !ok {
			return fmt.Errorf("destination %q: missing style %q", dest.Key, style)
		}
		if len(pools.Outdoor) == 0 || len(pools.Indoor) == 0 || len(pools.Nightlife) == 0 {
			return fmt.Errorf("destination %q: style %q has an empty pool", dest.Key, style)
		}
	}
	return nil
}

// Lookup matches the first destination whose key is a case-insensitive
// substring of name.
func (s *Static) Lookup(name string) (*Destination, bool) {
	lower := strings.ToLower(name)
	for _, dest := range s.destinations {
		if strings.Contains(lower, dest.Key) {
			return dest, true
		}
	}
	return nil, false
}

// GenerateFallback implements Catalog.
func (s *Static) GenerateFallback(lat, lng float64, name string) *Destination {
	return Generate(lat, lng, name)
}

// Destinations returns the curated destinations in match order.
func (s *Static) Destinations() []*Destination {
	out := make([]*Destination, len(s.destinations))
	copy(out, s.destinations)
	return out
}

var (
	embedded     *Static
	embeddedDflt *Destination
	embeddedOnce sync.Once
)

func loadEmbedded() {
	embeddedOnce.Do(func() {
		var err error
		embedded, embeddedDflt, err = Parse(destinationsYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded destinations are invalid: %v", err))
		}
		if embeddedDflt == nil {
			panic("catalog: embedded destinations have no default template")
		}
	})
}

// Builtin returns the curated catalog compiled into the binary.
func Builtin() *Static {
	loadEmbedded()
	return embedded
}

// Default returns the template used when nothing is known about a destination.
func Default() *Destination {
	loadEmbedded()
	return embeddedDflt
}
