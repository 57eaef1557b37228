package directions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/pkg/geo"
)

func TestCalculate_TenKilometres(t *testing.T) {
	from := geo.Point{Lat: 48.8566, Lng: 2.3522}
	// Roughly 10 km due north.
	to := geo.Point{Lat: 48.8566 + 10/111.195, Lng: 2.3522}

	est := Calculate(from, to, "France")

	assert.InDelta(t, 10.0, est.Walking.DistanceKm, 0.05)
	assert.Equal(t, 120, est.Walking.DurationMinutes)
	assert.Equal(t, 40, est.PublicTransport.DurationMinutes)
	assert.Equal(t, 22, est.Taxi.DurationMinutes)
	assert.Equal(t, 22, est.Taxi.EstimatedCost)

	assert.Less(t, est.Taxi.DurationMinutes, est.Walking.DurationMinutes)
	assert.GreaterOrEqual(t, est.Taxi.EstimatedCost, 0)
}

func TestCalculate_ShortTripUsesCitySpeeds(t *testing.T) {
	from := geo.Point{Lat: 35.6762, Lng: 139.6503}
	to := geo.Point{Lat: 35.6762 + 2/111.195, Lng: 139.6503}

	est := Calculate(from, to, "Japan")

	assert.InDelta(t, 2.0, est.Walking.DistanceKm, 0.05)
	assert.Equal(t, 24, est.Walking.DurationMinutes)
	assert.Equal(t, 18, est.PublicTransport.DurationMinutes)
	assert.Equal(t, 11, est.Taxi.DurationMinutes)
	assert.Equal(t, 11, est.Taxi.EstimatedCost)
}

func TestCalculate_CoincidentPoints(t *testing.T) {
	p := geo.Point{Lat: 51.5074, Lng: -0.1278}

	est := Calculate(p, p, "UK")

	assert.Equal(t, 0.0, est.Walking.DistanceKm)
	assert.Equal(t, 0, est.Walking.DurationMinutes)
	assert.Equal(t, transitWaitMin, est.PublicTransport.DurationMinutes)
	assert.Equal(t, taxiPickupMin, est.Taxi.DurationMinutes)
	assert.Equal(t, 3, est.Taxi.EstimatedCost)
}

func TestCalculate_Geometry(t *testing.T) {
	from := geo.Point{Lat: 38.5, Lng: -120.2}
	to := geo.Point{Lat: 40.7, Lng: -120.95}

	est := Calculate(from, to, "")
	require.NotEmpty(t, est.Geometry)

	points := geo.DecodePolyline(est.Geometry)
	require.Len(t, points, 2)
	assert.InDelta(t, from.Lat, points[0].Lat, 1e-5)
	assert.InDelta(t, to.Lng, points[1].Lng, 1e-5)
}

func TestRateFor(t *testing.T) {
	tests := []struct {
		country  string
		expected Rate
	}{
		{"USA", Rate{3.5, 2.5}},
		{"United States", Rate{3.5, 2.5}},
		{"us", Rate{3.5, 2.5}},
		{"France", Rate{4, 1.8}},
		{"japan", Rate{5, 3}},
		{"United Kingdom", Rate{3, 2}},
		{"GB", Rate{3, 2}},
		{" Indonesia ", Rate{1, 0.5}},
		{"Portugal", DefaultRate},
		{"", DefaultRate},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			assert.Equal(t, tt.expected, RateFor(tt.country))
		})
	}
}

func TestRate_Fare(t *testing.T) {
	assert.Equal(t, 3, DefaultRate.Fare(0))
	assert.Equal(t, 18, DefaultRate.Fare(10))
	assert.Equal(t, 2, Rate{Base: 1, PerKm: 0.5}.Fare(1))
}

func TestEstimate_Options(t *testing.T) {
	est := Estimate{
		Walking:         ModeEstimate{DurationMinutes: 120},
		PublicTransport: ModeEstimate{DurationMinutes: 40},
		Taxi:            TaxiEstimate{ModeEstimate: ModeEstimate{DurationMinutes: 22}},
	}

	opts := est.Options()
	require.Len(t, opts, 3)
	assert.Equal(t, ModeTaxi, opts[0].Mode)
	assert.Equal(t, ModePublicTransport, opts[1].Mode)
	assert.Equal(t, ModeWalking, opts[2].Mode)
	assert.Equal(t, ModeTaxi, est.Fastest())
}

func TestEstimate_OptionsTieKeepsOrder(t *testing.T) {
	est := Estimate{}
	assert.Equal(t, ModeWalking, est.Fastest())
}
