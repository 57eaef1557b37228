package geocoding_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwise/tripwise/internal/geocoding"
)

type fakeGeocoder struct {
	result *geocoding.Result
	err    error
	calls  int
}

func (f *fakeGeocoder) Geocode(_ context.Context, _ string) (*geocoding.Result, error) {
	f.calls++
	if f.result == nil {
		return nil, f.err
	}
	r := *f.result
	return &r, f.err
}

func (f *fakeGeocoder) Name() string { return "fake" }

type memoryCache struct {
	entries map[string]*geocoding.Result
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]*geocoding.Result)}
}

func (m *memoryCache) Get(_ context.Context, query string) (*geocoding.Result, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.entries[query], nil
}

func (m *memoryCache) Set(_ context.Context, query string, result *geocoding.Result) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[query] = result
	return nil
}

func TestService_Locate_KnownCity(t *testing.T) {
	geocoder := &fakeGeocoder{}
	svc := geocoding.NewService(geocoding.ServiceConfig{Geocoder: geocoder, Logger: zerolog.Nop()})

	result, err := svc.Locate(context.Background(), "Kyoto? no, Tokyo please")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, 35.6762, result.Lat)
	assert.Equal(t, "Japan", result.Country)
	assert.Equal(t, geocoding.SourceKnown, result.Source)
	assert.Zero(t, geocoder.calls)
}

func TestService_Locate_KnownCityTableOrder(t *testing.T) {
	svc := geocoding.NewService(geocoding.ServiceConfig{Logger: zerolog.Nop()})

	// "nice" comes before "lyon" in the table.
	result, err := svc.Locate(context.Background(), "Lyon day trip from Nice")
	require.NoError(t, err)
	assert.Equal(t, 43.7102, result.Lat)
}

func TestService_Locate_CacheHit(t *testing.T) {
	cache := newMemoryCache()
	cache.entries["Reykjavik"] = &geocoding.Result{Lat: 64.1466, Lng: -21.9426}
	geocoder := &fakeGeocoder{}

	svc := geocoding.NewService(geocoding.ServiceConfig{Geocoder: geocoder, Cache: cache, Logger: zerolog.Nop()})

	result, err := svc.Locate(context.Background(), "  Reykjavik ")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, geocoding.SourceCache, result.Source)
	assert.Zero(t, geocoder.calls)
}

func TestService_Locate_ProviderResultIsCached(t *testing.T) {
	cache := newMemoryCache()
	geocoder := &fakeGeocoder{result: &geocoding.Result{Lat: 64.1466, Lng: -21.9426, Country: "Iceland"}}

	svc := geocoding.NewService(geocoding.ServiceConfig{Geocoder: geocoder, Cache: cache, Logger: zerolog.Nop()})

	result, err := svc.Locate(context.Background(), "Reykjavik")
	require.NoError(t, err)
	assert.Equal(t, geocoding.SourceProvider, result.Source)
	require.Contains(t, cache.entries, "Reykjavik")

	result, err = svc.Locate(context.Background(), "Reykjavik")
	require.NoError(t, err)
	assert.Equal(t, geocoding.SourceCache, result.Source)
	assert.Equal(t, 1, geocoder.calls)
}

func TestService_Locate_CacheErrorsAreIgnored(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("redis down")
	cache.setErr = errors.New("redis down")
	geocoder := &fakeGeocoder{result: &geocoding.Result{Lat: 64.1, Lng: -21.9}}

	svc := geocoding.NewService(geocoding.ServiceConfig{Geocoder: geocoder, Cache: cache, Logger: zerolog.Nop()})

	result, err := svc.Locate(context.Background(), "Reykjavik")
	require.NoError(t, err)
	assert.NotNil(t, result)
}

func TestService_Locate_NoMatch(t *testing.T) {
	svc := geocoding.NewService(geocoding.ServiceConfig{Geocoder: &fakeGeocoder{}, Logger: zerolog.Nop()})

	result, err := svc.Locate(context.Background(), "Nowhereville")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestService_Locate_NoProvider(t *testing.T) {
	svc := geocoding.NewService(geocoding.ServiceConfig{Logger: zerolog.Nop()})

	result, err := svc.Locate(context.Background(), "Nowhereville")
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestService_Locate_ProviderError(t *testing.T) {
	geocoder := &fakeGeocoder{err: &geocoding.Error{
		Provider: "fake",
		Code:     "RATE_LIMIT",
		Message:  "slow down",
		Err:      geocoding.ErrRateLimitExceeded,
	}}
	svc := geocoding.NewService(geocoding.ServiceConfig{Geocoder: geocoder, Logger: zerolog.Nop()})

	_, err := svc.Locate(context.Background(), "Nowhereville")
	assert.ErrorIs(t, err, geocoding.ErrRateLimitExceeded)
}

func TestService_Locate_EmptyName(t *testing.T) {
	svc := geocoding.NewService(geocoding.ServiceConfig{Logger: zerolog.Nop()})

	_, err := svc.Locate(context.Background(), "   ")
	assert.ErrorIs(t, err, geocoding.ErrInvalidQuery)
}

func TestLookupKnown(t *testing.T) {
	result, ok := geocoding.LookupKnown("Weekend in BALI")
	require.True(t, ok)
	assert.Equal(t, "Indonesia", result.Country)
	assert.True(t, result.Point().Valid())

	_, ok = geocoding.LookupKnown("Reykjavik")
	assert.False(t, ok)
}

func TestLookupKnown_LongestKeyWins(t *testing.T) {
	tests := []struct {
		query   string
		country string
		lat     float64
	}{
		{query: "Venice", country: "Italy", lat: 45.4408},
		{query: "Venice, Italy", country: "Italy", lat: 45.4408},
		{query: "Nice", country: "France", lat: 43.7102},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			result, ok := geocoding.LookupKnown(tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.country, result.Country)
			assert.InDelta(t, tt.lat, result.Lat, 0.0001)
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &geocoding.Error{Message: "failed", Err: geocoding.ErrProviderUnavailable}
	assert.Equal(t, "failed: geocoding provider unavailable", err.Error())
	assert.Equal(t, "bare", (&geocoding.Error{Message: "bare"}).Error())
}
