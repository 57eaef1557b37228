// Package geocoding resolves destination names to coordinates.
//
// Lookups try a table of well-known cities first, then a cache, then an
// external geocoding provider.
package geocoding

import (
	"context"
	"errors"

	"github.com/tripwise/tripwise/pkg/geo"
)

// Sentinel errors for geocoding operations.
var (
	// ErrProviderUnavailable indicates the geocoding provider is down or the circuit breaker is open.
	ErrProviderUnavailable = errors.New("geocoding provider unavailable")
	// ErrRateLimitExceeded indicates the provider rejected the request for quota reasons.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrInvalidQuery indicates the query cannot be geocoded.
	ErrInvalidQuery = errors.New("invalid geocoding query")
)

// Source tells where a result came from.
type Source string

const (
	SourceKnown    Source = "known"
	SourceCache    Source = "cache"
	SourceProvider Source = "provider"
)

// Result is a resolved location.
type Result struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Country     string  `json:"country,omitempty"`
	DisplayName string  `json:"displayName,omitempty"`
	Source      Source  `json:"source,omitempty"`
}

// Point returns the result coordinates.
func (r *Result) Point() geo.Point {
	return geo.Point{Lat: r.Lat, Lng: r.Lng}
}

// Geocoder resolves free-text queries through an external provider.
type Geocoder interface {
	// Geocode returns the best match for query, or nil when nothing matches.
	Geocode(ctx context.Context, query string) (*Result, error)
	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// Cache stores provider results.
type Cache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, query string) (*Result, error)
	Set(ctx context.Context, query string, result *Result) error
}

// Error provides detailed error information from the geocoding provider.
type Error struct {
	Provider string // Provider that generated the error
	Code     string // Error code from the provider
	Message  string // Human-readable error message
	Err      error  // Underlying error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error is transient and the request can be retried.
func (e *Error) IsRetryable() bool {
	return errors.Is(e.Err, ErrProviderUnavailable) || errors.Is(e.Err, ErrRateLimitExceeded)
}
