package geocoding

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/tripwise/tripwise/internal/geocoding"

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Geocoder is the external provider. Optional: without it only known
	// cities and cached results resolve.
	Geocoder Geocoder

	// Cache stores provider results. Optional.
	Cache Cache

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service resolves destination names.
type Service struct {
	geocoder Geocoder
	cache    Cache
	logger   zerolog.Logger
	requests metric.Int64Counter
}

// NewService creates a geocoding service.
func NewService(cfg ServiceConfig) *Service {
	requests, err := otel.Meter(meterName).Int64Counter(
		"tripwise.geocode.requests",
		metric.WithDescription("Geocoding lookups by result source"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		cfg.Logger.Warn().Err(err).Msg("failed to create geocode counter")
	}

	return &Service{
		geocoder: cfg.Geocoder,
		cache:    cfg.Cache,
		logger:   cfg.Logger,
		requests: requests,
	}
}

// Locate resolves name to a location. It returns nil, nil when nothing
// matches.
func (s *Service) Locate(ctx context.Context, name string) (*Result, error) {
	query := strings.TrimSpace(name)
	if query == "" {
		return nil, &Error{
			Provider: "tripwise",
			Code:     "EMPTY_QUERY",
			Message:  "destination name is empty",
			Err:      ErrInvalidQuery,
		}
	}

	if result, ok := LookupKnown(query); ok {
		s.record(ctx, "known")
		return result, nil
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, query)
		if err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("geocode cache read failed")
		} else if cached != nil {
			cached.Source = SourceCache
			s.record(ctx, "cache")
			return cached, nil
		}
	}

	if s.geocoder == nil {
		s.record(ctx, "miss")
		return nil, nil
	}

	result, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		s.record(ctx, "error")
		return nil, fmt.Errorf("geocoding %q: %w", query, err)
	}
	if result == nil {
		s.record(ctx, "miss")
		return nil, nil
	}
	result.Source = SourceProvider
	s.record(ctx, "provider")

	if s.cache != nil {
		if err := s.cache.Set(ctx, query, result); err != nil {
			s.logger.Warn().Err(err).Str("query", query).Msg("geocode cache write failed")
		}
	}

	s.logger.Debug().
		Str("query", query).
		Str("provider", s.geocoder.Name()).
		Float64("lat", result.Lat).
		Float64("lng", result.Lng).
		Msg("geocoded destination")

	return result, nil
}

func (s *Service) record(ctx context.Context, outcome string) {
	if s.requests == nil {
		return
	}
	s.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
