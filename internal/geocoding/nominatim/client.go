// Package nominatim provides a client for the OpenStreetMap Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripwise/tripwise/internal/geocoding"
	"github.com/tripwise/tripwise/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "nominatim"

	// DefaultBaseURL is the public Nominatim instance.
	DefaultBaseURL = "https://nominatim.openstreetmap.org"

	// DefaultUserAgent identifies the application, as the usage policy requires.
	DefaultUserAgent = "TripWise/1.0"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Nominatim client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to the public instance).
	BaseURL string

	// UserAgent is sent on every request (optional, defaults to DefaultUserAgent).
	UserAgent string

	// Email is passed along as a contact address for heavy users (optional).
	Email string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Nominatim API client.
type Client struct {
	baseURL    string
	userAgent  string
	email      string
	httpClient HTTPDoer
	resilient  *resilience.Client
	logger     zerolog.Logger
}

// Ensure Client implements geocoding.Geocoder.
var _ geocoding.Geocoder = (*Client)(nil)

// NewClient creates a new Nominatim client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	c := &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		email:      cfg.Email,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}

	if c.httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		clientCfg.Timeout = timeout
		clientCfg.UserAgent = userAgent
		clientCfg.Logger = cfg.Logger
		c.resilient = resilience.NewClient(clientCfg)
		c.httpClient = c.resilient
	}

	return c
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CircuitState reports the circuit breaker state, or "unknown" when the
// client was built with a custom HTTP client.
func (c *Client) CircuitState() string {
	if c.resilient == nil {
		return "unknown"
	}
	return c.resilient.CircuitBreakerState().String()
}

// Geocode returns the best match for query, or nil when Nominatim has none.
func (c *Client) Geocode(ctx context.Context, query string) (*geocoding.Result, error) {
	if query == "" {
		return nil, &geocoding.Error{
			Provider: ProviderName,
			Code:     "EMPTY_QUERY",
			Message:  "query is empty",
			Err:      geocoding.ErrInvalidQuery,
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "1")
	params.Set("accept-language", "en")
	if c.email != "" {
		params.Set("email", c.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().Str("query", query).Msg("requesting geocode from nominatim")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &geocoding.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach geocoding provider",
			Err:      geocoding.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, handleErrorResponse(resp.StatusCode)
	}

	var places []place
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	return places[0].toResult()
}

// handleErrorResponse maps Nominatim status codes to domain errors.
func handleErrorResponse(statusCode int) error {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return &geocoding.Error{
			Provider: ProviderName,
			Code:     "RATE_LIMIT",
			Message:  "geocoding rate limit exceeded, please try again later",
			Err:      geocoding.ErrRateLimitExceeded,
		}
	case statusCode == http.StatusForbidden:
		return &geocoding.Error{
			Provider: ProviderName,
			Code:     "FORBIDDEN",
			Message:  "geocoding access denied - check user agent configuration",
			Err:      geocoding.ErrProviderUnavailable,
		}
	case statusCode == http.StatusBadRequest:
		return &geocoding.Error{
			Provider: ProviderName,
			Code:     "BAD_REQUEST",
			Message:  "geocoding query rejected",
			Err:      geocoding.ErrInvalidQuery,
		}
	case statusCode >= 500:
		return &geocoding.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("SERVER_%d", statusCode),
			Message:  "geocoding provider is temporarily unavailable",
			Err:      geocoding.ErrProviderUnavailable,
		}
	default:
		return &geocoding.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", statusCode),
			Message:  fmt.Sprintf("geocoding provider returned status %d", statusCode),
			Err:      geocoding.ErrProviderUnavailable,
		}
	}
}

// place is a single Nominatim search hit. Coordinates arrive as strings.
type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Country     string `json:"country"`
		CountryCode string `json:"country_code"`
	} `json:"address"`
}

func (p place) toResult() (*geocoding.Result, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing latitude %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing longitude %q: %w", p.Lon, err)
	}

	return &geocoding.Result{
		Lat:         lat,
		Lng:         lng,
		Country:     p.Address.Country,
		DisplayName: p.DisplayName,
	}, nil
}
