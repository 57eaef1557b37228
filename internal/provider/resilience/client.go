package resilience

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// Predefined errors for resilient operations.
var (
	// ErrCircuitOpen is returned when the circuit breaker rejects a call.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrMaxRetriesExceeded is returned when every attempt failed without a response.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies this client in logs and names its circuit breaker.
	Name string

	// UserAgent is set on every request that does not carry one.
	UserAgent string

	// Timeout bounds each individual attempt.
	// Default: 10 seconds
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	// Zero disables retries.
	MaxRetries uint64

	// InitialInterval is the first retry backoff.
	// Default: 100ms
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff.
	// Default: 5 seconds
	MaxInterval time.Duration

	// MaxRetryAfter caps how long a provider's Retry-After header can delay
	// the next attempt.
	// Default: 30 seconds
	MaxRetryAfter time.Duration

	// CircuitBreaker configures the breaker.
	// If nil, DefaultCircuitBreakerConfig is used.
	CircuitBreaker *CircuitBreakerConfig

	// Transport overrides the underlying round tripper.
	Transport http.RoundTripper

	Logger zerolog.Logger
}

// DefaultClientConfig returns the default client configuration.
func DefaultClientConfig(name string) ClientConfig {
	cb := DefaultCircuitBreakerConfig(name)
	return ClientConfig{
		Name:            name,
		Timeout:         10 * time.Second,
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		MaxRetryAfter:   30 * time.Second,
		CircuitBreaker:  &cb,
		Logger:          zerolog.Nop(),
	}
}

// Client is an HTTP client with circuit breaker and retry logic.
type Client struct {
	httpClient     *http.Client
	circuitBreaker *gobreaker.CircuitBreaker[*http.Response]
	config         ClientConfig
}

// NewClient creates a resilient HTTP client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}
	if cfg.MaxRetryAfter == 0 {
		cfg.MaxRetryAfter = 30 * time.Second
	}

	cbConfig := DefaultCircuitBreakerConfig(cfg.Name)
	if cfg.CircuitBreaker != nil {
		cbConfig = *cfg.CircuitBreaker
	}
	cbConfig.Logger = cfg.Logger

	return &Client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		circuitBreaker: NewCircuitBreaker[*http.Response](cbConfig), //nolint:bodyclose // type param, not response
		config:         cfg,
	}
}

// Do executes req through the circuit breaker, retrying network errors,
// 5xx and 429 responses with exponential backoff. A 429 carrying
// Retry-After delays the next attempt by at least that long.
//
// When retries run out on an HTTP error status, the last response is
// returned with a nil error so callers can map the status themselves.
// The caller must close the returned body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	floor := &retryAfterBackOff{BackOff: backoff.WithMaxRetries(bo, c.config.MaxRetries)}
	policy := backoff.WithContext(floor, ctx)

	var (
		lastResp *http.Response
		attempt  int
	)

	operation := func() error {
		attempt++
		if lastResp != nil {
			drain(lastResp)
			lastResp = nil
		}

		resp, err := c.circuitBreaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // closed by caller or drain
			attemptReq := req.Clone(ctx)
			if c.config.UserAgent != "" && attemptReq.Header.Get("User-Agent") == "" {
				attemptReq.Header.Set("User-Agent", c.config.UserAgent)
			}

			r, err := c.httpClient.Do(attemptReq)
			if err != nil {
				return nil, err
			}
			switch {
			case r.StatusCode == http.StatusTooManyRequests:
				return r, &RateLimitError{RetryAfter: retryAfter(r)}
			case r.StatusCode >= 500:
				return r, &ServerError{StatusCode: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			lastResp = resp

			floor.wait = 0
			var rateLimited *RateLimitError
			if errors.As(err, &rateLimited) {
				floor.wait = min(rateLimited.RetryAfter, c.config.MaxRetryAfter)
			}

			c.config.Logger.Debug().
				Str("client", c.config.Name).
				Int("attempt", attempt).
				Err(err).
				Msg("provider request failed")
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			return nil, ErrCircuitOpen
		}
		if lastResp != nil {
			return lastResp, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Join(ErrMaxRetriesExceeded, err)
	}

	return lastResp, nil
}

// retryAfterBackOff raises the next interval to wait when the last
// attempt asked for a longer pause.
type retryAfterBackOff struct {
	backoff.BackOff
	wait time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	next := b.BackOff.NextBackOff()
	if next == backoff.Stop {
		return next
	}
	return max(next, b.wait)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}

func retryAfter(resp *http.Response) time.Duration {
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// ServerError represents an HTTP 5xx response.
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return "server error: " + http.StatusText(e.StatusCode)
}

// RateLimitError represents an HTTP 429 response.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return "rate limited by provider"
}

// CircuitBreakerState returns the current state of the circuit breaker.
func (c *Client) CircuitBreakerState() gobreaker.State {
	return c.circuitBreaker.State()
}

// CircuitBreakerCounts returns the current counts of the circuit breaker.
func (c *Client) CircuitBreakerCounts() gobreaker.Counts {
	return c.circuitBreaker.Counts()
}

// Name returns the client name.
func (c *Client) Name() string {
	return c.config.Name
}
