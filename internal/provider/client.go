// Package provider is the shared HTTP layer for external data services
// (NOAA weather, NOAA CO-OPS, NOAA MDAPI, Nominatim). Every outbound call
// goes through a circuit breaker and is recorded in metrics.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/ngmaloney/coastal-activities/internal/metrics"
)

// ErrUnavailable is returned while the breaker is open
var ErrUnavailable = errors.New("provider temporarily unavailable")

// Options configures a provider client
type Options struct {
	UserAgent       string
	Timeout         time.Duration
	BreakerFailures uint32        // consecutive failures before the breaker opens
	BreakerCooldown time.Duration // how long the breaker stays open
}

// DefaultOptions returns settings suitable for the public NOAA and OSM APIs
func DefaultOptions() Options {
	return Options{
		UserAgent:       "CoastalActivities/1.0 (github.com/ngmaloney/coastal-activities)",
		Timeout:         30 * time.Second,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// StatusError reports a non-200 response
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.Code, e.Body)
	}
	return fmt.Sprintf("%s returned status %d", e.Provider, e.Code)
}

// retryable reports whether the status points at the provider rather than the request
func (e *StatusError) retryable() bool {
	return e.Code >= 500 || e.Code == http.StatusTooManyRequests
}

// Client performs JSON GETs against one provider
type Client struct {
	name       string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	userAgent  string
}

// New creates a client; name labels the breaker and metrics
func New(name string, opts Options) *Client {
	failures := opts.BreakerFailures
	if failures == 0 {
		failures = DefaultOptions().BreakerFailures
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    60 * time.Second,
		Timeout:     opts.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// a 4xx is the caller's problem, not the provider's
			var se *StatusError
			if errors.As(err, &se) {
				return !se.retryable()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		name:       name,
		httpClient: &http.Client{Timeout: opts.Timeout},
		breaker:    cb,
		userAgent:  opts.UserAgent,
	}
}

// Name returns the provider label
func (c *Client) Name() string {
	return c.name
}

// GetJSON fetches url and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	body, err := c.Get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}
	return nil
}

// Get fetches url and returns the body of a 200 response
func (c *Client) Get(ctx context.Context, url, accept string) ([]byte, error) {
	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, url, accept)
	})
	metrics.RecordProviderCall(c.name, time.Since(start), err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, c.name, err)
	}
	return body, err
}

func (c *Client) do(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch from %s: %w", c.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", c.name, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Provider: c.name, Code: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
