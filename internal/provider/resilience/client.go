package resilience

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the upstream's circuit breaker is open and
// the call was not attempted.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ClientConfig holds configuration for the resilient HTTP client.
type ClientConfig struct {
	// Name identifies the upstream for breaker naming and health reports.
	Name string

	// Timeout per HTTP attempt (default: 10s).
	Timeout time.Duration

	// MaxRetries bounds retry attempts after the first call (default: 3).
	MaxRetries uint64

	// InitialInterval is the first retry backoff delay (default: 100ms).
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff delay (default: 5s).
	MaxInterval time.Duration

	// Breaker overrides the default circuit breaker tuning.
	Breaker *BreakerConfig
}

// Client is an HTTP client that retries transient failures with exponential
// backoff and stops calling an upstream whose circuit breaker has opened.
// Responses with 5xx status count as failures; 4xx responses are returned
// to the caller as-is.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a resilient HTTP client for one upstream.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 100 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 5 * time.Second
	}

	breakerCfg := DefaultBreakerConfig(cfg.Name)
	if cfg.Breaker != nil {
		breakerCfg = *cfg.Breaker
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    newBreaker[*http.Response](breakerCfg), //nolint:bodyclose // type parameter, not a response
		config:     cfg,
	}
}

// Do executes the request, retrying on network errors and 5xx responses.
// It returns ErrCircuitOpen without calling the upstream when the breaker is
// open. On retry exhaustion the last 5xx response is returned alongside nil
// error so callers can inspect the body; the caller closes the response.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0 // retries are bounded by MaxRetries, not wall time

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	attempt := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // ownership passes to the caller
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			// 5xx must count against the breaker.
			if r.StatusCode >= 500 {
				return r, &upstreamError{status: r.StatusCode}
			}
			return r, nil
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}
		lastResp = resp
		return nil
	}

	if err := backoff.Retry(attempt, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// BreakerState returns the current circuit breaker state.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// BreakerCounts returns the current circuit breaker counters.
func (c *Client) BreakerCounts() gobreaker.Counts {
	return c.breaker.Counts()
}

type upstreamError struct {
	status int
}

func (e *upstreamError) Error() string {
	return fmt.Sprintf("upstream returned %d %s", e.status, http.StatusText(e.status))
}
