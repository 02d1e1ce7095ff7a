// Package resilience wraps outbound provider calls with circuit breaking and
// retry behavior so a failing upstream degrades the route engine gracefully
// instead of stalling it.
package resilience

import (
	"time"

	"github.com/sony/gobreaker/v2"
)

// BreakerConfig holds circuit breaker tuning for one upstream.
type BreakerConfig struct {
	// Name identifies the breaker in logs and health reports.
	Name string

	// MaxRequests allowed through while half-open (default: 1).
	MaxRequests uint32

	// Interval for clearing counts while closed (default: disabled).
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing (default: 60s).
	Timeout time.Duration

	// ReadyToTrip overrides the default trip condition.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// OnStateChange is invoked on breaker transitions.
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultBreakerConfig returns the standard breaker tuning for an upstream.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		MaxRequests: 1,
		Timeout:     60 * time.Second,
		ReadyToTrip: defaultReadyToTrip,
	}
}

// defaultReadyToTrip opens the breaker once at least 5 requests were made and
// half of them failed.
func defaultReadyToTrip(counts gobreaker.Counts) bool {
	ratio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && ratio >= 0.5
}

func newBreaker[T any](cfg BreakerConfig) *gobreaker.CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: cfg.ReadyToTrip,
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}
	return gobreaker.NewCircuitBreaker[T](settings)
}
