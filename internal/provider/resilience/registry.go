package resilience

import (
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Health is a point-in-time view of one upstream's availability.
type Health struct {
	Name          string
	CircuitState  gobreaker.State
	Counts        gobreaker.Counts
	LastSuccessAt *time.Time
	LastFailureAt *time.Time
	LastError     string
}

// Healthy reports whether the upstream is fully available (breaker closed).
func (h *Health) Healthy() bool {
	return h.CircuitState == gobreaker.StateClosed
}

// Degraded reports whether the breaker is probing after an outage.
func (h *Health) Degraded() bool {
	return h.CircuitState == gobreaker.StateHalfOpen
}

// Registry tracks the resilient clients behind each data provider so the ops
// endpoints can report upstream health.
type Registry struct {
	mu        sync.RWMutex
	upstreams map[string]*upstream
}

type upstream struct {
	client        *Client
	lastSuccessAt *time.Time
	lastFailureAt *time.Time
	lastError     string
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{upstreams: make(map[string]*upstream)}
}

// Register adds an upstream's client under the given name, replacing any
// previous registration.
func (r *Registry) Register(name string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upstreams[name] = &upstream{client: client}
}

// RecordSuccess notes a successful call to the named upstream.
func (r *Registry) RecordSuccess(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.upstreams[name]; ok {
		now := time.Now()
		u.lastSuccessAt = &now
	}
}

// RecordFailure notes a failed call to the named upstream.
func (r *Registry) RecordFailure(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.upstreams[name]; ok {
		now := time.Now()
		u.lastFailureAt = &now
		if err != nil {
			u.lastError = err.Error()
		}
	}
}

// GetHealth returns the health of one upstream, or nil if unknown.
func (r *Registry) GetHealth(name string) *Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.upstreams[name]
	if !ok {
		return nil
	}
	return u.health(name)
}

// AllHealth returns the health of every registered upstream, sorted by name.
func (r *Registry) AllHealth() []*Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Health, 0, len(r.upstreams))
	for name, u := range r.upstreams {
		out = append(out, u.health(name))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AllHealthy reports whether every registered upstream has a closed breaker.
func (r *Registry) AllHealthy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.upstreams {
		if u.client.BreakerState() != gobreaker.StateClosed {
			return false
		}
	}
	return true
}

func (u *upstream) health(name string) *Health {
	return &Health{
		Name:          name,
		CircuitState:  u.client.BreakerState(),
		Counts:        u.client.BreakerCounts(),
		LastSuccessAt: u.lastSuccessAt,
		LastFailureAt: u.lastFailureAt,
		LastError:     u.lastError,
	}
}
