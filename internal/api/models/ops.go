package models

import (
	"github.com/sony/gobreaker/v2"

	"github.com/tripforge/tripforge/internal/provider/resilience"
)

// Health is the liveness/readiness body.
type Health struct {
	Status  HealthStatus   `json:"status"`
	Time    Timestamp      `json:"time"`
	Details map[string]any `json:"details,omitempty"`
}

// SystemStatus reports the engine plus every upstream data provider.
type SystemStatus struct {
	Status    HealthStatus     `json:"status"`
	Time      Timestamp        `json:"time"`
	Providers []ProviderStatus `json:"providers"`
}

// ProviderStatus is the externally visible health of one upstream.
type ProviderStatus struct {
	Provider      string     `json:"provider"`
	Status        HealthStatus `json:"status"`
	CircuitState  string     `json:"circuitState"`
	LastSuccessAt *Timestamp `json:"lastSuccessAt,omitempty"`
	LastFailureAt *Timestamp `json:"lastFailureAt,omitempty"`
	LastError     string     `json:"lastError,omitempty"`
}

// NewProviderStatus maps a resilience health record to the API shape.
func NewProviderStatus(h *resilience.Health) ProviderStatus {
	status := HealthStatusFail
	switch {
	case h.Healthy():
		status = HealthStatusOK
	case h.Degraded():
		status = HealthStatusDegraded
	}

	ps := ProviderStatus{
		Provider:     h.Name,
		Status:       status,
		CircuitState: circuitStateName(h.CircuitState),
		LastError:    h.LastError,
	}
	if h.LastSuccessAt != nil {
		ts := Timestamp(*h.LastSuccessAt)
		ps.LastSuccessAt = &ts
	}
	if h.LastFailureAt != nil {
		ts := Timestamp(*h.LastFailureAt)
		ps.LastFailureAt = &ts
	}
	return ps
}

func circuitStateName(s gobreaker.State) string {
	switch s {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	}
	return "unknown"
}
