package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/tripforge/tripforge/internal/api/models"
	"github.com/tripforge/tripforge/internal/api/response"
	"github.com/tripforge/tripforge/internal/provider/resilience"
)

// ReadyCheck probes one dependency for the readiness endpoint.
type ReadyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// OpsHandler serves the operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	checks    []ReadyCheck
}

// NewOpsHandler creates an ops handler. The registry may be nil when no
// external providers are configured.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, checks []ReadyCheck) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		checks:    checks,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]any{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready - dependency probes.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	details := make(map[string]any, len(h.checks))
	status := models.HealthStatusOK
	for _, check := range h.checks {
		if err := check.Check(ctx); err != nil {
			details[check.Name] = err.Error()
			status = models.HealthStatusFail
		} else {
			details[check.Name] = "ok"
		}
	}

	code := http.StatusOK
	if status != models.HealthStatusOK {
		code = http.StatusServiceUnavailable
	}
	response.JSON(w, r, code, models.Health{
		Status:  status,
		Time:    models.Timestamp(time.Now()),
		Details: details,
	})
}

// SystemStatus handles GET /v1/ops/status - upstream provider health.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Providers: []models.ProviderStatus{},
	}

	if h.registry != nil {
		for _, health := range h.registry.AllHealth() {
			ps := models.NewProviderStatus(health)
			if ps.Status != models.HealthStatusOK && status.Status == models.HealthStatusOK {
				status.Status = models.HealthStatusDegraded
			}
			status.Providers = append(status.Providers, ps)
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}
