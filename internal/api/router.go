// Package api provides the HTTP API for the TripForge optimization engine.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/api/handler"
	"github.com/tripforge/tripforge/internal/api/middleware"
	"github.com/tripforge/tripforge/internal/provider/resilience"
)

// RouterConfig holds the dependencies of the HTTP router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger

	// Optimizer serves the /v1/routes endpoints.
	Optimizer handler.RouteOptimizer

	// Registry feeds /v1/ops/status. Optional.
	Registry *resilience.Registry

	// ReadyChecks feed /v1/ops/ready. Optional.
	ReadyChecks []handler.ReadyCheck

	// RateLimit is the per-IP request budget per minute on the optimization
	// endpoints (default: 60).
	RateLimit int
}

// NewRouter assembles the chi router with all routes and middleware.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = 60
	}

	// Order matters: the request ID must exist before tracing and logging
	// pick it up.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing())
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	routeHandler := handler.NewRouteHandler(cfg.Optimizer, cfg.Logger)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.ReadyChecks)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})

		// Optimization endpoints fan out to upstream providers, so they get
		// a tight per-IP budget.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(rateLimit))
			r.Post("/routes:optimize", routeHandler.Optimize)
			r.Post("/routes:compute", routeHandler.Compute)
		})
	})

	return r
}
