// Package main provides the entrypoint for the TripForge API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/api"
	"github.com/tripforge/tripforge/internal/baseroute"
	"github.com/tripforge/tripforge/internal/baseroute/graphhopper"
	"github.com/tripforge/tripforge/internal/config"
	"github.com/tripforge/tripforge/internal/optimizer"
	"github.com/tripforge/tripforge/internal/provider/resilience"
	"github.com/tripforge/tripforge/internal/provider/static"
	"github.com/tripforge/tripforge/internal/route"
	"github.com/tripforge/tripforge/internal/snow"
	"github.com/tripforge/tripforge/internal/telemetry"
	"github.com/tripforge/tripforge/internal/transit"
	"github.com/tripforge/tripforge/internal/weather"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripforge-api"

	cfg, err := config.Load()
	if err != nil {
		errLog := zerolog.New(os.Stderr)
		errLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Str("env", cfg.AppEnv).
		Msg("starting TripForge API")

	ctx := context.Background()

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.AppEnv,
		OTLPEndpoint:   cfg.OTELEndpoint,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTELEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTELEndpoint).
			Msg("OpenTelemetry initialized")
	}

	registry := resilience.NewRegistry()

	// Base routes come from GraphHopper when a key is configured; otherwise
	// legs degrade to straight-line estimates.
	var baseRoutes optimizer.BaseRouteService
	if cfg.GraphHopperAPIKey != "" {
		client := graphhopper.NewClient(graphhopper.ClientConfig{
			APIKey:   cfg.GraphHopperAPIKey,
			BaseURL:  cfg.GraphHopperBaseURL,
			Registry: registry,
			Logger:   log,
		})
		baseRoutes = baseroute.NewService(baseroute.ServiceConfig{
			Provider: client,
			Logger:   log,
		})
		log.Info().Msg("graphhopper routing initialized")
	} else {
		log.Warn().Msg("GRAPHHOPPER_API_KEY not set - using straight-line base routes")
	}

	// Data services fall back to static baseline providers until real
	// upstream integrations are configured.
	weatherService := weather.NewService(weather.ServiceConfig{
		Provider: static.WeatherProvider{},
		Logger:   log,
	})
	transitService := transit.NewService(transit.ServiceConfig{
		Provider: static.TransitProvider{},
		Logger:   log,
	})
	snowService := snow.NewService(snow.ServiceConfig{
		Provider: static.SnowProvider{},
		Logger:   log,
	})

	carOptimizer := optimizer.NewCarOptimizer(optimizer.CarOptimizerConfig{
		Traffic:    static.TrafficProvider{},
		BaseRoutes: baseRoutes,
		Logger:     log,
	})
	walkOptimizer := optimizer.NewWalkOptimizer(optimizer.WalkOptimizerConfig{
		BaseRoutes: baseRoutes,
		Logger:     log,
	})
	bikeOptimizer := optimizer.NewBikeOptimizer(optimizer.BikeOptimizerConfig{
		BaseRoutes: baseRoutes,
		Logger:     log,
	})
	transitOptimizer := optimizer.NewTransitOptimizer(optimizer.TransitOptimizerConfig{
		Transit: transitService,
		Logger:  log,
	})
	skiOptimizer := optimizer.NewSkiOptimizer(optimizer.SkiOptimizerConfig{
		Snow:   snowService,
		Logger: log,
	})

	// Exposed modes get the weather refinement pass; driving keeps its own
	// live-traffic adjustment.
	multiSegment := optimizer.NewMultiSegmentOptimizer(optimizer.MultiSegmentConfig{
		Optimizers: map[route.ActivityType]optimizer.Optimizer{
			route.ActivityCar: carOptimizer,
			route.ActivityWalk: optimizer.NewAdvancedOptimizer(optimizer.AdvancedConfig{
				Inner:   walkOptimizer,
				Weather: weatherService,
				Logger:  log,
			}),
			route.ActivityBike: optimizer.NewAdvancedOptimizer(optimizer.AdvancedConfig{
				Inner:   bikeOptimizer,
				Weather: weatherService,
				Logger:  log,
			}),
			route.ActivityPublicTransport: transitOptimizer,
			route.ActivitySki: optimizer.NewAdvancedOptimizer(optimizer.AdvancedConfig{
				Inner:   skiOptimizer,
				Weather: weatherService,
				Logger:  log,
			}),
		},
		Logger: log,
	})
	log.Info().Msg("optimization engine initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:   Version,
		BuildTime: BuildTime,
		Logger:    log,
		Optimizer: multiSegment,
		Registry:  registry,
		RateLimit: cfg.RateLimit,
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
