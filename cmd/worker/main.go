// Package main provides the entrypoint for the TripForge pattern refresh
// worker. It precomputes traffic patterns for the configured targets, driven
// either by Pub/Sub messages or a local ticker, and exposes a health endpoint
// for the container runtime.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/config"
	"github.com/tripforge/tripforge/internal/telemetry"
	"github.com/tripforge/tripforge/internal/traffic"
	"github.com/tripforge/tripforge/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "tripforge-worker"

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
		Msg("starting TripForge worker")

	if cfg.DatabaseURL == "" {
		log.Fatal().Msg("DATABASE_URL is required: patterns are computed from the traffic history store")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("database connected")

	// Computed patterns are shared across instances through Redis when
	// configured; otherwise each instance keeps its own cache.
	var cache traffic.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := traffic.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, 0, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisCache.Close()
		cache = redisCache
		log.Info().Str("addr", cfg.RedisAddr).Msg("redis pattern cache connected")
	} else {
		cache = traffic.NewMemoryCache()
		log.Warn().Msg("REDIS_ADDR not set - using in-process pattern cache")
	}

	patterns := traffic.NewPatternService(traffic.PatternServiceConfig{
		History: traffic.NewPostgresHistoryRepository(pool),
		Cache:   cache,
		Logger:  log,
	})

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Patterns: patterns,
		Logger:   log,
	})

	// Pub/Sub drives the job in production; the ticker keeps local and
	// single-instance deployments warm without a broker.
	if cfg.PubSubProjectID != "" {
		handler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        cfg.PubSubProjectID,
			SubscriptionName: cfg.PubSubSubscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer handler.Close()

		go func() {
			if err := handler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Error().Err(err).Msg("pubsub handler stopped")
			}
		}()
	} else {
		log.Warn().
			Dur("interval", cfg.RefreshInterval).
			Msg("PUBSUB_PROJECT_ID not set - running on a local refresh ticker")

		go func() {
			ticker := time.NewTicker(cfg.RefreshInterval)
			defer ticker.Stop()

			refreshJob.Run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					refreshJob.Run(ctx)
				}
			}
		}()
	}

	// Health endpoint for the container runtime.
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		metrics := refreshJob.Metrics()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","version":%q,"runs":%d,"points_warmed":%d}`,
			Version, metrics.Runs, metrics.PointsWarmed)
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
