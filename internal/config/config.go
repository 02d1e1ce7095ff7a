// Package config loads service configuration from the environment.
//
// Values come from the process environment, optionally seeded from a .env
// file for local development. Every field has a workable default except the
// provider API keys, so a bare environment boots a degraded but functional
// engine (straight-line base routes, no persistence).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full configuration for the API server and worker processes.
type Config struct {
	AppEnv   string `envconfig:"APP_ENV" default:"development" validate:"oneof=development test staging production"`
	Port     int    `envconfig:"APP_PORT" default:"8080" validate:"min=1,max=65535"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=trace debug info warn error"`

	// DatabaseURL is the pgx connection string for the traffic history store.
	// Empty disables historical pattern computation.
	DatabaseURL string `envconfig:"DATABASE_URL"`

	// RedisAddr is the address of the pattern cache. Empty falls back to the
	// in-process memory cache.
	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`

	// GraphHopper routing provider. An empty key disables the client and
	// base routes degrade to straight-line estimates.
	GraphHopperAPIKey  string `envconfig:"GRAPHHOPPER_API_KEY"`
	GraphHopperBaseURL string `envconfig:"GRAPHHOPPER_BASE_URL"`

	OTELEnabled  bool   `envconfig:"OTEL_ENABLED" default:"false"`
	OTELEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT" default:"localhost:4317"`

	// Worker settings.
	PubSubProjectID    string        `envconfig:"PUBSUB_PROJECT_ID"`
	PubSubSubscription string        `envconfig:"PUBSUB_SUBSCRIPTION" default:"traffic-refresh"`
	RefreshInterval    time.Duration `envconfig:"REFRESH_INTERVAL" default:"30m"`

	// RateLimit is the per-client request budget per minute on the
	// optimization endpoints.
	RateLimit int `envconfig:"RATE_LIMIT_PER_MINUTE" default:"60" validate:"min=1"`
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first without overriding existing variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// IsProduction reports whether the process runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
