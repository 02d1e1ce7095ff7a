package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.AppEnv != "development" {
		t.Errorf("AppEnv = %q, want development", cfg.AppEnv)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.RefreshInterval != 30*time.Minute {
		t.Errorf("RefreshInterval = %s, want 30m", cfg.RefreshInterval)
	}
	if cfg.RateLimit != 60 {
		t.Errorf("RateLimit = %d, want 60", cfg.RateLimit)
	}
	if cfg.IsProduction() {
		t.Error("development config must not report production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REFRESH_INTERVAL", "5m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.IsProduction() {
		t.Error("APP_ENV=production must report production")
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, want 9000", cfg.Port)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want localhost:6379", cfg.RedisAddr)
	}
	if cfg.RefreshInterval != 5*time.Minute {
		t.Errorf("RefreshInterval = %s, want 5m", cfg.RefreshInterval)
	}
}

func TestLoad_RejectsInvalidEnv(t *testing.T) {
	t.Setenv("APP_ENV", "sandbox")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for unknown APP_ENV")
	}
}

func TestLoad_RejectsInvalidPort(t *testing.T) {
	t.Setenv("APP_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for out-of-range port")
	}
}
