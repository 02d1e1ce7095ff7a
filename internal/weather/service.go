package weather

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
)

// ServiceConfig holds configuration for the weather service.
type ServiceConfig struct {
	// Provider is the weather forecast provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache forecast data (default: 10 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.1).
	// Segments whose endpoints fall in the same grid cells share cached data.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 1 hour).
	StaleIfErrorTTL time.Duration
}

// Service provides forecast conditions along segments with read-through caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedConditions
}

type cachedConditions struct {
	conditions *Conditions
	fetchedAt  time.Time
	expiresAt  time.Time
}

// NewService creates a new weather service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 10 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1 // ~11km at the equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 1 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedConditions),
	}
}

// GetForecast returns forecast conditions for a segment, cached per grid cell.
func (s *Service) GetForecast(ctx context.Context, start, end geo.Point) (*Conditions, error) {
	if err := start.Validate(); err != nil {
		return nil, err
	}
	if err := end.Validate(); err != nil {
		return nil, err
	}

	key := s.cacheKey(start, end)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.conditions, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, start, end, key)
}

func (s *Service) fetch(ctx context.Context, start, end geo.Point, key string) (*Conditions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock.
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.conditions, nil
	}

	conditions, err := s.provider.GetForecast(ctx, start, end)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch weather forecast")

		if cached, ok := s.cache[key]; ok && time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("fetched_at", cached.fetchedAt).
				Msg("serving stale forecast due to provider error")
			return cached.conditions, nil
		}

		return nil, err
	}

	now := time.Now()
	s.cache[key] = &cachedConditions{
		conditions: conditions,
		fetchedAt:  now,
		expiresAt:  now.Add(s.cacheTTL),
	}

	return conditions, nil
}

func (s *Service) cacheKey(start, end geo.Point) string {
	g := s.cacheGridSize
	return fmt.Sprintf("%.2f,%.2f:%.2f,%.2f",
		math.Floor(start.Lat/g)*g, math.Floor(start.Lng/g)*g,
		math.Floor(end.Lat/g)*g, math.Floor(end.Lng/g)*g,
	)
}

// Name returns the underlying provider name.
func (s *Service) Name() string {
	return s.provider.Name()
}
