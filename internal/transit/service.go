package transit

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
)

// Provider defines the interface for transit schedule providers.
type Provider interface {
	// GetSchedule fetches the transit service between two points.
	GetSchedule(ctx context.Context, start, end geo.Point) (*Schedule, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the transit service.
type ServiceConfig struct {
	// Provider is the transit schedule provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache schedule data (default: 5 minutes).
	// Delays and cancellations change quickly, so the cache is short.
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.01).
	// Transit lookups resolve to stops, so the grid is finer than for weather.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 30 minutes).
	StaleIfErrorTTL time.Duration
}

// Service provides transit schedules with read-through caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedSchedule
}

type cachedSchedule struct {
	schedule  *Schedule
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new transit service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.01 // ~1km at the equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 30 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedSchedule),
	}
}

// GetSchedule returns the transit schedule for a segment, cached per grid cell.
func (s *Service) GetSchedule(ctx context.Context, start, end geo.Point) (*Schedule, error) {
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
		return cached.schedule, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, start, end, key)
}

func (s *Service) fetch(ctx context.Context, start, end geo.Point, key string) (*Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock.
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.schedule, nil
	}

	schedule, err := s.provider.GetSchedule(ctx, start, end)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch transit schedule")

		if cached, ok := s.cache[key]; ok && time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("fetched_at", cached.fetchedAt).
				Msg("serving stale transit schedule due to provider error")
			return cached.schedule, nil
		}

		return nil, ErrProviderUnavailable
	}

	now := time.Now()
	s.cache[key] = &cachedSchedule{
		schedule:  schedule,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return schedule, nil
}

func (s *Service) cacheKey(start, end geo.Point) string {
	g := s.cacheGridSize
	return fmt.Sprintf("%.3f,%.3f:%.3f,%.3f",
		math.Floor(start.Lat/g)*g, math.Floor(start.Lng/g)*g,
		math.Floor(end.Lat/g)*g, math.Floor(end.Lng/g)*g,
	)
}

// Name returns the underlying provider name.
func (s *Service) Name() string {
	return s.provider.Name()
}
