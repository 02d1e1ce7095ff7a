package baseroute

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
)

// ServiceConfig holds configuration for the base routing service.
type ServiceConfig struct {
	// Provider is the routing engine.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache routes (default: 15 minutes).
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.001).
	// Route geometry is endpoint-sensitive, so the grid is fine-grained.
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale routes on provider errors (default: 2 hours).
	StaleIfErrorTTL time.Duration
}

// Service provides base routes with read-through caching per endpoint grid
// cell and profile.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedRoute
}

type cachedRoute struct {
	route     *BaseRoute
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new base routing service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.001 // ~100m at the equator
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 2 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedRoute),
	}
}

// GetBaseRoute returns a route between two points, cached per grid cell and
// profile.
func (s *Service) GetBaseRoute(ctx context.Context, start, end geo.Point, profile Profile) (*BaseRoute, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinates, err)
	}
	if err := end.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinates, err)
	}

	key := s.cacheKey(start, end, profile)

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.route, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, start, end, profile, key)
}

func (s *Service) fetch(ctx context.Context, start, end geo.Point, profile Profile, key string) (*BaseRoute, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock.
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.route, nil
	}

	route, err := s.provider.GetBaseRoute(ctx, start, end, profile)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", s.provider.Name()).
			Str("profile", string(profile)).
			Msg("failed to fetch base route")

		if cached, ok := s.cache[key]; ok && time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("fetched_at", cached.fetchedAt).
				Msg("serving stale base route due to provider error")
			return cached.route, nil
		}

		return nil, err
	}

	now := time.Now()
	s.cache[key] = &cachedRoute{
		route:     route,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return route, nil
}

func (s *Service) cacheKey(start, end geo.Point, profile Profile) string {
	g := s.cacheGridSize
	return fmt.Sprintf("%s:%.4f,%.4f:%.4f,%.4f", profile,
		math.Floor(start.Lat/g)*g, math.Floor(start.Lng/g)*g,
		math.Floor(end.Lat/g)*g, math.Floor(end.Lng/g)*g,
	)
}

// Name returns the underlying provider name.
func (s *Service) Name() string {
	return s.provider.Name()
}
