package snow

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
)

// ServiceConfig holds configuration for the snow service.
type ServiceConfig struct {
	// Provider is the snow report provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache reports (default: 30 minutes).
	// Snow conditions change slowly compared to traffic or transit.
	CacheTTL time.Duration

	// CacheGridSize is the size of cache grid cells in degrees (default: 0.1).
	CacheGridSize float64

	// StaleIfErrorTTL allows serving stale data on provider errors (default: 6 hours).
	StaleIfErrorTTL time.Duration
}

// Service provides snow reports with read-through caching.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	cacheGridSize   float64
	staleIfErrorTTL time.Duration

	mu    sync.RWMutex
	cache map[string]*cachedReport
}

type cachedReport struct {
	report    *Report
	fetchedAt time.Time
	expiresAt time.Time
}

// NewService creates a new snow service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 30 * time.Minute
	}

	cacheGridSize := cfg.CacheGridSize
	if cacheGridSize == 0 {
		cacheGridSize = 0.1
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 6 * time.Hour
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		cacheGridSize:   cacheGridSize,
		staleIfErrorTTL: staleIfErrorTTL,
		cache:           make(map[string]*cachedReport),
	}
}

// GetSnowReport returns snow conditions for a segment, cached per grid cell.
func (s *Service) GetSnowReport(ctx context.Context, start, end geo.Point) (*Report, error) {
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
		return cached.report, nil
	}
	s.mu.RUnlock()

	return s.fetch(ctx, start, end, key)
}

func (s *Service) fetch(ctx context.Context, start, end geo.Point, key string) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring the write lock.
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		return cached.report, nil
	}

	report, err := s.provider.GetSnowReport(ctx, start, end)
	if err != nil {
		s.logger.Error().Err(err).
			Str("provider", s.provider.Name()).
			Msg("failed to fetch snow report")

		if cached, ok := s.cache[key]; ok && time.Now().Before(cached.fetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("fetched_at", cached.fetchedAt).
				Msg("serving stale snow report due to provider error")
			return cached.report, nil
		}

		return nil, ErrProviderUnavailable
	}

	now := time.Now()
	s.cache[key] = &cachedReport{
		report:    report,
		fetchedAt: now,
		expiresAt: now.Add(s.cacheTTL),
	}

	return report, nil
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
