package traffic

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
)

// Observation is one raw traffic measurement at a location.
type Observation struct {
	Location   geo.Point
	Timestamp  time.Time
	SpeedKmh   float64
	Congestion CongestionLevel
}

// HistoryRepository loads raw traffic observations for pattern computation.
type HistoryRepository interface {
	// ListObservations returns observations near the location recorded at or
	// after since, ordered oldest first.
	ListObservations(ctx context.Context, location geo.Point, since time.Time) ([]Observation, error)
}

// PatternServiceConfig holds configuration for the pattern service.
type PatternServiceConfig struct {
	// History supplies raw observations.
	History HistoryRepository

	// Cache stores computed patterns. Required; use NewMemoryCache for tests.
	Cache Cache

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long computed patterns stay valid (default: 24h).
	CacheTTL time.Duration

	// HistoryWindow is how far back observations are considered (default: 28 days).
	HistoryWindow time.Duration
}

// PatternService computes traffic patterns from historical observations,
// caching results per (location, day-of-week, hour) with a 24h TTL. The cache
// is read-through: concurrent misses for the same key may recompute
// redundantly, which is acceptable because computation is idempotent and
// side-effect free.
type PatternService struct {
	history       HistoryRepository
	cache         Cache
	logger        zerolog.Logger
	cacheTTL      time.Duration
	historyWindow time.Duration
}

// NewPatternService creates a pattern service.
func NewPatternService(cfg PatternServiceConfig) *PatternService {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}
	historyWindow := cfg.HistoryWindow
	if historyWindow == 0 {
		historyWindow = 28 * 24 * time.Hour
	}

	return &PatternService{
		history:       cfg.History,
		cache:         cfg.Cache,
		logger:        cfg.Logger,
		cacheTTL:      cacheTTL,
		historyWindow: historyWindow,
	}
}

// GetPatterns returns the traffic patterns for a location and time bucket.
func (s *PatternService) GetPatterns(ctx context.Context, location geo.Point, day time.Weekday, hour int) ([]Pattern, error) {
	key := patternKey(location, day, hour)

	patterns, ok, err := s.cache.GetPatterns(ctx, key)
	if err != nil {
		// Cache failures degrade to recomputation, not request failure.
		s.logger.Warn().Err(err).Str("key", key).Msg("pattern cache read failed")
	}
	if ok {
		return patterns, nil
	}

	patterns, err = s.computePatterns(ctx, location, day, hour)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPatterns(ctx, key, patterns, s.cacheTTL); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("pattern cache write failed")
	}

	return patterns, nil
}

// computePatterns aggregates raw observations into one pattern per matching
// (day, hour) bucket, including the adjacent hours used by the predictor.
func (s *PatternService) computePatterns(ctx context.Context, location geo.Point, day time.Weekday, hour int) ([]Pattern, error) {
	observations, err := s.history.ListObservations(ctx, location, time.Now().Add(-s.historyWindow))
	if err != nil {
		return nil, fmt.Errorf("loading traffic history: %w", err)
	}
	if len(observations) == 0 {
		return nil, ErrNoHistoricalData
	}

	type bucket struct {
		day  time.Weekday
		hour int
	}
	grouped := make(map[bucket][]Observation)
	for _, o := range observations {
		h := o.Timestamp.Hour()
		if hourDistance(h, hour) > 1 {
			continue
		}
		grouped[bucket{o.Timestamp.Weekday(), h}] = append(grouped[bucket{o.Timestamp.Weekday(), h}], o)
	}

	var patterns []Pattern
	for b, obs := range grouped {
		if b.day != day && b.hour == hour {
			// Exact-hour buckets from other days dilute the day-specific
			// signal; adjacent hours are kept regardless of day.
			continue
		}

		var speedSum float64
		var congested int
		historical := make([]HistoricalPoint, 0, len(obs))
		for _, o := range obs {
			speedSum += o.SpeedKmh
			if o.Congestion != CongestionLow {
				congested++
			}
			historical = append(historical, HistoricalPoint{
				Timestamp:  o.Timestamp,
				SpeedKmh:   o.SpeedKmh,
				Congestion: o.Congestion,
			})
		}

		confidence := float64(len(obs)) / 10
		if confidence > 1 {
			confidence = 1
		}

		patterns = append(patterns, Pattern{
			DayOfWeek:             b.day,
			HourOfDay:             b.hour,
			AverageSpeedKmh:       speedSum / float64(len(obs)),
			CongestionProbability: float64(congested) / float64(len(obs)),
			Confidence:            confidence,
			Historical:            historical,
		})
	}

	return patterns, nil
}

// patternKey quantizes the location to ~1km cells so nearby lookups share
// cached patterns.
func patternKey(location geo.Point, day time.Weekday, hour int) string {
	return fmt.Sprintf("%.2f,%.2f:%d:%d", location.Lat, location.Lng, int(day), hour)
}
