package worker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/traffic"
)

// PatternWarmer computes and caches traffic patterns for a time bucket.
type PatternWarmer interface {
	GetPatterns(ctx context.Context, location geo.Point, day time.Weekday, hour int) ([]traffic.Pattern, error)
}

// RefreshJobConfig holds dependencies for the warm-up job.
type RefreshJobConfig struct {
	Config   RefreshConfig
	Patterns PatternWarmer
	Logger   zerolog.Logger

	// now is injectable for tests.
	now func() time.Time
}

// RefreshJob precomputes traffic patterns for the configured targets so the
// first optimization request of the hour never pays the computation cost.
type RefreshJob struct {
	config   RefreshConfig
	patterns PatternWarmer
	logger   zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	metrics RefreshMetrics
}

// RefreshMetrics accumulates job statistics across runs.
type RefreshMetrics struct {
	Runs            int64
	PointsWarmed    int64
	PointsFailed    int64
	BucketsComputed int64
	LastRunAt       time.Time
	LastRunDuration time.Duration
}

// NewRefreshJob creates a warm-up job.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	config := cfg.Config
	if len(config.Targets) == 0 {
		config.Targets = DefaultRefreshTargets()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.HoursAhead <= 0 {
		config.HoursAhead = 3
	}

	now := cfg.now
	if now == nil {
		now = time.Now
	}

	return &RefreshJob{
		config:   config,
		patterns: cfg.Patterns,
		logger:   cfg.Logger,
		now:      now,
	}
}

// RefreshResult summarizes one job run.
type RefreshResult struct {
	StartedAt       time.Time
	Duration        time.Duration
	TotalPoints     int
	Warmed          int
	Failed          int
	BucketsComputed int

	// Forecasts is the number of points with a derived traffic outlook.
	Forecasts int

	Errors []RefreshError
}

// RefreshError records a failed warm-up for one point.
type RefreshError struct {
	Point geo.Point
	Error string
}

// Run warms every configured point concurrently and reports the outcome.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	startedAt := j.now()
	points := j.config.AllPoints()
	result := &RefreshResult{
		StartedAt:   startedAt,
		TotalPoints: len(points),
	}

	j.logger.Info().
		Int("total_points", result.TotalPoints).
		Int("concurrency", j.config.Concurrency).
		Int("hours_ahead", j.config.HoursAhead).
		Msg("starting pattern warm-up")

	work := make(chan geo.Point, len(points))
	results := make(chan pointResult, len(points))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for point := range work {
				select {
				case <-ctx.Done():
					return
				default:
					results <- j.warmPoint(ctx, point)
				}
			}
		}()
	}

	for _, p := range points {
		work <- p
	}
	close(work)

	go func() {
		wg.Wait()
		close(results)
	}()

	for pr := range results {
		if pr.err == "" {
			result.Warmed++
		} else {
			result.Failed++
			result.Errors = append(result.Errors, RefreshError{Point: pr.point, Error: pr.err})
		}
		result.BucketsComputed += pr.buckets
		if pr.forecast {
			result.Forecasts++
		}
	}

	result.Duration = time.Since(startedAt)
	j.record(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("warmed", result.Warmed).
		Int("failed", result.Failed).
		Int("buckets", result.BucketsComputed).
		Msg("pattern warm-up completed")

	return result
}

type pointResult struct {
	point    geo.Point
	buckets  int
	forecast bool
	err      string
}

// warmPoint precomputes the current and upcoming hour buckets for one point.
// Locations with no recorded history are skipped, not failed.
func (j *RefreshJob) warmPoint(ctx context.Context, point geo.Point) pointResult {
	result := pointResult{point: point}

	warmCtx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	base := j.now()
	var current []traffic.Pattern
	for h := 0; h < j.config.HoursAhead; h++ {
		at := base.Add(time.Duration(h) * time.Hour)
		patterns, err := j.patterns.GetPatterns(warmCtx, point, at.Weekday(), at.Hour())
		if errors.Is(err, traffic.ErrNoHistoricalData) {
			continue
		}
		if err != nil {
			result.err = err.Error()
			return result
		}
		if h == 0 {
			current = patterns
		}
		result.buckets++
	}

	if len(current) > 0 {
		j.logOutlook(point, current, base)
		result.forecast = true
	}

	return result
}

// logOutlook derives the 24h forecast and congestion trend for a freshly
// warmed point, so a refresh run doubles as an operator-visible report of
// what the patterns say.
func (j *RefreshJob) logOutlook(point geo.Point, patterns []traffic.Pattern, now time.Time) {
	prediction := traffic.Predict(point, patterns, now)

	var history []traffic.Snapshot
	for _, p := range patterns {
		for _, h := range p.Historical {
			history = append(history, traffic.Snapshot{
				Timestamp:       h.Timestamp,
				AverageSpeedKmh: h.SpeedKmh,
				Congestion:      h.Congestion,
			})
		}
	}
	// The analyzer expects its series oldest first.
	sort.Slice(history, func(a, b int) bool {
		return history[a].Timestamp.Before(history[b].Timestamp)
	})
	analysis := traffic.Analyze(history)

	j.logger.Debug().
		Float64("lat", point.Lat).
		Float64("lng", point.Lng).
		Str("trend", prediction.Trend).
		Float64("reliability", prediction.Reliability).
		Str("congestion_trend", analysis.CongestionTrend).
		Float64("next_hour_speed_kmh", analysis.NextHourSpeedKmh).
		Msg("traffic outlook for warmed point")
}

func (j *RefreshJob) record(result *RefreshResult) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.metrics.Runs++
	j.metrics.PointsWarmed += int64(result.Warmed)
	j.metrics.PointsFailed += int64(result.Failed)
	j.metrics.BucketsComputed += int64(result.BucketsComputed)
	j.metrics.LastRunAt = result.StartedAt
	j.metrics.LastRunDuration = result.Duration
}

// Metrics returns a copy of the accumulated job statistics.
func (j *RefreshJob) Metrics() RefreshMetrics {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.metrics
}
