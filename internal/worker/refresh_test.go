package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/traffic"
)

// fakeWarmer records warm-up calls and can fail for chosen locations.
type fakeWarmer struct {
	mu      sync.Mutex
	calls   int
	err     error
	failLat float64
	failErr error
}

func (f *fakeWarmer) GetPatterns(_ context.Context, location geo.Point, _ time.Weekday, _ int) ([]traffic.Pattern, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.failErr != nil && location.Lat == f.failLat {
		return nil, f.failErr
	}
	if f.err != nil {
		return nil, f.err
	}
	return []traffic.Pattern{{HourOfDay: 8, AverageSpeedKmh: 40}}, nil
}

func (f *fakeWarmer) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func testConfig(points ...geo.Point) RefreshConfig {
	return RefreshConfig{
		Targets:     []RefreshTarget{{Name: "test", Points: points}},
		Concurrency: 2,
		Timeout:     5 * time.Second,
		HoursAhead:  3,
	}
}

func fixedNow() time.Time {
	return time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC)
}

func TestRefreshJob_WarmsAllPoints(t *testing.T) {
	warmer := &fakeWarmer{}
	job := NewRefreshJob(RefreshJobConfig{
		Config: testConfig(
			geo.Point{Lat: 52.37, Lng: 4.90},
			geo.Point{Lat: 48.14, Lng: 11.58},
			geo.Point{Lat: 47.38, Lng: 8.54},
		),
		Patterns: warmer,
		Logger:   zerolog.Nop(),
		now:      fixedNow,
	})

	result := job.Run(context.Background())

	if result.TotalPoints != 3 {
		t.Errorf("total points = %d, want 3", result.TotalPoints)
	}
	if result.Warmed != 3 {
		t.Errorf("warmed = %d, want 3", result.Warmed)
	}
	if result.Failed != 0 {
		t.Errorf("failed = %d, want 0", result.Failed)
	}
	// Three hour buckets per point.
	if result.BucketsComputed != 9 {
		t.Errorf("buckets = %d, want 9", result.BucketsComputed)
	}
	if warmer.callCount() != 9 {
		t.Errorf("warmer calls = %d, want 9", warmer.callCount())
	}
	// Every point had current-hour patterns, so each gets an outlook.
	if result.Forecasts != 3 {
		t.Errorf("forecasts = %d, want 3", result.Forecasts)
	}
}

func TestRefreshJob_NoHistoryIsNotFailure(t *testing.T) {
	warmer := &fakeWarmer{err: traffic.ErrNoHistoricalData}
	job := NewRefreshJob(RefreshJobConfig{
		Config:   testConfig(geo.Point{Lat: 52.37, Lng: 4.90}),
		Patterns: warmer,
		Logger:   zerolog.Nop(),
		now:      fixedNow,
	})

	result := job.Run(context.Background())

	if result.Failed != 0 {
		t.Errorf("failed = %d, unseeded locations must be skipped", result.Failed)
	}
	if result.Warmed != 1 {
		t.Errorf("warmed = %d, want 1", result.Warmed)
	}
	if result.BucketsComputed != 0 {
		t.Errorf("buckets = %d, want 0 when no history exists", result.BucketsComputed)
	}
	if result.Forecasts != 0 {
		t.Errorf("forecasts = %d, want none without patterns", result.Forecasts)
	}
}

func TestRefreshJob_RecordsFailures(t *testing.T) {
	warmer := &fakeWarmer{
		failLat: 48.14,
		failErr: errors.New("history store down"),
	}
	job := NewRefreshJob(RefreshJobConfig{
		Config: testConfig(
			geo.Point{Lat: 52.37, Lng: 4.90},
			geo.Point{Lat: 48.14, Lng: 11.58},
		),
		Patterns: warmer,
		Logger:   zerolog.Nop(),
		now:      fixedNow,
	})

	result := job.Run(context.Background())

	if result.Warmed != 1 {
		t.Errorf("warmed = %d, want 1", result.Warmed)
	}
	if result.Failed != 1 {
		t.Errorf("failed = %d, want 1", result.Failed)
	}
	if len(result.Errors) != 1 || result.Errors[0].Point.Lat != 48.14 {
		t.Errorf("errors = %v, want the failing point recorded", result.Errors)
	}
}

func TestRefreshJob_AppliesDefaults(t *testing.T) {
	job := NewRefreshJob(RefreshJobConfig{
		Patterns: &fakeWarmer{},
		Logger:   zerolog.Nop(),
	})

	if len(job.config.Targets) == 0 {
		t.Error("empty config must fall back to default targets")
	}
	if job.config.Concurrency != 4 {
		t.Errorf("concurrency = %d, want 4", job.config.Concurrency)
	}
	if job.config.HoursAhead != 3 {
		t.Errorf("hours ahead = %d, want 3", job.config.HoursAhead)
	}
	if job.config.TotalPoints() != len(job.config.AllPoints()) {
		t.Error("TotalPoints must match AllPoints length")
	}
}

func TestRefreshJob_MetricsAccumulate(t *testing.T) {
	warmer := &fakeWarmer{}
	job := NewRefreshJob(RefreshJobConfig{
		Config:   testConfig(geo.Point{Lat: 52.37, Lng: 4.90}),
		Patterns: warmer,
		Logger:   zerolog.Nop(),
		now:      fixedNow,
	})

	job.Run(context.Background())
	job.Run(context.Background())

	metrics := job.Metrics()
	if metrics.Runs != 2 {
		t.Errorf("runs = %d, want 2", metrics.Runs)
	}
	if metrics.PointsWarmed != 2 {
		t.Errorf("points warmed = %d, want 2", metrics.PointsWarmed)
	}
	if metrics.BucketsComputed != 6 {
		t.Errorf("buckets = %d, want 6", metrics.BucketsComputed)
	}
}

func TestRefreshConfig_PriorityOrdering(t *testing.T) {
	cfg := RefreshConfig{
		Targets: []RefreshTarget{
			{Name: "later", Priority: 3, Points: []geo.Point{{Lat: 2}}},
			{Name: "first", Priority: 1, Points: []geo.Point{{Lat: 1}}},
		},
	}

	points := cfg.AllPoints()
	if len(points) != 2 {
		t.Fatalf("got %d points, want 2", len(points))
	}
	if points[0].Lat != 1 {
		t.Errorf("first point lat = %f, want the priority-1 target first", points[0].Lat)
	}
}
