// Package worker provides background jobs for the TripForge engine: scheduled
// traffic-pattern warm-up over the configured metro areas, triggered by
// Pub/Sub messages.
package worker

import (
	"sort"
	"time"

	"github.com/tripforge/tripforge/internal/geo"
)

// RefreshTarget is one geographic region whose traffic patterns are kept warm.
type RefreshTarget struct {
	// Name of the region, for logging.
	Name string

	// Points are the locations to warm, typically city centers and major
	// interchanges.
	Points []geo.Point

	// Priority orders refresh work (lower first).
	Priority int
}

// RefreshConfig tunes the pattern warm-up job.
type RefreshConfig struct {
	// Targets are the regions to warm. Empty uses DefaultRefreshTargets.
	Targets []RefreshTarget

	// Concurrency is the number of points warmed in parallel (default: 4).
	Concurrency int

	// Timeout bounds the warm-up of a single point (default: 30s).
	Timeout time.Duration

	// HoursAhead is how many upcoming hour buckets to precompute per point,
	// starting with the current hour (default: 3).
	HoursAhead int
}

// DefaultRefreshConfig returns the working defaults.
func DefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		Targets:     DefaultRefreshTargets(),
		Concurrency: 4,
		Timeout:     30 * time.Second,
		HoursAhead:  3,
	}
}

// DefaultRefreshTargets covers the metro areas and alpine hubs most trips
// pass through.
func DefaultRefreshTargets() []RefreshTarget {
	return []RefreshTarget{
		{
			Name:     "Amsterdam",
			Priority: 1,
			Points: []geo.Point{
				{Lat: 52.3676, Lng: 4.9041},
				{Lat: 52.3105, Lng: 4.7683}, // Schiphol
			},
		},
		{
			Name:     "Munich",
			Priority: 1,
			Points: []geo.Point{
				{Lat: 48.1374, Lng: 11.5755},
				{Lat: 48.3538, Lng: 11.7861}, // MUC airport
			},
		},
		{
			Name:     "Zurich",
			Priority: 1,
			Points: []geo.Point{
				{Lat: 47.3769, Lng: 8.5417},
			},
		},
		{
			Name:     "Innsbruck",
			Priority: 2,
			Points: []geo.Point{
				{Lat: 47.2692, Lng: 11.4041},
			},
		},
		{
			Name:     "Chamonix",
			Priority: 2,
			Points: []geo.Point{
				{Lat: 45.9237, Lng: 6.8694},
			},
		},
		{
			Name:     "Geneva",
			Priority: 2,
			Points: []geo.Point{
				{Lat: 46.2044, Lng: 6.1432},
			},
		},
		{
			Name:     "Grenoble",
			Priority: 3,
			Points: []geo.Point{
				{Lat: 45.1885, Lng: 5.7245},
			},
		},
	}
}

// AllPoints returns every point across all targets, in priority order.
func (c RefreshConfig) AllPoints() []geo.Point {
	targets := make([]RefreshTarget, len(c.Targets))
	copy(targets, c.Targets)
	sort.SliceStable(targets, func(i, j int) bool { return targets[i].Priority < targets[j].Priority })

	var points []geo.Point
	for _, target := range targets {
		points = append(points, target.Points...)
	}
	return points
}

// TotalPoints returns the number of points the job will warm.
func (c RefreshConfig) TotalPoints() int {
	total := 0
	for _, target := range c.Targets {
		total += len(target.Points)
	}
	return total
}
