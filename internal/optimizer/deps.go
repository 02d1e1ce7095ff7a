// Package optimizer turns mode-tagged segments into metric-annotated route
// results: per-mode optimizers, a transition cost matrix, a multi-segment
// orchestrator and weather/terrain refinement passes.
package optimizer

import (
	"context"

	"github.com/tripforge/tripforge/internal/baseroute"
	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/route"
	"github.com/tripforge/tripforge/internal/snow"
	"github.com/tripforge/tripforge/internal/terrain"
	"github.com/tripforge/tripforge/internal/traffic"
	"github.com/tripforge/tripforge/internal/transit"
	"github.com/tripforge/tripforge/internal/weather"
)

// Optimizer is the per-mode optimization contract.
type Optimizer interface {
	OptimizeRoute(ctx context.Context, start, end geo.Point, prefs route.Preferences) (*route.OptimizationResult, error)
}

// Narrow views of the data services, so optimizers can take either a cached
// service or a bare provider.

// BaseRouteService supplies road-network geometry.
type BaseRouteService interface {
	GetBaseRoute(ctx context.Context, start, end geo.Point, profile baseroute.Profile) (*baseroute.BaseRoute, error)
}

// WeatherService supplies forecast conditions along a segment.
type WeatherService interface {
	GetForecast(ctx context.Context, start, end geo.Point) (*weather.Conditions, error)
}

// TerrainService supplies elevation profiles and road conditions.
type TerrainService interface {
	GetElevationProfile(ctx context.Context, start, end geo.Point) (*terrain.ElevationProfile, error)
	GetRoadConditions(ctx context.Context, start, end geo.Point) (*terrain.RoadConditions, error)
}

// TrafficService supplies live traffic data along a segment.
type TrafficService interface {
	GetTrafficData(ctx context.Context, start, end geo.Point) (*traffic.Data, error)
}

// TransitService supplies transit schedules between two points.
type TransitService interface {
	GetSchedule(ctx context.Context, start, end geo.Point) (*transit.Schedule, error)
}

// SnowService supplies snow reports for an area.
type SnowService interface {
	GetSnowReport(ctx context.Context, start, end geo.Point) (*snow.Report, error)
}

// Restriction is an access limitation on a road segment.
type Restriction struct {
	Type        string // e.g. "no_through_traffic", "toll", "seasonal_closure"
	Location    geo.Point
	Description string
}

// RestrictionProvider supplies road access restrictions along a segment.
type RestrictionProvider interface {
	GetRoadRestrictions(ctx context.Context, start, end geo.Point) ([]Restriction, error)
}
