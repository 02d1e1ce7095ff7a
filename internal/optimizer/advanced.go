package optimizer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/route"
	"github.com/tripforge/tripforge/internal/terrain"
	"github.com/tripforge/tripforge/internal/weather"
)

const (
	weatherWrap = "failed to optimize route with weather"
	terrainWrap = "failed to optimize route for terrain"

	// detourOffsetDeg shifts the route midpoint when a detour is synthesized
	// (~550m of latitude).
	detourOffsetDeg = 0.005

	// rerouteGradeThreshold is the max grade above which a terrain detour is
	// synthesized.
	rerouteGradeThreshold = 0.15
)

// AdvancedConfig holds dependencies for the refinement passes.
type AdvancedConfig struct {
	// Inner computes the base leg being refined.
	Inner Optimizer

	// Weather supplies forecast conditions (for OptimizeWithWeather).
	Weather WeatherService

	// Terrain supplies elevation profiles (for OptimizeForTerrain).
	Terrain TerrainService

	// Logger for refinement events.
	Logger zerolog.Logger
}

// AdvancedOptimizer layers weather and terrain refinement over a base
// optimizer: severe conditions produce shelter-seeking detours, steep grades
// produce avoidance detours, and metrics are recomputed either way.
type AdvancedOptimizer struct {
	inner    Optimizer
	weather  WeatherService
	terrain  TerrainService
	adjuster *terrain.Adjuster
	logger   zerolog.Logger
}

// NewAdvancedOptimizer creates the refinement wrapper.
func NewAdvancedOptimizer(cfg AdvancedConfig) *AdvancedOptimizer {
	return &AdvancedOptimizer{
		inner:    cfg.Inner,
		weather:  cfg.Weather,
		terrain:  cfg.Terrain,
		adjuster: terrain.NewAdjuster(terrain.AdjusterConfig{}),
		logger:   cfg.Logger,
	}
}

// OptimizeRoute implements Optimizer, applying the weather refinement when a
// forecast source is configured. This lets the wrapper stand in for its inner
// optimizer in the mode registry.
func (o *AdvancedOptimizer) OptimizeRoute(ctx context.Context, start, end geo.Point, prefs route.Preferences) (*route.OptimizationResult, error) {
	if o.weather == nil {
		return o.inner.OptimizeRoute(ctx, start, end, prefs)
	}
	return o.OptimizeWithWeather(ctx, start, end, prefs)
}

// OptimizeWithWeather computes the base leg and adjusts it for forecast
// conditions. Severe weather produces a shelter-seeking detour through an
// offset midpoint with recomputed distance and duration.
func (o *AdvancedOptimizer) OptimizeWithWeather(ctx context.Context, start, end geo.Point, prefs route.Preferences) (*route.OptimizationResult, error) {
	result, err := o.inner.OptimizeRoute(ctx, start, end, prefs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", weatherWrap, err)
	}

	conditions, err := o.weather.GetForecast(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", weatherWrap, err)
	}

	impact := weather.Assess(conditions)

	if impact.Severe {
		o.logger.Info().
			Float64("duration_factor", impact.DurationFactor).
			Float64("safety", impact.SafetyScore).
			Msg("severe weather: applying shelter detour")
		o.applyDetour(result)
		result.Warnings = append(result.Warnings, "detour applied to pass near shelter")
	}

	result.Metrics.DurationS *= 1 + impact.DurationFactor
	result.Metrics.Safety = clampSafety(result.Metrics.Safety * impact.SafetyScore)
	result.Metrics.WeatherImpact = &impact.DurationFactor
	result.Warnings = append(result.Warnings, impact.Warnings...)

	return result, nil
}

// OptimizeForTerrain computes the base leg and reroutes it around grades above
// the threshold, recomputing the metrics for the detour.
func (o *AdvancedOptimizer) OptimizeForTerrain(ctx context.Context, start, end geo.Point, prefs route.Preferences) (*route.OptimizationResult, error) {
	result, err := o.inner.OptimizeRoute(ctx, start, end, prefs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", terrainWrap, err)
	}

	profile, err := o.terrain.GetElevationProfile(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", terrainWrap, err)
	}

	if profile.MaxGrade > rerouteGradeThreshold {
		o.logger.Info().
			Float64("max_grade", profile.MaxGrade).
			Msg("steep grade: rerouting around")
		o.applyDetour(result)
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("rerouted around %.0f%% grade", profile.MaxGrade*100))
	}

	adj := o.adjuster.Assess(profile, nil)
	result.Metrics.DurationS *= adj.DurationFactor
	result.Metrics.Safety = clampSafety(result.Metrics.Safety * adj.SafetyScore)
	result.Metrics.Elevation = route.Elevation{GainM: profile.Gain(), LossM: profile.Loss()}
	result.Metrics.TerrainDifficulty = route.TerrainDifficulty(terrain.Classify(profile, nil))
	result.Warnings = append(result.Warnings, adj.Warnings...)

	return result, nil
}

// applyDetour bends the route through an offset midpoint and recomputes the
// distance-derived metrics, preserving the implied travel speed.
func (o *AdvancedOptimizer) applyDetour(result *route.OptimizationResult) {
	path := result.Path
	if len(path) < 2 {
		return
	}

	oldDistance := result.Metrics.DistanceM
	if oldDistance == 0 {
		oldDistance = geo.PathDistance(path)
	}

	mid := geo.Interpolate(path[0], path[len(path)-1], 0.5)
	mid.Lat += detourOffsetDeg

	detoured := []geo.Point{path[0], mid, path[len(path)-1]}
	newDistance := geo.PathDistance(detoured)

	result.Path = detoured
	result.Metrics.DistanceM = newDistance
	if oldDistance > 0 {
		result.Metrics.DurationS *= newDistance / oldDistance
	}
}
