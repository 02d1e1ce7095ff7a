package optimizer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/baseroute"
	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/route"
	"github.com/tripforge/tripforge/internal/terrain"
)

// WalkOptimizerConfig holds dependencies for the walking optimizer.
type WalkOptimizerConfig struct {
	Terrain    TerrainService
	BaseRoutes BaseRouteService
	Estimator  EstimatorConfig
	Logger     zerolog.Logger
}

// WalkOptimizer computes walking legs.
type WalkOptimizer struct {
	terrain    TerrainService
	baseRoutes BaseRouteService
	adjuster   *terrain.Adjuster
	estimator  EstimatorConfig
	logger     zerolog.Logger
}

// NewWalkOptimizer creates a walking optimizer.
func NewWalkOptimizer(cfg WalkOptimizerConfig) *WalkOptimizer {
	return &WalkOptimizer{
		terrain:    cfg.Terrain,
		baseRoutes: cfg.BaseRoutes,
		adjuster:   terrain.NewAdjuster(terrain.AdjusterConfig{}),
		estimator:  cfg.Estimator.withDefaults(),
		logger:     cfg.Logger,
	}
}

// OptimizeRoute computes the walking leg between two points.
func (o *WalkOptimizer) OptimizeRoute(ctx context.Context, start, end geo.Point, prefs route.Preferences) (*route.OptimizationResult, error) {
	speed := o.estimator.WalkSpeedKmh
	if prefs.TargetPaceKmh > 0 {
		speed = prefs.TargetPaceKmh
	}

	path, distance, duration, err := resolveBase(ctx, o.baseRoutes, start, end, baseroute.ProfileFoot, speed)
	if err != nil {
		return nil, err
	}

	var warnings []string
	var elevation route.Elevation

	// Elevation is optional; a missing profile degrades to flat defaults.
	if o.terrain != nil {
		profile, err := o.terrain.GetElevationProfile(ctx, start, end)
		if err != nil {
			o.logger.Warn().Err(err).Msg("no elevation data for walking leg, using defaults")
		} else if profile != nil {
			adj := o.adjuster.Assess(profile, nil)
			duration *= adj.DurationFactor
			warnings = append(warnings, adj.Warnings...)
			elevation = route.Elevation{GainM: profile.Gain(), LossM: profile.Loss()}

			if prefs.AvoidHills && profile.MaxGrade > 0.08 {
				warnings = append(warnings, "no flat alternative found for this leg")
			}
		}
	}

	return &route.OptimizationResult{
		Path: path,
		Metrics: route.Metrics{
			DistanceM:         distance,
			DurationS:         duration,
			Elevation:         elevation,
			Safety:            0.95,
			TerrainDifficulty: route.TerrainEasy,
			SurfaceType:       "sidewalk",
		},
		Warnings: warnings,
	}, nil
}
