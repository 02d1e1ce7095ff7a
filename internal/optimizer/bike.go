package optimizer

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/baseroute"
	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/route"
	"github.com/tripforge/tripforge/internal/terrain"
)

// BikeOptimizerConfig holds dependencies for the cycling optimizer.
type BikeOptimizerConfig struct {
	Terrain    TerrainService
	BaseRoutes BaseRouteService
	Estimator  EstimatorConfig
	Logger     zerolog.Logger
}

// BikeOptimizer computes cycling legs.
type BikeOptimizer struct {
	terrain    TerrainService
	baseRoutes BaseRouteService
	adjuster   *terrain.Adjuster
	estimator  EstimatorConfig
	logger     zerolog.Logger
}

// NewBikeOptimizer creates a cycling optimizer.
func NewBikeOptimizer(cfg BikeOptimizerConfig) *BikeOptimizer {
	return &BikeOptimizer{
		terrain:    cfg.Terrain,
		baseRoutes: cfg.BaseRoutes,
		adjuster:   terrain.NewAdjuster(terrain.AdjusterConfig{}),
		estimator:  cfg.Estimator.withDefaults(),
		logger:     cfg.Logger,
	}
}

// OptimizeRoute computes the cycling leg between two points.
func (o *BikeOptimizer) OptimizeRoute(ctx context.Context, start, end geo.Point, prefs route.Preferences) (*route.OptimizationResult, error) {
	speed := o.estimator.BikeSpeedKmh
	if prefs.TargetPaceKmh > 0 {
		speed = prefs.TargetPaceKmh
	}

	path, distance, duration, err := resolveBase(ctx, o.baseRoutes, start, end, baseroute.ProfileBike, speed)
	if err != nil {
		return nil, err
	}

	var warnings []string
	var elevation route.Elevation

	laneCoverage := o.estimator.BikeLaneCoverage
	if prefs.PreferBikeLanes && laneCoverage < 0.5 {
		warnings = append(warnings, "limited bike lane coverage on this leg")
	}

	if o.terrain != nil {
		profile, err := o.terrain.GetElevationProfile(ctx, start, end)
		if err != nil {
			o.logger.Warn().Err(err).Msg("no elevation data for cycling leg, using defaults")
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
			Safety:            0.85,
			TerrainDifficulty: route.TerrainModerate,
			SurfaceType:       "bike_lane",
			BikeLaneCoverage:  laneCoverage,
		},
		Warnings: warnings,
	}, nil
}
