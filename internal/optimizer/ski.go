package optimizer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/route"
	"github.com/tripforge/tripforge/internal/snow"
)

// unsuitableSkiTempC is the ambient temperature (45°F) at or above which snow
// conditions are considered unsuitable for skiing.
const unsuitableSkiTempC = 7.2

// SkiOptimizerConfig holds dependencies for the ski optimizer.
type SkiOptimizerConfig struct {
	Snow      SnowService
	Estimator EstimatorConfig
	Logger    zerolog.Logger
}

// SkiOptimizer computes ski legs from snow condition reports.
type SkiOptimizer struct {
	snow      SnowService
	estimator EstimatorConfig
	logger    zerolog.Logger
}

// NewSkiOptimizer creates a ski optimizer.
func NewSkiOptimizer(cfg SkiOptimizerConfig) *SkiOptimizer {
	return &SkiOptimizer{
		snow:      cfg.Snow,
		estimator: cfg.Estimator.withDefaults(),
		logger:    cfg.Logger,
	}
}

// OptimizeRoute computes the ski leg between two points.
func (o *SkiOptimizer) OptimizeRoute(ctx context.Context, start, end geo.Point, prefs route.Preferences) (*route.OptimizationResult, error) {
	report, err := o.snow.GetSnowReport(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching snow report: %w", err)
	}

	path := []geo.Point{start, end}
	distance := geo.PathDistance(path)
	duration := geo.EstimateBaseDuration(path, o.estimator.SkiSpeedKmh)

	var warnings []string

	difficulty := route.TerrainDifficult
	if report.Groomed {
		difficulty = route.TerrainModerate
	}

	safety := 0.9 * report.Quality.Score()

	if report.TemperatureC >= unsuitableSkiTempC {
		warnings = append(warnings, fmt.Sprintf(
			"conditions unsuitable for skiing: %.1f°C at the base", report.TemperatureC))
		safety = 0.3
		duration *= 1.5
	}

	if report.Quality == snow.QualityIcy {
		warnings = append(warnings, "icy surface: edges required")
	}

	if prefs.OptimizeFor == route.OptimizeSnowConditions && report.Quality.Score() < 0.5 {
		warnings = append(warnings, "snow quality below preference")
	}

	return &route.OptimizationResult{
		Path: path,
		Metrics: route.Metrics{
			DistanceM:         distance,
			DurationS:         duration,
			Safety:            clampSafety(safety),
			TerrainDifficulty: difficulty,
			SurfaceType:       "snow",
			SnowQuality:       string(report.Quality),
		},
		Warnings: warnings,
	}, nil
}
