package optimizer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/route"
)

// transitDelayWarningS is the reported delay above which a warning is emitted.
const transitDelayWarningS = 300

// TransitOptimizerConfig holds dependencies for the public transport optimizer.
type TransitOptimizerConfig struct {
	Transit   TransitService
	Estimator EstimatorConfig
	Logger    zerolog.Logger
}

// TransitOptimizer computes public transport legs from schedule data.
type TransitOptimizer struct {
	transit   TransitService
	estimator EstimatorConfig
	logger    zerolog.Logger
}

// NewTransitOptimizer creates a public transport optimizer.
func NewTransitOptimizer(cfg TransitOptimizerConfig) *TransitOptimizer {
	return &TransitOptimizer{
		transit:   cfg.Transit,
		estimator: cfg.Estimator.withDefaults(),
		logger:    cfg.Logger,
	}
}

// OptimizeRoute computes the public transport leg between two points.
func (o *TransitOptimizer) OptimizeRoute(ctx context.Context, start, end geo.Point, _ route.Preferences) (*route.OptimizationResult, error) {
	schedule, err := o.transit.GetSchedule(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching transit schedule: %w", err)
	}

	// Path follows the stops when known, otherwise the straight line.
	path := []geo.Point{start, end}
	if len(schedule.Stops) >= 2 {
		path = make([]geo.Point, 0, len(schedule.Stops))
		for _, stop := range schedule.Stops {
			path = append(path, stop.Location)
		}
	}

	distance := geo.PathDistance(path)
	duration := geo.EstimateBaseDuration(path, o.estimator.TransitSpeedKmh)

	// Expected wait is half the headway between departures.
	duration += schedule.AverageHeadwayS / 2

	var warnings []string
	if delay := schedule.MaxDelayS(); delay > transitDelayWarningS {
		duration += delay
		warnings = append(warnings, fmt.Sprintf("transit delays reported: up to %.0f min", delay/60))
	}

	return &route.OptimizationResult{
		Path: path,
		Metrics: route.Metrics{
			DistanceM:         distance,
			DurationS:         duration,
			Safety:            0.98,
			TerrainDifficulty: route.TerrainEasy,
			SurfaceType:       "rail",
			StopCount:         schedule.StopCount(),
		},
		Warnings: warnings,
	}, nil
}
