package optimizer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tripforge/tripforge/internal/baseroute"
	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/route"
	"github.com/tripforge/tripforge/internal/terrain"
	"github.com/tripforge/tripforge/internal/traffic"
)

// congestionWarningThreshold is the congestion level above which any single
// flow segment triggers a heavy-traffic warning.
const congestionWarningThreshold = 0.7

// CarOptimizerConfig holds dependencies for the car optimizer. Traffic is
// required; the other services are optional and degrade to defaults.
type CarOptimizerConfig struct {
	Traffic      TrafficService
	Terrain      TerrainService
	Restrictions RestrictionProvider
	BaseRoutes   BaseRouteService
	Estimator    EstimatorConfig
	Logger       zerolog.Logger
}

// CarOptimizer computes driving legs from live traffic, road conditions and
// access restrictions.
type CarOptimizer struct {
	traffic      TrafficService
	terrain      TerrainService
	restrictions RestrictionProvider
	baseRoutes   BaseRouteService
	adjuster     *terrain.Adjuster
	estimator    EstimatorConfig
	logger       zerolog.Logger
}

// NewCarOptimizer creates a car optimizer.
func NewCarOptimizer(cfg CarOptimizerConfig) *CarOptimizer {
	return &CarOptimizer{
		traffic:      cfg.Traffic,
		terrain:      cfg.Terrain,
		restrictions: cfg.Restrictions,
		baseRoutes:   cfg.BaseRoutes,
		adjuster:     terrain.NewAdjuster(terrain.AdjusterConfig{}),
		estimator:    cfg.Estimator.withDefaults(),
		logger:       cfg.Logger,
	}
}

// OptimizeRoute computes the driving leg between two points.
func (o *CarOptimizer) OptimizeRoute(ctx context.Context, start, end geo.Point, prefs route.Preferences) (*route.OptimizationResult, error) {
	path, distance, baseDuration, err := resolveBase(ctx, o.baseRoutes, start, end, baseroute.ProfileCar, o.estimator.CarSpeedKmh)
	if err != nil {
		return nil, err
	}

	data, err := o.traffic.GetTrafficData(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching traffic data: %w", err)
	}

	var warnings []string

	// Traffic: congestion stretches duration, incidents add fixed delays.
	congestion := averageCongestion(data.Segments)
	duration := baseDuration * (1 + 0.5*congestion)
	if prefs.AvoidTraffic && congestion > 0 {
		// Caller prefers detours over sitting in traffic; assume the longer
		// but freer route costs distance instead of delay.
		duration = baseDuration * (1 + 0.2*congestion)
		distance *= 1 + 0.1*congestion
	}
	var incidentDelay float64
	for _, inc := range data.Incidents {
		incidentDelay += inc.DelayS
	}
	duration += incidentDelay
	trafficDelay := duration - baseDuration

	// The warning keys off the worst segment: one jammed stretch matters even
	// when the rest of the route flows freely.
	if worst := maxCongestion(data.Segments); worst > congestionWarningThreshold {
		warnings = append(warnings, fmt.Sprintf("heavy congestion on route: %.0f%%", worst*100))
	}

	safety := 1.0 - 0.3*congestion

	// Terrain: road condition and elevation are optional refinements.
	var profile *terrain.ElevationProfile
	var roads *terrain.RoadConditions
	if o.terrain != nil {
		profile, err = o.terrain.GetElevationProfile(ctx, start, end)
		if err != nil {
			o.logger.Warn().Err(err).Msg("no elevation data for car leg, using defaults")
			profile = nil
		}
		roads, err = o.terrain.GetRoadConditions(ctx, start, end)
		if err != nil {
			o.logger.Warn().Err(err).Msg("no road condition data for car leg, using defaults")
			roads = nil
		}
	}

	adj := o.adjuster.Assess(profile, roads)
	duration *= adj.DurationFactor
	safety *= adj.SafetyScore
	warnings = append(warnings, adj.Warnings...)

	// Restrictions are warnings, not reroutes; the base route provider
	// already avoids hard closures.
	if o.restrictions != nil {
		restrictions, err := o.restrictions.GetRoadRestrictions(ctx, start, end)
		if err != nil {
			o.logger.Warn().Err(err).Msg("no restriction data for car leg")
		}
		for _, r := range restrictions {
			warnings = append(warnings, "restricted segment: "+r.Type)
			safety *= 0.95
		}
	}

	metrics := route.Metrics{
		DistanceM:         distance,
		DurationS:         duration,
		Safety:            clampSafety(safety),
		TerrainDifficulty: route.TerrainDifficulty(terrain.Classify(profile, roads)),
		SurfaceType:       "road",
		TrafficDelayS:     trafficDelay,
		StopCount:         len(data.Incidents),
		// Stop-and-go traffic burns more fuel than free flow.
		FuelEfficiencyL100Km: o.estimator.FuelEfficiencyL100Km * (1 + 0.5*congestion),
	}
	if profile != nil {
		metrics.Elevation = route.Elevation{GainM: profile.Gain(), LossM: profile.Loss()}
	}

	return &route.OptimizationResult{
		Path:     path,
		Metrics:  metrics,
		Warnings: warnings,
	}, nil
}

// averageCongestion is the mean congestion level over flow segments.
func averageCongestion(segments []traffic.FlowSegment) float64 {
	if len(segments) == 0 {
		return 0
	}
	var sum float64
	for _, s := range segments {
		sum += s.CongestionLevel
	}
	return sum / float64(len(segments))
}

// maxCongestion is the worst congestion level over flow segments.
func maxCongestion(segments []traffic.FlowSegment) float64 {
	var worst float64
	for _, s := range segments {
		if s.CongestionLevel > worst {
			worst = s.CongestionLevel
		}
	}
	return worst
}

func clampSafety(s float64) float64 {
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
