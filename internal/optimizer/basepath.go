package optimizer

import (
	"context"
	"fmt"

	"github.com/tripforge/tripforge/internal/baseroute"
	"github.com/tripforge/tripforge/internal/geo"
)

// resolveBase returns the path, distance and base duration for a leg. With a
// base route service the road network geometry is used; without one the leg
// falls back to the straight line at the mode's average speed.
func resolveBase(ctx context.Context, svc BaseRouteService, start, end geo.Point, profile baseroute.Profile, speedKmh float64) ([]geo.Point, float64, float64, error) {
	if svc != nil {
		base, err := svc.GetBaseRoute(ctx, start, end, profile)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("fetching base route: %w", err)
		}
		path := base.Path
		if len(path) == 0 {
			path = []geo.Point{start, end}
		}
		duration := base.DurationS
		if duration == 0 {
			duration = geo.EstimateBaseDuration(path, speedKmh)
		}
		distance := base.DistanceM
		if distance == 0 {
			distance = geo.PathDistance(path)
		}
		return path, distance, duration, nil
	}

	path := []geo.Point{start, end}
	return path, geo.PathDistance(path), geo.EstimateBaseDuration(path, speedKmh), nil
}
