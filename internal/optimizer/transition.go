package optimizer

import (
	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/route"
)

// transitionSafety is the fixed safety score assigned to mode switches.
const transitionSafety = 0.95

// defaultTransitionS applies to mode pairs not listed in the matrix.
const defaultTransitionS = 300

type modePair struct {
	from, to route.ActivityType
}

// transitionDurations is the mode switch cost matrix in seconds. Parking a
// car or retrieving a bike costs more than stepping out of a station; ski
// transitions include gear changes.
var transitionDurations = map[modePair]float64{
	{route.ActivityCar, route.ActivityWalk}:             300,
	{route.ActivityWalk, route.ActivityCar}:             300,
	{route.ActivityCar, route.ActivityBike}:             600,
	{route.ActivityBike, route.ActivityCar}:             600,
	{route.ActivityCar, route.ActivityPublicTransport}:  600,
	{route.ActivityPublicTransport, route.ActivityCar}:  300,
	{route.ActivityPublicTransport, route.ActivityWalk}: 300,
	{route.ActivityWalk, route.ActivityPublicTransport}: 300,
	{route.ActivityBike, route.ActivityPublicTransport}: 600,
	{route.ActivityPublicTransport, route.ActivityBike}: 600,
	{route.ActivityWalk, route.ActivitySki}:             900,
	{route.ActivitySki, route.ActivityWalk}:             600,
	{route.ActivityCar, route.ActivitySki}:              900,
	{route.ActivitySki, route.ActivityCar}:              600,
}

// TransitionDuration returns the deterministic cost in seconds of switching
// between two travel modes.
func TransitionDuration(from, to route.ActivityType) float64 {
	if d, ok := transitionDurations[modePair{from, to}]; ok {
		return d
	}
	return defaultTransitionS
}

// Transition builds the synthetic result representing a mode switch at a
// point: zero distance, fixed safety, surface type "transfer".
func Transition(from, to route.ActivityType, at geo.Point) route.OptimizationResult {
	return route.OptimizationResult{
		Path: []geo.Point{at},
		Metrics: route.Metrics{
			DistanceM:   0,
			DurationS:   TransitionDuration(from, to),
			Safety:      transitionSafety,
			SurfaceType: route.SurfaceTransfer,
		},
	}
}
