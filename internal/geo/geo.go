// Package geo provides geographic primitives for the route optimization engine:
// points, great-circle distances, path lengths and speed-based duration estimates.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle math.
const EarthRadiusMeters = 6371000.0

// ContinuityEpsilon is the maximum per-coordinate difference under which two
// points are considered the same location when validating segment chains.
const ContinuityEpsilon = 1e-10

// Point is an immutable geographic coordinate.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ApproxEqual reports whether p and q differ by at most ContinuityEpsilon
// in both coordinates.
func (p Point) ApproxEqual(q Point) bool {
	return math.Abs(p.Lat-q.Lat) <= ContinuityEpsilon &&
		math.Abs(p.Lng-q.Lng) <= ContinuityEpsilon
}

// Validate checks that the point lies within valid coordinate ranges.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", p.Lng)
	}
	return nil
}

// Haversine returns the great-circle distance between a and b in meters.
func Haversine(a, b Point) float64 {
	lat1 := toRad(a.Lat)
	lat2 := toRad(b.Lat)
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	return 2 * EarthRadiusMeters * math.Asin(math.Sqrt(h))
}

// PathDistance returns the summed haversine length of a path in meters.
// Paths with fewer than two points have zero length.
func PathDistance(path []Point) float64 {
	if len(path) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(path); i++ {
		total += Haversine(path[i-1], path[i])
	}
	return total
}

// EstimateBaseDuration returns the time in seconds to cover path at the given
// average speed in km/h. Returns 0 when the speed is not positive.
func EstimateBaseDuration(path []Point, averageSpeedKmh float64) float64 {
	if averageSpeedKmh <= 0 {
		return 0
	}
	return PathDistance(path) / 1000 / averageSpeedKmh * 3600
}

// Interpolate returns the point at the given fraction along the straight line
// from a to b. Fractions outside [0, 1] are clamped.
func Interpolate(a, b Point, fraction float64) Point {
	switch {
	case fraction <= 0:
		return a
	case fraction >= 1:
		return b
	}
	return Point{
		Lat: a.Lat + fraction*(b.Lat-a.Lat),
		Lng: a.Lng + fraction*(b.Lng-a.Lng),
	}
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
