// Package terrain models elevation profiles and road/trail conditions and
// their effect on segment duration and safety.
package terrain

import (
	"context"
	"errors"

	"github.com/tripforge/tripforge/internal/geo"
)

// Terrain errors.
var (
	ErrProviderUnavailable = errors.New("terrain provider unavailable")
	ErrNoElevationData     = errors.New("no elevation data for segment")
)

// ElevationPoint is one sample of an elevation profile.
type ElevationPoint struct {
	DistanceM  float64
	ElevationM float64
}

// ElevationProfile is the sampled vertical profile of a segment.
type ElevationProfile struct {
	Points   []ElevationPoint
	MaxGrade float64 // steepest grade as a ratio, e.g. 0.12 for 12%
}

// Gain returns total meters climbed along the profile.
func (p *ElevationProfile) Gain() float64 {
	var gain float64
	for i := 1; i < len(p.Points); i++ {
		if d := p.Points[i].ElevationM - p.Points[i-1].ElevationM; d > 0 {
			gain += d
		}
	}
	return gain
}

// Loss returns total meters descended along the profile.
func (p *ElevationProfile) Loss() float64 {
	var loss float64
	for i := 1; i < len(p.Points); i++ {
		if d := p.Points[i-1].ElevationM - p.Points[i].ElevationM; d > 0 {
			loss += d
		}
	}
	return loss
}

// RoadCondition classifies the state of a road or trail surface.
type RoadCondition string

const (
	RoadGood RoadCondition = "good"
	RoadFair RoadCondition = "fair"
	RoadPoor RoadCondition = "poor"
)

// RoadConditions describes the surface state of a segment.
type RoadConditions struct {
	Condition   RoadCondition
	SurfaceType string
	Hazards     []string
}

// Provider defines the interface for terrain and elevation data providers.
type Provider interface {
	// GetElevationProfile fetches the elevation profile along a segment.
	GetElevationProfile(ctx context.Context, start, end geo.Point) (*ElevationProfile, error)

	// GetRoadConditions fetches the road/trail condition for a segment.
	GetRoadConditions(ctx context.Context, start, end geo.Point) (*RoadConditions, error)

	// Name returns the provider name for logging.
	Name() string
}
