// Package baseroute fetches road-network route geometry from external routing
// engines. Optimizers refine these base routes with weather, terrain and
// traffic data.
package baseroute

import (
	"context"
	"errors"
	"time"

	"github.com/tripforge/tripforge/internal/geo"
)

// Base routing errors.
var (
	ErrProviderUnavailable = errors.New("routing provider unavailable")
	ErrNoRouteFound        = errors.New("no route found")
	ErrInvalidCoordinates  = errors.New("invalid coordinates")
	ErrRateLimited         = errors.New("routing provider rate limit exceeded")
)

// Profile selects the road network graph used for routing.
type Profile string

const (
	ProfileCar  Profile = "car"
	ProfileFoot Profile = "foot"
	ProfileBike Profile = "bike"
)

// BaseRoute is the road-network geometry and timing for one leg, before any
// weather, terrain or traffic refinement.
type BaseRoute struct {
	// Path is the route geometry, start to end.
	Path []geo.Point

	// DistanceM is the traveled distance in meters.
	DistanceM float64

	// DurationS is the provider's base travel time estimate in seconds.
	DurationS float64

	// Provider identifies the routing engine that produced this route.
	Provider string

	// FetchedAt is when the route was retrieved.
	FetchedAt time.Time
}

// Provider defines the interface for base routing engines.
type Provider interface {
	// GetBaseRoute computes a route between two points for a profile.
	GetBaseRoute(ctx context.Context, start, end geo.Point, profile Profile) (*BaseRoute, error)

	// Name returns the provider name for logging.
	Name() string
}

// Error wraps a provider failure with enough detail for logging and
// problem responses.
type Error struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
