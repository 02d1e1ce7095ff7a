// Package route defines the domain model for the multi-segment route
// optimization engine: segments, preferences, metrics and results.
package route

import (
	"errors"

	"github.com/tripforge/tripforge/internal/geo"
)

// Sentinel errors for route optimization.
var (
	// ErrNoSegments indicates an empty segment chain was submitted.
	ErrNoSegments = errors.New("no segments provided")
	// ErrDiscontinuousChain indicates adjacent segments do not share an endpoint.
	ErrDiscontinuousChain = errors.New("segment chain is discontinuous")
	// ErrUnsupportedActivity indicates no optimizer exists for the activity type.
	ErrUnsupportedActivity = errors.New("unsupported activity type")
	// ErrProviderUnavailable indicates a required upstream data provider failed.
	ErrProviderUnavailable = errors.New("upstream provider unavailable")
)

// ActivityType is the travel mode of a single route segment.
type ActivityType string

const (
	ActivityCar             ActivityType = "CAR"
	ActivityWalk            ActivityType = "WALK"
	ActivityBike            ActivityType = "BIKE"
	ActivityPublicTransport ActivityType = "PUBLIC_TRANSPORT"
	ActivitySki             ActivityType = "SKI"
)

// Valid reports whether the activity type is one of the known modes.
func (a ActivityType) Valid() bool {
	switch a {
	case ActivityCar, ActivityWalk, ActivityBike, ActivityPublicTransport, ActivitySki:
		return true
	}
	return false
}

// OptimizeFor selects the primary optimization objective.
type OptimizeFor string

const (
	OptimizeTime           OptimizeFor = "TIME"
	OptimizeSafety         OptimizeFor = "SAFETY"
	OptimizeScenic         OptimizeFor = "SCENIC"
	OptimizeSnowConditions OptimizeFor = "SNOW_CONDITIONS"
)

// Preferences carries caller preferences for a segment optimization.
type Preferences struct {
	OptimizeFor     OptimizeFor `json:"optimizeFor,omitempty"`
	AvoidHills      bool        `json:"avoidHills,omitempty"`
	PreferBikeLanes bool        `json:"preferBikeLanes,omitempty"`
	AvoidTraffic    bool        `json:"avoidTraffic,omitempty"`
	TargetPaceKmh   float64     `json:"targetPace,omitempty"`
	MaxDistanceM    float64     `json:"maxDistance,omitempty"`
}

// Segment is one leg of a multi-modal trip.
type Segment struct {
	StartPoint   geo.Point    `json:"startPoint"`
	EndPoint     geo.Point    `json:"endPoint"`
	ActivityType ActivityType `json:"activityType"`
	Preferences  Preferences  `json:"preferences"`
}

// TerrainDifficulty classifies terrain by grade, surface and hazards.
type TerrainDifficulty string

const (
	TerrainEasy      TerrainDifficulty = "EASY"
	TerrainModerate  TerrainDifficulty = "MODERATE"
	TerrainDifficult TerrainDifficulty = "DIFFICULT"
	TerrainExpert    TerrainDifficulty = "EXPERT"
)

// Elevation summarizes the vertical profile of a segment.
type Elevation struct {
	GainM   float64   `json:"gain"`
	LossM   float64   `json:"loss"`
	Profile []float64 `json:"profile,omitempty"`
}

// Metrics holds the quantitative outcome of a segment optimization.
// WeatherImpact is nil when no weather data contributed.
type Metrics struct {
	DistanceM         float64           `json:"distance"`
	DurationS         float64           `json:"duration"`
	Elevation         Elevation         `json:"elevation"`
	Safety            float64           `json:"safety"`
	WeatherImpact     *float64          `json:"weatherImpact,omitempty"`
	TerrainDifficulty TerrainDifficulty `json:"terrainDifficulty,omitempty"`
	SurfaceType       string            `json:"surfaceType,omitempty"`

	// Mode-specific extensions. Zero values mean "not applicable".
	FuelEfficiencyL100Km float64     `json:"fuelEfficiency,omitempty"`
	TrafficDelayS        float64     `json:"trafficDelay,omitempty"`
	StopCount            int         `json:"stopCount,omitempty"`
	SnowQuality          string      `json:"snowQuality,omitempty"`
	BikeLaneCoverage     float64     `json:"bikeLaneCoverage,omitempty"`
	ScenicValue          float64     `json:"scenicValue,omitempty"`
	PointsOfInterest     []geo.Point `json:"pointsOfInterest,omitempty"`
}

// OptimizationResult is the core output unit: a path plus metrics plus warnings.
// One result is produced per segment, and one synthetic result per transition
// between adjacent segments (zero distance, surface type "transfer").
type OptimizationResult struct {
	Path     []geo.Point `json:"path"`
	Metrics  Metrics     `json:"metrics"`
	Warnings []string    `json:"warnings"`
}

// IsTransition reports whether this result represents a mode switch rather
// than a traveled leg.
func (r *OptimizationResult) IsTransition() bool {
	return r.Metrics.SurfaceType == SurfaceTransfer
}

// SurfaceTransfer is the surface type assigned to transition results.
const SurfaceTransfer = "transfer"

// Error wraps an optimization failure with the stage it occurred in,
// preserving the underlying cause for logging.
type Error struct {
	Stage   string // optimizer stage, e.g. "multi-segment", "weather", "terrain"
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}
