// Package weather models weather conditions along a route segment and their
// impact on travel duration and safety.
package weather

import (
	"context"
	"errors"
	"time"

	"github.com/tripforge/tripforge/internal/geo"
)

// Weather errors.
var (
	ErrProviderUnavailable = errors.New("weather provider unavailable")
	ErrNoDataForLocation   = errors.New("no weather data for location")
)

// Condition is a categorical weather condition.
type Condition string

const (
	ConditionClear        Condition = "clear"
	ConditionRain         Condition = "rain"
	ConditionSnow         Condition = "snow"
	ConditionFog          Condition = "fog"
	ConditionThunderstorm Condition = "thunderstorm"
)

// Conditions describes the forecast weather along a segment.
type Conditions struct {
	Conditions      []Condition
	WindSpeedKmh    float64
	TemperatureC    float64
	VisibilityM     float64
	PrecipitationMm float64
	FetchedAt       time.Time
}

// Has reports whether the given condition is present.
func (c *Conditions) Has(cond Condition) bool {
	for _, v := range c.Conditions {
		if v == cond {
			return true
		}
	}
	return false
}

// Provider defines the interface for weather forecast providers.
type Provider interface {
	// GetForecast fetches the forecast conditions along a segment.
	GetForecast(ctx context.Context, start, end geo.Point) (*Conditions, error)

	// Name returns the provider name for logging.
	Name() string
}
