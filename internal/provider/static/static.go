// Package static provides baseline data providers used when no upstream
// integration is configured. They return neutral conditions (free-flowing
// traffic, clear skies, serviceable snow) so the engine stays functional in
// degraded deployments and local development.
package static

import (
	"context"
	"time"

	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/snow"
	"github.com/tripforge/tripforge/internal/traffic"
	"github.com/tripforge/tripforge/internal/transit"
	"github.com/tripforge/tripforge/internal/weather"
)

// TrafficProvider reports free-flowing traffic everywhere.
type TrafficProvider struct{}

func (TrafficProvider) GetTrafficData(_ context.Context, start, end geo.Point) (*traffic.Data, error) {
	return &traffic.Data{
		Segments: []traffic.FlowSegment{
			{Start: start, End: end, CongestionLevel: 0},
		},
		FetchedAt: time.Now(),
	}, nil
}

func (TrafficProvider) Name() string { return "static-traffic" }

// WeatherProvider reports clear conditions everywhere.
type WeatherProvider struct{}

func (WeatherProvider) GetForecast(_ context.Context, _, _ geo.Point) (*weather.Conditions, error) {
	return &weather.Conditions{
		Conditions:   []weather.Condition{weather.ConditionClear},
		VisibilityM:  10000,
		TemperatureC: 15,
		FetchedAt:    time.Now(),
	}, nil
}

func (WeatherProvider) Name() string { return "static-weather" }

// TransitProvider reports a stopless schedule with a half-hour headway, so
// transit legs degrade to straight-line estimates plus the expected wait.
type TransitProvider struct{}

func (TransitProvider) GetSchedule(_ context.Context, _, _ geo.Point) (*transit.Schedule, error) {
	return &transit.Schedule{
		AverageHeadwayS: 1800,
		FetchedAt:       time.Now(),
	}, nil
}

func (TransitProvider) Name() string { return "static-transit" }

// SnowProvider reports groomed packed-powder conditions below freezing.
type SnowProvider struct{}

func (SnowProvider) GetSnowReport(_ context.Context, _, _ geo.Point) (*snow.Report, error) {
	return &snow.Report{
		Quality:      snow.QualityPacked,
		Groomed:      true,
		TemperatureC: -3,
		DepthCm:      60,
		FetchedAt:    time.Now(),
	}, nil
}

func (SnowProvider) Name() string { return "static-snow" }
