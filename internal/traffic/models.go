// Package traffic provides traffic pattern computation, hourly congestion
// prediction and snapshot analysis for the route optimization engine.
package traffic

import (
	"context"
	"errors"
	"time"

	"github.com/tripforge/tripforge/internal/geo"
)

// Traffic errors.
var (
	ErrProviderUnavailable = errors.New("traffic provider unavailable")
	ErrNoHistoricalData    = errors.New("no historical traffic data")
)

// CongestionLevel is a categorical traffic density label.
type CongestionLevel string

const (
	CongestionLow      CongestionLevel = "low"
	CongestionModerate CongestionLevel = "moderate"
	CongestionHigh     CongestionLevel = "high"
)

// Severity maps a congestion label onto a numeric severity used for trend lines.
func (c CongestionLevel) Severity() float64 {
	switch c {
	case CongestionLow:
		return 0.3
	case CongestionModerate:
		return 0.6
	case CongestionHigh:
		return 0.9
	default:
		return 0
	}
}

// LevelFromProbability derives a label from a continuous congestion probability.
func LevelFromProbability(p float64) CongestionLevel {
	switch {
	case p >= 0.7:
		return CongestionHigh
	case p >= 0.4:
		return CongestionModerate
	default:
		return CongestionLow
	}
}

// FlowSegment is one stretch of road with a measured congestion level.
type FlowSegment struct {
	Start           geo.Point
	End             geo.Point
	CongestionLevel float64 // [0, 1]
}

// Incident is a reported traffic disruption.
type Incident struct {
	Type       string
	Severity   CongestionLevel
	DelayS     float64
	Location   geo.Point
	ReportedAt time.Time
}

// Data is a live traffic snapshot for a segment.
type Data struct {
	Segments  []FlowSegment
	Incidents []Incident
	FetchedAt time.Time
}

// Provider defines the interface for live traffic data providers.
type Provider interface {
	// GetTrafficData fetches current traffic conditions along a segment.
	GetTrafficData(ctx context.Context, start, end geo.Point) (*Data, error)

	// Name returns the provider name for logging.
	Name() string
}

// HistoricalPoint is one observed speed/congestion measurement backing a pattern.
type HistoricalPoint struct {
	Timestamp  time.Time
	SpeedKmh   float64
	Congestion CongestionLevel
}

// Pattern is the aggregated traffic behavior for one (day-of-week, hour) bucket
// at a location. Patterns are computed from historical data and cached with a
// 24h TTL; they are read-mostly.
type Pattern struct {
	DayOfWeek             time.Weekday
	HourOfDay             int
	AverageSpeedKmh       float64
	CongestionProbability float64
	Confidence            float64 // [0, 1]
	Historical            []HistoricalPoint
}

// HourlyPrediction is the forecast for a single hour bucket.
type HourlyPrediction struct {
	Hour       int
	SpeedKmh   float64
	Congestion CongestionLevel
	Confidence float64
}

// Prediction is a derived 24-hour traffic forecast for a location. It is never
// persisted; callers may cache it at their own discretion.
type Prediction struct {
	Location    geo.Point
	Hourly      [24]HourlyPrediction
	Trend       string // "improving", "degrading" or "stable"
	Reliability float64
	GeneratedAt time.Time
}

// Snapshot is one entry of a traffic time series fed to the analyzer.
type Snapshot struct {
	Timestamp       time.Time
	AverageSpeedKmh float64
	Congestion      CongestionLevel
	Incidents       []Incident
}

// Analysis is the derived view over a traffic time series.
type Analysis struct {
	SeverityTrend        []float64
	CongestionTrend      string // "increasing", "decreasing" or "stable"
	SignificantIncidents []Incident
	HistoricalComparison string // "better", "worse" or "normal"
	NextHourSpeedKmh     float64
	Next24hSpeedKmh      float64
	GeneratedAt          time.Time
}
