// Package transit provides public transport schedule data used to annotate
// transit segments with stop counts and service frequency.
package transit

import (
	"errors"
	"time"

	"github.com/tripforge/tripforge/internal/geo"
)

// Transit errors.
var (
	ErrProviderUnavailable = errors.New("transit provider unavailable")
	ErrNoService           = errors.New("no transit service on route")
)

// Mode is the vehicle type serving a line.
type Mode string

const (
	ModeRail  Mode = "rail"
	ModeMetro Mode = "metro"
	ModeTram  Mode = "tram"
	ModeBus   Mode = "bus"
)

// Line is a public transport line.
type Line struct {
	ID   string
	Name string
	Mode Mode
}

// Stop is a boarding point along a transit route.
type Stop struct {
	ID       string
	Name     string
	Location geo.Point
}

// Departure is one scheduled vehicle departure from a stop.
type Departure struct {
	Line        Line
	Stop        Stop
	ScheduledAt time.Time
	DelayS      float64
	Cancelled   bool
}

// Schedule describes the transit service between two points.
type Schedule struct {
	// Stops along the route, in travel order. Includes origin and destination.
	Stops []Stop

	// Departures from the origin stop, soonest first.
	Departures []Departure

	// AverageHeadwayS is the mean gap between departures in seconds
	// (0 if unknown).
	AverageHeadwayS float64

	// FetchedAt is when this schedule was retrieved.
	FetchedAt time.Time
}

// StopCount returns the number of intermediate stops, excluding the origin
// and destination.
func (s *Schedule) StopCount() int {
	if len(s.Stops) <= 2 {
		return 0
	}
	return len(s.Stops) - 2
}

// NextDeparture returns the first non-cancelled departure at or after t.
func (s *Schedule) NextDeparture(t time.Time) (Departure, bool) {
	for _, d := range s.Departures {
		if d.Cancelled {
			continue
		}
		if !d.ScheduledAt.Before(t) {
			return d, true
		}
	}
	return Departure{}, false
}

// MaxDelayS returns the largest delay among non-cancelled departures.
func (s *Schedule) MaxDelayS() float64 {
	var max float64
	for _, d := range s.Departures {
		if d.Cancelled {
			continue
		}
		if d.DelayS > max {
			max = d.DelayS
		}
	}
	return max
}
