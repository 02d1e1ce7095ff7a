package models

import (
	"github.com/tripforge/tripforge/internal/geo"
	"github.com/tripforge/tripforge/internal/route"
)

// PointInput is a request coordinate.
type PointInput struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// Geo converts the input to a domain point.
func (p PointInput) Geo() geo.Point {
	return geo.Point{Lat: p.Lat, Lng: p.Lng}
}

// SegmentInput is one leg of the requested trip.
type SegmentInput struct {
	StartPoint   PointInput         `json:"startPoint" validate:"required"`
	EndPoint     PointInput         `json:"endPoint" validate:"required"`
	ActivityType route.ActivityType `json:"activityType" validate:"required,oneof=CAR WALK BIKE PUBLIC_TRANSPORT SKI"`
	Preferences  route.Preferences  `json:"preferences"`
}

// Segment converts the input to a domain segment.
func (s SegmentInput) Segment() route.Segment {
	return route.Segment{
		StartPoint:   s.StartPoint.Geo(),
		EndPoint:     s.EndPoint.Geo(),
		ActivityType: s.ActivityType,
		Preferences:  s.Preferences,
	}
}

// OptimizeRequest is the body of POST /v1/routes:optimize.
type OptimizeRequest struct {
	Segments []SegmentInput `json:"segments" validate:"required,min=1,max=20,dive"`
}

// ComputeRequest is the body of POST /v1/routes:compute (single leg).
type ComputeRequest struct {
	StartPoint   PointInput         `json:"startPoint" validate:"required"`
	EndPoint     PointInput         `json:"endPoint" validate:"required"`
	ActivityType route.ActivityType `json:"activityType" validate:"required,oneof=CAR WALK BIKE PUBLIC_TRANSPORT SKI"`
	Preferences  route.Preferences  `json:"preferences"`
}

// OptimizeResponse returns the stitched result list: one entry per segment
// with transitions interleaved at odd indices.
type OptimizeResponse struct {
	GeneratedAt    Timestamp                  `json:"generatedAt"`
	Results        []route.OptimizationResult `json:"results"`
	TotalDistanceM float64                    `json:"totalDistance"`
	TotalDurationS float64                    `json:"totalDuration"`
}

// ComputeResponse returns a single optimized leg.
type ComputeResponse struct {
	GeneratedAt Timestamp                `json:"generatedAt"`
	Result      route.OptimizationResult `json:"result"`
}

// NewOptimizeResponse assembles the response with leg totals. Transition
// results contribute duration but no distance.
func NewOptimizeResponse(at Timestamp, results []route.OptimizationResult) OptimizeResponse {
	resp := OptimizeResponse{
		GeneratedAt: at,
		Results:     results,
	}
	for _, r := range results {
		resp.TotalDistanceM += r.Metrics.DistanceM
		resp.TotalDurationS += r.Metrics.DurationS
	}
	return resp
}
