package traffic

import (
	"testing"
	"time"

	"github.com/tripforge/tripforge/internal/geo"
)

// Wednesday 2026-01-07 08:00 UTC.
var testNow = time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC)

func TestPredict_ExactMatchBucket(t *testing.T) {
	patterns := []Pattern{
		{
			DayOfWeek:       time.Wednesday,
			HourOfDay:       8,
			AverageSpeedKmh: 50,
			Confidence:      1.0,
			Historical: []HistoricalPoint{
				{Timestamp: testNow.Add(-30 * time.Minute), SpeedKmh: 50, Congestion: CongestionModerate},
			},
		},
	}

	pred := Predict(geo.Point{Lat: 52.37, Lng: 4.90}, patterns, testNow)

	bucket := pred.Hourly[8]
	if bucket.SpeedKmh != 50 {
		t.Errorf("bucket 8 speed = %f, want 50", bucket.SpeedKmh)
	}
	if bucket.Congestion != CongestionModerate {
		t.Errorf("bucket 8 congestion = %s, want moderate", bucket.Congestion)
	}
	if bucket.Confidence != 1.0 {
		t.Errorf("bucket 8 confidence = %f, want 1.0 (no decay at current hour)", bucket.Confidence)
	}
}

func TestPredict_ConfidenceDecaysWithDistance(t *testing.T) {
	patterns := []Pattern{
		{DayOfWeek: time.Wednesday, HourOfDay: 7, AverageSpeedKmh: 60, Confidence: 1.0},
	}

	pred := Predict(geo.Point{}, patterns, testNow)

	// Bucket 7 is one hour from now: 1 - 0.1 = 0.9.
	if got := pred.Hourly[7].Confidence; got != 0.9 {
		t.Errorf("bucket 7 confidence = %f, want 0.9", got)
	}
	// Bucket 8 matches the current hour: no decay.
	if got := pred.Hourly[8].Confidence; got != 1.0 {
		t.Errorf("bucket 8 confidence = %f, want 1.0", got)
	}
}

func TestPredict_ConfidenceFloor(t *testing.T) {
	patterns := []Pattern{
		{DayOfWeek: time.Wednesday, HourOfDay: 2, AverageSpeedKmh: 60, Confidence: 1.0},
	}

	pred := Predict(geo.Point{}, patterns, testNow)

	// Bucket 2 is six hours from now: raw decay 0.4 is clamped to the 0.5 floor.
	if got := pred.Hourly[2].Confidence; got != 0.5 {
		t.Errorf("bucket 2 confidence = %f, want floor 0.5", got)
	}
}

func TestPredict_WeightedAverageSpeed(t *testing.T) {
	patterns := []Pattern{
		{DayOfWeek: time.Wednesday, HourOfDay: 8, AverageSpeedKmh: 60, Confidence: 0.9},
		{DayOfWeek: time.Wednesday, HourOfDay: 8, AverageSpeedKmh: 30, Confidence: 0.3},
	}

	pred := Predict(geo.Point{}, patterns, testNow)

	want := (60*0.9 + 30*0.3) / 1.2
	if got := pred.Hourly[8].SpeedKmh; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("bucket 8 speed = %f, want confidence-weighted %f", got, want)
	}
}

func TestPredict_PluralityCongestion(t *testing.T) {
	patterns := []Pattern{
		{
			DayOfWeek: time.Wednesday, HourOfDay: 8, AverageSpeedKmh: 40, Confidence: 1,
			Historical: []HistoricalPoint{
				{Congestion: CongestionHigh},
				{Congestion: CongestionHigh},
				{Congestion: CongestionLow},
			},
		},
	}

	pred := Predict(geo.Point{}, patterns, testNow)

	if got := pred.Hourly[8].Congestion; got != CongestionHigh {
		t.Errorf("bucket 8 congestion = %s, want high (plurality)", got)
	}
}

func TestPredict_ReliabilityFreshnessPenalty(t *testing.T) {
	stale := []Pattern{
		{
			DayOfWeek: time.Wednesday, HourOfDay: 8, AverageSpeedKmh: 40, Confidence: 1.0,
			Historical: []HistoricalPoint{
				{Timestamp: testNow.Add(-3 * time.Hour), Congestion: CongestionLow},
			},
		},
	}

	pred := Predict(geo.Point{}, stale, testNow)
	if pred.Reliability >= 1.0 {
		t.Errorf("reliability = %f, want freshness penalty applied", pred.Reliability)
	}

	fresh := []Pattern{
		{
			DayOfWeek: time.Wednesday, HourOfDay: 8, AverageSpeedKmh: 40, Confidence: 1.0,
			Historical: []HistoricalPoint{
				{Timestamp: testNow.Add(-20 * time.Minute), Congestion: CongestionLow},
			},
		},
	}

	pred = Predict(geo.Point{}, fresh, testNow)
	if pred.Reliability != 1.0 {
		t.Errorf("reliability = %f, want 1.0 with fresh data", pred.Reliability)
	}
}

func TestPredict_NoPatterns(t *testing.T) {
	pred := Predict(geo.Point{}, nil, testNow)

	if pred.Reliability != 0 {
		t.Errorf("reliability = %f, want 0 with no patterns", pred.Reliability)
	}
	for i, h := range pred.Hourly {
		if h.SpeedKmh != 0 {
			t.Errorf("bucket %d speed = %f, want 0", i, h.SpeedKmh)
		}
	}
}

func TestPredict_Deterministic(t *testing.T) {
	patterns := []Pattern{
		{DayOfWeek: time.Wednesday, HourOfDay: 8, AverageSpeedKmh: 44, Confidence: 0.7},
	}

	a := Predict(geo.Point{Lat: 1, Lng: 2}, patterns, testNow)
	b := Predict(geo.Point{Lat: 1, Lng: 2}, patterns, testNow)

	if a.Hourly != b.Hourly || a.Reliability != b.Reliability || a.Trend != b.Trend {
		t.Error("identical inputs must yield identical predictions")
	}
}

func TestHourDistance(t *testing.T) {
	tests := []struct{ a, b, want int }{
		{0, 0, 0},
		{23, 0, 1},
		{0, 23, 1},
		{12, 0, 12},
		{8, 10, 2},
	}
	for _, tt := range tests {
		if got := hourDistance(tt.a, tt.b); got != tt.want {
			t.Errorf("hourDistance(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
