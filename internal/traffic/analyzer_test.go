package traffic

import (
	"math"
	"testing"
	"time"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyze_Empty(t *testing.T) {
	analysis := Analyze(nil)

	if analysis.CongestionTrend != "stable" {
		t.Errorf("congestion trend = %q, want stable", analysis.CongestionTrend)
	}
	if analysis.HistoricalComparison != "normal" {
		t.Errorf("historical comparison = %q, want normal", analysis.HistoricalComparison)
	}
	if len(analysis.SignificantIncidents) != 0 {
		t.Errorf("got %d significant incidents, want none", len(analysis.SignificantIncidents))
	}
}

func TestAnalyze_SeverityTrend(t *testing.T) {
	base := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	data := []Snapshot{
		{Timestamp: base, AverageSpeedKmh: 45, Congestion: CongestionLow},
		{Timestamp: base.Add(20 * time.Minute), AverageSpeedKmh: 45, Congestion: CongestionLow},
		{Timestamp: base.Add(40 * time.Minute), AverageSpeedKmh: 45, Congestion: CongestionHigh},
		{Timestamp: base.Add(60 * time.Minute), AverageSpeedKmh: 45, Congestion: CongestionHigh},
	}

	analysis := Analyze(data)

	want := []float64{0.3, 0.3, 0.9, 0.9}
	if len(analysis.SeverityTrend) != len(want) {
		t.Fatalf("severity trend length = %d, want %d", len(analysis.SeverityTrend), len(want))
	}
	for i, v := range want {
		if !almostEqual(analysis.SeverityTrend[i], v) {
			t.Errorf("severity trend[%d] = %f, want %f", i, analysis.SeverityTrend[i], v)
		}
	}
	if analysis.CongestionTrend != "increasing" {
		t.Errorf("congestion trend = %q, want increasing", analysis.CongestionTrend)
	}
}

func TestAnalyze_SignificantIncidents(t *testing.T) {
	base := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	data := []Snapshot{
		{
			Timestamp:       base,
			AverageSpeedKmh: 45,
			Congestion:      CongestionModerate,
			Incidents: []Incident{
				{Type: "accident", Severity: CongestionHigh, DelayS: 120},
				{Type: "roadwork", Severity: CongestionModerate, DelayS: 1200},
				{Type: "event", Severity: CongestionLow, DelayS: 300},
			},
		},
	}

	analysis := Analyze(data)

	if len(analysis.SignificantIncidents) != 2 {
		t.Fatalf("got %d significant incidents, want 2", len(analysis.SignificantIncidents))
	}
	if analysis.SignificantIncidents[0].Type != "accident" {
		t.Errorf("first significant incident = %q, want accident (high severity)", analysis.SignificantIncidents[0].Type)
	}
	if analysis.SignificantIncidents[1].Type != "roadwork" {
		t.Errorf("second significant incident = %q, want roadwork (delay over threshold)", analysis.SignificantIncidents[1].Type)
	}
}

func TestAnalyze_HistoricalComparison(t *testing.T) {
	base := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		current float64
		want    string
	}{
		{"better above 110 percent of baseline", 55, "better"},
		{"worse below 90 percent of baseline", 35, "worse"},
		{"normal at baseline", 45, "normal"},
		{"normal just inside upper band", 49, "normal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := []Snapshot{
				{Timestamp: base, AverageSpeedKmh: tt.current, Congestion: CongestionModerate},
			}
			analysis := Analyze(data)
			if analysis.HistoricalComparison != tt.want {
				t.Errorf("historical comparison = %q, want %q", analysis.HistoricalComparison, tt.want)
			}
		})
	}
}

func TestAnalyze_SpeedExtrapolation(t *testing.T) {
	// Midday timestamps keep the time-of-day factor at 1.0.
	base := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	data := []Snapshot{
		{Timestamp: base, AverageSpeedKmh: 46, Congestion: CongestionModerate},
		{Timestamp: base.Add(20 * time.Minute), AverageSpeedKmh: 45, Congestion: CongestionModerate},
		{Timestamp: base.Add(40 * time.Minute), AverageSpeedKmh: 44, Congestion: CongestionModerate},
	}

	analysis := Analyze(data)

	// Slope is -1 per step; next hour lands at 13:40 (factor 1.0).
	if !almostEqual(analysis.NextHourSpeedKmh, 43) {
		t.Errorf("next hour speed = %f, want 43", analysis.NextHourSpeedKmh)
	}
	if !almostEqual(analysis.Next24hSpeedKmh, 20) {
		t.Errorf("next 24h speed = %f, want 20", analysis.Next24hSpeedKmh)
	}
}

func TestAnalyze_RushHourFactor(t *testing.T) {
	// Constant speed; the next hour falls into the morning rush window.
	base := time.Date(2026, 1, 7, 6, 30, 0, 0, time.UTC)
	data := []Snapshot{
		{Timestamp: base, AverageSpeedKmh: 50, Congestion: CongestionLow},
		{Timestamp: base.Add(10 * time.Minute), AverageSpeedKmh: 50, Congestion: CongestionLow},
	}

	analysis := Analyze(data)

	if !almostEqual(analysis.NextHourSpeedKmh, 50*0.6) {
		t.Errorf("next hour speed = %f, want %f (morning rush factor)", analysis.NextHourSpeedKmh, 50*0.6)
	}
	// The 24h projection is scaled by the last snapshot's hour (6, factor 1.0).
	if !almostEqual(analysis.Next24hSpeedKmh, 50) {
		t.Errorf("next 24h speed = %f, want 50", analysis.Next24hSpeedKmh)
	}
}

func TestAnalyze_NightFactor(t *testing.T) {
	base := time.Date(2026, 1, 7, 23, 0, 0, 0, time.UTC)
	data := []Snapshot{
		{Timestamp: base, AverageSpeedKmh: 40, Congestion: CongestionLow},
		{Timestamp: base.Add(10 * time.Minute), AverageSpeedKmh: 40, Congestion: CongestionLow},
	}

	analysis := Analyze(data)

	// Next hour is 00:10, inside the night window.
	if !almostEqual(analysis.NextHourSpeedKmh, 40*1.3) {
		t.Errorf("next hour speed = %f, want %f (night factor)", analysis.NextHourSpeedKmh, 40*1.3)
	}
}

func TestAnalyze_SpeedNeverNegative(t *testing.T) {
	base := time.Date(2026, 1, 7, 12, 0, 0, 0, time.UTC)
	data := []Snapshot{
		{Timestamp: base, AverageSpeedKmh: 50, Congestion: CongestionHigh},
		{Timestamp: base.Add(20 * time.Minute), AverageSpeedKmh: 10, Congestion: CongestionHigh},
	}

	analysis := Analyze(data)

	if analysis.Next24hSpeedKmh < 0 {
		t.Errorf("next 24h speed = %f, want clamped at 0", analysis.Next24hSpeedKmh)
	}
	if !almostEqual(analysis.Next24hSpeedKmh, 0) {
		t.Errorf("next 24h speed = %f, want 0 for steeply degrading series", analysis.Next24hSpeedKmh)
	}
}
