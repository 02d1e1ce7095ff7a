package traffic

import "time"

const (
	// historicalBaselineKmh is the reference average speed snapshots are
	// compared against.
	historicalBaselineKmh = 45.0

	// significantDelayS is the incident delay above which an incident is
	// always considered significant.
	significantDelayS = 900.0
)

// Analyze derives congestion trend, significant incidents and short-term speed
// predictions from a time series of traffic snapshots, ordered oldest first.
func Analyze(data []Snapshot) *Analysis {
	analysis := &Analysis{
		GeneratedAt:          time.Now(),
		CongestionTrend:      "stable",
		HistoricalComparison: "normal",
	}
	if len(data) == 0 {
		return analysis
	}

	// Severity trend line from congestion labels.
	analysis.SeverityTrend = make([]float64, len(data))
	for i, s := range data {
		analysis.SeverityTrend[i] = s.Congestion.Severity()
	}
	analysis.CongestionTrend = severityDirection(analysis.SeverityTrend)

	// Significant incidents: high severity, or delay beyond the threshold.
	for _, s := range data {
		for _, inc := range s.Incidents {
			if inc.Severity == CongestionHigh || inc.DelayS > significantDelayS {
				analysis.SignificantIncidents = append(analysis.SignificantIncidents, inc)
			}
		}
	}

	// Compare the current average speed against the fixed historical baseline.
	current := data[len(data)-1].AverageSpeedKmh
	switch {
	case current > historicalBaselineKmh*1.1:
		analysis.HistoricalComparison = "better"
	case current < historicalBaselineKmh*0.9:
		analysis.HistoricalComparison = "worse"
	default:
		analysis.HistoricalComparison = "normal"
	}

	// Linear trend extrapolation modulated by time of day.
	slope := speedSlope(data)
	last := data[len(data)-1]
	nextHour := last.Timestamp.Add(time.Hour)

	analysis.NextHourSpeedKmh = clampSpeed((current + slope) * timeOfDayFactor(nextHour.Hour()))
	analysis.Next24hSpeedKmh = clampSpeed((current + slope*24) * timeOfDayFactor(last.Timestamp.Hour()))

	return analysis
}

// severityDirection compares the average severity of the second half of the
// series against the first half.
func severityDirection(trend []float64) string {
	if len(trend) < 2 {
		return "stable"
	}
	mid := len(trend) / 2
	first := average(trend[:mid])
	second := average(trend[mid:])

	switch {
	case second > first+0.05:
		return "increasing"
	case second < first-0.05:
		return "decreasing"
	default:
		return "stable"
	}
}

// speedSlope is the simple per-step linear trend of observed speeds.
func speedSlope(data []Snapshot) float64 {
	if len(data) < 2 {
		return 0
	}
	return (data[len(data)-1].AverageSpeedKmh - data[0].AverageSpeedKmh) / float64(len(data)-1)
}

// timeOfDayFactor scales predicted speeds: rush hours slow traffic down,
// night hours free it up.
func timeOfDayFactor(hour int) float64 {
	switch {
	case hour >= 7 && hour <= 9:
		return 0.6 // morning rush
	case hour >= 17 && hour <= 19:
		return 0.7 // evening rush
	case hour >= 22 || hour <= 5:
		return 1.3 // night
	default:
		return 1.0
	}
}

func clampSpeed(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func average(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
