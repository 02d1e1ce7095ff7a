package traffic

import (
	"time"

	"github.com/tripforge/tripforge/internal/geo"
)

// Predict builds a 24-hour traffic forecast for a location from historical
// patterns. For each hourly bucket it selects the relevant patterns (exact
// day-of-week and hour match, or an hour of day within one hour of the
// bucket), averages speeds weighted by pattern confidence, and picks the most
// frequent congestion label among the relevant historical points.
//
// Bucket confidence decays with temporal distance from now:
// max(0.5, 1 - 0.1*hourDiff), multiplied by the relevant patterns' average
// confidence. Predict is a pure function of its inputs.
func Predict(location geo.Point, patterns []Pattern, now time.Time) *Prediction {
	pred := &Prediction{
		Location:    location,
		GeneratedAt: now,
	}

	day := now.Weekday()
	currentHour := now.Hour()

	var reliabilitySum float64
	var reliabilityCount int
	freshData := false

	for hour := 0; hour < 24; hour++ {
		relevant := relevantPatterns(patterns, day, hour)

		hp := HourlyPrediction{Hour: hour, Congestion: CongestionLow}
		if len(relevant) > 0 {
			hp.SpeedKmh = weightedAverageSpeed(relevant)
			hp.Congestion = pluralityCongestion(relevant)

			avgConfidence := 0.0
			for _, p := range relevant {
				avgConfidence += p.Confidence
				reliabilitySum += p.Confidence
				reliabilityCount++
				if hasPointWithin(p.Historical, now, time.Hour) {
					freshData = true
				}
			}
			avgConfidence /= float64(len(relevant))

			decay := 1 - 0.1*float64(hourDistance(hour, currentHour))
			if decay < 0.5 {
				decay = 0.5
			}
			hp.Confidence = decay * avgConfidence
		}
		pred.Hourly[hour] = hp
	}

	if reliabilityCount > 0 {
		pred.Reliability = reliabilitySum / float64(reliabilityCount)
		// Freshness penalty: no contributing observation within the last hour.
		if !freshData {
			pred.Reliability *= 0.8
		}
	}

	pred.Trend = speedTrend(pred.Hourly[:], currentHour)

	return pred
}

// relevantPatterns returns patterns matching the bucket: exact day+hour, or
// hour of day within one hour of the bucket.
func relevantPatterns(patterns []Pattern, day time.Weekday, hour int) []Pattern {
	var out []Pattern
	for _, p := range patterns {
		if p.DayOfWeek == day && p.HourOfDay == hour {
			out = append(out, p)
			continue
		}
		if hourDistance(p.HourOfDay, hour) <= 1 {
			out = append(out, p)
		}
	}
	return out
}

func weightedAverageSpeed(patterns []Pattern) float64 {
	var speedSum, weightSum float64
	for _, p := range patterns {
		w := p.Confidence
		if w <= 0 {
			w = 0.01
		}
		speedSum += p.AverageSpeedKmh * w
		weightSum += w
	}
	return speedSum / weightSum
}

// pluralityCongestion picks the most frequent congestion label among the
// patterns' historical points. Ties resolve to the more severe label.
func pluralityCongestion(patterns []Pattern) CongestionLevel {
	counts := make(map[CongestionLevel]int)
	for _, p := range patterns {
		for _, h := range p.Historical {
			counts[h.Congestion]++
		}
	}
	if len(counts) == 0 {
		return CongestionLow
	}

	best := CongestionLow
	bestCount := -1
	for _, level := range []CongestionLevel{CongestionLow, CongestionModerate, CongestionHigh} {
		if counts[level] >= bestCount && counts[level] > 0 {
			best = level
			bestCount = counts[level]
		}
	}
	return best
}

func hasPointWithin(points []HistoricalPoint, now time.Time, window time.Duration) bool {
	for _, p := range points {
		if now.Sub(p.Timestamp) <= window && !p.Timestamp.After(now) {
			return true
		}
	}
	return false
}

// hourDistance is the circular distance between two hours of day.
func hourDistance(a, b int) int {
	d := a - b
	if d < 0 {
		d = -d
	}
	if 24-d < d {
		d = 24 - d
	}
	return d
}

// speedTrend compares the forecast speeds ahead of the current hour with those
// behind it.
func speedTrend(hourly []HourlyPrediction, currentHour int) string {
	var ahead, behind float64
	var aheadN, behindN int
	for i, h := range hourly {
		if h.SpeedKmh == 0 {
			continue
		}
		if hourDistance(i, (currentHour+3)%24) <= 3 {
			ahead += h.SpeedKmh
			aheadN++
		}
		if hourDistance(i, (currentHour+21)%24) <= 3 {
			behind += h.SpeedKmh
			behindN++
		}
	}
	if aheadN == 0 || behindN == 0 {
		return "stable"
	}
	ahead /= float64(aheadN)
	behind /= float64(behindN)

	switch {
	case ahead > behind*1.05:
		return "improving"
	case ahead < behind*0.95:
		return "degrading"
	default:
		return "stable"
	}
}
