package weather

// Wind speed above which high-wind penalties and warnings apply, in km/h.
const highWindThresholdKmh = 30

// severeDurationFactor is the combined duration penalty at which conditions
// become severe regardless of which conditions produced it.
const severeDurationFactor = 0.5

// Impact is the assessed effect of weather on a segment.
//
// DurationFactor is a unitless [0, 1] penalty: 0 means no slowdown, 1 means
// travel takes twice as long. SafetyScore is a [0.3, 1] multiplier applied to
// the segment's base safety.
type Impact struct {
	DurationFactor float64
	SafetyScore    float64

	// Severe reports whether conditions warrant re-routing toward shelter:
	// any thunderstorm, or a combined duration penalty of at least 0.5.
	Severe bool

	Warnings []string
}

// Per-condition duration penalties (additive) and safety multipliers.
var (
	durationPenalty = map[Condition]float64{
		ConditionRain:         0.2,
		ConditionSnow:         0.5,
		ConditionFog:          0.3,
		ConditionThunderstorm: 0.4,
	}
	safetyMultiplier = map[Condition]float64{
		ConditionRain:         0.9,
		ConditionSnow:         0.7,
		ConditionFog:          0.8,
		ConditionThunderstorm: 0.6,
	}
)

// Assess computes the duration and safety impact of the given conditions.
// The duration factor is capped at 1.0 (at most 100% slower) and the safety
// score is floored at 0.3. Each adverse condition emits its own warning;
// warnings are not deduplicated.
func Assess(c *Conditions) Impact {
	impact := Impact{SafetyScore: 1.0}
	if c == nil {
		return impact
	}

	for _, cond := range c.Conditions {
		if p, ok := durationPenalty[cond]; ok {
			impact.DurationFactor += p
		}
		if m, ok := safetyMultiplier[cond]; ok {
			impact.SafetyScore *= m
		}

		switch cond {
		case ConditionThunderstorm:
			impact.Severe = true
			impact.Warnings = append(impact.Warnings, "thunderstorm in the area: seek shelter if conditions worsen")
		case ConditionSnow:
			impact.Warnings = append(impact.Warnings, "snow expected: reduced traction")
		case ConditionFog:
			impact.Warnings = append(impact.Warnings, "fog expected: reduced visibility")
		}
	}

	if c.WindSpeedKmh > highWindThresholdKmh {
		impact.DurationFactor += 0.2
		impact.SafetyScore *= 0.8
		impact.Warnings = append(impact.Warnings, "high winds expected along this route")
	}

	if impact.DurationFactor > 1.0 {
		impact.DurationFactor = 1.0
	}
	if impact.SafetyScore < 0.3 {
		impact.SafetyScore = 0.3
	}
	if impact.DurationFactor >= severeDurationFactor {
		impact.Severe = true
	}

	return impact
}
