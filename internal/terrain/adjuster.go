package terrain

import "fmt"

// Grade above which a steep-grade warning is emitted.
const steepGradeThreshold = 0.15

// AdjusterConfig tunes how terrain affects duration.
type AdjusterConfig struct {
	// ElevationDurationFactor multiplies duration on elevation-heavy segments.
	// The exact calibration is an open design parameter; 1.2 is the working
	// default. Injectable so tests and callers can tune it.
	ElevationDurationFactor float64

	// HeavyElevationGainM is the total gain above which a segment counts as
	// elevation-heavy (default: 200m).
	HeavyElevationGainM float64
}

// DefaultAdjusterConfig returns the working defaults.
func DefaultAdjusterConfig() AdjusterConfig {
	return AdjusterConfig{
		ElevationDurationFactor: 1.2,
		HeavyElevationGainM:     200,
	}
}

// Adjustment is the assessed effect of terrain on a segment.
type Adjustment struct {
	DurationFactor float64 // multiplicative, >= 1
	SafetyScore    float64 // [0, 1] multiplier
	Warnings       []string
}

// Adjuster maps elevation profiles and road conditions into duration and
// safety adjustments.
type Adjuster struct {
	cfg AdjusterConfig
}

// NewAdjuster creates an Adjuster with the given config; zero fields fall back
// to defaults.
func NewAdjuster(cfg AdjusterConfig) *Adjuster {
	def := DefaultAdjusterConfig()
	if cfg.ElevationDurationFactor <= 0 {
		cfg.ElevationDurationFactor = def.ElevationDurationFactor
	}
	if cfg.HeavyElevationGainM <= 0 {
		cfg.HeavyElevationGainM = def.HeavyElevationGainM
	}
	return &Adjuster{cfg: cfg}
}

// Assess computes terrain adjustments for a segment. Either input may be nil
// when the corresponding data source is unavailable; missing data degrades to
// a neutral adjustment rather than failing.
func (a *Adjuster) Assess(profile *ElevationProfile, roads *RoadConditions) Adjustment {
	adj := Adjustment{DurationFactor: 1.0, SafetyScore: 1.0}

	if profile != nil {
		if profile.MaxGrade > steepGradeThreshold {
			adj.Warnings = append(adj.Warnings,
				fmt.Sprintf("steep grade ahead: up to %.0f%%", profile.MaxGrade*100))
			adj.SafetyScore *= 0.9
		}
		if profile.Gain() > a.cfg.HeavyElevationGainM {
			adj.DurationFactor *= a.cfg.ElevationDurationFactor
		}
	}

	if roads != nil {
		if len(roads.Hazards) > 0 {
			adj.Warnings = append(adj.Warnings,
				fmt.Sprintf("hazards reported: %v", roads.Hazards))
			adj.SafetyScore *= 0.85
		}
		if roads.Condition == RoadPoor {
			adj.Warnings = append(adj.Warnings, "poor surface conditions: reduce speed")
			adj.DurationFactor *= 1.1
			adj.SafetyScore *= 0.9
		}
	}

	return adj
}

// Classify derives a terrain difficulty label from grade and hazards.
func Classify(profile *ElevationProfile, roads *RoadConditions) string {
	hazards := 0
	if roads != nil {
		hazards = len(roads.Hazards)
	}
	grade := 0.0
	if profile != nil {
		grade = profile.MaxGrade
	}

	switch {
	case grade > 0.25 || hazards > 2:
		return "EXPERT"
	case grade > steepGradeThreshold || hazards > 0:
		return "DIFFICULT"
	case grade > 0.08:
		return "MODERATE"
	default:
		return "EASY"
	}
}
