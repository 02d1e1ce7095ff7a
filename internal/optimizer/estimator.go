package optimizer

// EstimatorConfig holds the placeholder metric constants used when upstream
// data does not supply a measured value. Injectable so tests and future
// calibration can substitute them.
type EstimatorConfig struct {
	// FuelEfficiencyL100Km is the assumed car fuel consumption in free flow.
	FuelEfficiencyL100Km float64

	// Average travel speeds per mode, km/h, used when no base route is
	// available and for wait-free duration estimates.
	CarSpeedKmh     float64
	WalkSpeedKmh    float64
	BikeSpeedKmh    float64
	TransitSpeedKmh float64
	SkiSpeedKmh     float64

	// BikeLaneCoverage is the assumed share of a bike route on dedicated
	// lanes when no measured coverage exists.
	BikeLaneCoverage float64
}

// DefaultEstimatorConfig returns the working placeholder constants.
func DefaultEstimatorConfig() EstimatorConfig {
	return EstimatorConfig{
		FuelEfficiencyL100Km: 8.5,
		CarSpeedKmh:          50,
		WalkSpeedKmh:         5,
		BikeSpeedKmh:         15,
		TransitSpeedKmh:      35,
		SkiSpeedKmh:          25,
		BikeLaneCoverage:     0.6,
	}
}

// withDefaults fills zero fields from the defaults.
func (c EstimatorConfig) withDefaults() EstimatorConfig {
	def := DefaultEstimatorConfig()
	if c.FuelEfficiencyL100Km <= 0 {
		c.FuelEfficiencyL100Km = def.FuelEfficiencyL100Km
	}
	if c.CarSpeedKmh <= 0 {
		c.CarSpeedKmh = def.CarSpeedKmh
	}
	if c.WalkSpeedKmh <= 0 {
		c.WalkSpeedKmh = def.WalkSpeedKmh
	}
	if c.BikeSpeedKmh <= 0 {
		c.BikeSpeedKmh = def.BikeSpeedKmh
	}
	if c.TransitSpeedKmh <= 0 {
		c.TransitSpeedKmh = def.TransitSpeedKmh
	}
	if c.SkiSpeedKmh <= 0 {
		c.SkiSpeedKmh = def.SkiSpeedKmh
	}
	if c.BikeLaneCoverage <= 0 {
		c.BikeLaneCoverage = def.BikeLaneCoverage
	}
	return c
}
