package domain

import "math"

// Calculator evaluates the impact and mitigation formulas against a fixed set
// of constants. It holds no mutable state of its own; it is safe for
// concurrent use whenever its RandomSource is.
type Calculator struct {
	constants Constants
	rng       RandomSource
}

// Option configures a Calculator.
type Option func(*Calculator)

// WithConstants replaces the built-in calibration.
func WithConstants(c Constants) Option {
	return func(calc *Calculator) { calc.constants = c }
}

// WithRandomSource sets the source used for the ocean-coverage fallback draw.
// A nil source keeps the default.
func WithRandomSource(r RandomSource) Option {
	return func(calc *Calculator) {
		if r != nil {
			calc.rng = r
		}
	}
}

// NewCalculator creates a Calculator using DefaultConstants and the global
// random source unless overridden.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{
		constants: DefaultConstants(),
		rng:       globalRandom{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Constants returns the calibration in use.
func (c *Calculator) Constants() Constants {
	return c.constants
}

// CalculateImpact derives the physical consequences of an impact. Every call
// recomputes the full result; the only non-deterministic step is the ocean
// fallback draw for coordinates outside the known basins.
func (c *Calculator) CalculateImpact(p AsteroidParameters) (ImpactResult, error) {
	if err := p.Validate(); err != nil {
		return ImpactResult{}, err
	}
	k := c.constants

	mass := Mass(p.Diameter, k.AsteroidDensity)
	joules := KineticEnergy(mass, p.Velocity)
	if math.IsInf(joules, 0) {
		field, value := "velocity", p.Velocity
		if math.IsInf(mass, 0) {
			field, value = "diameter", p.Diameter
		}
		return ImpactResult{}, &InvalidParameterError{Field: field, Value: value, Reason: "impact energy exceeds the representable range"}
	}
	megatons := joules / k.JoulesPerKiloton / KilotonsPerMegaton

	ocean := isOceanImpact(p.Latitude, p.Longitude, k.OceanCoverage, c.rng)
	terrain := k.LandTerrainFactor
	if ocean {
		terrain = k.OceanTerrainFactor
	}

	angleFactor := math.Cbrt(math.Sin(p.Angle * math.Pi / 180))
	craterDiameter := k.CraterScaling * math.Pow(joules, k.CraterExponent) * angleFactor * terrain / MetersPerKilometer
	shockwave := math.Pow(megatons, k.ShockwaveExponent) * k.ShockwaveCoefficient
	thermal := math.Pow(megatons, k.ThermalExponent) * k.ThermalCoefficient

	result := ImpactResult{
		Mass:             mass,
		Energy:           megatons,
		CraterDiameter:   craterDiameter,
		CraterDepth:      craterDiameter / k.CraterDepthRatio,
		ShockwaveRadius:  shockwave,
		ThermalRadius:    thermal,
		SeismicMagnitude: k.SeismicSlope*math.Log10(joules) - k.SeismicOffset,
		IsOceanImpact:    ocean,
		Region:           RegionFor(p.Latitude, p.Longitude),
	}

	if ocean {
		h := tsunamiHeight(megatons, craterDiameter*MetersPerKilometer, k)
		result.TsunamiHeight = &h
	}

	radius := math.Max(shockwave, thermal)
	result.AffectedPopulation = populationCount(math.Pi * radius * radius * result.Region.PopulationDensity())

	return result, nil
}

// populationCount rounds an estimated head count into [0, MaxInt64]. Values
// at or beyond 2^63 would wrap on conversion.
func populationCount(people float64) int64 {
	switch {
	case !(people > 0):
		return 0
	case people >= 1<<63:
		return math.MaxInt64
	}
	return int64(math.Round(people))
}

// Mass returns the mass in kg of a sphere of the given diameter (m) and density (kg/m³).
func Mass(diameter, density float64) float64 {
	r := diameter / 2
	return 4.0 / 3.0 * math.Pi * r * r * r * density
}

// KineticEnergy returns ½·m·v² in joules for a velocity given in km/s.
func KineticEnergy(mass, velocityKmS float64) float64 {
	v := velocityKmS * MetersPerKilometer
	return 0.5 * mass * v * v
}

// tsunamiHeight estimates the initial wave height in metres. A wave cannot
// exceed half the water column it forms in.
func tsunamiHeight(megatons, craterDiameterM float64, k Constants) float64 {
	h := k.TsunamiCoefficient * math.Pow(megatons, k.TsunamiEnergyExponent) * craterDiameterM / math.Sqrt(k.OceanDepth)
	return math.Min(h, k.OceanDepth/2)
}
