package domain

import "math"

// Physical constants that are not subject to calibration.
const (
	GravitationalConstant = 6.674e-11 // m³/(kg·s²)
	SecondsPerYear        = 365.25 * 86400.0
	MetersPerKilometer    = 1000.0
	KilotonsPerMegaton    = 1000.0
)

// Constants holds every tunable coefficient used by the impact and mitigation
// formulas. The zero value is not usable; start from DefaultConstants.
type Constants struct {
	// Impact.
	AsteroidDensity       float64 `yaml:"asteroid_density"`   // kg/m³
	JoulesPerKiloton      float64 `yaml:"joules_per_kiloton"` // J
	OceanCoverage         float64 `yaml:"ocean_coverage"`     // probability of ocean outside known basins
	CraterScaling         float64 `yaml:"crater_scaling"`     // m per J^CraterExponent
	CraterExponent        float64 `yaml:"crater_exponent"`
	OceanTerrainFactor    float64 `yaml:"ocean_terrain_factor"`
	LandTerrainFactor     float64 `yaml:"land_terrain_factor"`
	CraterDepthRatio      float64 `yaml:"crater_depth_ratio"`    // diameter / depth
	ShockwaveCoefficient  float64 `yaml:"shockwave_coefficient"` // km per Mt^ShockwaveExponent
	ShockwaveExponent     float64 `yaml:"shockwave_exponent"`
	ThermalCoefficient    float64 `yaml:"thermal_coefficient"` // km per Mt^ThermalExponent
	ThermalExponent       float64 `yaml:"thermal_exponent"`
	SeismicSlope          float64 `yaml:"seismic_slope"`
	SeismicOffset         float64 `yaml:"seismic_offset"`
	TsunamiCoefficient    float64 `yaml:"tsunami_coefficient"`
	TsunamiEnergyExponent float64 `yaml:"tsunami_energy_exponent"`
	OceanDepth            float64 `yaml:"ocean_depth"` // m

	// Kinetic impactor.
	ImpactorMass     float64 `yaml:"impactor_mass"`     // kg
	ImpactorVelocity float64 `yaml:"impactor_velocity"` // m/s
	MomentumBeta     float64 `yaml:"momentum_beta"`     // momentum enhancement factor

	// Nuclear standoff.
	NuclearYieldKilotons float64 `yaml:"nuclear_yield_kilotons"` // kt
	NuclearCoupling      float64 `yaml:"nuclear_coupling"`       // fraction of yield delivered as impulse energy
	NuclearEjectaSpeed   float64 `yaml:"nuclear_ejecta_speed"`   // m/s, effective

	// Gravity tractor.
	TractorMass     float64 `yaml:"tractor_mass"`     // kg
	TractorDistance float64 `yaml:"tractor_distance"` // m

	// Ion beam shepherd.
	IonThrust     float64 `yaml:"ion_thrust"` // N
	IonEfficiency float64 `yaml:"ion_efficiency"`
}

// DefaultConstants returns the built-in calibration.
func DefaultConstants() Constants {
	return Constants{
		AsteroidDensity:       3000,
		JoulesPerKiloton:      4.184e12,
		OceanCoverage:         0.71,
		CraterScaling:         0.4,
		CraterExponent:        0.22,
		OceanTerrainFactor:    0.8,
		LandTerrainFactor:     1.0,
		CraterDepthRatio:      4,
		ShockwaveCoefficient:  2.5,
		ShockwaveExponent:     0.33,
		ThermalCoefficient:    3.2,
		ThermalExponent:       0.41,
		SeismicSlope:          2.0 / 3.0,
		SeismicOffset:         2.9,
		TsunamiCoefficient:    0.07,
		TsunamiEnergyExponent: 0.25,
		OceanDepth:            4000,

		ImpactorMass:     500,
		ImpactorVelocity: 6000,
		MomentumBeta:     1.5,

		NuclearYieldKilotons: 1000,
		NuclearCoupling:      0.1,
		NuclearEjectaSpeed:   1000,

		TractorMass:     20000,
		TractorDistance: 100,

		IonThrust:     0.5,
		IonEfficiency: 0.7,
	}
}

// Validate reports the first constant that would make the formulas degenerate.
func (c Constants) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"asteroid_density", c.AsteroidDensity},
		{"joules_per_kiloton", c.JoulesPerKiloton},
		{"crater_scaling", c.CraterScaling},
		{"crater_exponent", c.CraterExponent},
		{"crater_depth_ratio", c.CraterDepthRatio},
		{"shockwave_coefficient", c.ShockwaveCoefficient},
		{"thermal_coefficient", c.ThermalCoefficient},
		{"ocean_depth", c.OceanDepth},
		{"impactor_mass", c.ImpactorMass},
		{"impactor_velocity", c.ImpactorVelocity},
		{"nuclear_yield_kilotons", c.NuclearYieldKilotons},
		{"nuclear_ejecta_speed", c.NuclearEjectaSpeed},
		{"tractor_mass", c.TractorMass},
		{"tractor_distance", c.TractorDistance},
		{"ion_thrust", c.IonThrust},
	}
	for _, p := range positive {
		if !(p.value > 0) || math.IsInf(p.value, 0) {
			return &InvalidParameterError{Field: p.name, Value: p.value, Reason: "must be a positive finite number"}
		}
	}
	if c.OceanCoverage < 0 || c.OceanCoverage > 1 {
		return &InvalidParameterError{Field: "ocean_coverage", Value: c.OceanCoverage, Reason: "must be within [0,1]"}
	}
	return nil
}
