package domain

import (
	"fmt"
	"math"
)

// Strategy identifies a deflection technique.
type Strategy string

const (
	StrategyNone            Strategy = "none"
	StrategyKineticImpactor Strategy = "kinetic_impactor"
	StrategyNuclear         Strategy = "nuclear"
	StrategyGravityTractor  Strategy = "gravity_tractor"
	StrategyIonBeam         Strategy = "ion_beam"
)

// Strategies lists every strategy, "none" first.
var Strategies = []Strategy{
	StrategyNone,
	StrategyKineticImpactor,
	StrategyNuclear,
	StrategyGravityTractor,
	StrategyIonBeam,
}

// ParseStrategy maps an identifier to a Strategy. The empty string means none.
func ParseStrategy(s string) (Strategy, error) {
	if s == "" {
		return StrategyNone, nil
	}
	for _, st := range Strategies {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// strategyProfile holds the per-strategy success curve: probability grows
// linearly with warning time until it reaches the ceiling at requiredYears.
type strategyProfile struct {
	requiredYears   float64
	maxProbability  float64
	maxReductionPct float64
}

var strategyProfiles = map[Strategy]strategyProfile{
	StrategyKineticImpactor: {requiredYears: 5, maxProbability: 0.95, maxReductionPct: 100},
	StrategyNuclear:         {requiredYears: 3, maxProbability: 0.90, maxReductionPct: 15},
	StrategyGravityTractor:  {requiredYears: 10, maxProbability: 0.85, maxReductionPct: 8},
	StrategyIonBeam:         {requiredYears: 8, maxProbability: 0.80, maxReductionPct: 10},
}

// MitigationInput is everything the mitigation calculator needs.
type MitigationInput struct {
	Strategy         Strategy `json:"strategy"`
	Mass             float64  `json:"mass" validate:"gt=0"`                // kg
	Diameter         float64  `json:"diameter" validate:"gt=0"`            // m
	Velocity         float64  `json:"velocity" validate:"gt=0"`            // km/s
	WarningTimeYears float64  `json:"warning_time_years" validate:"gte=0"` // years
}

// MitigationOutcome is the result of applying one strategy.
type MitigationOutcome struct {
	Strategy             Strategy `json:"strategy"`
	SuccessProbability   float64  `json:"success_probability"`   // 0..1
	VelocityChange       float64  `json:"velocity_change"`       // m/s
	TrajectoryDeflection float64  `json:"trajectory_deflection"` // km
	RequiredWarningTime  float64  `json:"required_warning_time"` // years
	EnergyReduction      float64  `json:"energy_reduction"`      // percent
	Description          string   `json:"description"`
}

// CalculateMitigation evaluates a deflection strategy. It returns a nil
// outcome and nil error for StrategyNone.
func (c *Calculator) CalculateMitigation(in MitigationInput) (*MitigationOutcome, error) {
	if in.Strategy == StrategyNone || in.Strategy == "" {
		return nil, nil
	}
	profile, ok := strategyProfiles[in.Strategy]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, in.Strategy)
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	k := c.constants
	seconds := in.WarningTimeYears * SecondsPerYear

	var deltaV, deflectionM float64
	var detail string
	switch in.Strategy {
	case StrategyKineticImpactor:
		deltaV = k.MomentumBeta * k.ImpactorMass * k.ImpactorVelocity / in.Mass
		deflectionM = deltaV * seconds
		detail = fmt.Sprintf("A %.0f kg spacecraft striking at %.1f km/s (β=%.1f)",
			k.ImpactorMass, k.ImpactorVelocity/MetersPerKilometer, k.MomentumBeta)
	case StrategyNuclear:
		coupled := k.NuclearYieldKilotons * k.JoulesPerKiloton * k.NuclearCoupling
		// NuclearEjectaSpeed is an effective calibration speed, not the ejecta's
		// physical velocity: it already absorbs the factor 2 of p = 2E/v.
		impulse := coupled / k.NuclearEjectaSpeed
		deltaV = impulse / in.Mass
		deflectionM = deltaV * seconds
		detail = fmt.Sprintf("A %.0f kt standoff detonation coupling %.0f%% of its yield",
			k.NuclearYieldKilotons, k.NuclearCoupling*100)
	case StrategyGravityTractor:
		accel := GravitationalConstant * k.TractorMass / (k.TractorDistance * k.TractorDistance)
		deltaV = accel * seconds
		deflectionM = 0.5 * accel * seconds * seconds
		detail = fmt.Sprintf("A %.0f kg spacecraft hovering %.0f m away",
			k.TractorMass, k.TractorDistance)
	case StrategyIonBeam:
		accel := k.IonThrust * k.IonEfficiency / in.Mass
		deltaV = accel * seconds
		deflectionM = 0.5 * accel * seconds * seconds
		detail = fmt.Sprintf("An ion beam pushing with %.2f N at %.0f%% efficiency",
			k.IonThrust, k.IonEfficiency*100)
	}

	deflectionKm := deflectionM / MetersPerKilometer
	out := &MitigationOutcome{
		Strategy:             in.Strategy,
		SuccessProbability:   math.Min(in.WarningTimeYears/profile.requiredYears, profile.maxProbability),
		VelocityChange:       deltaV,
		TrajectoryDeflection: deflectionKm,
		RequiredWarningTime:  profile.requiredYears,
		EnergyReduction:      math.Min(energyReduction(deltaV, in.Velocity), profile.maxReductionPct),
	}
	out.Description = fmt.Sprintf(
		"%s changes the velocity of the %.0f m asteroid by %.4g m/s, shifting its path by %.4g km over %.1f years.",
		detail, in.Diameter, deltaV, deflectionKm, in.WarningTimeYears)
	return out, nil
}

// energyReduction converts a velocity change into the percentage of kinetic
// energy removed: with r = Δv/v, 1-(1-r)² = 2r-r². A Δv at or above the
// asteroid's own velocity removes all of it.
func energyReduction(deltaV, velocityKmS float64) float64 {
	r := math.Min(deltaV/(velocityKmS*MetersPerKilometer), 1)
	return math.Max(0, (2*r-r*r)*100)
}
