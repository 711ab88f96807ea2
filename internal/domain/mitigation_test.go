package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func referenceMitigation(strategy Strategy, years float64) MitigationInput {
	return MitigationInput{
		Strategy:         strategy,
		Mass:             Mass(500, 3000),
		Diameter:         500,
		Velocity:         20,
		WarningTimeYears: years,
	}
}

func TestCalculateMitigation_NoneIsAbsent(t *testing.T) {
	calc := NewCalculator()
	for _, in := range []MitigationInput{
		referenceMitigation(StrategyNone, 10),
		{Strategy: StrategyNone},
		{Strategy: StrategyNone, Mass: -1, Velocity: -1, WarningTimeYears: -3},
		{},
	} {
		out, err := calc.CalculateMitigation(in)
		require.NoError(t, err)
		assert.Nil(t, out)
	}
}

func TestCalculateMitigation_KineticImpactor(t *testing.T) {
	out, err := NewCalculator().CalculateMitigation(referenceMitigation(StrategyKineticImpactor, 10))
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, StrategyKineticImpactor, out.Strategy)
	assert.InEpsilon(t, 2.2918e-5, out.VelocityChange, 1e-3)
	assert.InEpsilon(t, out.VelocityChange*10*SecondsPerYear/1000, out.TrajectoryDeflection, 1e-12)
	assert.InDelta(t, 0.95, out.SuccessProbability, 1e-12)
	assert.Equal(t, 5.0, out.RequiredWarningTime)

	r := out.VelocityChange / 20000
	assert.InEpsilon(t, (2*r-r*r)*100, out.EnergyReduction, 1e-9)
	assert.Contains(t, out.Description, "500 m asteroid")
}

func TestCalculateMitigation_KineticProbabilityCap(t *testing.T) {
	calc := NewCalculator()
	for _, years := range []float64{5, 6, 20, 100} {
		out, err := calc.CalculateMitigation(referenceMitigation(StrategyKineticImpactor, years))
		require.NoError(t, err)
		assert.LessOrEqual(t, out.SuccessProbability, 0.95)
	}

	out, err := calc.CalculateMitigation(referenceMitigation(StrategyKineticImpactor, 2))
	require.NoError(t, err)
	assert.InDelta(t, 0.4, out.SuccessProbability, 1e-12)
}

func TestCalculateMitigation_Nuclear(t *testing.T) {
	out, err := NewCalculator().CalculateMitigation(referenceMitigation(StrategyNuclear, 1.5))
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.InEpsilon(t, 2.1309, out.VelocityChange, 1e-3)
	assert.InDelta(t, 0.5, out.SuccessProbability, 1e-12)
	assert.Equal(t, 3.0, out.RequiredWarningTime)
	assert.LessOrEqual(t, out.EnergyReduction, 15.0)

	capped, err := NewCalculator().CalculateMitigation(referenceMitigation(StrategyNuclear, 50))
	require.NoError(t, err)
	assert.InDelta(t, 0.90, capped.SuccessProbability, 1e-12)
}

func TestCalculateMitigation_NuclearImpulseUsesEffectiveEjectaSpeed(t *testing.T) {
	in := referenceMitigation(StrategyNuclear, 2)
	k := DefaultConstants()

	out, err := NewCalculator(WithConstants(k)).CalculateMitigation(in)
	require.NoError(t, err)
	want := k.NuclearYieldKilotons * k.JoulesPerKiloton * k.NuclearCoupling / k.NuclearEjectaSpeed / in.Mass
	assert.InEpsilon(t, want, out.VelocityChange, 1e-12)

	k.NuclearEjectaSpeed *= 2
	slower, err := NewCalculator(WithConstants(k)).CalculateMitigation(in)
	require.NoError(t, err)
	assert.InEpsilon(t, out.VelocityChange/2, slower.VelocityChange, 1e-12)
}

func TestCalculateMitigation_NuclearReductionCap(t *testing.T) {
	in := referenceMitigation(StrategyNuclear, 3)
	in.Mass = 1e6 // tiny body, huge Δv
	out, err := NewCalculator().CalculateMitigation(in)
	require.NoError(t, err)
	assert.Equal(t, 15.0, out.EnergyReduction)
}

func TestCalculateMitigation_GravityTractor(t *testing.T) {
	out, err := NewCalculator().CalculateMitigation(referenceMitigation(StrategyGravityTractor, 10))
	require.NoError(t, err)
	require.NotNil(t, out)

	accel := GravitationalConstant * 20000 / (100 * 100)
	seconds := 10 * SecondsPerYear
	assert.InEpsilon(t, accel*seconds, out.VelocityChange, 1e-12)
	assert.InEpsilon(t, 0.5*accel*seconds*seconds/1000, out.TrajectoryDeflection, 1e-12)
	assert.InDelta(t, 0.85, out.SuccessProbability, 1e-12)
	assert.LessOrEqual(t, out.EnergyReduction, 8.0)
	assert.Equal(t, 10.0, out.RequiredWarningTime)
}

func TestCalculateMitigation_IonBeam(t *testing.T) {
	in := referenceMitigation(StrategyIonBeam, 4)
	out, err := NewCalculator().CalculateMitigation(in)
	require.NoError(t, err)
	require.NotNil(t, out)

	accel := 0.5 * 0.7 / in.Mass
	assert.InEpsilon(t, accel*4*SecondsPerYear, out.VelocityChange, 1e-12)
	assert.InDelta(t, 0.5, out.SuccessProbability, 1e-12)
	assert.LessOrEqual(t, out.EnergyReduction, 10.0)
}

func TestCalculateMitigation_ZeroWarningTime(t *testing.T) {
	calc := NewCalculator()
	for _, s := range Strategies[1:] {
		out, err := calc.CalculateMitigation(referenceMitigation(s, 0))
		require.NoError(t, err, s)
		assert.Zero(t, out.SuccessProbability, s)
		assert.Zero(t, out.TrajectoryDeflection, s)
	}
}

func TestCalculateMitigation_ProbabilityWithinUnitInterval(t *testing.T) {
	calc := NewCalculator()
	for _, s := range Strategies[1:] {
		for _, years := range []float64{0, 0.5, 1, 3, 8, 10, 25, 1000} {
			out, err := calc.CalculateMitigation(referenceMitigation(s, years))
			require.NoError(t, err)
			assert.GreaterOrEqual(t, out.SuccessProbability, 0.0)
			assert.LessOrEqual(t, out.SuccessProbability, 1.0)
			assert.GreaterOrEqual(t, out.EnergyReduction, 0.0)
			assert.LessOrEqual(t, out.EnergyReduction, 100.0)
		}
	}
}

func TestCalculateMitigation_UnknownStrategy(t *testing.T) {
	_, err := NewCalculator().CalculateMitigation(referenceMitigation("laser_ablation", 5))
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestCalculateMitigation_InvalidInput(t *testing.T) {
	cases := []struct {
		name string
		mod  func(*MitigationInput)
	}{
		{"zero mass", func(in *MitigationInput) { in.Mass = 0 }},
		{"negative diameter", func(in *MitigationInput) { in.Diameter = -1 }},
		{"zero velocity", func(in *MitigationInput) { in.Velocity = 0 }},
		{"negative warning time", func(in *MitigationInput) { in.WarningTimeYears = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := referenceMitigation(StrategyKineticImpactor, 5)
			tc.mod(&in)
			_, err := NewCalculator().CalculateMitigation(in)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range Strategies {
		got, err := ParseStrategy(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyNone, got)

	_, err = ParseStrategy("Kinetic_Impactor")
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}
