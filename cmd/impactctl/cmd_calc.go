package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/asteroid-impact-service/internal/config"
	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/spf13/cobra"
)

var (
	impactParams domain.AsteroidParameters
	impactSeed   uint64

	mitigateStrategy string
	mitigateInput    domain.MitigationInput
)

func registerCalcFlags() {
	f := impactCmd.Flags()
	f.Float64Var(&impactParams.Diameter, "diameter", 0, "asteroid diameter in metres")
	f.Float64Var(&impactParams.Velocity, "velocity", 0, "impact velocity in km/s")
	f.Float64Var(&impactParams.Angle, "angle", 45, "entry angle in degrees from horizontal")
	f.Float64Var(&impactParams.Latitude, "lat", 0, "impact latitude")
	f.Float64Var(&impactParams.Longitude, "lon", 0, "impact longitude")
	f.Uint64Var(&impactSeed, "seed", 0, "seed for the ocean fallback draw (0 = random)")
	_ = impactCmd.MarkFlagRequired("diameter")
	_ = impactCmd.MarkFlagRequired("velocity")

	f = mitigateCmd.Flags()
	f.StringVar(&mitigateStrategy, "strategy", "", "kinetic_impactor, nuclear, gravity_tractor or ion_beam")
	f.Float64Var(&mitigateInput.Diameter, "diameter", 0, "asteroid diameter in metres")
	f.Float64Var(&mitigateInput.Velocity, "velocity", 0, "asteroid velocity in km/s")
	f.Float64Var(&mitigateInput.WarningTimeYears, "warning-years", 0, "years between launch and impact")
	f.Float64Var(&mitigateInput.Mass, "mass", 0, "asteroid mass in kg (derived from diameter when omitted)")
	_ = mitigateCmd.MarkFlagRequired("strategy")
	_ = mitigateCmd.MarkFlagRequired("diameter")
	_ = mitigateCmd.MarkFlagRequired("velocity")
}

// newCalculator builds a calculator from the --calibration flag and an
// optional seed.
func newCalculator(seed uint64) (*domain.Calculator, error) {
	constants, err := config.LoadCalibration(calibrationFile)
	if err != nil {
		return nil, err
	}
	opts := []domain.Option{domain.WithConstants(constants)}
	if seed != 0 {
		opts = append(opts, domain.WithRandomSource(domain.NewSeededSource(seed)))
	}
	return domain.NewCalculator(opts...), nil
}

func runImpact(cmd *cobra.Command, _ []string) error {
	calc, err := newCalculator(impactSeed)
	if err != nil {
		return err
	}
	result, err := calc.CalculateImpact(impactParams)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func runMitigate(cmd *cobra.Command, _ []string) error {
	calc, err := newCalculator(0)
	if err != nil {
		return err
	}
	strategy, err := domain.ParseStrategy(mitigateStrategy)
	if err != nil {
		return err
	}
	in := mitigateInput
	in.Strategy = strategy
	if in.Mass == 0 {
		in.Mass = domain.Mass(in.Diameter, calc.Constants().AsteroidDensity)
	}

	outcome, err := calc.CalculateMitigation(in)
	if err != nil {
		return err
	}
	if outcome == nil {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "no mitigation requested")
		return err
	}
	return printJSON(cmd.OutOrStdout(), outcome)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
