// Command impactctl runs the impact and mitigation calculators from the
// command line, inspects stored simulation history and manages the reference
// fixture used to catch regressions in the physics.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// --- Global Command Variables ---
var (
	calibrationFile string

	rootCmd = &cobra.Command{
		Use:          "impactctl",
		Short:        "Asteroid impact and deflection calculator",
		SilenceUsage: true,
	}

	// --- Calculators ---
	impactCmd = &cobra.Command{
		Use:   "impact",
		Short: "Compute the consequences of an impact",
		RunE:  runImpact, // Defined in cmd_calc.go
	}
	mitigateCmd = &cobra.Command{
		Use:   "mitigate",
		Short: "Evaluate a deflection strategy",
		RunE:  runMitigate, // Defined in cmd_calc.go
	}

	// --- History ---
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "List the most recent stored simulations (the service must not hold the store open)",
		RunE:  runHistory, // Defined in cmd_history.go
	}

	// --- Fixtures ---
	genmockCmd = &cobra.Command{
		Use:   "genmock",
		Short: "Write the reference scenario fixture",
		RunE:  runGenmock, // Defined in cmd_fixture.go
	}
	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Recompute a fixture and check it against the calculators",
		RunE:  runValidate, // Defined in cmd_fixture.go
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&calibrationFile, "calibration", "", "YAML file overriding calculator constants")

	registerCalcFlags()
	registerHistoryFlags()
	registerFixtureFlags()

	rootCmd.AddCommand(impactCmd, mitigateCmd, historyCmd, genmockCmd, validateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
