package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/asteroid-impact-service/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
)

const fixtureSeed uint64 = 20290413

// fixtureTime is the frozen ProcessedAt for every generated assessment.
var fixtureTime = time.Date(2029, time.April, 13, 21, 46, 0, 0, time.UTC)

var (
	genmockOut      string
	validateFixture string
)

func registerFixtureFlags() {
	genmockCmd.Flags().StringVar(&genmockOut, "out", "data/mock/reference_assessments.json", "output path for the fixture")
	validateCmd.Flags().StringVar(&validateFixture, "fixture", "data/mock/reference_assessments.json", "fixture to validate")
}

// Fixture is a reproducible set of scenarios and the assessments the
// calculators produced for them.
type Fixture struct {
	Seed        uint64         `json:"seed"`
	GeneratedAt time.Time      `json:"generated_at"`
	Entries     []FixtureEntry `json:"entries"`
}

// FixtureEntry pairs one scenario with its expected assessment.
type FixtureEntry struct {
	Scenario   domain.Scenario   `json:"scenario"`
	Assessment domain.Assessment `json:"assessment"`
}

// referenceScenarios covers every strategy, both ocean classifications and
// the small, large and extreme ends of each parameter range.
func referenceScenarios() []domain.Scenario {
	return []domain.Scenario{
		{Name: "chelyabinsk", AsteroidParameters: domain.AsteroidParameters{Diameter: 20, Velocity: 19, Angle: 18, Latitude: 55.15, Longitude: 61.41}},
		{Name: "tunguska", AsteroidParameters: domain.AsteroidParameters{Diameter: 60, Velocity: 27, Angle: 35, Latitude: 60.89, Longitude: 101.89}},
		{Name: "paris", AsteroidParameters: domain.AsteroidParameters{Diameter: 500, Velocity: 20, Angle: 45, Latitude: 48.85, Longitude: 2.35}},
		{Name: "mid-pacific", AsteroidParameters: domain.AsteroidParameters{Diameter: 500, Velocity: 20, Angle: 45, Latitude: 0, Longitude: -150}},
		{Name: "mid-atlantic", AsteroidParameters: domain.AsteroidParameters{Diameter: 1000, Velocity: 25, Angle: 60, Latitude: 30, Longitude: -40}},
		{Name: "indian-ocean", AsteroidParameters: domain.AsteroidParameters{Diameter: 300, Velocity: 15, Angle: 30, Latitude: -20, Longitude: 80}},
		{Name: "chicxulub", AsteroidParameters: domain.AsteroidParameters{Diameter: 10000, Velocity: 20, Angle: 60, Latitude: 21.4, Longitude: -89.5}},
		{Name: "grazing", AsteroidParameters: domain.AsteroidParameters{Diameter: 1, Velocity: 11, Angle: 1, Latitude: -89, Longitude: 0}},
		{Name: "vertical", AsteroidParameters: domain.AsteroidParameters{Diameter: 150, Velocity: 72, Angle: 90, Latitude: -33.87, Longitude: 151.21}},
		{
			Name:               "apophis-kinetic",
			AsteroidParameters: domain.AsteroidParameters{Diameter: 370, Velocity: 7.42, Angle: 45, Latitude: 40.71, Longitude: -74.01},
			Strategy:           domain.StrategyKineticImpactor,
			WarningTimeYears:   10,
		},
		{
			Name:               "bennu-nuclear",
			AsteroidParameters: domain.AsteroidParameters{Diameter: 490, Velocity: 12.7, Angle: 50, Latitude: 35.68, Longitude: 139.69},
			Strategy:           domain.StrategyNuclear,
			WarningTimeYears:   1,
		},
		{
			Name:               "tractor-late",
			AsteroidParameters: domain.AsteroidParameters{Diameter: 140, Velocity: 15, Angle: 45, Latitude: -1.29, Longitude: 36.82},
			Strategy:           domain.StrategyGravityTractor,
			WarningTimeYears:   2,
		},
		{
			Name:               "ion-beam-early",
			AsteroidParameters: domain.AsteroidParameters{Diameter: 250, Velocity: 18, Angle: 45, Latitude: -23.55, Longitude: -46.63},
			Strategy:           domain.StrategyIonBeam,
			WarningTimeYears:   12,
		},
		{
			Name:               "no-warning",
			AsteroidParameters: domain.AsteroidParameters{Diameter: 100, Velocity: 20, Angle: 45, Latitude: 51.51, Longitude: -0.13},
			Strategy:           domain.StrategyKineticImpactor,
			WarningTimeYears:   0,
		},
	}
}

// buildFixture assesses the reference scenarios under a frozen clock and a
// seeded ocean draw so the output is byte-for-byte reproducible.
func buildFixture(calc *domain.Calculator, seed uint64, at time.Time, scenarios []domain.Scenario) (Fixture, error) {
	domain.SetClock(clockwork.NewFakeClockAt(at))
	defer domain.SetClock(nil)

	f := Fixture{Seed: seed, GeneratedAt: at, Entries: make([]FixtureEntry, 0, len(scenarios))}
	for _, sc := range scenarios {
		a, err := calc.Assess(sc)
		if err != nil {
			return Fixture{}, fmt.Errorf("assess %s: %w", sc.Name, err)
		}
		f.Entries = append(f.Entries, FixtureEntry{Scenario: sc, Assessment: a})
	}
	return f, nil
}

func runGenmock(cmd *cobra.Command, _ []string) error {
	calc, err := newCalculator(fixtureSeed)
	if err != nil {
		return err
	}
	f, err := buildFixture(calc, fixtureSeed, fixtureTime, referenceScenarios())
	if err != nil {
		return err
	}
	if err := writeJSON(genmockOut, f); err != nil {
		return fmt.Errorf("writing fixture: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d assessments to %s\n", len(f.Entries), genmockOut)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}

func loadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, err
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return f, nil
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func runValidate(cmd *cobra.Command, _ []string) error {
	f, err := loadFixture(validateFixture)
	if err != nil {
		return fmt.Errorf("load fixture: %w", err)
	}
	calc, err := newCalculator(f.Seed)
	if err != nil {
		return err
	}
	if !report(cmd.OutOrStdout(), validate(calc, f)) {
		return fmt.Errorf("fixture %s failed validation", validateFixture)
	}
	return nil
}

// validate recomputes the fixture and checks the physical invariants of
// every stored assessment.
func validate(calc *domain.Calculator, f Fixture) []*phase {
	return []*phase{
		validateReproducible(calc, f),
		validateInvariants(calc.Constants(), f),
		validateMitigations(f),
	}
}

func validateReproducible(calc *domain.Calculator, f Fixture) *phase {
	p := &phase{name: "Assessments reproduce from scenarios"}

	scenarios := make([]domain.Scenario, len(f.Entries))
	for i, e := range f.Entries {
		scenarios[i] = e.Scenario
	}
	got, err := buildFixture(calc, f.Seed, f.GeneratedAt, scenarios)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	for i, e := range f.Entries {
		if diff := cmp.Diff(e.Assessment, got.Entries[i].Assessment); diff != "" {
			p.errorf("%s: assessment mismatch (-fixture +recomputed):\n%s", e.Scenario.Name, diff)
		}
	}
	return p
}

func validateInvariants(k domain.Constants, f Fixture) *phase {
	p := &phase{name: "Impact invariants"}
	for _, e := range f.Entries {
		name, r, params := e.Scenario.Name, e.Assessment.Impact, e.Assessment.Parameters

		if r.Mass <= 0 || r.Energy <= 0 {
			p.errorf("%s: mass %.4g and energy %.4g must be positive", name, r.Mass, r.Energy)
		}
		if !approxEqual(r.CraterDepth, r.CraterDiameter/k.CraterDepthRatio) {
			p.errorf("%s: crater depth %.6g is not diameter/%g (%.6g)", name, r.CraterDepth, k.CraterDepthRatio, r.CraterDiameter)
		}
		if r.IsOceanImpact != (r.TsunamiHeight != nil) {
			p.errorf("%s: tsunami height present=%t but ocean impact=%t", name, r.TsunamiHeight != nil, r.IsOceanImpact)
		}
		if r.TsunamiHeight != nil && *r.TsunamiHeight > k.OceanDepth/2 {
			p.errorf("%s: tsunami height %.4g exceeds half the ocean depth", name, *r.TsunamiHeight)
		}
		if domain.InOceanBasin(params.Latitude, params.Longitude) && !r.IsOceanImpact {
			p.errorf("%s: coordinate lies in an ocean basin but impact is on land", name)
		}
		if want := domain.RegionFor(params.Latitude, params.Longitude); r.Region != want {
			p.errorf("%s: region %s, want %s", name, r.Region, want)
		}
		if r.AffectedPopulation < 0 {
			p.errorf("%s: affected population %d is negative", name, r.AffectedPopulation)
		}
	}
	return p
}

func validateMitigations(f Fixture) *phase {
	p := &phase{name: "Mitigation invariants"}
	for _, e := range f.Entries {
		name, m := e.Scenario.Name, e.Assessment.Mitigation

		if e.Scenario.Strategy == "" || e.Scenario.Strategy == domain.StrategyNone {
			if m != nil {
				p.errorf("%s: mitigation present without a strategy", name)
			}
			continue
		}
		if m == nil {
			p.errorf("%s: strategy %s produced no mitigation", name, e.Scenario.Strategy)
			continue
		}
		if m.Strategy != e.Scenario.Strategy {
			p.errorf("%s: mitigation strategy %s, want %s", name, m.Strategy, e.Scenario.Strategy)
		}
		if m.SuccessProbability < 0 || m.SuccessProbability > 1 {
			p.errorf("%s: success probability %.4g outside [0,1]", name, m.SuccessProbability)
		}
		if m.EnergyReduction < 0 || m.EnergyReduction > 100 {
			p.errorf("%s: energy reduction %.4g outside [0,100]", name, m.EnergyReduction)
		}
		if e.Scenario.WarningTimeYears == 0 && (m.SuccessProbability != 0 || m.TrajectoryDeflection != 0) {
			p.errorf("%s: zero warning time must give zero probability and deflection", name)
		}
		if m.Description == "" {
			p.errorf("%s: empty description", name)
		}
	}
	return p
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}

// report prints a pass/fail line per phase followed by the details of each
// failure. It returns true when every phase passed.
func report(w io.Writer, phases []*phase) bool {
	fmt.Fprintln(w, "=== Impact Fixture Validation ===")
	fmt.Fprintln(w)

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(w, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(w, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Fprintf(w, "  ... and %d more\n", len(p.errors)-20)
				break
			}
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	return allPassed
}
