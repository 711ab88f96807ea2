package domain

// Assess runs the impact calculator on a scenario and, when a strategy other
// than none is requested, the mitigation calculator on the resulting mass.
func (c *Calculator) Assess(s Scenario) (Assessment, error) {
	impact, err := c.CalculateImpact(s.AsteroidParameters)
	if err != nil {
		return Assessment{}, err
	}

	mitigation, err := c.CalculateMitigation(MitigationInput{
		Strategy:         s.Strategy,
		Mass:             impact.Mass,
		Diameter:         s.Diameter,
		Velocity:         s.Velocity,
		WarningTimeYears: s.WarningTimeYears,
	})
	if err != nil {
		return Assessment{}, err
	}

	return Assessment{
		Name:        s.Name,
		Parameters:  s.AsteroidParameters,
		Impact:      impact,
		Mitigation:  mitigation,
		ProcessedAt: Now(),
	}, nil
}
