package domain

import "time"

// SimulationRecord is the flattened, persisted form of a scenario and its
// results. Records are written once and never updated.
type SimulationRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name,omitempty"`
	NEOReference string    `json:"neo_reference,omitempty"`
	CreatedAt    time.Time `json:"created_at"`

	Diameter  float64 `json:"diameter"`
	Velocity  float64 `json:"velocity"`
	Angle     float64 `json:"angle"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Mass               float64  `json:"mass"`
	Energy             float64  `json:"energy"`
	CraterDiameter     float64  `json:"crater_diameter"`
	CraterDepth        float64  `json:"crater_depth"`
	ShockwaveRadius    float64  `json:"shockwave_radius"`
	ThermalRadius      float64  `json:"thermal_radius"`
	SeismicMagnitude   float64  `json:"seismic_magnitude"`
	IsOceanImpact      bool     `json:"is_ocean_impact"`
	TsunamiHeight      *float64 `json:"tsunami_height,omitempty"`
	AffectedPopulation int64    `json:"affected_population"`
	Region             Region   `json:"region"`

	MitigationStrategy string             `json:"mitigation_strategy,omitempty"`
	WarningTimeYears   float64            `json:"warning_time_years,omitempty"`
	Mitigation         *MitigationOutcome `json:"mitigation,omitempty"`
}

// FlattenAssessment builds a record from an assessment. ID and CreatedAt are
// left for the caller.
func FlattenAssessment(a Assessment, neoRef string, warningYears float64) SimulationRecord {
	p, r := a.Parameters, a.Impact
	rec := SimulationRecord{
		Name:               a.Name,
		NEOReference:       neoRef,
		Diameter:           p.Diameter,
		Velocity:           p.Velocity,
		Angle:              p.Angle,
		Latitude:           p.Latitude,
		Longitude:          p.Longitude,
		Mass:               r.Mass,
		Energy:             r.Energy,
		CraterDiameter:     r.CraterDiameter,
		CraterDepth:        r.CraterDepth,
		ShockwaveRadius:    r.ShockwaveRadius,
		ThermalRadius:      r.ThermalRadius,
		SeismicMagnitude:   r.SeismicMagnitude,
		IsOceanImpact:      r.IsOceanImpact,
		TsunamiHeight:      r.TsunamiHeight,
		AffectedPopulation: r.AffectedPopulation,
		Region:             r.Region,
	}
	if a.Mitigation != nil {
		rec.MitigationStrategy = string(a.Mitigation.Strategy)
		rec.WarningTimeYears = warningYears
		rec.Mitigation = a.Mitigation
	}
	return rec
}

// Parameters reconstructs the input parameters of the record.
func (r SimulationRecord) Parameters() AsteroidParameters {
	return AsteroidParameters{
		Diameter:  r.Diameter,
		Velocity:  r.Velocity,
		Angle:     r.Angle,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

// Impact reconstructs the impact result of the record.
func (r SimulationRecord) Impact() ImpactResult {
	return ImpactResult{
		Mass:               r.Mass,
		Energy:             r.Energy,
		CraterDiameter:     r.CraterDiameter,
		CraterDepth:        r.CraterDepth,
		ShockwaveRadius:    r.ShockwaveRadius,
		ThermalRadius:      r.ThermalRadius,
		SeismicMagnitude:   r.SeismicMagnitude,
		IsOceanImpact:      r.IsOceanImpact,
		TsunamiHeight:      r.TsunamiHeight,
		AffectedPopulation: r.AffectedPopulation,
		Region:             r.Region,
	}
}
