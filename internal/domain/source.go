package domain

import "context"

// AsteroidSource supplies physical parameters for catalogued near-earth objects.
type AsteroidSource interface {
	// Lookup fetches a single object by its catalogue ID. Implementations
	// return ErrNEONotFound when the ID is unknown.
	Lookup(ctx context.Context, neoID string) (NearEarthObject, error)
}

// ApplyNEO copies the catalogue diameter and velocity into a scenario,
// keeping the caller's angle and impact site. The scenario name defaults to
// the catalogue name.
func ApplyNEO(s Scenario, neo NearEarthObject) Scenario {
	s.Diameter = neo.Diameter
	s.Velocity = neo.Velocity
	s.NEOReference = neo.ID
	if s.Name == "" {
		s.Name = neo.Name
	}
	return s
}
