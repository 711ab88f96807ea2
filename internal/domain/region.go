package domain

import (
	"math/rand/v2"
	"sync"
)

// Region is the coarse geographic bucket used for population density lookup.
type Region string

const (
	RegionNorthAmerica Region = "north_america"
	RegionSouthAmerica Region = "south_america"
	RegionEurope       Region = "europe"
	RegionAfrica       Region = "africa"
	RegionAsia         Region = "asia"
	RegionOceania      Region = "oceania"
	RegionOcean        Region = "ocean"
)

// populationDensity is people per km².
var populationDensity = map[Region]float64{
	RegionNorthAmerica: 22,
	RegionSouthAmerica: 25,
	RegionEurope:       73,
	RegionAfrica:       45,
	RegionAsia:         150,
	RegionOceania:      5,
	RegionOcean:        0,
}

// PopulationDensity returns the density for r, or 0 for an unknown region.
func (r Region) PopulationDensity() float64 {
	return populationDensity[r]
}

// box is an inclusive latitude/longitude bounding box.
type box struct {
	minLat, maxLat float64
	minLon, maxLon float64
}

func (b box) contains(lat, lon float64) bool {
	return lat >= b.minLat && lat <= b.maxLat && lon >= b.minLon && lon <= b.maxLon
}

// continentBoxes is checked in order; the first match wins.
var continentBoxes = []struct {
	region Region
	box    box
}{
	{RegionNorthAmerica, box{minLat: 15, maxLat: 72, minLon: -170, maxLon: -50}},
	{RegionSouthAmerica, box{minLat: -56, maxLat: 15, minLon: -82, maxLon: -34}},
	{RegionEurope, box{minLat: 35, maxLat: 72, minLon: -25, maxLon: 45}},
	{RegionAfrica, box{minLat: -35, maxLat: 37, minLon: -18, maxLon: 52}},
	{RegionAsia, box{minLat: -10, maxLat: 80, minLon: 45, maxLon: 180}},
	{RegionOceania, box{minLat: -50, maxLat: -10, minLon: 110, maxLon: 180}},
}

// RegionFor buckets a coordinate into a continent, falling back to ocean.
func RegionFor(lat, lon float64) Region {
	for _, c := range continentBoxes {
		if c.box.contains(lat, lon) {
			return c.region
		}
	}
	return RegionOcean
}

// InOceanBasin reports whether the coordinate falls in one of the Pacific,
// Atlantic or Indian ocean boxes. The bounds are exclusive.
func InOceanBasin(lat, lon float64) bool {
	switch {
	case (lon > 120 || lon < -70) && lat > -60 && lat < 60: // Pacific
		return true
	case lon > -70 && lon < -10 && lat > -60 && lat < 60: // Atlantic
		return true
	case lon > 40 && lon < 120 && lat > -50 && lat < 20: // Indian
		return true
	}
	return false
}

// RandomSource yields uniform values in [0,1).
type RandomSource interface {
	Float64() float64
}

// globalRandom draws from the runtime-seeded top-level math/rand/v2 source,
// which is safe for concurrent use.
type globalRandom struct{}

func (globalRandom) Float64() float64 { return rand.Float64() }

// NewSeededSource returns a deterministic source that is safe for concurrent
// use. Draws are serialized, so the sequence is reproducible only when calls
// are.
func NewSeededSource(seed uint64) RandomSource {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// isOceanImpact classifies a coordinate as ocean. Coordinates outside every
// known basin fall back to a draw against the Earth's ocean coverage.
func isOceanImpact(lat, lon, coverage float64, rng RandomSource) bool {
	if InOceanBasin(lat, lon) {
		return true
	}
	return rng.Float64() < coverage
}
