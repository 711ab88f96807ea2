// Package domain models asteroid impacts and planetary-defense deflection.
//
// # Impact model
//
// All quantities are derived from closed-form approximations in a single pass:
//
//	mass      = 4/3·π·(d/2)³·ρ                      ρ = 3000 kg/m³
//	energy    = ½·m·v²                              joules, v in m/s
//	megatons  = energy / 4.184e12 / 1000
//	crater    = k·E^0.22 · sin(θ)^(1/3) · terrain   terrain 0.8 ocean, 1.0 land
//	depth     = crater / 4
//	shockwave = Mt^0.33 · 2.5 km
//	thermal   = Mt^0.41 · 3.2 km
//	seismic   = ⅔·log10(E) − 2.9
//	tsunami   = c·Mt^0.25 · D / √depth             capped at depth / 2
//
// Every coefficient lives in [Constants] so it can be recalibrated without
// touching the formulas.
//
// # Ocean and population heuristics
//
// Ocean impacts are detected with three coarse basin boxes (Pacific, Atlantic,
// Indian). Coordinates outside every box are decided by a draw against the
// Earth's ocean coverage (0.71) from an injected [RandomSource]; use
// [NewSeededSource] for reproducible output.
//
// Affected population is π·r²·density where r is the larger of the shockwave
// and thermal radii and density comes from one of seven [Region] buckets.
// The boxes overlap real coastlines and are intentionally left as they are.
//
// # Mitigation model
//
// Four strategies change the asteroid's velocity by Δv:
//
//	kinetic_impactor  Δv = β·m·v / M              deflection Δv·t
//	nuclear           Δv = (Y·η / v_ejecta) / M   deflection Δv·t
//	gravity_tractor   a  = G·m / d²               deflection ½·a·t²
//	ion_beam          a  = F·η / M                deflection ½·a·t²
//
// Success probability grows linearly with warning time up to a per-strategy
// ceiling. Energy reduction is 1−(1−Δv/v)², capped per strategy.
package domain
