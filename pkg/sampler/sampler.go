// Package sampler draws transport attributes for network edges.
package sampler

import (
	"math/rand"

	"logistics_router/pkg/network"
)

// Range is an inclusive [Min, Max] interval.
type Range struct {
	Min, Max float64
}

// Profile is the attribute distribution of one transport mode.
type Profile struct {
	Mode        network.Mode
	Weight      float64
	SpeedKmh    Range // drawn as whole km/h
	CarbonPerKm Range // kg CO2 per km
	CostPerKm   Range
}

const (
	evSpeedMax     = 70
	dieselSpeedMax = 65
	lngSpeedMax    = 70
	railSpeedMax   = 50

	evCarbonMin     = 0.3
	dieselCarbonMin = 1.5
	lngCarbonMin    = 0.8
	railCarbonMin   = 0.2
)

// Profiles lists every mode with its draw weight and ranges.
var Profiles = [...]Profile{
	{Mode: network.ModeEVTruck, Weight: 0.25, SpeedKmh: Range{50, evSpeedMax}, CarbonPerKm: Range{evCarbonMin, 0.7}, CostPerKm: Range{8, 12}},
	{Mode: network.ModeDieselTruck, Weight: 0.50, SpeedKmh: Range{45, dieselSpeedMax}, CarbonPerKm: Range{dieselCarbonMin, 2.5}, CostPerKm: Range{6, 10}},
	{Mode: network.ModeLNGTruck, Weight: 0.15, SpeedKmh: Range{50, lngSpeedMax}, CarbonPerKm: Range{lngCarbonMin, 1.2}, CostPerKm: Range{7, 11}},
	{Mode: network.ModeRail, Weight: 0.10, SpeedKmh: Range{30, railSpeedMax}, CarbonPerKm: Range{railCarbonMin, 0.5}, CostPerKm: Range{4, 7}},
}

// MaxSpeedKmh is the fastest speed any profile can draw. Dividing a
// great-circle distance by it never overestimates travel time.
const MaxSpeedKmh = max(evSpeedMax, dieselSpeedMax, lngSpeedMax, railSpeedMax)

// MinCarbonPerKm is the lowest emission factor any profile can draw.
// Multiplying a great-circle distance by it never overestimates emissions.
const MinCarbonPerKm = min(evCarbonMin, dieselCarbonMin, lngCarbonMin, railCarbonMin)

// UrbanSensitivity is the range of the cost multiplier applied to every edge.
var UrbanSensitivity = Range{0.8, 1.5}

// LastMileProfile is the fixed electric-truck profile used to estimate a
// final hop that has no edge in the network.
var LastMileProfile = network.Attributes{
	Mode:             network.ModeEVTruck,
	AvgSpeedKmh:      60,
	CarbonPerKm:      0.5,
	CostPerKm:        10,
	UrbanSensitivity: 1,
}

// Sample draws a mode and its attributes for an edge of the given length.
// It consumes, in order: one mode draw, speed, carbon, cost, sensitivity.
func Sample(rng *rand.Rand, distanceKm float64) network.Edge {
	p := Profiles[Choose(rng, profileWeights[:])]
	return network.Edge{
		DistanceKm: distanceKm,
		Attributes: network.Attributes{
			Mode:             p.Mode,
			AvgSpeedKmh:      float64(IntBetween(rng, int(p.SpeedKmh.Min), int(p.SpeedKmh.Max))),
			CarbonPerKm:      Uniform(rng, p.CarbonPerKm),
			CostPerKm:        Uniform(rng, p.CostPerKm),
			UrbanSensitivity: Uniform(rng, UrbanSensitivity),
		},
	}
}

var profileWeights = func() [len(Profiles)]float64 {
	var w [len(Profiles)]float64
	for i, p := range Profiles {
		w[i] = p.Weight
	}
	return w
}()

// Choose returns an index drawn with probability proportional to weights.
// It draws exactly one value from rng. Weights must be non-negative with a
// positive sum.
func Choose(rng *rand.Rand, weights []float64) int {
	var total float64
	for _, w := range weights {
		total += w
	}
	r := rng.Float64() * total

	var cum float64
	for i, w := range weights {
		cum += w
		if r < cum {
			return i
		}
	}
	return len(weights) - 1
}

// Uniform draws a float uniformly from r.
func Uniform(rng *rand.Rand, r Range) float64 {
	return r.Min + (r.Max-r.Min)*rng.Float64()
}

// IntBetween draws an integer uniformly from [lo, hi].
func IntBetween(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

// Pick returns a uniformly chosen element of items.
func Pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}
