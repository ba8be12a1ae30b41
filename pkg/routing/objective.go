package routing

import (
	"fmt"

	"github.com/paulmach/orb"

	"logistics_router/pkg/geo"
	"logistics_router/pkg/network"
	"logistics_router/pkg/sampler"
)

// Objective is the quantity a search minimizes.
type Objective uint8

const (
	ObjectiveTime Objective = iota
	ObjectiveCarbon
)

func (o Objective) String() string {
	switch o {
	case ObjectiveTime:
		return "time"
	case ObjectiveCarbon:
		return "carbon"
	}
	return fmt.Sprintf("Objective(%d)", uint8(o))
}

// Weight returns the cost of traversing e under o.
func (o Objective) Weight(e network.Edge) float64 {
	switch o {
	case ObjectiveTime:
		return e.TimeHours()
	case ObjectiveCarbon:
		return e.CarbonKg()
	}
	panic(fmt.Sprintf("routing: unknown objective %d", uint8(o)))
}

// Heuristic returns a lower bound on the cost from a to b under o. The
// bounds come from the sampler's profile table, so the estimate never
// exceeds the cost of any edge sequence covering the same distance.
func (o Objective) Heuristic(a, b orb.Point) float64 {
	d := geo.Distance(a, b)
	switch o {
	case ObjectiveTime:
		return d / sampler.MaxSpeedKmh
	case ObjectiveCarbon:
		return d * sampler.MinCarbonPerKm
	}
	panic(fmt.Sprintf("routing: unknown objective %d", uint8(o)))
}
