package network

import (
	"errors"
	"fmt"
)

// ErrBrokenSegment is returned when two consecutive path nodes are not
// joined by an edge.
var ErrBrokenSegment = errors.New("broken path segment")

// Metrics are the totals of a path.
type Metrics struct {
	DistanceKm float64
	TimeHours  float64
	CarbonKg   float64
	Cost       float64
	Hops       int
}

// Add accumulates a single edge.
func (m *Metrics) Add(e Edge) {
	m.DistanceKm += e.DistanceKm
	m.TimeHours += e.TimeHours()
	m.CarbonKg += e.CarbonKg()
	m.Cost += e.Cost()
	m.Hops++
}

// PathMetrics sums distance, time, carbon and cost over consecutive pairs
// of path. A pair without an edge yields ErrBrokenSegment.
func (n *Network) PathMetrics(path []uint32) (Metrics, error) {
	var m Metrics
	for i := 0; i+1 < len(path); i++ {
		u, v := path[i], path[i+1]
		e, ok := n.EdgeBetween(u, v)
		if !ok {
			return Metrics{}, fmt.Errorf("path metrics: %s -> %s: %w", n.nodeName(u), n.nodeName(v), ErrBrokenSegment)
		}
		m.Add(e)
	}
	return m, nil
}

func (n *Network) nodeName(u uint32) string {
	if u < n.NumNodes() {
		return n.Nodes[u].ID
	}
	return fmt.Sprintf("#%d", u)
}
