package network

import (
	"errors"

	"github.com/paulmach/orb"
)

// ErrInvalidNetwork is returned when nodes and edges do not form a valid
// logistics network.
var ErrInvalidNetwork = errors.New("invalid network")

// Node is a location in the network. Point holds (longitude, latitude).
type Node struct {
	ID     string
	Name   string
	Kind   NodeKind
	Point  orb.Point
	Detail Detail
}

// Attributes are the sampled transport figures of an edge.
type Attributes struct {
	Mode             Mode
	AvgSpeedKmh      float64
	CarbonPerKm      float64 // kg CO2 per km
	CostPerKm        float64
	UrbanSensitivity float64
}

// Edge is an undirected connection between nodes U and V (U < V).
// Time, carbon and cost are derived from distance and attributes.
type Edge struct {
	U, V       uint32
	DistanceKm float64
	Attributes
}

// TimeHours returns the travel time across the edge in hours.
func (e Edge) TimeHours() float64 {
	return e.DistanceKm / e.AvgSpeedKmh
}

// CarbonKg returns the emissions across the edge in kg CO2.
func (e Edge) CarbonKg() float64 {
	return e.DistanceKm * e.CarbonPerKm
}

// Cost returns the monetary cost of the edge.
func (e Edge) Cost() float64 {
	return e.DistanceKm * e.CostPerKm * e.UrbanSensitivity
}

// Network is an undirected, attributed logistics graph. Adjacency is stored
// in CSR (Compressed Sparse Row) format with both directions of every edge.
// A Network is immutable once built.
type Network struct {
	Nodes []Node
	Edges []Edge

	FirstOut []uint32 // len: len(Nodes)+1; FirstOut[i]..FirstOut[i+1] are adjacency slots of node i
	Head     []uint32 // len: 2*len(Edges); neighbor node for each slot
	EdgeOf   []uint32 // len: 2*len(Edges); index into Edges for each slot

	origin      uint32
	destination uint32
}

// NumNodes returns the number of nodes.
func (n *Network) NumNodes() uint32 { return uint32(len(n.Nodes)) }

// EdgesFrom returns the range of adjacency slots for node u.
func (n *Network) EdgesFrom(u uint32) (start, end uint32) {
	return n.FirstOut[u], n.FirstOut[u+1]
}

// Origin returns the index of the origin node.
func (n *Network) Origin() uint32 { return n.origin }

// Destination returns the index of the destination node.
func (n *Network) Destination() uint32 { return n.destination }

// EdgeBetween returns the edge joining u and v, if any.
func (n *Network) EdgeBetween(u, v uint32) (Edge, bool) {
	if u >= n.NumNodes() || v >= n.NumNodes() {
		return Edge{}, false
	}
	start, end := n.EdgesFrom(u)
	for s := start; s < end; s++ {
		if n.Head[s] == v {
			return n.Edges[n.EdgeOf[s]], true
		}
	}
	return Edge{}, false
}

// PathIDs maps node indexes to node ids.
func (n *Network) PathIDs(path []uint32) []string {
	ids := make([]string, len(path))
	for i, idx := range path {
		ids[i] = n.Nodes[idx].ID
	}
	return ids
}

// CountKind returns how many nodes have the given kind.
func (n *Network) CountKind(kind NodeKind) int {
	count := 0
	for i := range n.Nodes {
		if n.Nodes[i].Kind == kind {
			count++
		}
	}
	return count
}

// CountMode returns how many edges use the given mode.
func (n *Network) CountMode(mode Mode) int {
	count := 0
	for i := range n.Edges {
		if n.Edges[i].Mode == mode {
			count++
		}
	}
	return count
}
