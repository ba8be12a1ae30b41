package routing

import "logistics_router/pkg/network"

// Path is a solved route from origin to destination.
type Path struct {
	Nodes []uint32

	// Unverified marks a final hop with no edge in the network. It is set
	// when the last-mile adjustment joins a last-mile node directly to the
	// destination. Consumers must derive that hop from coordinates.
	Unverified bool
}

// FinalHop returns the last two nodes of the path.
func (p Path) FinalHop() (from, to uint32, ok bool) {
	if len(p.Nodes) < 2 {
		return 0, 0, false
	}
	return p.Nodes[len(p.Nodes)-2], p.Nodes[len(p.Nodes)-1], true
}

// AdjustLastMile cuts the path right after its last last-mile node and
// appends the destination, dropping whatever followed. Paths without a
// last-mile node are returned unchanged. The input slice is not modified.
func AdjustLastMile(net *network.Network, nodes []uint32) Path {
	last := -1
	for i, idx := range nodes {
		if net.Nodes[idx].Kind == network.KindLastMile {
			last = i
		}
	}
	if last < 0 {
		return Path{Nodes: append([]uint32(nil), nodes...)}
	}

	adjusted := make([]uint32, 0, last+2)
	adjusted = append(adjusted, nodes[:last+1]...)
	adjusted = append(adjusted, net.Destination())

	_, ok := net.EdgeBetween(nodes[last], net.Destination())
	return Path{Nodes: adjusted, Unverified: !ok}
}
