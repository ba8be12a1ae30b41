package network

import (
	"fmt"
	"math"
	"sort"
)

// New validates nodes and edges and builds the CSR adjacency. Edge
// endpoints are normalized so that U < V. The network must have exactly
// one origin, exactly one destination, unique node ids and no self loops
// or parallel edges.
func New(nodes []Node, edges []Edge) (*Network, error) {
	numNodes := uint32(len(nodes))

	// Step 1: Check ids and locate the endpoints.
	seen := make(map[string]bool, numNodes)
	origin, destination := noNode, noNode
	for i, nd := range nodes {
		if seen[nd.ID] {
			return nil, fmt.Errorf("%w: duplicate node id %q", ErrInvalidNetwork, nd.ID)
		}
		seen[nd.ID] = true

		if nd.Detail != nil && nd.Detail.Kind() != nd.Kind {
			return nil, fmt.Errorf("%w: node %q is %s but carries %s detail",
				ErrInvalidNetwork, nd.ID, nd.Kind, nd.Detail.Kind())
		}

		switch nd.Kind {
		case KindOrigin:
			if origin != noNode {
				return nil, fmt.Errorf("%w: more than one origin", ErrInvalidNetwork)
			}
			origin = uint32(i)
		case KindDestination:
			if destination != noNode {
				return nil, fmt.Errorf("%w: more than one destination", ErrInvalidNetwork)
			}
			destination = uint32(i)
		case KindHub, KindLastMile:
		default:
			return nil, fmt.Errorf("%w: node %q has unknown kind %d", ErrInvalidNetwork, nd.ID, uint8(nd.Kind))
		}
	}
	if origin == noNode {
		return nil, fmt.Errorf("%w: no origin", ErrInvalidNetwork)
	}
	if destination == noNode {
		return nil, fmt.Errorf("%w: no destination", ErrInvalidNetwork)
	}

	// Step 2: Normalize and validate edges.
	normalized := make([]Edge, len(edges))
	seenEdges := make(map[[2]uint32]struct{}, len(edges))
	for i, e := range edges {
		if e.U > e.V {
			e.U, e.V = e.V, e.U
		}
		if e.V >= numNodes {
			return nil, fmt.Errorf("%w: edge %d references node %d of %d", ErrInvalidNetwork, i, e.V, numNodes)
		}
		if e.U == e.V {
			return nil, fmt.Errorf("%w: self loop on %q", ErrInvalidNetwork, nodes[e.U].ID)
		}
		key := [2]uint32{e.U, e.V}
		if _, dup := seenEdges[key]; dup {
			return nil, fmt.Errorf("%w: parallel edge %q-%q", ErrInvalidNetwork, nodes[e.U].ID, nodes[e.V].ID)
		}
		seenEdges[key] = struct{}{}
		if e.DistanceKm < 0 || math.IsNaN(e.DistanceKm) {
			return nil, fmt.Errorf("%w: edge %q-%q has distance %f", ErrInvalidNetwork, nodes[e.U].ID, nodes[e.V].ID, e.DistanceKm)
		}
		if !(e.AvgSpeedKmh > 0) {
			return nil, fmt.Errorf("%w: edge %q-%q has speed %f", ErrInvalidNetwork, nodes[e.U].ID, nodes[e.V].ID, e.AvgSpeedKmh)
		}
		normalized[i] = e
	}

	// Step 3: Expand each undirected edge into two adjacency slots,
	// sorted by source then neighbor.
	type slot struct {
		from, to, edge uint32
	}
	slots := make([]slot, 0, 2*len(normalized))
	for i, e := range normalized {
		slots = append(slots, slot{e.U, e.V, uint32(i)}, slot{e.V, e.U, uint32(i)})
	}
	sort.Slice(slots, func(i, j int) bool {
		if slots[i].from != slots[j].from {
			return slots[i].from < slots[j].from
		}
		return slots[i].to < slots[j].to
	})

	// Step 4: Build CSR arrays.
	firstOut := make([]uint32, numNodes+1)
	head := make([]uint32, len(slots))
	edgeOf := make([]uint32, len(slots))
	for i, s := range slots {
		head[i] = s.to
		edgeOf[i] = s.edge
		firstOut[s.from+1]++
	}
	// Prefix sum.
	for i := uint32(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	return &Network{
		Nodes:       nodes,
		Edges:       normalized,
		FirstOut:    firstOut,
		Head:        head,
		EdgeOf:      edgeOf,
		origin:      origin,
		destination: destination,
	}, nil
}

const noNode = ^uint32(0) // sentinel for "no node"
