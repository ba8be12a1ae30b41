package synth

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"logistics_router/pkg/geo"
	"logistics_router/pkg/network"
	"logistics_router/pkg/sampler"
)

// BuildStats describes one wiring pass.
type BuildStats struct {
	Candidates  int  `json:"candidates"` // unordered pairs tried
	Edges       int  `json:"edges"`      // edges in the final network
	Repaired    bool `json:"repaired"`
	RepairEdges int  `json:"repair_edges"`
	Connected   bool `json:"connected"` // origin reaches destination
}

// ConnectionProbability is the chance that two nodes d km apart are linked:
// 1 at d=0, decaying quadratically to 0 at maxKm.
func ConnectionProbability(d, maxKm float64) float64 {
	r := d / maxKm
	return max(0, 1-r*r)
}

// Wire links the nodes into a network. Every unordered pair (i, j), i < j,
// is tried in ascending order and consumes one uniform draw. A pair is
// linked when the draw falls below ConnectionProbability, when it is
// closer than a third of MaxHubDistanceKm, or when it is an origin-hub or
// hub-last_mile pair (subject to TypePairMaxKm). If the origin cannot then
// reach the destination, the RepairFanout hubs nearest the origin are
// linked to it, replacing any existing origin-hub edge. ctx is checked
// before each row of pairs.
func Wire(ctx context.Context, nodes []network.Node, cfg Config, rng *rand.Rand) (*network.Network, BuildStats, error) {
	var stats BuildStats
	if err := cfg.Validate(); err != nil {
		return nil, stats, err
	}

	n := uint32(len(nodes))
	uf := network.NewUnionFind(n)
	edges := make([]network.Edge, 0, len(nodes)*4)
	pairs := make(map[[2]uint32]int) // (u, v) -> index in edges

	addEdge := func(u, v uint32, d float64) {
		e := sampler.Sample(rng, d)
		e.U, e.V = u, v
		key := [2]uint32{u, v}
		if at, ok := pairs[key]; ok {
			edges[at] = e
			return
		}
		pairs[key] = len(edges)
		edges = append(edges, e)
		uf.Union(u, v)
	}

	shortRange := cfg.MaxHubDistanceKm / 3
	for i := uint32(0); i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, stats, fmt.Errorf("wire: %w", err)
		}
		for j := i + 1; j < n; j++ {
			stats.Candidates++
			d := geo.Distance(nodes[i].Point, nodes[j].Point)
			r := rng.Float64()

			if r < ConnectionProbability(d, cfg.MaxHubDistanceKm) ||
				d < shortRange ||
				typePairLinked(nodes[i].Kind, nodes[j].Kind, d, cfg.TypePairMaxKm) {
				addEdge(i, j, d)
			}
		}
	}

	origin, destination, err := endpoints(nodes)
	if err != nil {
		return nil, stats, err
	}

	if !uf.Connected(origin, destination) {
		stats.Repaired = true
		ix := network.NewHubIndex(nodes)
		for _, hub := range ix.Nearest(nodes[origin].Point, cfg.RepairFanout) {
			u, v := min(origin, hub), max(origin, hub)
			addEdge(u, v, geo.Distance(nodes[u].Point, nodes[v].Point))
			stats.RepairEdges++
		}
	}
	stats.Connected = uf.Connected(origin, destination)
	if !stats.Connected {
		log.Printf("Warning: origin and destination still disconnected after repair (%d hubs)", stats.RepairEdges)
	}

	net, err := network.New(nodes, edges)
	if err != nil {
		return nil, stats, fmt.Errorf("wire: %w", err)
	}
	stats.Edges = len(net.Edges)
	return net, stats, nil
}

// typePairLinked reports whether the kinds form an origin-hub or
// hub-last_mile pair that is linked regardless of the random draw.
func typePairLinked(a, b network.NodeKind, d, capKm float64) bool {
	if a > b {
		a, b = b, a
	}
	pair := (a == network.KindOrigin && b == network.KindHub) ||
		(a == network.KindHub && b == network.KindLastMile)
	if !pair {
		return false
	}
	return capKm == 0 || d <= capKm
}

func endpoints(nodes []network.Node) (origin, destination uint32, err error) {
	var foundOrigin, foundDestination bool
	for i, nd := range nodes {
		switch nd.Kind {
		case network.KindOrigin:
			origin, foundOrigin = uint32(i), true
		case network.KindDestination:
			destination, foundDestination = uint32(i), true
		case network.KindHub, network.KindLastMile:
		}
	}
	if !foundOrigin || !foundDestination {
		return 0, 0, fmt.Errorf("wire: %w: missing origin or destination", network.ErrInvalidNetwork)
	}
	return origin, destination, nil
}

// Generate places and wires a complete network.
func Generate(ctx context.Context, cfg Config, rng *rand.Rand) (*network.Network, BuildStats, error) {
	nodes, err := Nodes(cfg, rng)
	if err != nil {
		return nil, BuildStats{}, err
	}
	return Wire(ctx, nodes, cfg, rng)
}
