package routing

import (
	"context"
	"fmt"
	"math"

	"logistics_router/pkg/network"
)

const noNode = ^uint32(0) // sentinel for "no node"

// SearchStats describes one search.
type SearchStats struct {
	Expanded int     // nodes closed
	Pushed   int     // open-set insertions
	Cost     float64 // objective total of the returned path
}

// Search runs A* from the network's origin to its destination, minimizing
// obj. Ties on the estimate are broken in insertion order. It returns
// ErrNoRoute when the destination is unreachable.
func Search(ctx context.Context, net *network.Network, obj Objective) ([]uint32, SearchStats, error) {
	return search(ctx, net, obj, &MinHeap{items: make([]PQItem, 0, 64)})
}

// search runs A* using pq as the open set. pq is reset first.
func search(ctx context.Context, net *network.Network, obj Objective, pq *MinHeap) ([]uint32, SearchStats, error) {
	var stats SearchStats
	pq.Reset()

	n := net.NumNodes()
	src, dst := net.Origin(), net.Destination()
	target := net.Nodes[dst].Point

	g := make([]float64, n)
	pred := make([]uint32, n)
	closed := make([]bool, n)
	for i := range g {
		g[i] = math.Inf(1)
		pred[i] = noNode
	}

	g[src] = 0
	pq.Push(src, 0, obj.Heuristic(net.Nodes[src].Point, target))
	stats.Pushed++

	iterations := 0
	for pq.Len() > 0 {
		// Check context cancellation periodically.
		iterations++
		if iterations%100 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, stats, fmt.Errorf("%s search: %w", obj, err)
			}
		}

		item := pq.Pop()
		u := item.Node
		if closed[u] || item.G > g[u] {
			continue // stale entry
		}
		closed[u] = true
		stats.Expanded++

		if u == dst {
			stats.Cost = g[u]
			return reconstructPath(pred, src, dst), stats, nil
		}

		start, end := net.EdgesFrom(u)
		for s := start; s < end; s++ {
			v := net.Head[s]
			if closed[v] {
				continue
			}
			newG := g[u] + obj.Weight(net.Edges[net.EdgeOf[s]])
			if newG < g[v] {
				g[v] = newG
				pred[v] = u
				pq.Push(v, newG, newG+obj.Heuristic(net.Nodes[v].Point, target))
				stats.Pushed++
			}
		}
	}

	return nil, stats, fmt.Errorf("%s search: %w", obj, ErrNoRoute)
}

// reconstructPath follows predecessors from dst back to src.
func reconstructPath(pred []uint32, src, dst uint32) []uint32 {
	var path []uint32
	for node := dst; node != noNode; node = pred[node] {
		path = append(path, node)
		if node == src {
			break
		}
	}
	// Reverse to get src -> dst.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
