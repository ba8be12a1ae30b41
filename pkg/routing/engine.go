package routing

import (
	"context"
	"errors"

	"logistics_router/pkg/network"
)

// ErrNoRoute is returned when the destination cannot be reached from the origin.
var ErrNoRoute = errors.New("no route found")

// Result holds the time-optimal and carbon-optimal paths of one network.
type Result struct {
	Time        Path
	Carbon      Path
	TimeStats   SearchStats
	CarbonStats SearchStats
}

// Solver is the interface for dual-objective path solving.
type Solver interface {
	Solve(ctx context.Context, net *network.Network) (*Result, error)
}

// Engine implements Solver with two independent A* searches.
type Engine struct {
	// AdjustLastMile applies AdjustLastMile to both paths.
	AdjustLastMile bool
}

// NewEngine creates an engine that applies the last-mile adjustment.
func NewEngine() *Engine {
	return &Engine{AdjustLastMile: true}
}

// Solve computes the time-optimal and carbon-optimal paths. Both searches
// share one open set.
func (e *Engine) Solve(ctx context.Context, net *network.Network) (*Result, error) {
	pq := &MinHeap{items: make([]PQItem, 0, net.NumNodes())}

	timeNodes, timeStats, err := search(ctx, net, ObjectiveTime, pq)
	if err != nil {
		return nil, err
	}
	carbonNodes, carbonStats, err := search(ctx, net, ObjectiveCarbon, pq)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Time:        Path{Nodes: timeNodes},
		Carbon:      Path{Nodes: carbonNodes},
		TimeStats:   timeStats,
		CarbonStats: carbonStats,
	}
	if e.AdjustLastMile {
		res.Time = AdjustLastMile(net, timeNodes)
		res.Carbon = AdjustLastMile(net, carbonNodes)
	}
	return res, nil
}
