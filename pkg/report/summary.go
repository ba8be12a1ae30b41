// Package report turns a solved network into the route summary and the
// GeoJSON map data consumed by presentation layers.
package report

import (
	"fmt"
	"math"

	"logistics_router/pkg/geo"
	"logistics_router/pkg/network"
	"logistics_router/pkg/routing"
	"logistics_router/pkg/sampler"
)

// RouteSummary describes one solved route.
type RouteSummary struct {
	DistanceKm        float64  `json:"distance_km"`
	DurationHours     float64  `json:"duration_hours"`
	CarbonKgCO2       float64  `json:"carbon_kg_co2"`
	Cost              float64  `json:"cost"`
	HubsUsed          int      `json:"hubs_used"` // nodes on the path
	Path              []string `json:"path"`
	FinalHopEstimated bool     `json:"final_hop_estimated"`
}

// EcoRouteSummary is the carbon-optimal route compared to the fastest one.
type EcoRouteSummary struct {
	RouteSummary
	DurationIncreasePercent float64 `json:"duration_increase_percent"`
	CarbonDecreasePercent   float64 `json:"carbon_decrease_percent"`
}

// NetworkStats summarizes the synthesized network.
type NetworkStats struct {
	Nodes           int            `json:"nodes"`
	Edges           int            `json:"edges"`
	Hubs            int            `json:"hubs"`
	LastMileOptions int            `json:"last_mile_options"`
	EVEdges         int            `json:"ev_edges"`
	Components      int            `json:"components"`
	EdgesByMode     map[string]int `json:"edges_by_mode"`
}

// Summary is the JSON route report.
type Summary struct {
	TimeOptimized RouteSummary    `json:"time_optimized_route"`
	EcoOptimized  EcoRouteSummary `json:"eco_optimized_route"`
	Network       NetworkStats    `json:"network"`
	Insights      []string        `json:"insights"`
}

// Summarize builds the route report. Figures are rounded to one decimal.
func Summarize(net *network.Network, res *routing.Result) (Summary, error) {
	timeM, timeEst, err := RouteMetrics(net, res.Time)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize time route: %w", err)
	}
	ecoM, ecoEst, err := RouteMetrics(net, res.Carbon)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize eco route: %w", err)
	}

	s := Summary{
		TimeOptimized: routeSummary(net, res.Time, timeM, timeEst),
		EcoOptimized: EcoRouteSummary{
			RouteSummary:            routeSummary(net, res.Carbon, ecoM, ecoEst),
			DurationIncreasePercent: round1(percentChange(timeM.TimeHours, ecoM.TimeHours, timeM.TimeHours)),
			CarbonDecreasePercent:   round1(percentChange(ecoM.CarbonKg, timeM.CarbonKg, timeM.CarbonKg)),
		},
		Network: Stats(net),
	}

	s.Insights = []string{
		fmt.Sprintf("Eco-route reduces carbon emissions by %.1f%% with only %.1f hour delay",
			s.EcoOptimized.CarbonDecreasePercent, ecoM.TimeHours-timeM.TimeHours),
		fmt.Sprintf("Network provides %d last-mile options", s.Network.LastMileOptions),
		fmt.Sprintf("%d of %d network links run on electric trucks", s.Network.EVEdges, s.Network.Edges),
	}
	return s, nil
}

// RouteMetrics totals a path. An unverified final hop is estimated from
// the great-circle distance between its endpoints using
// sampler.LastMileProfile, and estimated is set.
func RouteMetrics(net *network.Network, p routing.Path) (m network.Metrics, estimated bool, err error) {
	if !p.Unverified {
		m, err = net.PathMetrics(p.Nodes)
		return m, false, err
	}

	from, to, ok := p.FinalHop()
	if !ok {
		return network.Metrics{}, false, fmt.Errorf("route metrics: unverified path has no final hop: %w", network.ErrBrokenSegment)
	}
	m, err = net.PathMetrics(p.Nodes[:len(p.Nodes)-1])
	if err != nil {
		return network.Metrics{}, false, err
	}
	m.Add(EstimateHop(net, from, to))
	return m, true, nil
}

// EstimateHop builds the edge a phantom hop would have.
func EstimateHop(net *network.Network, from, to uint32) network.Edge {
	return network.Edge{
		U:          min(from, to),
		V:          max(from, to),
		DistanceKm: geo.Distance(net.Nodes[from].Point, net.Nodes[to].Point),
		Attributes: sampler.LastMileProfile,
	}
}

// Stats counts nodes and edges by kind and mode.
func Stats(net *network.Network) NetworkStats {
	byMode := make(map[string]int, len(network.Modes))
	for _, m := range network.Modes {
		byMode[m.String()] = net.CountMode(m)
	}
	return NetworkStats{
		Nodes:           len(net.Nodes),
		Edges:           len(net.Edges),
		Hubs:            net.CountKind(network.KindHub),
		LastMileOptions: net.CountKind(network.KindLastMile),
		EVEdges:         net.CountMode(network.ModeEVTruck),
		Components:      network.CountComponents(net),
		EdgesByMode:     byMode,
	}
}

func routeSummary(net *network.Network, p routing.Path, m network.Metrics, estimated bool) RouteSummary {
	return RouteSummary{
		DistanceKm:        round1(m.DistanceKm),
		DurationHours:     round1(m.TimeHours),
		CarbonKgCO2:       round1(m.CarbonKg),
		Cost:              round1(m.Cost),
		HubsUsed:          len(p.Nodes),
		Path:              net.PathIDs(p.Nodes),
		FinalHopEstimated: estimated,
	}
}

// percentChange returns (to-from)/base as a percentage, or 0 when base is 0.
func percentChange(from, to, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (to - from) / base * 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
