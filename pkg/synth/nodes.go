package synth

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/paulmach/orb"

	"logistics_router/pkg/geo"
	"logistics_router/pkg/network"
	"logistics_router/pkg/sampler"
)

var (
	hubClasses      = []string{"Sorting Center", "Delivery Station", "Cross Dock"}
	hubClassWeights = []float64{0.6, 0.3, 0.1}

	serviceLevels = []string{"Standard", "Expedited", "Same-Day"}

	fleets       = []string{"EV Bikes", "E-Rickshaws", "EV Vans", "Diesel Vans"}
	fleetWeights = []float64{0.4, 0.3, 0.2, 0.1}
)

// Nodes places the origin, HubCount corridor hubs, LastMileCount last-mile
// points and the destination, in that order. The output depends only on
// cfg and the draws taken from rng.
func Nodes(cfg Config, rng *rand.Rand) ([]network.Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	nodes := make([]network.Node, 0, cfg.HubCount+cfg.LastMileCount+2)

	nodes = append(nodes, network.Node{
		ID:    "origin",
		Name:  cfg.Origin.Name,
		Kind:  network.KindOrigin,
		Point: cfg.Origin.Point(),
		Detail: network.OriginDetail{
			Capacity:       "75,000 units/day",
			OperatingHours: "24/7",
		},
	})

	for i := range cfg.HubCount {
		pt := corridorPoint(cfg.Corridor, rng.Float64())
		pt = jitter(rng, pt, cfg.HubJitterDeg)

		class := hubClasses[sampler.Choose(rng, hubClassWeights)]
		nodes = append(nodes, network.Node{
			ID:    fmt.Sprintf("hub_%d", i),
			Name:  fmt.Sprintf("%s %d", class, i+1),
			Kind:  network.KindHub,
			Point: pt,
			Detail: network.HubDetail{
				Class:                class,
				CapacityKUnitsPerDay: sampler.IntBetween(rng, 10, 30),
				ServiceLevel:         sampler.Pick(rng, serviceLevels),
			},
		})
	}

	for i := range cfg.LastMileCount {
		var pt orb.Point
		var name string
		if i < len(cfg.Hotspots) {
			pt, name = cfg.Hotspots[i].Point(), cfg.Hotspots[i].Name
		} else {
			center := sampler.Pick(rng, cfg.Hotspots)
			pt = jitter(rng, center.Point(), cfg.LastMileJitterDeg)
			name = fmt.Sprintf("Neighborhood Hub %d", i+1)
		}

		nodes = append(nodes, network.Node{
			ID:    fmt.Sprintf("last_mile_%d", i),
			Name:  name,
			Kind:  network.KindLastMile,
			Point: pt,
			Detail: network.LastMileDetail{
				Vehicles:         fleets[sampler.Choose(rng, fleetWeights)],
				DeliveryRadiusKm: sampler.IntBetween(rng, 3, 8),
			},
		})
	}

	nodes = append(nodes, network.Node{
		ID:    "destination",
		Name:  cfg.Destination.Name,
		Kind:  network.KindDestination,
		Point: cfg.Destination.Point(),
		Detail: network.DestinationDetail{
			ServiceTier: sampler.Pick(rng, serviceLevels),
		},
	})

	return nodes, nil
}

// corridorPoint maps progress in [0, 1) onto the polyline of waypoints.
func corridorPoint(corridor []Place, progress float64) orb.Point {
	segments := float64(len(corridor) - 1)
	seg := min(int(progress*segments), len(corridor)-2)
	frac := math.Mod(progress*segments, 1)
	return geo.Lerp(corridor[seg].Point(), corridor[seg+1].Point(), frac)
}

// jitter offsets latitude then longitude by independent uniform draws in
// [-deg, +deg].
func jitter(rng *rand.Rand, p orb.Point, deg float64) orb.Point {
	lat := p.Lat() + sampler.Uniform(rng, sampler.Range{Min: -deg, Max: deg})
	lon := p.Lon() + sampler.Uniform(rng, sampler.Range{Min: -deg, Max: deg})
	return orb.Point{lon, lat}
}
