package synth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"logistics_router/pkg/geo"
	"logistics_router/pkg/network"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.HubCount = 30
	cfg.LastMileCount = 10
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative hubs", func(c *Config) { c.HubCount = -1 }},
		{"negative last-mile", func(c *Config) { c.LastMileCount = -3 }},
		{"coincident endpoints", func(c *Config) { c.Destination = c.Origin }},
		{"zero max distance", func(c *Config) { c.MaxHubDistanceKm = 0 }},
		{"negative jitter", func(c *Config) { c.HubJitterDeg = -0.1 }},
		{"negative type-pair cap", func(c *Config) { c.TypePairMaxKm = -5 }},
		{"no repair fanout", func(c *Config) { c.RepairFanout = 0 }},
		{"short corridor", func(c *Config) { c.Corridor = c.Corridor[:1] }},
		{"no hotspots", func(c *Config) { c.Hotspots = nil }},
		{"origin out of range", func(c *Config) { c.Origin.Lat = 91 }},
		{"bad waypoint", func(c *Config) { c.Corridor[2].Lon = 200 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig), "got %v", err)

			_, err = Nodes(cfg, NewRand(1))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	t.Run("default", func(t *testing.T) {
		require.NoError(t, DefaultConfig().Validate())
	})
	t.Run("no corridor without hubs", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.HubCount, cfg.Corridor = 0, nil
		cfg.LastMileCount, cfg.Hotspots = 0, nil
		require.NoError(t, cfg.Validate())
	})
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "network.json")
	body := `{"hub_count": 12, "type_pair_max_km": 80, "hotspots": [{"name": "A", "lat": 12.9, "lon": 77.6}]}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.HubCount)
	assert.Equal(t, 80.0, cfg.TypePairMaxKm)
	assert.Len(t, cfg.Hotspots, 1)
	assert.Equal(t, 50, cfg.LastMileCount, "absent fields keep defaults")
	assert.Len(t, cfg.Corridor, 5)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNodesLayout(t *testing.T) {
	cfg := smallConfig()
	nodes, err := Nodes(cfg, NewRand(42))
	require.NoError(t, err)
	require.Len(t, nodes, cfg.HubCount+cfg.LastMileCount+2)

	assert.Equal(t, "origin", nodes[0].ID)
	assert.Equal(t, network.KindOrigin, nodes[0].Kind)
	assert.Equal(t, cfg.Origin.Point(), nodes[0].Point)
	last := nodes[len(nodes)-1]
	assert.Equal(t, "destination", last.ID)
	assert.Equal(t, network.KindDestination, last.Kind)
	assert.Equal(t, cfg.Destination.Point(), last.Point)

	// Hubs stay within the corridor's bounding box plus jitter.
	bound := orb.MultiPoint{}
	for _, p := range cfg.Corridor {
		bound = append(bound, p.Point())
	}
	box := bound.Bound().Pad(cfg.HubJitterDeg + 1e-9)
	for i := 1; i <= cfg.HubCount; i++ {
		nd := nodes[i]
		assert.Equal(t, network.KindHub, nd.Kind)
		assert.True(t, box.Contains(nd.Point), "hub %s at %v outside corridor", nd.ID, nd.Point)
		detail, ok := nd.Detail.(network.HubDetail)
		require.True(t, ok)
		assert.Contains(t, hubClasses, detail.Class)
		assert.GreaterOrEqual(t, detail.CapacityKUnitsPerDay, 10)
		assert.LessOrEqual(t, detail.CapacityKUnitsPerDay, 30)
	}

	// The first hotspots are reused verbatim, the rest jitter around one.
	for i := range cfg.LastMileCount {
		nd := nodes[1+cfg.HubCount+i]
		assert.Equal(t, network.KindLastMile, nd.Kind)
		if i < len(cfg.Hotspots) {
			assert.Equal(t, cfg.Hotspots[i].Point(), nd.Point)
			assert.Equal(t, cfg.Hotspots[i].Name, nd.Name)
			continue
		}
		near := false
		for _, h := range cfg.Hotspots {
			if (orb.Bound{Min: h.Point(), Max: h.Point()}).Pad(cfg.LastMileJitterDeg + 1e-9).Contains(nd.Point) {
				near = true
			}
		}
		assert.True(t, near, "%s at %v is not near any hotspot", nd.ID, nd.Point)
	}
}

func TestCorridorPoint(t *testing.T) {
	corridor := []Place{{Lat: 0, Lon: 0}, {Lat: 0, Lon: 10}, {Lat: 10, Lon: 10}}

	assert.Equal(t, orb.Point{0, 0}, corridorPoint(corridor, 0))
	assert.InDelta(t, 5.0, corridorPoint(corridor, 0.25).Lon(), 1e-9)
	assert.Equal(t, orb.Point{10, 0}, corridorPoint(corridor, 0.5))
	p := corridorPoint(corridor, 0.75)
	assert.InDelta(t, 10.0, p.Lon(), 1e-9)
	assert.InDelta(t, 5.0, p.Lat(), 1e-9)
	p = corridorPoint(corridor, 0.999999)
	assert.InDelta(t, 10.0, p.Lat(), 1e-4)
}

func TestConnectionProbability(t *testing.T) {
	const maxKm = 150.0
	assert.Equal(t, 1.0, ConnectionProbability(0, maxKm))
	assert.Equal(t, 0.0, ConnectionProbability(maxKm, maxKm))
	assert.Equal(t, 0.0, ConnectionProbability(400, maxKm))
	assert.InDelta(t, 0.75, ConnectionProbability(75, maxKm), 1e-12)

	prev := ConnectionProbability(0, maxKm)
	for d := 1.0; d <= 200; d++ {
		p := ConnectionProbability(d, maxKm)
		assert.LessOrEqual(t, p, prev, "p(%f) increased", d)
		prev = p
	}
}

func TestGenerateReproducible(t *testing.T) {
	cfg := smallConfig()

	a, statsA, err := Generate(context.Background(), cfg, NewRand(2024))
	require.NoError(t, err)
	b, statsB, err := Generate(context.Background(), cfg, NewRand(2024))
	require.NoError(t, err)

	assert.Equal(t, a.Nodes, b.Nodes)
	assert.Equal(t, a.Edges, b.Edges)
	assert.Equal(t, statsA, statsB)

	c, _, err := Generate(context.Background(), cfg, NewRand(2025))
	require.NoError(t, err)
	assert.NotEqual(t, a.Nodes, c.Nodes)
}

func TestGenerateAlwaysConnected(t *testing.T) {
	cfg := DefaultConfig()
	for seed := int64(1); seed <= 5; seed++ {
		net, stats, err := Generate(context.Background(), cfg, NewRand(seed))
		require.NoError(t, err)
		assert.True(t, stats.Connected, "seed %d", seed)
		assert.True(t, net.EndpointsConnected(), "seed %d", seed)
		assert.Equal(t, len(net.Edges), stats.Edges)
		assert.Equal(t, len(net.Nodes)*(len(net.Nodes)-1)/2, stats.Candidates)

		for _, e := range net.Edges {
			require.Less(t, e.U, e.V)
			assert.InDelta(t, geo.Distance(net.Nodes[e.U].Point, net.Nodes[e.V].Point), e.DistanceKm, 1e-9)
			assert.InDelta(t, e.DistanceKm/e.AvgSpeedKmh, e.TimeHours(), 1e-12)
			assert.InDelta(t, e.DistanceKm*e.CarbonPerKm, e.CarbonKg(), 1e-12)
			assert.InDelta(t, e.DistanceKm*e.CostPerKm*e.UrbanSensitivity, e.Cost(), 1e-9)
		}
	}
}

func TestWireDirectEdgeOnly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HubCount, cfg.LastMileCount = 0, 0
	cfg.Corridor, cfg.Hotspots = nil, nil
	cfg.Origin = Place{Name: "A", Lat: 12.90, Lon: 77.50}
	cfg.Destination = Place{Name: "B", Lat: 12.97, Lon: 77.59} // ~12 km, under 150/3

	net, stats, err := Generate(context.Background(), cfg, NewRand(7))
	require.NoError(t, err)
	require.Len(t, net.Edges, 1)
	assert.Equal(t, uint32(0), net.Edges[0].U)
	assert.Equal(t, uint32(1), net.Edges[0].V)
	assert.False(t, stats.Repaired)
	assert.True(t, stats.Connected)
}

// repairConfig places five hubs in a tight cluster around the destination,
// far beyond MaxHubDistanceKm from the origin, with the type-pair cap on.
func repairConfig() Config {
	cfg := DefaultConfig()
	cfg.HubCount = 5
	cfg.LastMileCount = 0
	cfg.Hotspots = nil
	cfg.HubJitterDeg = 0
	cfg.TypePairMaxKm = 100
	cfg.Origin = Place{Name: "O", Lat: 0, Lon: 0}
	cfg.Destination = Place{Name: "D", Lat: 0, Lon: 3.3}
	cfg.Corridor = []Place{{Lat: 0, Lon: 3.0}, {Lat: 0, Lon: 3.2}}
	return cfg
}

func TestWireRepairAddsNearestHubs(t *testing.T) {
	cfg := repairConfig()
	nodes, err := Nodes(cfg, NewRand(11))
	require.NoError(t, err)

	net, stats, err := Wire(context.Background(), nodes, cfg, NewRand(11))
	require.NoError(t, err)

	assert.True(t, stats.Repaired)
	assert.Equal(t, 3, stats.RepairEdges)
	assert.True(t, stats.Connected)
	assert.True(t, net.EndpointsConnected())

	start, end := net.EdgesFrom(net.Origin())
	require.Equal(t, uint32(3), end-start, "origin degree")

	want := network.NewHubIndex(nodes).Nearest(nodes[0].Point, 3)
	for _, hub := range want {
		_, ok := net.EdgeBetween(net.Origin(), hub)
		assert.True(t, ok, "no repair edge to %s", nodes[hub].ID)
	}
}

func TestWireRepairReplacesExistingEdge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HubCount = 5
	cfg.LastMileCount = 0
	cfg.Hotspots = nil
	cfg.HubJitterDeg = 0
	cfg.Origin = Place{Lat: 0, Lon: 0}
	cfg.Destination = Place{Lat: 0, Lon: 10} // unreachable from every hub
	cfg.Corridor = []Place{{Lat: 0, Lon: 1.0}, {Lat: 0, Lon: 1.2}}

	net, stats, err := Generate(context.Background(), cfg, NewRand(5))
	require.NoError(t, err)

	assert.True(t, stats.Repaired)
	assert.Equal(t, 3, stats.RepairEdges)
	assert.False(t, stats.Connected)

	// Origin already linked to every hub; repair must not add parallels.
	start, end := net.EdgesFrom(net.Origin())
	assert.Equal(t, uint32(cfg.HubCount), end-start)
}

// expiringCtx reports no error for its first n Err calls and
// DeadlineExceeded afterwards.
type expiringCtx struct {
	context.Context
	n int
}

func (c *expiringCtx) Err() error {
	if c.n > 0 {
		c.n--
		return nil
	}
	return context.DeadlineExceeded
}

func TestWireStopsOnCanceledContext(t *testing.T) {
	cfg := smallConfig()
	nodes, err := Nodes(cfg, NewRand(3))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, stats, err := Wire(ctx, nodes, cfg, NewRand(3))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, stats.Candidates)
}

func TestWireStopsMidway(t *testing.T) {
	cfg := smallConfig()
	nodes, err := Nodes(cfg, NewRand(3))
	require.NoError(t, err)

	// Rows 0..4 run, row 5 sees the deadline.
	n := len(nodes)
	ctx := &expiringCtx{Context: context.Background(), n: 5}
	_, stats, err := Wire(ctx, nodes, cfg, NewRand(3))
	require.ErrorIs(t, err, context.DeadlineExceeded)

	want := 0
	for i := range 5 {
		want += n - 1 - i
	}
	assert.Equal(t, want, stats.Candidates)
}
