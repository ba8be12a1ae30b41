package network

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/paulmach/orb"

	"logistics_router/pkg/geo"
)

func TestHubIndexNearestMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	nodes := []Node{{ID: "origin", Kind: KindOrigin, Point: orb.Point{76.9558, 11.0168}}}
	for i := range 200 {
		nodes = append(nodes, Node{
			ID:    fmt.Sprintf("hub_%d", i),
			Kind:  KindHub,
			Point: orb.Point{76 + rng.Float64()*3, 10 + rng.Float64()*4},
		})
	}
	nodes = append(nodes, Node{ID: "last_mile_0", Kind: KindLastMile, Point: orb.Point{76.95, 11.01}})

	ix := NewHubIndex(nodes)
	if ix.Len() != 200 {
		t.Fatalf("Len = %d, want 200", ix.Len())
	}

	queries := []orb.Point{nodes[0].Point, {78.5, 13.5}, {70, 5}}
	for _, q := range queries {
		for _, k := range []int{1, 3, 10} {
			got := ix.Nearest(q, k)
			want := bruteNearest(nodes, q, k)
			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Errorf("Nearest(%v, %d) = %v, want %v", q, k, got, want)
			}
		}
	}
}

func TestHubIndexNearestAcrossAntimeridian(t *testing.T) {
	nodes := []Node{
		{ID: "origin", Kind: KindOrigin, Point: orb.Point{-179.9, 0}},
		{ID: "hub_0", Kind: KindHub, Point: orb.Point{-178, 0}},  // 211 km east
		{ID: "hub_1", Kind: KindHub, Point: orb.Point{179.9, 0}}, // 22 km west, across 180°
	}
	if got := NewHubIndex(nodes).Nearest(nodes[0].Point, 1); fmt.Sprint(got) != "[2]" {
		t.Errorf("Nearest = %v, want [2]", got)
	}

	rng := rand.New(rand.NewSource(11))
	nodes = nodes[:1]
	for i := range 100 {
		lon := 177 + rng.Float64()*6 // 177..183, folded into [-180, 180]
		if lon > 180 {
			lon -= 360
		}
		nodes = append(nodes, Node{
			ID:    fmt.Sprintf("hub_%d", i),
			Kind:  KindHub,
			Point: orb.Point{lon, -2 + rng.Float64()*4},
		})
	}
	ix := NewHubIndex(nodes)

	queries := []orb.Point{{-179.9, 0}, {179.95, 1}, {180, -1}, {-180, 0.5}}
	for _, q := range queries {
		for _, k := range []int{1, 3, 10} {
			got := ix.Nearest(q, k)
			want := bruteNearest(nodes, q, k)
			if fmt.Sprint(got) != fmt.Sprint(want) {
				t.Errorf("Nearest(%v, %d) = %v, want %v", q, k, got, want)
			}
		}
	}
}

func TestHubIndexFewerThanK(t *testing.T) {
	nodes := []Node{
		{ID: "origin", Kind: KindOrigin, Point: orb.Point{0, 0}},
		{ID: "hub_0", Kind: KindHub, Point: orb.Point{1, 0}},
		{ID: "hub_1", Kind: KindHub, Point: orb.Point{0.5, 0}},
	}
	got := NewHubIndex(nodes).Nearest(orb.Point{0, 0}, 3)
	if fmt.Sprint(got) != "[2 1]" {
		t.Errorf("Nearest = %v, want [2 1]", got)
	}

	if got := NewHubIndex(nodes[:1]).Nearest(orb.Point{0, 0}, 3); got != nil {
		t.Errorf("Nearest on empty index = %v, want nil", got)
	}
}

func bruteNearest(nodes []Node, q orb.Point, k int) []uint32 {
	var hubs []uint32
	for i, nd := range nodes {
		if nd.Kind == KindHub {
			hubs = append(hubs, uint32(i))
		}
	}
	sort.Slice(hubs, func(i, j int) bool {
		di, dj := geo.Distance(q, nodes[hubs[i]].Point), geo.Distance(q, nodes[hubs[j]].Point)
		if di != dj {
			return di < dj
		}
		return hubs[i] < hubs[j]
	})
	if len(hubs) > k {
		hubs = hubs[:k]
	}
	return hubs
}
