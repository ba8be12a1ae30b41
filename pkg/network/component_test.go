package network

import (
	"testing"
)

func TestUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	// Initially all separate.
	for i := range uint32(5) {
		if uf.Find(i) != i {
			t.Errorf("Find(%d) = %d, want %d", i, uf.Find(i), i)
		}
	}

	if !uf.Union(0, 1) {
		t.Error("Union(0, 1) = false, want true")
	}
	if uf.Union(1, 0) {
		t.Error("Union(1, 0) = true, want false for same set")
	}
	uf.Union(2, 3)

	if uf.Connected(0, 2) {
		t.Error("0 and 2 should be in different sets")
	}

	uf.Union(1, 3)
	if !uf.Connected(0, 3) {
		t.Error("0 and 3 should now be in same set")
	}
	if uf.Connected(0, 4) {
		t.Error("4 should still be on its own")
	}

	// Every node on a joined chain resolves to one root.
	root := uf.Find(0)
	for _, x := range []uint32{1, 2, 3} {
		if uf.Find(x) != root {
			t.Errorf("Find(%d) = %d, want %d", x, uf.Find(x), root)
		}
	}
}

func TestComponents(t *testing.T) {
	n := buildTestNetwork(t)
	if !n.EndpointsConnected() {
		t.Error("EndpointsConnected = false, want true")
	}
	if got := CountComponents(n); got != 1 {
		t.Errorf("CountComponents = %d, want 1", got)
	}

	nodes := []Node{
		{ID: "origin", Kind: KindOrigin},
		{ID: "hub_0", Kind: KindHub},
		{ID: "destination", Kind: KindDestination},
	}
	split, err := New(nodes, []Edge{{U: 0, V: 1, Attributes: Attributes{AvgSpeedKmh: 50}}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if split.EndpointsConnected() {
		t.Error("EndpointsConnected = true for split network")
	}
	if got := CountComponents(split); got != 2 {
		t.Errorf("CountComponents = %d, want 2", got)
	}
}
