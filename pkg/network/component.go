package network

// UnionFind tracks which nodes are joined by the edges added so far. Sets
// merge smaller into larger.
type UnionFind struct {
	parent []uint32
	size   []uint32
}

// NewUnionFind creates n singleton sets.
func NewUnionFind(n uint32) *UnionFind {
	uf := &UnionFind{
		parent: make([]uint32, n),
		size:   make([]uint32, n),
	}
	for i := range n {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

// Find returns the root of x's set and points every node on the way
// directly at it.
func (uf *UnionFind) Find(x uint32) uint32 {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for x != root {
		next := uf.parent[x]
		uf.parent[x] = root
		x = next
	}
	return root
}

// Union joins the sets of x and y. It reports false when they were
// already joined.
func (uf *UnionFind) Union(x, y uint32) bool {
	a, b := uf.Find(x), uf.Find(y)
	if a == b {
		return false
	}
	if uf.size[a] < uf.size[b] {
		a, b = b, a
	}
	uf.parent[b] = a
	uf.size[a] += uf.size[b]
	return true
}

// Connected reports whether x and y share a set.
func (uf *UnionFind) Connected(x, y uint32) bool {
	return uf.Find(x) == uf.Find(y)
}

// Components returns a UnionFind over the network's connected components.
func Components(n *Network) *UnionFind {
	uf := NewUnionFind(n.NumNodes())
	for _, e := range n.Edges {
		uf.Union(e.U, e.V)
	}
	return uf
}

// CountComponents returns the number of connected components, counting
// isolated nodes as components of their own.
func CountComponents(n *Network) int {
	uf := Components(n)
	count := 0
	for i := range n.NumNodes() {
		if uf.Find(i) == i {
			count++
		}
	}
	return count
}

// EndpointsConnected reports whether the origin can reach the destination.
func (n *Network) EndpointsConnected() bool {
	return Components(n).Connected(n.origin, n.destination)
}
