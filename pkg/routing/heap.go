package routing

// MinHeap is a concrete-typed min-heap for the A* open set, ordered by
// estimate and then by insertion order so equal estimates pop FIFO.
type MinHeap struct {
	items []PQItem
	seq   uint64
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node     uint32
	G        float64 // cost so far
	F        float64 // G plus heuristic
	sequence uint64
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node uint32, g, f float64) {
	h.items = append(h.items, PQItem{Node: node, G: g, F: f, sequence: h.seq})
	h.seq++
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

// Reset empties the heap, keeping its backing array.
func (h *MinHeap) Reset() {
	h.items = h.items[:0]
	h.seq = 0
}

func (h *MinHeap) less(i, j int) bool {
	if h.items[i].F != h.items[j].F {
		return h.items[i].F < h.items[j].F
	}
	return h.items[i].sequence < h.items[j].sequence
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.less(left, smallest) {
			smallest = left
		}
		if right < n && h.less(right, smallest) {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}
