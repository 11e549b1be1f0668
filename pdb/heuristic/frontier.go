package heuristic

// frontierEntry is a pending (distance, abstract state index) pair.
type frontierEntry struct {
	distance int
	index    int
}

// frontier is a concrete-typed binary min-heap ordered by distance.
// Entries are never updated in place; stale duplicates are skipped by the
// caller when popped.
type frontier struct {
	items []frontierEntry
}

func (h *frontier) Len() int { return len(h.items) }

func (h *frontier) Push(distance, index int) {
	h.items = append(h.items, frontierEntry{distance: distance, index: index})
	h.siftUp(len(h.items) - 1)
}

func (h *frontier) Pop() frontierEntry {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

// less breaks distance ties by index so pop order is reproducible
func (h *frontier) less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.distance != b.distance {
		return a.distance < b.distance
	}
	return a.index < b.index
}

func (h *frontier) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *frontier) siftDown(i int) {
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
