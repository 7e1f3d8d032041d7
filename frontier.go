package resolver

import "container/heap"

// frontierItem wraps one Solution with its position in the heap array, so
// Remove can take a solution out of the middle of the heap. There is no
// operation that re-keys an item in place.
type frontierItem struct {
	solution *Solution
	index    int
}

// frontierHeap implements container/heap.Interface, ordered by score
// descending and, to keep exploration order deterministic across runs with
// tied scores, by id ascending (earlier-created solutions first).
type frontierHeap []*frontierItem

func (h frontierHeap) Len() int { return len(h) }

func (h frontierHeap) Less(i, j int) bool {
	if h[i].solution.Score != h[j].solution.Score {
		return h[i].solution.Score > h[j].solution.Score
	}
	return h[i].solution.ID < h[j].solution.ID
}

func (h frontierHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *frontierHeap) Push(x any) {
	item := x.(*frontierItem)
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *frontierHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Frontier is the Search Engine's open set: the set of solutions still
// awaiting exploration, ordered so the highest-scoring one is always
// available in O(1) and removable in O(log n).
type Frontier struct {
	h    frontierHeap
	byID map[uint64]*frontierItem
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{byID: make(map[uint64]*frontierItem)}
}

// Len reports how many solutions are currently on the frontier.
func (f *Frontier) Len() int { return f.h.Len() }

// Push adds s to the frontier.
func (f *Frontier) Push(s *Solution) {
	item := &frontierItem{solution: s}
	heap.Push(&f.h, item)
	f.byID[s.ID] = item
}

// PopBest removes and returns the highest-priority solution, or nil if the
// frontier is empty.
func (f *Frontier) PopBest() *Solution {
	if f.h.Len() == 0 {
		return nil
	}
	item := heap.Pop(&f.h).(*frontierItem)
	delete(f.byID, item.solution.ID)
	return item.solution
}

// Remove drops s from the frontier if present; a no-op otherwise.
func (f *Frontier) Remove(s *Solution) {
	item, ok := f.byID[s.ID]
	if !ok {
		return
	}
	heap.Remove(&f.h, item.index)
	delete(f.byID, s.ID)
}
