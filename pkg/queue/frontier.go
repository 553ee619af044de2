package queue

import (
	"container/heap"
	"strings"
	"sync"

	"github.com/Sriram-PR/bizdna/pkg/models"
)

// --- Frontier Implementation ---

const (
	classSeed     = 0 // depth 0; the home page renders before anything seeded or discovered
	classPriority = 1 // URL path matches a priority substring
	classNormal   = 2
)

// frontierItem is one entry in the heap
type frontierItem struct {
	workItem *models.WorkItem
	class    int    // classSeed, then classPriority, then classNormal
	seq      uint64 // insertion order inside a class
	index    int    // required by heap.Interface
}

// frontierHeap implements heap.Interface ordered by (class, depth, seq)
type frontierHeap []*frontierItem

func (h frontierHeap) Len() int { return len(h) }

func (h frontierHeap) Less(i, j int) bool {
	if h[i].class != h[j].class {
		return h[i].class < h[j].class
	}
	if h[i].workItem.Depth != h[j].workItem.Depth {
		return h[i].workItem.Depth < h[j].workItem.Depth
	}
	return h[i].seq < h[j].seq
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

// Frontier orders pending crawl URLs: depth-0 seeds first, then priority-path URLs,
// then the rest, each class breadth-first and FIFO. Safe for concurrent use.
type Frontier struct {
	mu            sync.Mutex
	h             frontierHeap
	seq           uint64
	priorityPaths []string
}

// NewFrontier creates an empty frontier. priorityPaths are matched as
// case-insensitive substrings of the URL path.
func NewFrontier(priorityPaths []string) *Frontier {
	lowered := make([]string, 0, len(priorityPaths))
	for _, p := range priorityPaths {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			lowered = append(lowered, p)
		}
	}
	f := &Frontier{priorityPaths: lowered}
	heap.Init(&f.h)
	return f
}

// IsPriority reports whether path contains one of the priority substrings
func (f *Frontier) IsPriority(path string) bool {
	lp := strings.ToLower(path)
	for _, p := range f.priorityPaths {
		if strings.Contains(lp, p) {
			return true
		}
	}
	return false
}

// Add enqueues item; depth 0 or path decides the class
func (f *Frontier) Add(item *models.WorkItem, path string) {
	class := classNormal
	switch {
	case item.Depth == 0:
		class = classSeed
	case f.IsPriority(path):
		class = classPriority
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	heap.Push(&f.h, &frontierItem{workItem: item, class: class, seq: f.seq})
}

// Pop removes the next item. ok is false when the frontier is empty.
func (f *Frontier) Pop() (item *models.WorkItem, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.h) == 0 {
		return nil, false
	}
	return heap.Pop(&f.h).(*frontierItem).workItem, true
}

// Len returns the number of pending items
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.h)
}
