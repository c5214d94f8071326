package block

import "sync"

// Queue is the block graph builder's deferred work list: many Build calls
// (one per unit, run in parallel) enqueue concurrently; the project linker
// (spec.md §4.L) drains it once, serially, after every unit's block graph
// has been built. Mirrors compilectx.UnresolvedQueue's shape one level up
// the pipeline (block references instead of symbol references).
type Queue struct {
	mu    sync.Mutex
	sites []UnresolvedSite
}

// NewQueue creates an empty queue.
func NewQueue() *Queue { return &Queue{} }

// EnqueueAll appends every site in sites.
func (q *Queue) EnqueueAll(sites []UnresolvedSite) {
	if len(sites) == 0 {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sites = append(q.sites, sites...)
}

// Drain removes and returns every queued site, in enqueue order.
func (q *Queue) Drain() []UnresolvedSite {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.sites
	q.sites = nil
	return out
}

// Len reports the number of sites currently queued.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.sites)
}
