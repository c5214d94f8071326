package compilectx

import (
	"sync"

	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
	"github.com/semgraph/semgraph/internal/scope"
)

// Site is one deferred reference: an identifier the binder could not
// resolve immediately (forward reference, or a cross-unit name not yet
// collected), recorded for the linker (spec.md §4.K) to retry once every
// unit has been collected and bound.
type Site struct {
	Unit        ids.UnitIndex
	Node        ids.HirID   // the Identifier HIR node awaiting resolution
	Path        []intern.Name // single-element for an unqualified reference
	Filter      scope.KindSet
	Placeholder ids.SymbolID // the UnresolvedType/Unknown placeholder created, if any
}

// UnresolvedQueue is the compile context's deferred work list: many binder
// goroutines enqueue concurrently, the linker drains it once, serially,
// after every unit has finished collect+bind.
type UnresolvedQueue struct {
	mu    sync.Mutex
	sites []Site
}

// NewUnresolvedQueue creates an empty queue.
func NewUnresolvedQueue() *UnresolvedQueue {
	return &UnresolvedQueue{}
}

// Enqueue records a deferred site.
func (q *UnresolvedQueue) Enqueue(s Site) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sites = append(q.sites, s)
}

// Drain removes and returns every queued site, in enqueue order. The
// linker calls this exactly once, after the barrier that follows Bind.
func (q *UnresolvedQueue) Drain() []Site {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.sites
	q.sites = nil
	return out
}

// Len reports the number of sites currently queued.
func (q *UnresolvedQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.sites)
}
