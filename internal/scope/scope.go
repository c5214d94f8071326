package scope

import (
	"sync"

	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
)

// Scope is a named lookup environment forming a forest with multi-parent
// links (file -> module -> package -> globals chains), per spec.md §3/§4.D.
type Scope struct {
	ID     ids.ScopeID
	Kind   string // "file", "module", "package", "function", "block", ...
	Owner  ids.HirID
	Declares ids.SymbolID // the symbol this scope belongs to, if any

	mu      sync.RWMutex
	parents []ids.ScopeID
	names   map[intern.Name][]ids.SymbolID
	order   []intern.Name // first-insertion order, for deterministic iteration
}

// newScope constructs an empty scope. Unexported: scopes are always created
// through a Table so their id is allocated consistently.
func newScope(owner ids.HirID, kind string) *Scope {
	return &Scope{
		Owner: owner,
		Kind:  kind,
		names: make(map[intern.Name][]ids.SymbolID),
	}
}

// Insert records name -> sym in this scope's multi-valued map.
func (s *Scope) Insert(name intern.Name, sym ids.SymbolID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.names[name]; !ok {
		s.order = append(s.order, name)
	}
	s.names[name] = append(s.names[name], sym)
}

// AddParent adds a parent edge. The caller is responsible for avoiding
// cycles (spec.md §8: "the parent-scope relation contains no cycles");
// Table.AddParent checks this before calling in.
func (s *Scope) AddParent(parent ids.ScopeID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.parents {
		if p == parent {
			return
		}
	}
	s.parents = append(s.parents, parent)
}

// Parents returns a snapshot of this scope's parent ids.
func (s *Scope) Parents() []ids.ScopeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ids.ScopeID, len(s.parents))
	copy(out, s.parents)
	return out
}

// Lookup returns the symbols bound to name directly in this scope (no
// parent traversal), in insertion order.
func (s *Scope) Lookup(name intern.Name) []ids.SymbolID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.names[name]
	out := make([]ids.SymbolID, len(v))
	copy(out, v)
	return out
}

// Names returns the distinct names declared directly in this scope, in
// first-insertion order (used by deterministic rendering/query).
func (s *Scope) Names() []intern.Name {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]intern.Name, len(s.order))
	copy(out, s.order)
	return out
}
