package scope

import (
	"github.com/semgraph/semgraph/internal/arena"
	"github.com/semgraph/semgraph/internal/errorx"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
)

// Table is the process-wide home for every Scope and Symbol allocated
// during a run (spec.md §4.E's "concurrent SymbolId -> Symbol* map" and the
// scope forest). Both arenas are safe for concurrent collect/bind
// goroutines.
type Table struct {
	symbols     *arena.Arena[Symbol]
	scopes      *arena.Arena[*Scope]
	globalScope ids.ScopeID
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{
		symbols: arena.New[Symbol](),
		scopes:  arena.New[*Scope](),
	}
}

// NewScope allocates a fresh scope owned by the given HIR node.
func (t *Table) NewScope(owner ids.HirID, kind string) ids.ScopeID {
	s := newScope(owner, kind)
	id := ids.ScopeID(t.scopes.Alloc(s))
	s.ID = id
	return id
}

// Scope returns the scope for id.
func (t *Table) Scope(id ids.ScopeID) (*Scope, bool) {
	s, ok := t.scopes.Get(arena.ID[*Scope](id))
	if !ok {
		return nil, false
	}
	return s, true
}

// AddParent links child -> parent, rejecting the edge if it would create a
// cycle in the scope DAG (spec.md §8 "Scope DAG" invariant).
func (t *Table) AddParent(child, parent ids.ScopeID) error {
	if child == parent {
		return errorx.New(errorx.AssertionFailed, "scope.AddParent").With("scope", child)
	}
	if t.reachableUp(parent, child) {
		return errorx.New(errorx.AssertionFailed, "scope.AddParent").
			With("child", child).With("parent", parent).With("reason", "would create cycle")
	}
	s, ok := t.Scope(child)
	if !ok {
		return errorx.New(errorx.SymbolNotFound, "scope.AddParent").With("scope", child)
	}
	s.AddParent(parent)
	return nil
}

// reachableUp reports whether target is reachable by following from's
// parent chain upward.
func (t *Table) reachableUp(from, target ids.ScopeID) bool {
	seen := map[ids.ScopeID]bool{}
	var walk func(ids.ScopeID) bool
	walk = func(cur ids.ScopeID) bool {
		if cur == target {
			return true
		}
		if seen[cur] {
			return false
		}
		seen[cur] = true
		s, ok := t.Scope(cur)
		if !ok {
			return false
		}
		for _, p := range s.Parents() {
			if walk(p) {
				return true
			}
		}
		return false
	}
	return walk(from)
}

// NewSymbol allocates sym, assigning its ID, and inserts it into its
// OwningScope. Returns the allocated id.
func (t *Table) NewSymbol(sym Symbol) ids.SymbolID {
	if sym.Dependencies == nil {
		sym.Dependencies = NewDepSet()
	}
	id := ids.SymbolID(t.symbols.Alloc(sym))
	t.symbols.Mutate(arena.ID[Symbol](id), func(s *Symbol) { s.ID = id })
	if owning, ok := t.Scope(sym.OwningScope); ok {
		owning.Insert(sym.Name, id)
	}
	if sym.IsGlobal {
		if g, ok := t.Scope(t.globalScope); ok && t.globalScope != ids.NoScope {
			g.Insert(sym.Name, id)
		}
	}
	return id
}

// Symbol returns a copy of the symbol for id.
func (t *Table) Symbol(id ids.SymbolID) (Symbol, bool) {
	return t.symbols.Get(arena.ID[Symbol](id))
}

// SetTypeOf sets a symbol's declared type exactly once (spec.md: type_of is
// write-once in practice).
func (t *Table) SetTypeOf(id, typeOf ids.SymbolID) bool {
	ok := false
	t.symbols.Mutate(arena.ID[Symbol](id), func(s *Symbol) {
		if s.TypeOf == ids.NoSymbol {
			s.TypeOf = typeOf
			ok = true
		}
	})
	return ok
}

// SetDeclaredScope sets the scope a type/module/function symbol declares,
// exactly once.
func (t *Table) SetDeclaredScope(id ids.SymbolID, declared ids.ScopeID) bool {
	ok := false
	t.symbols.Mutate(arena.ID[Symbol](id), func(s *Symbol) {
		if s.Scope == ids.NoScope {
			s.Scope = declared
			ok = true
		}
	})
	return ok
}

// SetBlockID records the block a symbol was materialized into, exactly
// once.
func (t *Table) SetBlockID(id ids.SymbolID, block ids.BlockID) bool {
	ok := false
	t.symbols.Mutate(arena.ID[Symbol](id), func(s *Symbol) {
		if s.BlockID == ids.NoBlock {
			s.BlockID = block
			ok = true
		}
	})
	return ok
}

// RefineKind upgrades a placeholder kind (UnresolvedType/Unknown) to a more
// specific one, once binding learns it. Refining an already-concrete kind
// is a no-op, matching the "kind may be refined once" lifecycle rule.
func (t *Table) RefineKind(id ids.SymbolID, kind Kind) bool {
	ok := false
	t.symbols.Mutate(arena.ID[Symbol](id), func(s *Symbol) {
		if !s.Kind.IsResolved() {
			s.Kind = kind
			ok = true
		}
	})
	return ok
}

// AddDependency appends to -> from's dependency set (spec.md's per-symbol
// concurrent dependency set).
func (t *Table) AddDependency(from, to ids.SymbolID) {
	sym, ok := t.Symbol(from)
	if !ok || sym.Dependencies == nil {
		return
	}
	sym.Dependencies.Add(to)
}

// collectInScopeChain gathers every symbol bound to name, matching filter,
// anywhere in root's scope-parent DAG, deduplicated by SymbolID and by
// Scope (a scope reachable through two paths is only visited once).
func (t *Table) collectInScopeChain(root ids.ScopeID, name intern.Name, filter KindSet) []ids.SymbolID {
	seenScope := map[ids.ScopeID]bool{}
	seenSym := map[ids.SymbolID]bool{}
	var out []ids.SymbolID
	var walk func(ids.ScopeID)
	walk = func(id ids.ScopeID) {
		if id == ids.NoScope || seenScope[id] {
			return
		}
		seenScope[id] = true
		sc, ok := t.Scope(id)
		if !ok {
			return
		}
		for _, sym := range sc.Lookup(name) {
			if seenSym[sym] {
				continue
			}
			s, ok := t.Symbol(sym)
			if !ok || !filter.Matches(s.Kind) {
				continue
			}
			seenSym[sym] = true
			out = append(out, sym)
		}
		for _, p := range sc.Parents() {
			walk(p)
		}
	}
	walk(root)
	return out
}

// SetGlobalScope records the shared global/primitive scope id, set once
// during CompileContext construction.
func (t *Table) SetGlobalScope(id ids.ScopeID) { t.globalScope = id }

// GlobalScope returns the shared global/primitive scope id.
func (t *Table) GlobalScope() ids.ScopeID { return t.globalScope }
