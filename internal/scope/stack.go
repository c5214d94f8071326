package scope

import (
	"sort"

	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
)

// Stack is the binder's cursor over the scope forest while it walks one
// compilation unit's HIR: a list of enclosing scope frames, innermost last,
// per spec.md §4.D/§4.H's lexical-lookup-with-shadowing rule. Grounded on
// Orizon's internal/resolver/resolver.go scope-stack push/pop, generalized
// to a multi-parent scope DAG per frame instead of a single parent chain.
type Stack struct {
	table  *Table
	frames []ids.ScopeID
	unit   ids.UnitIndex
}

// NewStack creates a Stack bound to table, for binding unit.
func NewStack(table *Table, unit ids.UnitIndex) *Stack {
	return &Stack{table: table, unit: unit}
}

// Push enters a new innermost scope frame.
func (s *Stack) Push(id ids.ScopeID) { s.frames = append(s.frames, id) }

// Pop leaves the innermost scope frame.
func (s *Stack) Pop() {
	if len(s.frames) > 0 {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Len returns the current frame count, for save/restore around a subtree
// the binder wants to revisit.
func (s *Stack) Len() int { return len(s.frames) }

// Top returns the innermost frame, or ids.NoScope if the stack is empty.
func (s *Stack) Top() ids.ScopeID {
	if len(s.frames) == 0 {
		return ids.NoScope
	}
	return s.frames[len(s.frames)-1]
}

// PopUntil truncates the frame list back to n frames.
func (s *Stack) PopUntil(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(s.frames) {
		s.frames = s.frames[:n]
	}
}

// PushRecursive pushes the chain from id up to the scope forest's root
// (following each scope's first parent), root first, so the full lexical
// context is on the stack even when a scope is entered out of the order it
// was built in (e.g. resuming a deferred reference).
func (s *Stack) PushRecursive(id ids.ScopeID) {
	var chain []ids.ScopeID
	for cur := id; cur != ids.NoScope; {
		chain = append(chain, cur)
		sc, ok := s.table.Scope(cur)
		if !ok {
			break
		}
		parents := sc.Parents()
		if len(parents) == 0 {
			break
		}
		cur = parents[0]
	}
	for i := len(chain) - 1; i >= 0; i-- {
		s.Push(chain[i])
	}
}

// Lookup searches frames from innermost to outermost. At each frame it
// searches that frame's whole scope-parent DAG and, if that search finds
// any match, returns immediately (inner scopes shadow outer ones); it does
// not fall through to the next frame once a frame has yielded a match.
func (s *Stack) Lookup(name intern.Name, filter KindSet) []ids.SymbolID {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if cands := s.table.collectInScopeChain(s.frames[i], name, filter); len(cands) > 0 {
			return cands
		}
	}
	return nil
}

// LookupOne is Lookup followed by Resolve, the common case of wanting a
// single best symbol for an unqualified reference.
func (s *Stack) LookupOne(name intern.Name, filter KindSet) ids.SymbolID {
	return Resolve(s.table, s.Lookup(name, filter), s.unit)
}

// LookupMember resolves name as a member of owner (the "." / "::" path
// segment case), searching only owner's own declared scope, never the
// lexical stack. If owner is a TypeAlias, the alias is followed one hop via
// TypeOf first (spec.md's `Self` handling), matching how an alias resolves
// to the scope of what it names rather than declaring its own.
func (s *Stack) LookupMember(owner ids.SymbolID, name intern.Name, filter KindSet) ids.SymbolID {
	sym, ok := s.table.Symbol(owner)
	if !ok {
		return ids.NoSymbol
	}
	if sym.Kind == TypeAlias && sym.TypeOf != ids.NoSymbol {
		if aliased, ok := s.table.Symbol(sym.TypeOf); ok {
			sym = aliased
		}
	}
	if sym.Scope == ids.NoScope {
		return ids.NoSymbol
	}
	sc, ok := s.table.Scope(sym.Scope)
	if !ok {
		return ids.NoSymbol
	}
	var cands []ids.SymbolID
	for _, id := range sc.Lookup(name) {
		if s2, ok := s.table.Symbol(id); ok && filter.Matches(s2.Kind) {
			cands = append(cands, id)
		}
	}
	return Resolve(s.table, cands, s.unit)
}

// LookupQualified resolves a dotted/double-colon path: the first segment via
// Lookup+Resolve against the lexical stack, every later segment via
// LookupMember against the previous segment's resolved symbol.
func (s *Stack) LookupQualified(path []intern.Name, filter KindSet) ids.SymbolID {
	if len(path) == 0 {
		return ids.NoSymbol
	}
	headFilter := Any
	if len(path) == 1 {
		headFilter = filter
	}
	cur := s.LookupOne(path[0], headFilter)
	if cur == ids.NoSymbol {
		return ids.NoSymbol
	}
	for i := 1; i < len(path); i++ {
		segFilter := Any
		if i == len(path)-1 {
			segFilter = filter
		}
		cur = s.LookupMember(cur, path[i], segFilter)
		if cur == ids.NoSymbol {
			return ids.NoSymbol
		}
	}
	return cur
}

// Resolve picks a single symbol out of candidates declared by different
// compilation units colliding on the same name (spec.md's global name
// collision policy): candidates are ordered by unit_index ascending, and
// the current unit only wins a tie for the lowest unit_index; otherwise the
// lowest unit_index wins outright.
func Resolve(table *Table, candidates []ids.SymbolID, current ids.UnitIndex) ids.SymbolID {
	switch len(candidates) {
	case 0:
		return ids.NoSymbol
	case 1:
		return candidates[0]
	}

	type cand struct {
		id   ids.SymbolID
		unit ids.UnitIndex
	}
	cs := make([]cand, 0, len(candidates))
	for _, id := range candidates {
		sym, ok := table.Symbol(id)
		if !ok {
			continue
		}
		cs = append(cs, cand{id: id, unit: sym.UnitIndex})
	}
	if len(cs) == 0 {
		return ids.NoSymbol
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].unit < cs[j].unit })

	lowest := cs[0].unit
	end := 1
	for end < len(cs) && cs[end].unit == lowest {
		end++
	}
	if end == 1 {
		return cs[0].id
	}
	for _, c := range cs[:end] {
		if c.unit == current {
			return c.id
		}
	}
	return cs[0].id
}
