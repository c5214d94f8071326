package block

import (
	"sync"

	"github.com/semgraph/semgraph/internal/ids"
)

// Relation enumerates the block relation kinds spec.md §3 names. Each has a
// mirror: adding (from, rel, to) also adds (to, rel.Mirror(), from).
type Relation uint8

const (
	DependsOn Relation = iota
	DependedBy
	Contains
	ContainedBy
	HasMethod
	MethodOf
	ImplFor
	HasImpl
	Calls
	CalledBy
)

// Mirror returns the relation recorded on the other side of an edge.
func (r Relation) Mirror() Relation {
	switch r {
	case DependsOn:
		return DependedBy
	case DependedBy:
		return DependsOn
	case Contains:
		return ContainedBy
	case ContainedBy:
		return Contains
	case HasMethod:
		return MethodOf
	case MethodOf:
		return HasMethod
	case ImplFor:
		return HasImpl
	case HasImpl:
		return ImplFor
	case Calls:
		return CalledBy
	case CalledBy:
		return Calls
	default:
		return r
	}
}

func (r Relation) String() string {
	switch r {
	case DependsOn:
		return "DependsOn"
	case DependedBy:
		return "DependedBy"
	case Contains:
		return "Contains"
	case ContainedBy:
		return "ContainedBy"
	case HasMethod:
		return "HasMethod"
	case MethodOf:
		return "MethodOf"
	case ImplFor:
		return "ImplFor"
	case HasImpl:
		return "HasImpl"
	case Calls:
		return "Calls"
	case CalledBy:
		return "CalledBy"
	default:
		return "Unknown"
	}
}

type edgeKey struct {
	from ids.BlockID
	rel  Relation
}

// RelationMap is the side table spec.md §3 describes: edges keyed by
// (BlockId, relation) with BlockId[] values, supporting bidirectional
// inserts and bulk removal. No pack repo models a relation side table (the
// teacher embeds Methods/Fields directly on Type), so this is built
// straight from the invariants spec.md states: "the tree is acyclic",
// "every DependsOn(A,B) has a matching DependedBy(B,A)".
type RelationMap struct {
	mu    sync.Mutex
	edges map[edgeKey][]ids.BlockID
}

// NewRelationMap creates an empty relation map.
func NewRelationMap() *RelationMap {
	return &RelationMap{edges: make(map[edgeKey][]ids.BlockID)}
}

// Add records from -rel-> to and its mirror to -rel.Mirror()-> from,
// deduplicating against an existing identical edge.
func (m *RelationMap) Add(from ids.BlockID, rel Relation, to ids.BlockID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.addOne(from, rel, to)
	m.addOne(to, rel.Mirror(), from)
}

func (m *RelationMap) addOne(from ids.BlockID, rel Relation, to ids.BlockID) {
	key := edgeKey{from, rel}
	for _, existing := range m.edges[key] {
		if existing == to {
			return
		}
	}
	m.edges[key] = append(m.edges[key], to)
}

// Get returns every block related to from by rel, in insertion order.
func (m *RelationMap) Get(from ids.BlockID, rel Relation) []ids.BlockID {
	m.mu.Lock()
	defer m.mu.Unlock()
	src := m.edges[edgeKey{from, rel}]
	out := make([]ids.BlockID, len(src))
	copy(out, src)
	return out
}

// RemoveAll drops every from-rel edge and its mirrors (bulk removal, used
// when a linker retry supersedes a previously recorded best-effort edge).
func (m *RelationMap) RemoveAll(from ids.BlockID, rel Relation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := edgeKey{from, rel}
	targets := m.edges[key]
	delete(m.edges, key)
	mirror := rel.Mirror()
	for _, to := range targets {
		mkey := edgeKey{to, mirror}
		filtered := m.edges[mkey][:0]
		for _, cand := range m.edges[mkey] {
			if cand != from {
				filtered = append(filtered, cand)
			}
		}
		m.edges[mkey] = filtered
	}
}
