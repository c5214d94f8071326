// Package hir implements the normalized, per-unit intermediate tree that
// every language front end builds its parse tree into. A HIR tree is a flat
// arena.Arena[Node] indexed by ids.HirID; nodes never hold pointers to each
// other, only ids, so the tree can be walked and mutated (once, for the
// identifier/scope payloads) from many goroutines without aliasing.
package hir

import (
	"github.com/semgraph/semgraph/internal/arena"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
)

// PayloadKind tags which of a Node's payload fields is meaningful.
type PayloadKind uint8

const (
	// Internal nodes carry no identifier/scope/text payload; they are pure
	// structure (a block, a binary expression, ...).
	Internal PayloadKind = iota
	// Identifier nodes own an interned name and, once bound, a resolved
	// symbol.
	Identifier
	// Scope nodes own an identifier and, once collected, the Scope they
	// introduce.
	Scope
	// Text nodes are leaves whose content matters verbatim (a string
	// literal, a raw body span) but which introduce no identifier.
	Text
)

// IdentPayload is carried by Identifier nodes.
type IdentPayload struct {
	Name   intern.Name
	Symbol ids.SymbolID // ids.NoSymbol until bound
}

// ScopePayload is carried by Scope nodes: a node that both names something
// (a type, function, module) and introduces a nested lookup environment.
type ScopePayload struct {
	Name  intern.Name
	Scope ids.ScopeID // ids.NoScope until collected
}

// Node is one HIR tree node. KindID/FieldID are interned grammar-node-kind
// and field-role strings (e.g. "function_item", "name") so the core stays
// opaque to any particular grammar's numeric ids, per spec.md §4.C.
type Node struct {
	ID       ids.HirID
	KindID   intern.Name
	FieldID  intern.Name // 0 = no field role under the parent
	Start    uint32
	End      uint32
	Parent   ids.HirID
	Children []ids.HirID

	Payload  PayloadKind
	Ident    IdentPayload
	ScopePay ScopePayload
	Text     string
}

// Tree is one compilation unit's HIR: an arena of Nodes plus the unit's
// root. Trees are built once (internal/build) and then read by collect,
// bind and block-graph passes; the only mutation after construction is
// setting Ident.Symbol / ScopePay.Scope exactly once per node.
type Tree struct {
	Unit  ids.UnitIndex
	nodes *arena.Arena[Node]
	Root  ids.HirID
}

// NewTree creates an empty tree for the given unit.
func NewTree(unit ids.UnitIndex) *Tree {
	return &Tree{Unit: unit, nodes: arena.New[Node]()}
}

// Alloc appends a node (Parent/Children left for the caller to wire) and
// returns its id.
func (t *Tree) Alloc(n Node) ids.HirID {
	id := ids.HirID(t.nodes.Alloc(Node{}))
	n.ID = id
	t.nodes.Mutate(arena.ID[Node](id), func(stored *Node) { *stored = n })
	return id
}

// Node returns the node for id, if any.
func (t *Tree) Node(id ids.HirID) (Node, bool) {
	return t.nodes.Get(arena.ID[Node](id))
}

// MustNode returns the node for id, panicking if id is unknown -- used only
// where the caller just obtained id from the same tree (e.g. iterating
// Children) and an absent node would indicate a builder bug.
func (t *Tree) MustNode(id ids.HirID) Node {
	n, ok := t.Node(id)
	if !ok {
		panic("hir: unknown node id")
	}
	return n
}

// SetChildren records a node's children and back-links their Parent.
func (t *Tree) SetChildren(parent ids.HirID, children []ids.HirID) {
	t.nodes.Mutate(arena.ID[Node](parent), func(n *Node) { n.Children = children })
	for _, c := range children {
		t.nodes.Mutate(arena.ID[Node](c), func(n *Node) { n.Parent = parent })
	}
}

// ResolveIdent sets the resolved symbol on an Identifier node exactly once;
// a second call is a no-op, matching the "mutable exactly once" invariant
// in spec.md §3.
func (t *Tree) ResolveIdent(id ids.HirID, sym ids.SymbolID) {
	t.nodes.Mutate(arena.ID[Node](id), func(n *Node) {
		if n.Payload == Identifier && n.Ident.Symbol == ids.NoSymbol {
			n.Ident.Symbol = sym
		}
	})
}

// AttachScope sets the collected Scope on a Scope node exactly once.
func (t *Tree) AttachScope(id ids.HirID, scopeID ids.ScopeID) {
	t.nodes.Mutate(arena.ID[Node](id), func(n *Node) {
		if n.Payload == Scope && n.ScopePay.Scope == ids.NoScope {
			n.ScopePay.Scope = scopeID
		}
	})
}

// Len returns the number of nodes allocated in the tree.
func (t *Tree) Len() int { return t.nodes.Len() }

// Walk visits every node reachable from root exactly once, pre-order.
func (t *Tree) Walk(root ids.HirID, visit func(Node)) {
	n, ok := t.Node(root)
	if !ok {
		return
	}
	visit(n)
	for _, c := range n.Children {
		t.Walk(c, visit)
	}
}

// SliceText returns the raw source slice for a node's byte span.
func (n Node) SliceText(src []byte) string {
	if int(n.End) > len(src) || n.Start > n.End {
		return ""
	}
	return string(src[n.Start:n.End])
}
