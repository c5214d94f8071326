// Package block implements the block graph builder (spec.md §4.K): a
// second, per-unit visitor run after Bind that materializes a block tree
// (grounded on the teacher's inspector/graph.Type -- Methods/Fields slices
// plus a name-keyed index map for O(1) lookup, generalized from one
// language's reflect.Kind-tagged type/method/field model to the cross-
// language BlockKind enum spec.md §3 names) plus an external relation map
// (DependsOn/Contains/HasMethod/ImplFor/Calls and their mirrors), since no
// pack repo models relations as a side table rather than embedded pointers
// -- this is new structure grounded directly on spec.md §3's "Block" and
// §4.K, not on a specific pack file.
package block

import (
	"github.com/semgraph/semgraph/internal/arena"
	"github.com/semgraph/semgraph/internal/ids"
)

// Kind enumerates the block kinds named in spec.md §3.
type Kind uint8

const (
	Unknown Kind = iota
	Root
	Module
	Class
	Struct
	Trait
	Interface
	Enum
	Func
	Method
	Field
	Variable
	Const
	Call
	Scope
	Return
)

func (k Kind) String() string {
	switch k {
	case Root:
		return "Root"
	case Module:
		return "Module"
	case Class:
		return "Class"
	case Struct:
		return "Struct"
	case Trait:
		return "Trait"
	case Interface:
		return "Interface"
	case Enum:
		return "Enum"
	case Func:
		return "Func"
	case Method:
		return "Method"
	case Field:
		return "Field"
	case Variable:
		return "Variable"
	case Const:
		return "Const"
	case Call:
		return "Call"
	case Scope:
		return "Scope"
	case Return:
		return "Return"
	default:
		return "Unknown"
	}
}

// RootKind classifies the resolved kind of a CallDescriptor's root segment.
type RootKind uint8

const (
	RootUnknown RootKind = iota
	RootReceiver         // a receiver variable/field (self.helper(), obj.method())
	RootType             // a type/trait/class (Type::new())
	RootModule           // a module/namespace (mod::func())
)

func (k RootKind) String() string {
	switch k {
	case RootReceiver:
		return "RootReceiver"
	case RootType:
		return "RootType"
	case RootModule:
		return "RootModule"
	default:
		return "RootUnknown"
	}
}

// CallDescriptor records a Call block's full callee chain (self.helper() ->
// ["self", "helper"]) plus the resolved kind of its leftmost segment,
// distinct from the plain DependsOn/Calls edge which only names the final
// resolved symbol.
type CallDescriptor struct {
	Chain []string
	Root  RootKind
}

// Block wraps a symbol (or an anonymous scope/callsite) with its position
// in the per-unit block tree, per spec.md §3 "Block".
type Block struct {
	ID         ids.BlockID
	Kind       Kind
	Name       string
	Parent     ids.BlockID
	Children   []ids.BlockID
	UnitIndex  ids.UnitIndex
	Symbol     ids.SymbolID // ids.NoSymbol for symbol-less blocks (Call, anonymous Scope)
	Descriptor CallDescriptor // set for Kind == Call; zero value elsewhere
}

// Table is the process-wide home for every Block allocated during a run,
// mirroring internal/scope.Table's shape: one arena, plus a name index
// (the teacher's Type.fieldMap/methodMap idiom, generalized from per-type
// field/method lookup to a project-wide by-name index) and a per-unit root
// index for file_structure queries.
type Table struct {
	blocks  *arena.Arena[Block]
	byName  map[string][]ids.BlockID
	byKind  map[Kind][]ids.BlockID
	roots   map[ids.UnitIndex]ids.BlockID
}

// NewTable creates an empty block table.
func NewTable() *Table {
	return &Table{
		blocks: arena.New[Block](),
		byName: make(map[string][]ids.BlockID),
		byKind: make(map[Kind][]ids.BlockID),
		roots:  make(map[ids.UnitIndex]ids.BlockID),
	}
}

// NewBlock allocates a block, indexing it by name (if named) and, for a
// Root block, recording it as unit's root.
func (t *Table) NewBlock(kind Kind, name string, sym ids.SymbolID, unit ids.UnitIndex) ids.BlockID {
	id := ids.BlockID(t.blocks.Alloc(Block{Kind: kind, Name: name, UnitIndex: unit, Symbol: sym}))
	t.blocks.Mutate(arena.ID[Block](id), func(b *Block) { b.ID = id })
	if name != "" {
		t.byName[name] = append(t.byName[name], id)
	}
	t.byKind[kind] = append(t.byKind[kind], id)
	if kind == Root {
		t.roots[unit] = id
	}
	return id
}

// Block returns a copy of the block for id.
func (t *Table) Block(id ids.BlockID) (Block, bool) {
	return t.blocks.Get(arena.ID[Block](id))
}

// SetDescriptor records a Call block's CallDescriptor, built by block.Build
// once the call expression's target chain is known.
func (t *Table) SetDescriptor(id ids.BlockID, d CallDescriptor) {
	t.blocks.Mutate(arena.ID[Block](id), func(b *Block) { b.Descriptor = d })
}

// AddChild records child as one of parent's children, and sets child's
// Parent, mirroring the tree half of spec.md §3 "Blocks form a tree per
// unit". The Contains/ContainedBy relation pair is the caller's
// responsibility (block.Build adds both together).
func (t *Table) AddChild(parent, child ids.BlockID) {
	t.blocks.Mutate(arena.ID[Block](parent), func(b *Block) { b.Children = append(b.Children, child) })
	t.blocks.Mutate(arena.ID[Block](child), func(b *Block) { b.Parent = parent })
}

// ByName returns every block with the given name, across every unit, in
// allocation order (spec.md §5 determinism: "insertion order").
func (t *Table) ByName(name string) []ids.BlockID {
	out := make([]ids.BlockID, len(t.byName[name]))
	copy(out, t.byName[name])
	return out
}

// ByKind returns every block of the given kind, across every unit.
func (t *Table) ByKind(kind Kind) []ids.BlockID {
	out := make([]ids.BlockID, len(t.byKind[kind]))
	copy(out, t.byKind[kind])
	return out
}

// ByKindInUnit returns every block of the given kind within one unit.
func (t *Table) ByKindInUnit(kind Kind, unit ids.UnitIndex) []ids.BlockID {
	var out []ids.BlockID
	for _, id := range t.byKind[kind] {
		b, ok := t.Block(id)
		if ok && b.UnitIndex == unit {
			out = append(out, id)
		}
	}
	return out
}

// Root returns the root block for unit, if the block graph builder has
// run for it.
func (t *Table) Root(unit ids.UnitIndex) (ids.BlockID, bool) {
	id, ok := t.roots[unit]
	return id, ok
}

// Len reports the number of blocks allocated so far.
func (t *Table) Len() int { return t.blocks.Len() }

// Each calls f for every block in allocation order.
func (t *Table) Each(f func(ids.BlockID, Block)) {
	t.blocks.Each(func(id arena.ID[Block], b Block) { f(ids.BlockID(id), b) })
}
