// Package scope implements the scope forest and symbol table described by
// spec.md §3/§4.D: multi-parent scopes, kind-filtered lexical/member/
// qualified lookup, and write-once symbol fields (type_of, scope, block_id)
// appended-only dependency sets. Grounded on Orizon's
// internal/resolver/symbol_table.go (Symbol/SymbolKind/Visibility shape)
// and internal/resolver/resolver.go (scope-stack push/pop), generalized to
// the multi-parent DAG and kind-set filters spec.md requires.
package scope

import (
	"sync"

	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
)

// Kind enumerates the symbol kinds named in spec.md §3.
type Kind uint8

const (
	Unknown Kind = iota
	Primitive
	Struct
	Class
	Enum
	EnumVariant
	Trait
	Interface
	TypeAlias
	TypeParameter
	CompositeType
	UnresolvedType
	Module
	Crate
	Namespace
	File
	Function
	Method
	Macro
	Field
	Variable
	Const
	Static
)

// IsType reports whether a symbol of this kind can appear in a type
// position.
func (k Kind) IsType() bool {
	switch k {
	case Primitive, Struct, Class, Enum, Trait, Interface, TypeAlias,
		TypeParameter, CompositeType, UnresolvedType:
		return true
	default:
		return false
	}
}

// IsCallable reports whether a symbol of this kind can appear in call
// position.
func (k Kind) IsCallable() bool {
	switch k {
	case Function, Method, Macro:
		return true
	default:
		return false
	}
}

// IsResolved reports whether the kind represents a fully resolved
// declaration, as opposed to a placeholder.
func (k Kind) IsResolved() bool {
	return k != UnresolvedType && k != Unknown
}

// IsConst reports whether a symbol of this kind is immutable once bound
// (used by pattern binding's "const bindings are never overwritten" rule).
func (k Kind) IsConst() bool {
	switch k {
	case Const, Static, EnumVariant:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "Primitive"
	case Struct:
		return "Struct"
	case Class:
		return "Class"
	case Enum:
		return "Enum"
	case EnumVariant:
		return "EnumVariant"
	case Trait:
		return "Trait"
	case Interface:
		return "Interface"
	case TypeAlias:
		return "TypeAlias"
	case TypeParameter:
		return "TypeParameter"
	case CompositeType:
		return "CompositeType"
	case UnresolvedType:
		return "UnresolvedType"
	case Module:
		return "Module"
	case Crate:
		return "Crate"
	case Namespace:
		return "Namespace"
	case File:
		return "File"
	case Function:
		return "Function"
	case Method:
		return "Method"
	case Macro:
		return "Macro"
	case Field:
		return "Field"
	case Variable:
		return "Variable"
	case Const:
		return "Const"
	case Static:
		return "Static"
	default:
		return "Unknown"
	}
}

// KindSet is a filter over Kind; the zero KindSet matches any kind (spec.md:
// "empty filter = any").
type KindSet uint32

// Set builds a KindSet from the given kinds.
func Set(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

// Any is the empty filter: matches every kind.
const Any KindSet = 0

// Matches reports whether k passes the filter.
func (s KindSet) Matches(k Kind) bool {
	if s == Any {
		return true
	}
	return s&(1<<uint(k)) != 0
}

// TypeKinds is the filter used for type-position lookups.
var TypeKinds = Set(Primitive, Struct, Class, Enum, Trait, Interface,
	TypeAlias, TypeParameter, CompositeType, UnresolvedType)

// CallableKinds is the filter used for call-position lookups.
var CallableKinds = Set(Function, Method, Macro)

// DepSet is a concurrent, append-only set of symbol ids, used for a
// Symbol's Dependencies field: many goroutines binding different call
// sites may add to the same symbol's dependency set concurrently.
type DepSet struct {
	mu   sync.Mutex
	seen map[ids.SymbolID]struct{}
	list []ids.SymbolID
}

// NewDepSet creates an empty DepSet.
func NewDepSet() *DepSet {
	return &DepSet{seen: make(map[ids.SymbolID]struct{})}
}

// Add inserts id if not already present.
func (d *DepSet) Add(id ids.SymbolID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return
	}
	d.seen[id] = struct{}{}
	d.list = append(d.list, id)
}

// Snapshot returns the current members in insertion order.
func (d *DepSet) Snapshot() []ids.SymbolID {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]ids.SymbolID, len(d.list))
	copy(out, d.list)
	return out
}

// Symbol is the record describing a named entity (spec.md §3 "Symbol").
type Symbol struct {
	ID          ids.SymbolID
	Name        intern.Name
	Kind        Kind
	Owner       ids.HirID    // the HIR node that declared it
	OwningScope ids.ScopeID  // the scope it lives in
	TypeOf      ids.SymbolID // declared type, ids.NoSymbol if none
	Scope       ids.ScopeID  // the scope it declares, ids.NoScope if none
	IsGlobal    bool
	UnitIndex   ids.UnitIndex
	FQN         string
	NestedTypes []ids.SymbolID // tuple/generic/array element types
	Dependencies *DepSet
	BlockID     ids.BlockID // ids.NoBlock until the block graph pass runs

	// FieldOf/VariantOf link a Field/EnumVariant symbol back to its
	// enclosing type, per spec.md §4.G.
	FieldOf   ids.SymbolID
	VariantOf ids.SymbolID
}
