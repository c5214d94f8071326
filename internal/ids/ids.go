// Package ids defines the small set of process-wide/unit-wide handle types
// shared by every core component, so that internal/hir, internal/scope,
// internal/block and internal/compilectx can reference each other's
// entities without import cycles: a symbol references its owning scope by
// ScopeID, a scope references its owning HIR node by HirID, a block
// references its symbol by SymbolID, and so on. None of these are pointers;
// resolution always goes back through the owning arena or map.
package ids

// HirID identifies a node within one compilation unit's HIR tree. It is
// unique only within that unit; 0 is reserved (the "no node" sentinel).
type HirID uint32

// NoHir is the reserved "unset" HirID.
const NoHir HirID = 0

// ScopeID identifies a Scope, process-wide, monotonically allocated.
type ScopeID uint32

// NoScope is the reserved "unset" ScopeID.
const NoScope ScopeID = 0

// SymbolID identifies a Symbol, process-wide, monotonically allocated.
type SymbolID uint32

// NoSymbol is the reserved "unset" SymbolID.
const NoSymbol SymbolID = 0

// BlockID identifies a Block, process-wide, monotonically allocated.
type BlockID uint32

// NoBlock is the reserved "unset" BlockID.
const NoBlock BlockID = 0

// UnitIndex identifies one compilation unit (source file) within a run.
type UnitIndex uint32
