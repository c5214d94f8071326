// Package compilectx implements the compile context (spec.md §4.E): the
// owning container for every long-lived datum a run produces — the
// interner, the scope/symbol table, the per-unit HIR trees and module-path
// metadata, and the unresolved-reference queue the linker drains. Grounded
// on protocompile's ir.Context (owns arenas + intern table for the whole
// compilation) and the teacher's graph.Project/graph.Package aggregate-owner
// shape, generalized from "one Go package" to "one run over N units across
// four languages".
package compilectx

import (
	"sync"

	"go.uber.org/zap"

	"github.com/semgraph/semgraph/internal/config"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
	"github.com/semgraph/semgraph/internal/modpath"
	"github.com/semgraph/semgraph/internal/scope"
)

// Unit is a compile context's per-unit view: spec.md's `CompileUnit<'tcx>`
// (a unit index plus everything the builder attached), minus the lifetime
// parameter Go doesn't need since every Unit lives as long as the Context
// that owns it.
type Unit struct {
	Index    ids.UnitIndex
	Path     string
	Lang     string
	Source   []byte
	Mod      modpath.Unit
	Tree     *hir.Tree
	FileScope ids.ScopeID // allocated once Collect runs, ids.NoScope until then
	ParseErr error

	// Decls records, for every HIR node collected as a declaration site,
	// the symbol it declared. The binder consults this to wire TypeOf back
	// onto the declaring symbol once a type annotation is resolved.
	Decls map[ids.HirID]ids.SymbolID

	// AnonScopes records the scope allocated for a node that introduces a
	// lexical scope without declaring its own symbol (e.g. rust's
	// impl_item, which extends an existing type rather than naming a new
	// one). The binder re-enters these scopes the same way it re-enters
	// Decls' named ones.
	AnonScopes map[ids.HirID]ids.ScopeID

	// Blocks records, for every HIR node the block graph builder
	// (internal/block) materialized into a block, which block it got --
	// the block-graph analog of Decls/AnonScopes, consulted when a later
	// pass needs to map a HIR node back to its block.
	Blocks map[ids.HirID]ids.BlockID

	// RootBlock is this unit's Root-kind block, ids.NoBlock until the
	// block graph builder has run for it.
	RootBlock ids.BlockID
}

// Context is the process-wide home for one run: one interner, one
// scope/symbol table, the unit list, and the unresolved-reference queue.
type Context struct {
	Interner *intern.Table
	Scopes   *scope.Table
	Config   *config.Config
	Logger   *zap.Logger

	Unresolved *UnresolvedQueue

	mu    sync.RWMutex
	units []*Unit
}

// New creates an empty Context. The global scope is allocated immediately
// so language front ends can seed primitives into it before any unit is
// added.
func New(cfg *config.Config, logger *zap.Logger) *Context {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	scopes := scope.NewTable()
	global := scopes.NewScope(ids.NoHir, "global")
	scopes.SetGlobalScope(global)

	return &Context{
		Interner:   intern.New(),
		Scopes:     scopes,
		Config:     cfg,
		Logger:     logger,
		Unresolved: NewUnresolvedQueue(),
	}
}

// GlobalScope returns the shared primitive/global scope.
func (c *Context) GlobalScope() ids.ScopeID { return c.Scopes.GlobalScope() }

// AddUnit registers a new compilation unit and assigns it the next unit
// index. AddUnit and Units() share the context's mutex, so either may be
// called concurrently with the other.
func (c *Context) AddUnit(path, lang string, source []byte) *Unit {
	c.mu.Lock()
	defer c.mu.Unlock()
	u := &Unit{
		Index:  ids.UnitIndex(len(c.units)),
		Path:   path,
		Lang:   lang,
		Source: source,
	}
	c.units = append(c.units, u)
	return u
}

// Units returns a snapshot of the registered units, in registration order.
func (c *Context) Units() []*Unit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Unit, len(c.units))
	copy(out, c.units)
	return out
}

// Unit returns the unit at idx, if any.
func (c *Context) Unit(idx ids.UnitIndex) (*Unit, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i := int(idx)
	if i < 0 || i >= len(c.units) {
		return nil, false
	}
	return c.units[i], true
}
