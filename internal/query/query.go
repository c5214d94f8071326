// Package query implements the read-only project graph queries (spec.md
// §4.L): lookups by name/kind, a unit's file structure, a block's direct or
// transitive neighbors, deterministic traversals for rendering, and
// directed one-hop dependency queries. Grounded on the teacher's
// inspector.Inspector read-only accessor layer sitting in front of
// analyzer.Package/graph.Project (GetFunctionsCalledBy, GetCallers, ...),
// generalized from Go-specific accessor names to the BlockRelation-keyed
// operations spec.md names.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/semgraph/semgraph/internal/block"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/project"
)

// Result is the shape every query returns (spec.md §4.L): the primary
// matches, the blocks related to them (meaning depends on the specific
// query), and a symbol->block map covering every block named in the result,
// for a caller that needs to resolve a definition site.
type Result struct {
	Primary []block.Block
	Related []block.Block
	Defs    map[ids.SymbolID]ids.BlockID
}

func newResult() Result {
	return Result{Defs: make(map[ids.SymbolID]ids.BlockID)}
}

func (r *Result) addPrimary(b block.Block) {
	r.Primary = append(r.Primary, b)
	if b.Symbol != ids.NoSymbol {
		r.Defs[b.Symbol] = b.ID
	}
}

func (r *Result) addRelated(b block.Block) {
	r.Related = append(r.Related, b)
	if b.Symbol != ids.NoSymbol {
		r.Defs[b.Symbol] = b.ID
	}
}

// Format renders a Result as text for downstream consumers (spec.md §4.L:
// "formatted to text for downstream use"), one line per block, grouped
// primary-then-related.
func (r Result) Format() string {
	var b strings.Builder
	writeBlock := func(blk block.Block) {
		fmt.Fprintf(&b, "%s %s#%d (unit %d)\n", blk.Kind, blk.Name, blk.ID, blk.UnitIndex)
	}
	fmt.Fprintf(&b, "primary (%d):\n", len(r.Primary))
	for _, blk := range r.Primary {
		writeBlock(blk)
	}
	fmt.Fprintf(&b, "related (%d):\n", len(r.Related))
	for _, blk := range r.Related {
		writeBlock(blk)
	}
	return b.String()
}

// Engine answers read-only queries over a built project.Graph.
type Engine struct {
	graph *project.Graph
}

// New wraps graph for querying. graph.Build must have already run (the
// linker's output is part of what these queries see).
func New(graph *project.Graph) *Engine {
	return &Engine{graph: graph}
}

func (e *Engine) block(id ids.BlockID) (block.Block, bool) {
	return e.graph.Blocks.Block(id)
}

func (e *Engine) fromIDs(blockIDs []ids.BlockID) []block.Block {
	out := make([]block.Block, 0, len(blockIDs))
	for _, id := range blockIDs {
		if b, ok := e.block(id); ok {
			out = append(out, b)
		}
	}
	return out
}

// ByName is by_name(name): every block with an exact name match, across
// every unit.
func (e *Engine) ByName(name string) Result {
	res := newResult()
	for _, b := range e.fromIDs(e.graph.Blocks.ByName(name)) {
		res.addPrimary(b)
	}
	return res
}

// ByKind is by_kind(kind): every block of the given kind, across every
// unit.
func (e *Engine) ByKind(kind block.Kind) Result {
	res := newResult()
	for _, b := range e.fromIDs(e.graph.Blocks.ByKind(kind)) {
		res.addPrimary(b)
	}
	return res
}

// ByKindInUnit is by_kind_in_unit(kind, unit_index).
func (e *Engine) ByKindInUnit(kind block.Kind, unit ids.UnitIndex) Result {
	res := newResult()
	for _, b := range e.fromIDs(e.graph.Blocks.ByKindInUnit(kind, unit)) {
		res.addPrimary(b)
	}
	return res
}

// FileStructure is file_structure(unit_index): the unit's root block as the
// sole primary match, with its full Contains subtree (every descendant, in
// tree order) as the related set.
func (e *Engine) FileStructure(unit ids.UnitIndex) Result {
	res := newResult()
	root, ok := e.graph.Blocks.Root(unit)
	if !ok {
		return res
	}
	rootBlock, ok := e.block(root)
	if !ok {
		return res
	}
	res.addPrimary(rootBlock)

	var walk func(ids.BlockID)
	walk = func(id ids.BlockID) {
		b, ok := e.block(id)
		if !ok {
			return
		}
		for _, child := range b.Children {
			if cb, ok := e.block(child); ok {
				res.addRelated(cb)
				walk(child)
			}
		}
	}
	walk(root)
	return res
}

// neighbors returns from's direct DependsOn ∪ DependedBy targets, sorted by
// BlockID for determinism (the relation map's insertion order depends on
// goroutine scheduling during the parallel block-build phase, so a stable
// iteration order has to be imposed at query time instead).
func neighbors(g *project.Graph, from ids.BlockID) []ids.BlockID {
	seen := map[ids.BlockID]bool{}
	var out []ids.BlockID
	for _, rel := range []block.Relation{block.DependsOn, block.DependedBy} {
		for _, to := range g.Relations.Get(from, rel) {
			if !seen[to] {
				seen[to] = true
				out = append(out, to)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Related is related(name): the named block(s)' direct neighbors
// (DependsOn ∪ DependedBy).
func (e *Engine) Related(name string) Result {
	res := newResult()
	for _, primary := range e.fromIDs(e.graph.Blocks.ByName(name)) {
		res.addPrimary(primary)
		for _, b := range e.fromIDs(neighbors(e.graph, primary.ID)) {
			res.addRelated(b)
		}
	}
	return res
}

// RelatedRecursive is related_recursive(name): the transitive closure of
// DependsOn from the named block(s). The spec's open question about
// "recursive query with dependents" (transitive callers) is decided here by
// not exposing it: the closure only ever follows DependsOn outward, never
// DependedBy, so a result can never grow by walking callers -- see
// DESIGN.md's query-engine entry for the resolution.
func (e *Engine) RelatedRecursive(name string) Result {
	res := newResult()
	visited := map[ids.BlockID]bool{}
	var walk func(id ids.BlockID)
	walk = func(id ids.BlockID) {
		for _, to := range e.graph.Relations.Get(id, block.DependsOn) {
			if visited[to] {
				continue
			}
			visited[to] = true
			if b, ok := e.block(to); ok {
				res.addRelated(b)
			}
			walk(to)
		}
	}
	for _, primary := range e.fromIDs(e.graph.Blocks.ByName(name)) {
		res.addPrimary(primary)
		walk(primary.ID)
	}
	return res
}

// traverse runs a deterministic BFS or DFS over the DependsOn ∪ DependedBy
// neighbor graph starting at every block named name, visiting each block at
// most once, in an order fixed by sorted BlockIDs so two runs over the same
// graph always render the same DOT output.
func (e *Engine) traverse(name string, bfs bool) Result {
	res := newResult()
	visited := map[ids.BlockID]bool{}

	var frontier []ids.BlockID
	for _, primary := range e.fromIDs(e.graph.Blocks.ByName(name)) {
		res.addPrimary(primary)
		visited[primary.ID] = true
		frontier = append(frontier, primary.ID)
	}

	if bfs {
		for len(frontier) > 0 {
			var next []ids.BlockID
			for _, id := range frontier {
				for _, to := range neighbors(e.graph, id) {
					if visited[to] {
						continue
					}
					visited[to] = true
					if b, ok := e.block(to); ok {
						res.addRelated(b)
					}
					next = append(next, to)
				}
			}
			frontier = next
		}
		return res
	}

	var stack []ids.BlockID
	for i := len(frontier) - 1; i >= 0; i-- {
		stack = append(stack, frontier[i])
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		ns := neighbors(e.graph, id)
		for i := len(ns) - 1; i >= 0; i-- {
			to := ns[i]
			if visited[to] {
				continue
			}
			visited[to] = true
			if b, ok := e.block(to); ok {
				res.addRelated(b)
			}
			stack = append(stack, to)
		}
	}
	return res
}

// BFS is bfs(name).
func (e *Engine) BFS(name string) Result { return e.traverse(name, true) }

// DFS is dfs(name).
func (e *Engine) DFS(name string) Result { return e.traverse(name, false) }

// FindDepended is find_depended(name): the blocks that depend on the named
// block(s) -- the reverse direction, one hop.
func (e *Engine) FindDepended(name string) Result {
	return e.directed(name, block.DependedBy)
}

// FindDepends is find_depends(name): the blocks the named block(s) depend
// on -- the forward direction, one hop.
func (e *Engine) FindDepends(name string) Result {
	return e.directed(name, block.DependsOn)
}

func (e *Engine) directed(name string, rel block.Relation) Result {
	res := newResult()
	for _, primary := range e.fromIDs(e.graph.Blocks.ByName(name)) {
		res.addPrimary(primary)
		targets := e.graph.Relations.Get(primary.ID, rel)
		sort.Slice(targets, func(i, j int) bool { return targets[i] < targets[j] })
		for _, b := range e.fromIDs(targets) {
			res.addRelated(b)
		}
	}
	return res
}
