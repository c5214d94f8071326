// Package project implements the project graph and linker (spec.md §4.L):
// the top-level owner that runs every unit through IR-build, collect, bind
// and block-graph-build, then links the deferred cross-unit references
// every unit's pass could not resolve on its own. Grounded on the teacher's
// graph.Project (owns every package's graph plus a relative-path resolver)
// and on compilectx.Context.BuildTrees's errgroup fan-out shape, generalized
// one phase further down the pipeline.
package project

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/semgraph/semgraph/internal/block"
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/lang/engine"
	"github.com/semgraph/semgraph/internal/modpath"
	"github.com/semgraph/semgraph/internal/scope"
)

// Graph is the project-wide semantic graph: the compile context plus the
// block tree and relation map every unit's block-graph builder populates.
// Spec.md's "the project graph owns all unit graphs and a pointer to the
// compile context" is realized here as one shared Table/RelationMap rather
// than a map of per-unit graphs, since blocks already carry a UnitIndex and
// the relation map is already process-wide.
type Graph struct {
	Ctx       *compilectx.Context
	Languages *lang.Registry

	Blocks    *block.Table
	Relations *block.RelationMap

	blockQueue *block.Queue
}

// New creates an empty Graph over ctx, ready for Build.
func New(ctx *compilectx.Context, languages *lang.Registry) *Graph {
	return &Graph{
		Ctx:        ctx,
		Languages:  languages,
		Blocks:     block.NewTable(),
		Relations:  block.NewRelationMap(),
		blockQueue: block.NewQueue(),
	}
}

// Build runs the full per-unit pipeline (spec.md §4.F-K) followed by the
// linker (spec.md §4.L): parse+classify every unit, then -- per unit, in
// parallel, each unit racing the others rather than waiting on a global
// barrier between phases -- collect, bind and build its block graph, then
// drain and retry whatever any unit's pass could not resolve on its own.
// This interleaving (rather than a Collect-all/Bind-all/Build-all barrier
// sequence) is why spec.md's architecture needs an explicit unresolved
// queue and a dedicated linker phase at all: a reference into a unit that
// hasn't reached Collect yet is expected to miss on the first attempt.
func (g *Graph) Build(ctx context.Context, detector *modpath.Detector, units []*compilectx.Unit) error {
	grammars := g.Languages.Grammars()
	g.Languages.Each(func(l lang.Language) {
		engine.SeedPrimitives(g.Ctx, l)
	})

	if err := g.Ctx.BuildTrees(ctx, detector, grammars); err != nil {
		return err
	}

	grp, gctx := errgroup.WithContext(ctx)
	limit := g.Ctx.Config.Parallelism
	if limit <= 0 {
		limit = 1
	}
	grp.SetLimit(limit)

	for _, u := range units {
		u := u
		grp.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			language, ok := g.Languages.Lookup(u.Lang)
			if !ok || u.Tree == nil {
				return nil
			}
			if err := engine.Collect(g.Ctx, language, u); err != nil {
				return err
			}
			if err := engine.Bind(g.Ctx, language, u); err != nil {
				return err
			}
			sites := block.Build(g.Ctx, language, u, g.Blocks, g.Relations)
			g.blockQueue.EnqueueAll(sites)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return err
	}

	g.linkUnits()
	return nil
}

// linkUnits is link_units() (spec.md §4.L): drain the compile context's
// symbol-level unresolved queue first (so a placeholder symbol's BlockID,
// once its real target's block is known, is bridged over before the
// block-level queue is drained), then drain the block-level queue and add
// the deferred relation now that every unit's block graph exists.
func (g *Graph) linkUnits() {
	for _, site := range g.Ctx.Unresolved.Drain() {
		g.relinkSymbol(site)
	}
	for _, site := range g.blockQueue.Drain() {
		g.relinkBlock(site)
	}
}

// relinkSymbol re-attempts a symbol-level reference now that every unit has
// published its globals. On success, it bridges the placeholder symbol
// installed at Bind time over to the resolved target's block (once known)
// so that any block-level site enqueued against the placeholder's SymbolID
// still resolves when the block queue is drained next. Persistent failure
// is dropped silently, per spec.md §4.L step 4.
func (g *Graph) relinkSymbol(site compilectx.Site) {
	unit, ok := g.Ctx.Unit(site.Unit)
	if !ok {
		return
	}
	stack := scope.NewStack(g.Ctx.Scopes, site.Unit)
	stack.PushRecursive(unit.FileScope)
	resolved := stack.LookupQualified(site.Path, site.Filter)
	if resolved == site.Placeholder || resolved == ids.NoSymbol {
		return
	}
	target, ok := g.Ctx.Scopes.Symbol(resolved)
	if !ok || target.BlockID == ids.NoBlock {
		return
	}
	g.Ctx.Scopes.SetBlockID(site.Placeholder, target.BlockID)
}

// relinkBlock re-attempts a block-level DependsOn/Calls edge now that the
// linker has had a chance to bridge every placeholder symbol over to its
// real target's block. Dropped silently on persistent failure.
func (g *Graph) relinkBlock(site block.UnresolvedSite) {
	symbol, ok := g.Ctx.Scopes.Symbol(site.Symbol)
	if !ok || symbol.BlockID == ids.NoBlock || symbol.BlockID == site.From {
		return
	}
	g.Relations.Add(site.From, site.Relation, symbol.BlockID)
}

// Units returns the graph's units in registration order, for queries that
// need the full file list (e.g. "every unit's file_structure").
func (g *Graph) Units() []*compilectx.Unit {
	units := g.Ctx.Units()
	sort.SliceStable(units, func(i, j int) bool { return units[i].Index < units[j].Index })
	return units
}
