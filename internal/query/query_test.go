package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgraph/semgraph/internal/block"
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/config"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/project"
	"github.com/semgraph/semgraph/internal/query"
)

// buildGraph constructs, without running any real language front end:
//
//	root (unit 0)
//	  mod "m"
//	    func "foo"
//	  func "bar"  -- DependsOn foo
func buildGraph(t *testing.T) (*project.Graph, ids.BlockID, ids.BlockID, ids.BlockID, ids.BlockID) {
	t.Helper()
	ctx := compilectx.New(config.Default(), nil)
	g := project.New(ctx, nil)

	root := g.Blocks.NewBlock(block.Root, "", ids.NoSymbol, 0)
	mod := g.Blocks.NewBlock(block.Module, "m", ids.NoSymbol, 0)
	foo := g.Blocks.NewBlock(block.Func, "foo", ids.NoSymbol, 0)
	bar := g.Blocks.NewBlock(block.Func, "bar", ids.NoSymbol, 0)

	g.Blocks.AddChild(root, mod)
	g.Blocks.AddChild(mod, foo)
	g.Blocks.AddChild(root, bar)

	g.Relations.Add(bar, block.DependsOn, foo)

	return g, root, mod, foo, bar
}

func TestByNameExactMatch(t *testing.T) {
	g, _, _, foo, _ := buildGraph(t)
	e := query.New(g)

	res := e.ByName("foo")
	require.Len(t, res.Primary, 1)
	assert.Equal(t, foo, res.Primary[0].ID)
}

func TestByKindReturnsEveryMatch(t *testing.T) {
	g, _, _, foo, bar := buildGraph(t)
	e := query.New(g)

	res := e.ByKind(block.Func)
	require.Len(t, res.Primary, 2)
	assert.ElementsMatch(t, []ids.BlockID{foo, bar}, []ids.BlockID{res.Primary[0].ID, res.Primary[1].ID})
}

func TestByKindInUnitFilters(t *testing.T) {
	g, _, _, _, _ := buildGraph(t)
	e := query.New(g)

	res := e.ByKindInUnit(block.Func, 1)
	assert.Empty(t, res.Primary)
}

func TestFileStructureWalksTreeInOrder(t *testing.T) {
	g, root, mod, foo, bar := buildGraph(t)
	e := query.New(g)

	res := e.FileStructure(0)
	require.Len(t, res.Primary, 1)
	assert.Equal(t, root, res.Primary[0].ID)

	require.Len(t, res.Related, 3)
	assert.Equal(t, []ids.BlockID{mod, foo, bar}, []ids.BlockID{res.Related[0].ID, res.Related[1].ID, res.Related[2].ID})
}

func TestRelatedIsDirectNeighborsBothDirections(t *testing.T) {
	g, _, _, foo, bar := buildGraph(t)
	e := query.New(g)

	res := e.Related("bar")
	require.Len(t, res.Related, 1)
	assert.Equal(t, foo, res.Related[0].ID)

	res = e.Related("foo")
	require.Len(t, res.Related, 1)
	assert.Equal(t, bar, res.Related[0].ID)
}

func TestRelatedRecursiveFollowsDependsOnOnly(t *testing.T) {
	g, _, _, foo, _ := buildGraph(t)
	g.Relations.Add(foo, block.DependsOn, g.Blocks.NewBlock(block.Func, "baz", ids.NoSymbol, 0))
	e := query.New(g)

	res := e.RelatedRecursive("bar")
	var names []string
	for _, b := range res.Related {
		names = append(names, b.Name)
	}
	assert.ElementsMatch(t, []string{"foo", "baz"}, names)
	assert.NotContains(t, names, "bar")
}

func TestBFSAndDFSVisitEachBlockOnce(t *testing.T) {
	g, _, _, foo, _ := buildGraph(t)
	e := query.New(g)

	bfs := e.BFS("bar")
	require.Len(t, bfs.Related, 1)
	assert.Equal(t, foo, bfs.Related[0].ID)

	dfs := e.DFS("bar")
	require.Len(t, dfs.Related, 1)
	assert.Equal(t, foo, dfs.Related[0].ID)
}

func TestFindDependsAndFindDependedAreDirected(t *testing.T) {
	g, _, _, foo, bar := buildGraph(t)
	e := query.New(g)

	depends := e.FindDepends("bar")
	require.Len(t, depends.Related, 1)
	assert.Equal(t, foo, depends.Related[0].ID)

	depended := e.FindDepended("foo")
	require.Len(t, depended.Related, 1)
	assert.Equal(t, bar, depended.Related[0].ID)

	assert.Empty(t, e.FindDepends("foo").Related)
	assert.Empty(t, e.FindDepended("bar").Related)
}

func TestFormatRendersPrimaryAndRelatedCounts(t *testing.T) {
	g, _, _, _, _ := buildGraph(t)
	e := query.New(g)

	text := e.Related("bar").Format()
	assert.Contains(t, text, "primary (1)")
	assert.Contains(t, text, "related (1)")
	assert.Contains(t, text, "Func foo#")
}
