package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
	"github.com/semgraph/semgraph/internal/scope"
)

func TestStackLookupShadowsOuterScope(t *testing.T) {
	tbl := scope.NewTable()
	names := intern.New()

	outer := tbl.NewScope(ids.NoHir, "module")
	inner := tbl.NewScope(ids.NoHir, "function")
	require.NoError(t, tbl.AddParent(inner, outer))

	xName := names.Intern("x")
	outerX := tbl.NewSymbol(scope.Symbol{Name: xName, Kind: scope.Variable, OwningScope: outer})
	innerX := tbl.NewSymbol(scope.Symbol{Name: xName, Kind: scope.Variable, OwningScope: inner})

	st := scope.NewStack(tbl, 0)
	st.Push(outer)
	st.Push(inner)

	got := st.Lookup(xName, scope.Any)
	assert.Equal(t, []ids.SymbolID{innerX}, got)
	assert.NotContains(t, got, outerX)
}

func TestStackLookupFallsThroughToOuterScope(t *testing.T) {
	tbl := scope.NewTable()
	names := intern.New()

	outer := tbl.NewScope(ids.NoHir, "module")
	inner := tbl.NewScope(ids.NoHir, "function")
	require.NoError(t, tbl.AddParent(inner, outer))

	yName := names.Intern("y")
	outerY := tbl.NewSymbol(scope.Symbol{Name: yName, Kind: scope.Variable, OwningScope: outer})

	st := scope.NewStack(tbl, 0)
	st.Push(outer)
	st.Push(inner)

	assert.Equal(t, []ids.SymbolID{outerY}, st.Lookup(yName, scope.Any))
}

func TestStackLookupMember(t *testing.T) {
	tbl := scope.NewTable()
	names := intern.New()

	fileScope := tbl.NewScope(ids.NoHir, "file")
	typeScope := tbl.NewScope(ids.NoHir, "struct")

	widget := tbl.NewSymbol(scope.Symbol{Name: names.Intern("Widget"), Kind: scope.Struct, OwningScope: fileScope})
	require.True(t, tbl.SetDeclaredScope(widget, typeScope))

	field := tbl.NewSymbol(scope.Symbol{Name: names.Intern("count"), Kind: scope.Field, OwningScope: typeScope, FieldOf: widget})

	st := scope.NewStack(tbl, 0)
	got := st.LookupMember(widget, names.Intern("count"), scope.Any)
	assert.Equal(t, field, got)

	assert.Equal(t, ids.NoSymbol, st.LookupMember(widget, names.Intern("missing"), scope.Any))
}

func TestStackLookupMemberFollowsTypeAlias(t *testing.T) {
	tbl := scope.NewTable()
	names := intern.New()

	fileScope := tbl.NewScope(ids.NoHir, "file")
	typeScope := tbl.NewScope(ids.NoHir, "struct")

	real := tbl.NewSymbol(scope.Symbol{Name: names.Intern("Widget"), Kind: scope.Struct, OwningScope: fileScope})
	require.True(t, tbl.SetDeclaredScope(real, typeScope))
	field := tbl.NewSymbol(scope.Symbol{Name: names.Intern("count"), Kind: scope.Field, OwningScope: typeScope})

	alias := tbl.NewSymbol(scope.Symbol{Name: names.Intern("Self"), Kind: scope.TypeAlias, OwningScope: fileScope})
	require.True(t, tbl.SetTypeOf(alias, real))

	st := scope.NewStack(tbl, 0)
	assert.Equal(t, field, st.LookupMember(alias, names.Intern("count"), scope.Any))
}

func TestStackLookupQualifiedPath(t *testing.T) {
	tbl := scope.NewTable()
	names := intern.New()

	global := tbl.NewScope(ids.NoHir, "global")
	moduleScope := tbl.NewScope(ids.NoHir, "module")
	typeScope := tbl.NewScope(ids.NoHir, "struct")

	mod := tbl.NewSymbol(scope.Symbol{Name: names.Intern("shapes"), Kind: scope.Module, OwningScope: global})
	require.True(t, tbl.SetDeclaredScope(mod, moduleScope))

	widget := tbl.NewSymbol(scope.Symbol{Name: names.Intern("Widget"), Kind: scope.Struct, OwningScope: moduleScope})
	require.True(t, tbl.SetDeclaredScope(widget, typeScope))

	field := tbl.NewSymbol(scope.Symbol{Name: names.Intern("count"), Kind: scope.Field, OwningScope: typeScope})

	st := scope.NewStack(tbl, 0)
	st.Push(global)

	path := []intern.Name{names.Intern("shapes"), names.Intern("Widget"), names.Intern("count")}
	assert.Equal(t, field, st.LookupQualified(path, scope.Any))
}

func TestResolvePrefersLowestUnitIndex(t *testing.T) {
	tbl := scope.NewTable()
	names := intern.New()
	root := tbl.NewScope(ids.NoHir, "global")
	name := names.Intern("Config")

	a := tbl.NewSymbol(scope.Symbol{Name: name, Kind: scope.Struct, OwningScope: root, UnitIndex: 2})
	b := tbl.NewSymbol(scope.Symbol{Name: name, Kind: scope.Struct, OwningScope: root, UnitIndex: 0})

	got := scope.Resolve(tbl, []ids.SymbolID{a, b}, 5)
	assert.Equal(t, b, got)
}

func TestResolveCurrentUnitWinsTieAtLowest(t *testing.T) {
	tbl := scope.NewTable()
	names := intern.New()
	root := tbl.NewScope(ids.NoHir, "global")
	name := names.Intern("Config")

	// b and c tie for the lowest unit_index (1); a is strictly higher and
	// never wins.
	a := tbl.NewSymbol(scope.Symbol{Name: name, Kind: scope.Struct, OwningScope: root, UnitIndex: 3})
	b := tbl.NewSymbol(scope.Symbol{Name: name, Kind: scope.Struct, OwningScope: root, UnitIndex: 1})
	c := tbl.NewSymbol(scope.Symbol{Name: name, Kind: scope.Struct, OwningScope: root, UnitIndex: 1})

	// b is first among the tied (unit_index == 1) candidates in input
	// order, so it wins whether or not current matches the tie.
	assert.Equal(t, b, scope.Resolve(tbl, []ids.SymbolID{a, b, c}, 1))
	assert.Equal(t, b, scope.Resolve(tbl, []ids.SymbolID{a, b, c}, 99))
	// a's unit_index (3) never wins regardless of which unit is current.
	assert.NotEqual(t, a, scope.Resolve(tbl, []ids.SymbolID{a, b, c}, 3))
}

func TestStackPushRecursive(t *testing.T) {
	tbl := scope.NewTable()
	root := tbl.NewScope(ids.NoHir, "global")
	mid := tbl.NewScope(ids.NoHir, "module")
	leaf := tbl.NewScope(ids.NoHir, "function")
	require.NoError(t, tbl.AddParent(mid, root))
	require.NoError(t, tbl.AddParent(leaf, mid))

	st := scope.NewStack(tbl, 0)
	st.PushRecursive(leaf)
	assert.Equal(t, 3, st.Len())
}
