package scope_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
	"github.com/semgraph/semgraph/internal/scope"
)

func TestNewScopeAndSymbolRoundTrip(t *testing.T) {
	tbl := scope.NewTable()
	names := intern.New()

	root := tbl.NewScope(ids.NoHir, "file")
	sc, ok := tbl.Scope(root)
	require.True(t, ok)
	assert.Equal(t, root, sc.ID)

	id := tbl.NewSymbol(scope.Symbol{
		Name:        names.Intern("widget"),
		Kind:        scope.Struct,
		OwningScope: root,
	})
	sym, ok := tbl.Symbol(id)
	require.True(t, ok)
	assert.Equal(t, id, sym.ID)
	assert.Equal(t, scope.Struct, sym.Kind)

	found := sc.Lookup(names.Intern("widget"))
	assert.Equal(t, []ids.SymbolID{id}, found)
}

func TestAddParentRejectsCycle(t *testing.T) {
	tbl := scope.NewTable()
	a := tbl.NewScope(ids.NoHir, "module")
	b := tbl.NewScope(ids.NoHir, "package")

	require.NoError(t, tbl.AddParent(a, b))
	err := tbl.AddParent(b, a)
	assert.Error(t, err)
}

func TestAddParentRejectsSelf(t *testing.T) {
	tbl := scope.NewTable()
	a := tbl.NewScope(ids.NoHir, "module")
	assert.Error(t, tbl.AddParent(a, a))
}

func TestSetTypeOfWriteOnce(t *testing.T) {
	tbl := scope.NewTable()
	root := tbl.NewScope(ids.NoHir, "file")
	names := intern.New()
	v := tbl.NewSymbol(scope.Symbol{Name: names.Intern("x"), Kind: scope.Variable, OwningScope: root})
	ty := tbl.NewSymbol(scope.Symbol{Name: names.Intern("int"), Kind: scope.Primitive, OwningScope: root})
	other := tbl.NewSymbol(scope.Symbol{Name: names.Intern("str"), Kind: scope.Primitive, OwningScope: root})

	assert.True(t, tbl.SetTypeOf(v, ty))
	assert.False(t, tbl.SetTypeOf(v, other))

	sym, _ := tbl.Symbol(v)
	assert.Equal(t, ty, sym.TypeOf)
}

func TestRefineKindOnlyFromUnresolved(t *testing.T) {
	tbl := scope.NewTable()
	root := tbl.NewScope(ids.NoHir, "file")
	names := intern.New()
	id := tbl.NewSymbol(scope.Symbol{Name: names.Intern("t"), Kind: scope.UnresolvedType, OwningScope: root})

	assert.True(t, tbl.RefineKind(id, scope.Struct))
	assert.False(t, tbl.RefineKind(id, scope.Class))

	sym, _ := tbl.Symbol(id)
	assert.Equal(t, scope.Struct, sym.Kind)
}

func TestAddDependencyDeduplicates(t *testing.T) {
	tbl := scope.NewTable()
	root := tbl.NewScope(ids.NoHir, "file")
	names := intern.New()
	a := tbl.NewSymbol(scope.Symbol{Name: names.Intern("a"), Kind: scope.Function, OwningScope: root})
	b := tbl.NewSymbol(scope.Symbol{Name: names.Intern("b"), Kind: scope.Function, OwningScope: root})

	tbl.AddDependency(a, b)
	tbl.AddDependency(a, b)

	sym, _ := tbl.Symbol(a)
	assert.Equal(t, []ids.SymbolID{b}, sym.Dependencies.Snapshot())
}
