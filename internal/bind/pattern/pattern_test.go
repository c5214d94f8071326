package pattern_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgraph/semgraph/internal/bind/pattern"
	"github.com/semgraph/semgraph/internal/build"
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/config"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

// fakeLanguage classifies by grammar kind name alone, using the same
// role names rust's front end uses for tuple/struct patterns.
type fakeLanguage struct{}

func (fakeLanguage) Name() string                                { return "fake" }
func (fakeLanguage) Grammar() build.Grammar                       { return nil }
func (fakeLanguage) Primitives() []string                        { return nil }
func (fakeLanguage) DeclRule(string) (lang.DeclRule, bool)        { return lang.DeclRule{}, false }
func (fakeLanguage) AnonymousScope(string) bool                   { return false }
func (fakeLanguage) IsExported(*hir.Tree, hir.Node, []byte) bool  { return true }
func (fakeLanguage) ExprClass(string) lang.ExprClass              { return lang.ExprOther }
func (fakeLanguage) LiteralPrimitive(string) (string, bool)       { return "", false }
func (fakeLanguage) Roles() lang.ExprRoles                        { return lang.ExprRoles{} }

var _ lang.Language = fakeLanguage{}

func (fakeLanguage) PatternClass(kindName string) lang.PatternKind {
	switch kindName {
	case "tuple_pattern":
		return lang.PatternTuple
	case "slice_pattern":
		return lang.PatternArray
	case "struct_pattern":
		return lang.PatternObject
	case "field_pattern":
		return lang.PatternFieldEntry
	default:
		return lang.PatternOther
	}
}

func (fakeLanguage) PatternRoles() lang.PatternRoles {
	return lang.PatternRoles{FieldName: "name", FieldValue: "pattern", Inner: "pattern"}
}

func newCtxAndUnit(t *testing.T) (*compilectx.Context, *compilectx.Unit) {
	t.Helper()
	ctx := compilectx.New(config.Default(), nil)
	unit := ctx.AddUnit("a.rs", "fake", nil)
	unit.Tree = hir.NewTree(unit.Index)
	unit.Decls = make(map[ids.HirID]ids.SymbolID)
	unit.FileScope = ctx.GlobalScope()
	return ctx, unit
}

func identNode(ctx *compilectx.Context, tree *hir.Tree, field, name string) (ids.HirID, hir.Node) {
	id := tree.Alloc(hir.Node{
		KindID:  ctx.Interner.Intern("identifier"),
		FieldID: ctx.Interner.Intern(field),
		Payload: hir.Identifier,
		Ident:   hir.IdentPayload{Name: ctx.Interner.Intern(name)},
	})
	return id, tree.MustNode(id)
}

func TestDeclareIdentifierPatternCreatesSymbol(t *testing.T) {
	ctx, unit := newCtxAndUnit(t)
	tree := unit.Tree
	stack := scope.NewStack(ctx.Scopes, unit.Index)
	stack.Push(unit.FileScope)

	_, node := identNode(ctx, tree, "", "x")

	pattern.Declare(ctx, fakeLanguage{}, stack, tree, unit, node, ids.NoHir, true, "")

	sym, ok := unit.Decls[node.ID]
	require.True(t, ok)
	symbol, ok := ctx.Scopes.Symbol(sym)
	require.True(t, ok)
	assert.Equal(t, scope.Variable, symbol.Kind)
	assert.Equal(t, ids.NoSymbol, symbol.TypeOf)
}

func TestDeclareTuplePatternCreatesEachIdentifier(t *testing.T) {
	ctx, unit := newCtxAndUnit(t)
	tree := unit.Tree
	stack := scope.NewStack(ctx.Scopes, unit.Index)
	stack.Push(unit.FileScope)

	aID, _ := identNode(ctx, tree, "", "a")
	bID, _ := identNode(ctx, tree, "", "b")
	tupleID := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("tuple_pattern"), Payload: hir.Internal})
	tree.SetChildren(tupleID, []ids.HirID{aID, bID})
	tuple := tree.MustNode(tupleID)

	pattern.Declare(ctx, fakeLanguage{}, stack, tree, unit, tuple, ids.NoHir, false, "")

	aSym, ok := unit.Decls[aID]
	require.True(t, ok)
	bSym, ok := unit.Decls[bID]
	require.True(t, ok)
	assert.NotEqual(t, aSym, bSym)
}

func TestBindIdentifierPatternPropagatesType(t *testing.T) {
	ctx, unit := newCtxAndUnit(t)
	tree := unit.Tree
	stack := scope.NewStack(ctx.Scopes, unit.Index)
	stack.Push(unit.FileScope)

	_, node := identNode(ctx, tree, "", "x")
	pattern.Declare(ctx, fakeLanguage{}, stack, tree, unit, node, ids.NoHir, false, "")

	typeSym := ctx.Scopes.NewSymbol(scope.Symbol{Name: ctx.Interner.Intern("i32"), Kind: scope.Primitive})

	pattern.Bind(ctx, fakeLanguage{}, tree, node, typeSym)

	sym, ok := unit.Decls[node.ID]
	require.True(t, ok)
	symbol, ok := ctx.Scopes.Symbol(sym)
	require.True(t, ok)
	assert.Equal(t, typeSym, symbol.TypeOf)
}

func TestBindTuplePatternZipsNestedTypes(t *testing.T) {
	ctx, unit := newCtxAndUnit(t)
	tree := unit.Tree
	stack := scope.NewStack(ctx.Scopes, unit.Index)
	stack.Push(unit.FileScope)

	aID, _ := identNode(ctx, tree, "", "a")
	bID, _ := identNode(ctx, tree, "", "b")
	tupleID := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("tuple_pattern"), Payload: hir.Internal})
	tree.SetChildren(tupleID, []ids.HirID{aID, bID})
	tuple := tree.MustNode(tupleID)

	pattern.Declare(ctx, fakeLanguage{}, stack, tree, unit, tuple, ids.NoHir, false, "")

	i32 := ctx.Scopes.NewSymbol(scope.Symbol{Name: ctx.Interner.Intern("i32"), Kind: scope.Primitive})
	strSym := ctx.Scopes.NewSymbol(scope.Symbol{Name: ctx.Interner.Intern("str"), Kind: scope.Primitive})
	tupleType := ctx.Scopes.NewSymbol(scope.Symbol{
		Name:        ctx.Interner.Intern("(i32, str)"),
		Kind:        scope.CompositeType,
		NestedTypes: []ids.SymbolID{i32, strSym},
	})

	pattern.Bind(ctx, fakeLanguage{}, tree, tuple, tupleType)

	aSym, _ := ctx.Scopes.Symbol(unit.Decls[aID])
	bSym, _ := ctx.Scopes.Symbol(unit.Decls[bID])
	assert.Equal(t, i32, aSym.TypeOf)
	assert.Equal(t, strSym, bSym.TypeOf)
}

func TestBindNeverOverwritesConstSymbol(t *testing.T) {
	ctx, unit := newCtxAndUnit(t)
	tree := unit.Tree
	stack := scope.NewStack(ctx.Scopes, unit.Index)
	stack.Push(unit.FileScope)

	_, node := identNode(ctx, tree, "", "x")
	pattern.Declare(ctx, fakeLanguage{}, stack, tree, unit, node, ids.NoHir, false, "")

	existingSym := unit.Decls[node.ID]
	ctx.Scopes.RefineKind(existingSym, scope.Const)
	wrongType := ctx.Scopes.NewSymbol(scope.Symbol{Name: ctx.Interner.Intern("wrong")})

	pattern.Bind(ctx, fakeLanguage{}, tree, node, wrongType)

	sym, _ := ctx.Scopes.Symbol(existingSym)
	assert.Equal(t, ids.NoSymbol, sym.TypeOf)
}

func TestBindObjectPatternLooksUpFieldType(t *testing.T) {
	ctx, unit := newCtxAndUnit(t)
	tree := unit.Tree
	stack := scope.NewStack(ctx.Scopes, unit.Index)
	stack.Push(unit.FileScope)

	fieldTypeSym := ctx.Scopes.NewSymbol(scope.Symbol{Name: ctx.Interner.Intern("i32"), Kind: scope.Primitive})

	containerScope := ctx.Scopes.NewScope(ids.NoHir, "struct")
	require.NoError(t, ctx.Scopes.AddParent(containerScope, ctx.GlobalScope()))
	ctx.Scopes.NewSymbol(scope.Symbol{
		Name:        ctx.Interner.Intern("x"),
		Kind:        scope.Field,
		OwningScope: containerScope,
		TypeOf:      fieldTypeSym,
	})

	containerType := ctx.Scopes.NewSymbol(scope.Symbol{
		Name:  ctx.Interner.Intern("Point"),
		Kind:  scope.Struct,
		Scope: containerScope,
	})

	// struct_pattern { field_pattern { name: x } }
	nameID, _ := identNode(ctx, tree, "name", "x")
	fieldID := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("field_pattern"), Payload: hir.Internal})
	tree.SetChildren(fieldID, []ids.HirID{nameID})
	structID := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("struct_pattern"), Payload: hir.Internal})
	tree.SetChildren(structID, []ids.HirID{fieldID})
	structNode := tree.MustNode(structID)

	pattern.Declare(ctx, fakeLanguage{}, stack, tree, unit, structNode, ids.NoHir, false, "")
	pattern.Bind(ctx, fakeLanguage{}, tree, structNode, containerType)

	boundSym, ok := unit.Decls[nameID]
	require.True(t, ok)
	symbol, ok := ctx.Scopes.Symbol(boundSym)
	require.True(t, ok)
	assert.Equal(t, fieldTypeSym, symbol.TypeOf)
}
