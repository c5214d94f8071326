package block_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgraph/semgraph/internal/block"
	"github.com/semgraph/semgraph/internal/build"
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/config"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/lang/engine"
	"github.com/semgraph/semgraph/internal/scope"
)

// fakeLanguage recognizes function_item/struct_item/method_item
// declarations and impl_item as an anonymous (type/trait-extending) scope,
// enough to exercise block.Build's Contains/HasMethod/ImplFor/DependsOn/
// Calls wiring without a real grammar.
type fakeLanguage struct{}

func (fakeLanguage) Name() string { return "fake" }

func (fakeLanguage) Grammar() build.Grammar { return nil }

func (fakeLanguage) Primitives() []string { return nil }

func (fakeLanguage) DeclRule(kindName string) (lang.DeclRule, bool) {
	switch kindName {
	case "function_item":
		return lang.DeclRule{SymbolKind: scope.Function, ScopeKind: "function", FormsScope: true}, true
	case "struct_item":
		return lang.DeclRule{SymbolKind: scope.Struct, ScopeKind: "struct", FormsScope: true}, true
	case "method_item":
		return lang.DeclRule{SymbolKind: scope.Method, ScopeKind: "method", FormsScope: true}, true
	default:
		return lang.DeclRule{}, false
	}
}

func (fakeLanguage) AnonymousScope(kindName string) bool { return kindName == "impl_item" }

func (fakeLanguage) IsExported(*hir.Tree, hir.Node, []byte) bool { return true }

func (fakeLanguage) ExprClass(kindName string) lang.ExprClass {
	switch kindName {
	case "call_expression":
		return lang.ExprCall
	case "attribute_access":
		return lang.ExprFieldAccess
	default:
		return lang.ExprOther
	}
}

func (fakeLanguage) LiteralPrimitive(string) (string, bool) { return "", false }

func (fakeLanguage) Roles() lang.ExprRoles {
	return lang.ExprRoles{
		CallTarget: "function", ImplType: "type", ImplTrait: "trait",
		FieldOwner: "object", FieldName: "attribute", SelfName: "self",
	}
}

func (fakeLanguage) PatternClass(string) lang.PatternKind { return lang.PatternOther }

func (fakeLanguage) PatternRoles() lang.PatternRoles { return lang.PatternRoles{} }

var _ lang.Language = fakeLanguage{}
var _ build.Grammar = fakeGrammar{}

type fakeGrammar struct{}

func (fakeGrammar) Classify(hir.ParseNode) (hir.PayloadKind, hir.ParseNode) {
	return hir.Internal, nil
}
func (fakeGrammar) Parse(context.Context, []byte) (hir.ParseNode, error) { return nil, nil }

// buildTree constructs:
//
//	source_file
//	  function_item "baz"                          (global function)
//	  struct_item "Foo"
//	    method_item "bar"
//	      identifier "baz"                          -> DependsOn
//	      call_expression
//	        identifier "baz" [field: function]       -> Calls
//	  impl_item                                      (AnonymousScope)
//	    identifier "Foo" [field: type]                -> ImplFor
//	    method_item "qux"                              -> HasMethod on the impl block
func buildTree(ctx *compilectx.Context, unit *compilectx.Unit) {
	tree := hir.NewTree(unit.Index)

	mkIdent := func(name, field string) ids.HirID {
		n := hir.Node{KindID: ctx.Interner.Intern("identifier"), Payload: hir.Identifier,
			Ident: hir.IdentPayload{Name: ctx.Interner.Intern(name)}}
		if field != "" {
			n.FieldID = ctx.Interner.Intern(field)
		}
		return tree.Alloc(n)
	}

	funcDecl := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("function_item"), Payload: hir.Scope,
		ScopePay: hir.ScopePayload{Name: ctx.Interner.Intern("baz")}})
	// The generic HIR builder (internal/build) re-visits a declaration's own
	// name child as an ordinary Identifier node even though its text already
	// became ScopePay.Name; reproduce that here so the self-loop guard in
	// block.Build has something real to guard against.
	funcNameIdent := mkIdent("baz", "")
	tree.SetChildren(funcDecl, []ids.HirID{funcNameIdent})

	depRef := mkIdent("baz", "")
	calleeRef := mkIdent("baz", "function")
	callExpr := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("call_expression"), Payload: hir.Internal})
	tree.SetChildren(callExpr, []ids.HirID{calleeRef})

	methodDecl := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("method_item"), Payload: hir.Scope,
		ScopePay: hir.ScopePayload{Name: ctx.Interner.Intern("bar")}})
	tree.SetChildren(methodDecl, []ids.HirID{depRef, callExpr})

	structDecl := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("struct_item"), Payload: hir.Scope,
		ScopePay: hir.ScopePayload{Name: ctx.Interner.Intern("Foo")}})
	tree.SetChildren(structDecl, []ids.HirID{methodDecl})

	typeRef := mkIdent("Foo", "type")
	qux := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("method_item"), Payload: hir.Scope,
		ScopePay: hir.ScopePayload{Name: ctx.Interner.Intern("qux")}})
	implItem := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("impl_item"), Payload: hir.Internal})
	tree.SetChildren(implItem, []ids.HirID{typeRef, qux})

	root := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("source_file"), Payload: hir.Internal})
	tree.SetChildren(root, []ids.HirID{funcDecl, structDecl, implItem})
	tree.Root = root

	unit.Tree = tree
}

func setupUnit(t *testing.T) (*compilectx.Context, *compilectx.Unit) {
	t.Helper()
	ctx := compilectx.New(config.Default(), nil)
	unit := ctx.AddUnit("a.rs", "fake", nil)
	buildTree(ctx, unit)
	require.NoError(t, engine.Collect(ctx, fakeLanguage{}, unit))
	require.NoError(t, engine.Bind(ctx, fakeLanguage{}, unit))
	return ctx, unit
}

func TestBuildCreatesRootAndDeclBlocks(t *testing.T) {
	ctx, unit := setupUnit(t)
	blocks := block.NewTable()
	rel := block.NewRelationMap()

	unresolved := block.Build(ctx, fakeLanguage{}, unit, blocks, rel)
	assert.Empty(t, unresolved)

	root, ok := blocks.Root(unit.Index)
	require.True(t, ok)
	rb, ok := blocks.Block(root)
	require.True(t, ok)
	assert.Equal(t, block.Root, rb.Kind)

	fooBlocks := blocks.ByName("Foo")
	require.Len(t, fooBlocks, 1)
	foo, ok := blocks.Block(fooBlocks[0])
	require.True(t, ok)
	assert.Equal(t, block.Struct, foo.Kind)
}

func TestBuildWiresContainsFromTree(t *testing.T) {
	ctx, unit := setupUnit(t)
	blocks := block.NewTable()
	rel := block.NewRelationMap()
	block.Build(ctx, fakeLanguage{}, unit, blocks, rel)

	root, _ := blocks.Root(unit.Index)
	bazBlocks := blocks.ByName("baz")
	require.NotEmpty(t, bazBlocks)

	var bazFuncBlock ids.BlockID
	for _, id := range bazBlocks {
		b, _ := blocks.Block(id)
		if b.Kind == block.Func {
			bazFuncBlock = id
		}
	}
	require.NotZero(t, bazFuncBlock)

	contained := rel.Get(root, block.Contains)
	assert.Contains(t, contained, bazFuncBlock)
}

func TestBuildWiresHasMethodFromStructToMethod(t *testing.T) {
	ctx, unit := setupUnit(t)
	blocks := block.NewTable()
	rel := block.NewRelationMap()
	block.Build(ctx, fakeLanguage{}, unit, blocks, rel)

	fooBlocks := blocks.ByName("Foo")
	require.Len(t, fooBlocks, 1)
	barBlocks := blocks.ByName("bar")
	require.Len(t, barBlocks, 1)

	assert.Contains(t, rel.Get(fooBlocks[0], block.HasMethod), barBlocks[0])
	assert.Contains(t, rel.Get(barBlocks[0], block.MethodOf), fooBlocks[0])
}

func TestBuildWiresDependsOnAndCallsForResolvedReferences(t *testing.T) {
	ctx, unit := setupUnit(t)
	blocks := block.NewTable()
	rel := block.NewRelationMap()
	block.Build(ctx, fakeLanguage{}, unit, blocks, rel)

	barBlocks := blocks.ByName("bar")
	require.Len(t, barBlocks, 1)

	var bazFuncBlock ids.BlockID
	for _, id := range blocks.ByName("baz") {
		b, _ := blocks.Block(id)
		if b.Kind == block.Func {
			bazFuncBlock = id
		}
	}
	require.NotZero(t, bazFuncBlock)

	assert.Contains(t, rel.Get(barBlocks[0], block.DependsOn), bazFuncBlock)
	assert.Contains(t, rel.Get(barBlocks[0], block.Calls), bazFuncBlock)
}

func TestBuildWiresImplForFromAnonymousScope(t *testing.T) {
	ctx, unit := setupUnit(t)
	blocks := block.NewTable()
	rel := block.NewRelationMap()
	block.Build(ctx, fakeLanguage{}, unit, blocks, rel)

	fooBlocks := blocks.ByName("Foo")
	require.Len(t, fooBlocks, 1)

	scopeBlocks := blocks.ByKind(block.Scope)
	require.Len(t, scopeBlocks, 1)
	implBlock := scopeBlocks[0]

	assert.Contains(t, rel.Get(implBlock, block.ImplFor), fooBlocks[0])
	assert.Contains(t, rel.Get(fooBlocks[0], block.HasImpl), implBlock)

	quxBlocks := blocks.ByName("qux")
	require.Len(t, quxBlocks, 1)
	assert.Contains(t, rel.Get(implBlock, block.HasMethod), quxBlocks[0])
}

func TestBuildSkipsSelfLoopOnDeclarationName(t *testing.T) {
	ctx, unit := setupUnit(t)
	blocks := block.NewTable()
	rel := block.NewRelationMap()
	block.Build(ctx, fakeLanguage{}, unit, blocks, rel)

	var bazFuncBlock ids.BlockID
	for _, id := range blocks.ByName("baz") {
		b, _ := blocks.Block(id)
		if b.Kind == block.Func {
			bazFuncBlock = id
		}
	}
	require.NotZero(t, bazFuncBlock)
	assert.NotContains(t, rel.Get(bazFuncBlock, block.DependsOn), bazFuncBlock)
}

// buildSelfCallTree constructs:
//
//	source_file
//	  struct_item "Foo"
//	    method_item "bar"
//	      call_expression
//	        attribute_access [field: function]   (self.helper())
//	          identifier "self" [field: object]
//	          identifier "helper" [field: attribute]
func buildSelfCallTree(ctx *compilectx.Context, unit *compilectx.Unit) {
	tree := hir.NewTree(unit.Index)

	mkIdent := func(name, field string) ids.HirID {
		n := hir.Node{KindID: ctx.Interner.Intern("identifier"), Payload: hir.Identifier,
			Ident: hir.IdentPayload{Name: ctx.Interner.Intern(name)}}
		if field != "" {
			n.FieldID = ctx.Interner.Intern(field)
		}
		return tree.Alloc(n)
	}

	selfRef := mkIdent("self", "object")
	helperRef := mkIdent("helper", "attribute")
	attrAccess := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("attribute_access"), Payload: hir.Internal,
		FieldID: ctx.Interner.Intern("function")})
	tree.SetChildren(attrAccess, []ids.HirID{selfRef, helperRef})

	callExpr := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("call_expression"), Payload: hir.Internal})
	tree.SetChildren(callExpr, []ids.HirID{attrAccess})

	methodDecl := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("method_item"), Payload: hir.Scope,
		ScopePay: hir.ScopePayload{Name: ctx.Interner.Intern("bar")}})
	tree.SetChildren(methodDecl, []ids.HirID{callExpr})

	structDecl := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("struct_item"), Payload: hir.Scope,
		ScopePay: hir.ScopePayload{Name: ctx.Interner.Intern("Foo")}})
	tree.SetChildren(structDecl, []ids.HirID{methodDecl})

	root := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("source_file"), Payload: hir.Internal})
	tree.SetChildren(root, []ids.HirID{structDecl})
	tree.Root = root

	unit.Tree = tree
}

func TestBuildRecordsCallDescriptorForSelfMethodCall(t *testing.T) {
	ctx := compilectx.New(config.Default(), nil)
	unit := ctx.AddUnit("a.rs", "fake", nil)
	buildSelfCallTree(ctx, unit)
	require.NoError(t, engine.Collect(ctx, fakeLanguage{}, unit))
	require.NoError(t, engine.Bind(ctx, fakeLanguage{}, unit))

	blocks := block.NewTable()
	rel := block.NewRelationMap()
	block.Build(ctx, fakeLanguage{}, unit, blocks, rel)

	callBlocks := blocks.ByKind(block.Call)
	require.Len(t, callBlocks, 1)
	callBlock, ok := blocks.Block(callBlocks[0])
	require.True(t, ok)

	assert.Equal(t, []string{"self", "helper"}, callBlock.Descriptor.Chain)
	assert.Equal(t, block.RootReceiver, callBlock.Descriptor.Root)
}

func TestBuildEnqueuesUnresolvedCrossUnitReference(t *testing.T) {
	ctx := compilectx.New(config.Default(), nil)
	unitA := ctx.AddUnit("a.rs", "fake", nil)

	tree := hir.NewTree(unitA.Index)
	ref := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("identifier"), Payload: hir.Identifier,
		Ident: hir.IdentPayload{Name: ctx.Interner.Intern("elsewhere")}})
	root := tree.Alloc(hir.Node{KindID: ctx.Interner.Intern("source_file"), Payload: hir.Internal})
	tree.SetChildren(root, []ids.HirID{ref})
	tree.Root = root
	unitA.Tree = tree

	require.NoError(t, engine.Collect(ctx, fakeLanguage{}, unitA))

	placeholder := ctx.Scopes.NewSymbol(scope.Symbol{
		Name: ctx.Interner.Intern("elsewhere"), Kind: scope.UnresolvedType, TypeOf: ids.NoSymbol, UnitIndex: unitA.Index,
	})
	tree.ResolveIdent(ref, placeholder)

	blocks := block.NewTable()
	rel := block.NewRelationMap()
	unresolved := block.Build(ctx, fakeLanguage{}, unitA, blocks, rel)

	require.Len(t, unresolved, 1)
	assert.Equal(t, placeholder, unresolved[0].Symbol)
	assert.Equal(t, block.DependsOn, unresolved[0].Relation)
}
