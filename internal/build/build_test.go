package build_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgraph/semgraph/internal/build"
	"github.com/semgraph/semgraph/internal/errorx"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/intern"
)

// fakeNode is a minimal hir.ParseNode for exercising build.Tree without a
// real tree-sitter grammar.
type fakeNode struct {
	kind     string
	field    string
	trivia   bool
	named    bool
	start    uint32
	end      uint32
	children []*fakeNode
	parent   *fakeNode
}

func (f *fakeNode) Kind() string      { return f.kind }
func (f *fakeNode) FieldRole() string { return f.field }
func (f *fakeNode) IsTrivia() bool    { return f.trivia }
func (f *fakeNode) IsNamed() bool     { return f.named }
func (f *fakeNode) StartByte() uint32 { return f.start }
func (f *fakeNode) EndByte() uint32   { return f.end }
func (f *fakeNode) ChildCount() int   { return len(f.children) }

func (f *fakeNode) Child(i int) hir.ParseNode {
	if i < 0 || i >= len(f.children) {
		return nil
	}
	return f.children[i]
}

func (f *fakeNode) ChildByFieldName(name string) hir.ParseNode {
	for _, c := range f.children {
		if c.field == name {
			return c
		}
	}
	return nil
}

func (f *fakeNode) Parent() hir.ParseNode {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

func (f *fakeNode) FirstDescendantWithRole(role string) hir.ParseNode {
	for _, c := range f.children {
		if c.field == role {
			return c
		}
		if d := c.FirstDescendantWithRole(role); d != nil {
			return d
		}
	}
	return nil
}

// fakeGrammar classifies by a fixed kind->payload table, grounded on how a
// real language front end (internal/lang/*) would dispatch on node.Kind().
type fakeGrammar struct {
	root    *fakeNode
	parseErr error
	nameKind string
}

func (g *fakeGrammar) Parse(ctx context.Context, source []byte) (hir.ParseNode, error) {
	if g.parseErr != nil {
		return nil, g.parseErr
	}
	if g.root == nil {
		return nil, nil
	}
	return g.root, nil
}

func (g *fakeGrammar) Classify(n hir.ParseNode) (hir.PayloadKind, hir.ParseNode) {
	switch n.Kind() {
	case g.nameKind:
		return hir.Identifier, nil
	case "struct_item":
		return hir.Scope, n.ChildByFieldName("name")
	case "string_literal":
		return hir.Text, nil
	default:
		return hir.Internal, nil
	}
}

func TestTreeBuildsNodesAndIdentifiers(t *testing.T) {
	src := []byte("fn helper() {}")
	leaf := &fakeNode{kind: "identifier", named: true, start: 3, end: 9}
	root := &fakeNode{kind: "function_item", named: true, start: 0, end: uint32(len(src)), children: []*fakeNode{leaf}}
	leaf.parent = root

	g := &fakeGrammar{root: root, nameKind: "identifier"}
	interner := intern.New()

	tree, err := build.Tree(context.Background(), interner, g, 0, "f.rs", src)
	require.NoError(t, err)
	assert.Equal(t, 2, tree.Len())

	rootNode := tree.MustNode(tree.Root)
	require.Len(t, rootNode.Children, 1)

	leafNode := tree.MustNode(rootNode.Children[0])
	assert.Equal(t, hir.Identifier, leafNode.Payload)
	name, ok := interner.Resolve(leafNode.Ident.Name)
	require.True(t, ok)
	assert.Equal(t, "helper", name)
}

func TestTreeSkipsTriviaChildren(t *testing.T) {
	src := []byte("fn f() {} // trailing")
	comment := &fakeNode{kind: "line_comment", trivia: true, start: 10, end: 21}
	root := &fakeNode{kind: "function_item", named: true, start: 0, end: 9, children: []*fakeNode{comment}}

	g := &fakeGrammar{root: root}
	tree, err := build.Tree(context.Background(), intern.New(), g, 0, "f.rs", src)
	require.NoError(t, err)

	rootNode := tree.MustNode(tree.Root)
	assert.Empty(t, rootNode.Children)
}

func TestTreeWrapsParseFailureAsParseFailed(t *testing.T) {
	g := &fakeGrammar{parseErr: errors.New("boom")}
	_, err := build.Tree(context.Background(), intern.New(), g, 0, "f.rs", []byte("x"))
	require.Error(t, err)
	assert.True(t, errorx.Is(err, errorx.ParseFailed))
}

func TestTreeHandlesNilRoot(t *testing.T) {
	g := &fakeGrammar{}
	tree, err := build.Tree(context.Background(), intern.New(), g, 0, "f.rs", []byte(""))
	require.NoError(t, err)
	assert.Equal(t, 0, tree.Len())
}

func TestTreeBuildsScopeNodeFromFieldNamedChild(t *testing.T) {
	src := []byte("struct Widget {}")
	name := &fakeNode{kind: "type_identifier", field: "name", named: true, start: 7, end: 13}
	root := &fakeNode{kind: "struct_item", named: true, start: 0, end: uint32(len(src)), children: []*fakeNode{name}}
	name.parent = root

	g := &fakeGrammar{root: root, nameKind: "type_identifier_leaf_marker_unused"}
	tree, err := build.Tree(context.Background(), intern.New(), g, 0, "f.rs", src)
	require.NoError(t, err)

	rootNode := tree.MustNode(tree.Root)
	assert.Equal(t, hir.Scope, rootNode.Payload)
	assert.NotEqual(t, uint32(0), rootNode.ScopePay.Name)
}
