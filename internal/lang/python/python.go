// Package python is the python front end. Assignment ("x = ...") always
// classifies as a declaration over its left-hand side; when that side is a
// bare identifier the engine mints one symbol directly, and when it's a
// tuple/list-unpacking pattern the engine defers to pattern binding
// (internal/bind/pattern, spec.md §4.J) instead.
package python

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tspython "github.com/smacker/go-tree-sitter/python"

	"github.com/semgraph/semgraph/internal/build"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

// Language implements lang.Language for python.
type Language struct{}

// New builds the python language front end.
func New() *Language { return &Language{} }

func (l *Language) Name() string { return "python" }

func (l *Language) Grammar() build.Grammar { return grammar{l} }

func (l *Language) Primitives() []string {
	return []string{"int", "float", "str", "bool", "bytes", "complex", "list", "dict", "tuple", "set", "NoneType", "object"}
}

func (l *Language) DeclRule(kindName string) (lang.DeclRule, bool) {
	switch kindName {
	case "function_definition":
		return lang.DeclRule{SymbolKind: scope.Function, ScopeKind: "function", FormsScope: true}, true
	case "class_definition":
		return lang.DeclRule{SymbolKind: scope.Class, ScopeKind: "class", FormsScope: true}, true
	case "assignment":
		return lang.DeclRule{SymbolKind: scope.Variable, FormsScope: false, PatternField: "left", InitField: "right"}, true
	default:
		return lang.DeclRule{}, false
	}
}

func (l *Language) AnonymousScope(kindName string) bool { return false }

// IsExported follows the PEP 8 convention: a name with no leading
// underscore is public.
func (l *Language) IsExported(tree *hir.Tree, node hir.Node, source []byte) bool {
	if node.End > uint32(len(source)) || node.Start > node.End {
		return true
	}
	text := strings.TrimSpace(string(source[node.Start:node.End]))
	for _, kw := range []string{"async ", "def ", "class "} {
		text = strings.TrimSpace(strings.TrimPrefix(text, kw))
	}
	return !strings.HasPrefix(text, "_")
}

func (l *Language) ExprClass(kindName string) lang.ExprClass {
	switch kindName {
	case "true", "false", "integer", "float", "string":
		return lang.ExprLiteral
	case "identifier":
		return lang.ExprIdentifier
	case "call":
		return lang.ExprCall
	case "attribute":
		return lang.ExprFieldAccess
	case "subscript":
		return lang.ExprIndex
	case "block":
		return lang.ExprBlock
	case "if_statement":
		return lang.ExprIf
	case "tuple":
		return lang.ExprTuple
	case "list":
		return lang.ExprArray
	case "binary_operator", "unary_operator", "boolean_operator", "comparison_operator":
		return lang.ExprBinaryOrUnary
	default:
		return lang.ExprOther
	}
}

func (l *Language) LiteralPrimitive(kindName string) (string, bool) {
	switch kindName {
	case "true", "false":
		return "bool", true
	case "integer":
		return "int", true
	case "float":
		return "float", true
	case "string":
		return "str", true
	default:
		return "", false
	}
}

func (l *Language) Roles() lang.ExprRoles {
	return lang.ExprRoles{
		CallTarget: "function",
		FieldOwner: "object",
		FieldName:  "attribute",
		IndexOwner: "value",
		IfThen:     "consequence",
		SelfName:   "self",
	}
}

// PatternClass maps tree-sitter-python's pattern/expression node kinds that
// can appear on an assignment's left-hand side to the shapes pattern
// binding understands. Python reuses its expression grammar for unpacking
// targets (a bare tuple/list expression doubles as a pattern), so these
// kinds overlap with ExprClass's tuple/array cases.
func (l *Language) PatternClass(kindName string) lang.PatternKind {
	switch kindName {
	case "pattern_list", "tuple_pattern", "tuple":
		return lang.PatternTuple
	case "list_pattern", "list":
		return lang.PatternArray
	case "list_splat_pattern":
		return lang.PatternStarred
	default:
		return lang.PatternOther
	}
}

func (l *Language) PatternRoles() lang.PatternRoles {
	return lang.PatternRoles{Inner: "value"}
}

func (l *Language) classify(n hir.ParseNode) (hir.PayloadKind, hir.ParseNode) {
	switch n.Kind() {
	case "function_definition", "class_definition":
		return hir.Scope, n.ChildByFieldName("name")
	case "assignment":
		return hir.Scope, n.ChildByFieldName("left")
	case "identifier":
		return hir.Identifier, nil
	case "string":
		return hir.Text, nil
	default:
		return hir.Internal, nil
	}
}

type grammar struct{ lang *Language }

func (g grammar) Classify(n hir.ParseNode) (hir.PayloadKind, hir.ParseNode) {
	return g.lang.classify(n)
}

func (g grammar) Parse(ctx context.Context, source []byte) (hir.ParseNode, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tspython.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	return hir.WrapTreeSitter(tree.RootNode()), nil
}
