// Package typescript is the typescript/javascript front end. Declaration
// and expression-class tables follow the same shape as internal/lang/rust,
// adapted to tree-sitter-typescript's node kinds.
package typescript

import (
	"bytes"
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	tsts "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/semgraph/semgraph/internal/build"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

type declSpec struct {
	field string
	rule  lang.DeclRule
}

// Language implements lang.Language for typescript.
type Language struct {
	decls map[string]declSpec
}

// New builds the typescript language front end.
func New() *Language {
	return &Language{
		decls: map[string]declSpec{
			"function_declaration":    {"name", lang.DeclRule{SymbolKind: scope.Function, ScopeKind: "function", FormsScope: true}},
			"class_declaration":       {"name", lang.DeclRule{SymbolKind: scope.Class, ScopeKind: "class", FormsScope: true}},
			"interface_declaration":   {"name", lang.DeclRule{SymbolKind: scope.Interface, ScopeKind: "interface", FormsScope: true}},
			"method_definition":       {"name", lang.DeclRule{SymbolKind: scope.Method, ScopeKind: "function", FormsScope: true}},
			"enum_declaration":        {"name", lang.DeclRule{SymbolKind: scope.Enum, ScopeKind: "enum", FormsScope: true}},
			"type_alias_declaration":  {"name", lang.DeclRule{SymbolKind: scope.TypeAlias, FormsScope: false}},
			"variable_declarator":     {"name", lang.DeclRule{SymbolKind: scope.Variable, FormsScope: false, PatternField: "name", InitField: "value"}},
			"required_parameter":      {"pattern", lang.DeclRule{SymbolKind: scope.Variable, FormsScope: false, PatternField: "pattern"}},
			"optional_parameter":      {"pattern", lang.DeclRule{SymbolKind: scope.Variable, FormsScope: false, PatternField: "pattern"}},
			"public_field_definition": {"name", lang.DeclRule{SymbolKind: scope.Field, FormsScope: false}},
		},
	}
}

func (l *Language) Name() string { return "typescript" }

func (l *Language) Grammar() build.Grammar { return grammar{l} }

func (l *Language) Primitives() []string {
	return []string{"number", "string", "boolean", "any", "void", "undefined", "null", "object", "symbol", "bigint", "unknown", "never"}
}

func (l *Language) DeclRule(kindName string) (lang.DeclRule, bool) {
	spec, ok := l.decls[kindName]
	if !ok {
		return lang.DeclRule{}, false
	}
	return spec.rule, true
}

func (l *Language) AnonymousScope(kindName string) bool { return false }

// IsExported reports whether the declaration's leading span contains the
// `export` keyword.
func (l *Language) IsExported(tree *hir.Tree, node hir.Node, source []byte) bool {
	end := node.End
	if len(node.Children) > 0 {
		end = tree.MustNode(node.Children[0]).Start
	}
	if end > uint32(len(source)) || node.Start > end {
		return false
	}
	return bytes.Contains(source[node.Start:end], []byte("export"))
}

func (l *Language) ExprClass(kindName string) lang.ExprClass {
	switch kindName {
	case "number", "string", "true", "false":
		return lang.ExprLiteral
	case "identifier", "type_identifier", "property_identifier", "shorthand_property_identifier":
		return lang.ExprIdentifier
	case "call_expression", "new_expression":
		return lang.ExprCall
	case "member_expression":
		return lang.ExprFieldAccess
	case "subscript_expression":
		return lang.ExprIndex
	case "statement_block":
		return lang.ExprBlock
	case "if_statement":
		return lang.ExprIf
	case "array":
		return lang.ExprArray
	case "binary_expression", "unary_expression":
		return lang.ExprBinaryOrUnary
	default:
		return lang.ExprOther
	}
}

func (l *Language) LiteralPrimitive(kindName string) (string, bool) {
	switch kindName {
	case "number":
		return "number", true
	case "string":
		return "string", true
	case "true", "false":
		return "boolean", true
	default:
		return "", false
	}
}

func (l *Language) Roles() lang.ExprRoles {
	return lang.ExprRoles{
		CallTarget: "function",
		FieldOwner: "object",
		FieldName:  "property",
		IndexOwner: "object",
		IfThen:     "consequence",
	}
}

// PatternClass maps tree-sitter-typescript's destructuring-pattern node
// kinds to the shapes pattern binding understands.
func (l *Language) PatternClass(kindName string) lang.PatternKind {
	switch kindName {
	case "array_pattern":
		return lang.PatternArray
	case "object_pattern":
		return lang.PatternObject
	case "pair_pattern":
		return lang.PatternFieldEntry
	case "rest_pattern":
		return lang.PatternStarred
	case "assignment_pattern":
		return lang.PatternDefault
	default:
		return lang.PatternOther
	}
}

func (l *Language) PatternRoles() lang.PatternRoles {
	return lang.PatternRoles{FieldName: "key", FieldValue: "value", Inner: "left"}
}

func (l *Language) classify(n hir.ParseNode) (hir.PayloadKind, hir.ParseNode) {
	kind := n.Kind()
	if spec, ok := l.decls[kind]; ok {
		return hir.Scope, n.ChildByFieldName(spec.field)
	}
	switch kind {
	case "identifier", "type_identifier", "property_identifier", "shorthand_property_identifier":
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
	parser.SetLanguage(tsts.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	return hir.WrapTreeSitter(tree.RootNode()), nil
}
