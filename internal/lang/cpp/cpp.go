// Package cpp is the C/C++ front end. Declarator nesting (pointer,
// reference, function declarators wrapping a bare identifier) means the
// declared name usually isn't a direct named child the way rust's or
// typescript's is, so unwrapDeclarator walks the "declarator" field chain
// down to the innermost identifier -- an approximation of a full
// declarator parse, sufficient for naming the symbol.
package cpp

import (
	"bytes"
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	tscpp "github.com/smacker/go-tree-sitter/cpp"

	"github.com/semgraph/semgraph/internal/build"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

type declSpec struct {
	field       string
	unwrap      bool
	rule        lang.DeclRule
}

// Language implements lang.Language for cpp.
type Language struct {
	decls map[string]declSpec
}

// New builds the cpp language front end.
func New() *Language {
	return &Language{
		decls: map[string]declSpec{
			"function_definition":   {"declarator", true, lang.DeclRule{SymbolKind: scope.Function, ScopeKind: "function", FormsScope: true}},
			"class_specifier":       {"name", false, lang.DeclRule{SymbolKind: scope.Class, ScopeKind: "class", FormsScope: true}},
			"struct_specifier":      {"name", false, lang.DeclRule{SymbolKind: scope.Struct, ScopeKind: "struct", FormsScope: true}},
			"namespace_definition":  {"name", false, lang.DeclRule{SymbolKind: scope.Namespace, ScopeKind: "namespace", FormsScope: true}},
			"enum_specifier":        {"name", false, lang.DeclRule{SymbolKind: scope.Enum, ScopeKind: "enum", FormsScope: true}},
			"parameter_declaration": {"declarator", true, lang.DeclRule{SymbolKind: scope.Variable, FormsScope: false}},
			"field_declaration":     {"declarator", true, lang.DeclRule{SymbolKind: scope.Field, FormsScope: false}},
			"declaration":           {"declarator", true, lang.DeclRule{SymbolKind: scope.Variable, FormsScope: false}},
		},
	}
}

func (l *Language) Name() string { return "cpp" }

func (l *Language) Grammar() build.Grammar { return grammar{l} }

func (l *Language) Primitives() []string {
	return []string{"void", "bool", "char", "short", "int", "long", "float", "double", "unsigned", "signed", "size_t", "auto"}
}

func (l *Language) DeclRule(kindName string) (lang.DeclRule, bool) {
	spec, ok := l.decls[kindName]
	if !ok {
		return lang.DeclRule{}, false
	}
	return spec.rule, true
}

func (l *Language) AnonymousScope(kindName string) bool { return false }

// IsExported treats everything with external linkage (i.e. not declared
// `static`) as exported; C++ doesn't gate visibility per-declaration the
// way rust's `pub` or typescript's `export` do.
func (l *Language) IsExported(tree *hir.Tree, node hir.Node, source []byte) bool {
	end := node.End
	if len(node.Children) > 0 {
		end = tree.MustNode(node.Children[0]).Start
	}
	if end > uint32(len(source)) || node.Start > end {
		return true
	}
	return !bytes.Contains(source[node.Start:end], []byte("static"))
}

func (l *Language) ExprClass(kindName string) lang.ExprClass {
	switch kindName {
	case "true", "false", "number_literal", "string_literal", "char_literal":
		return lang.ExprLiteral
	case "identifier", "field_identifier", "namespace_identifier", "type_identifier":
		return lang.ExprIdentifier
	case "call_expression":
		return lang.ExprCall
	case "field_expression":
		return lang.ExprFieldAccess
	case "subscript_expression":
		return lang.ExprIndex
	case "compound_statement":
		return lang.ExprBlock
	case "if_statement":
		return lang.ExprIf
	case "initializer_list":
		return lang.ExprTuple
	case "binary_expression", "unary_expression":
		return lang.ExprBinaryOrUnary
	default:
		return lang.ExprOther
	}
}

func (l *Language) LiteralPrimitive(kindName string) (string, bool) {
	switch kindName {
	case "true", "false":
		return "bool", true
	case "number_literal":
		return "int", true
	case "string_literal":
		return "char", true
	case "char_literal":
		return "char", true
	default:
		return "", false
	}
}

func (l *Language) Roles() lang.ExprRoles {
	return lang.ExprRoles{
		CallTarget: "function",
		FieldOwner: "argument",
		FieldName:  "field",
		IndexOwner: "argument",
		IfThen:     "consequence",
	}
}

// PatternClass always reports PatternOther: none of cpp's DeclRule entries
// set PatternField, so pattern binding never looks at a cpp declaration's
// name position (structured bindings, `auto [a, b] = p;`, aren't modeled).
func (l *Language) PatternClass(string) lang.PatternKind { return lang.PatternOther }

func (l *Language) PatternRoles() lang.PatternRoles { return lang.PatternRoles{} }

// unwrapDeclarator walks a declarator chain (pointer_declarator,
// reference_declarator, function_declarator, ...) down to the innermost
// identifier, following each level's own "declarator" field.
func unwrapDeclarator(n hir.ParseNode) hir.ParseNode {
	cur := n
	for cur != nil {
		switch cur.Kind() {
		case "identifier", "field_identifier", "destructor_name", "operator_name":
			return cur
		}
		next := cur.ChildByFieldName("declarator")
		if next == nil {
			return cur
		}
		cur = next
	}
	return n
}

func (l *Language) classify(n hir.ParseNode) (hir.PayloadKind, hir.ParseNode) {
	kind := n.Kind()
	if spec, ok := l.decls[kind]; ok {
		target := n.ChildByFieldName(spec.field)
		if spec.unwrap && target != nil {
			target = unwrapDeclarator(target)
		}
		return hir.Scope, target
	}
	switch kind {
	case "identifier", "field_identifier", "namespace_identifier", "type_identifier":
		return hir.Identifier, nil
	case "string_literal":
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
	parser.SetLanguage(tscpp.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	return hir.WrapTreeSitter(tree.RootNode()), nil
}
