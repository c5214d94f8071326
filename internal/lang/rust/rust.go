// Package rust is the rust front end: a tree-sitter grammar binding plus
// the declaration/expression tables internal/lang/engine drives. Grounded
// on original_source/crates/llmcc-rust/src/lang.rs's per-kind visitor
// dispatch (visit_function_item, visit_struct_item, visit_let_declaration,
// ...) and original_source/crates/llmcc-rust/src/infer.rs's
// HirKind-keyed infer_type match, both re-expressed here as declaration and
// expression-class tables instead of one function per node kind.
package rust

import (
	"bytes"
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	tsrust "github.com/smacker/go-tree-sitter/rust"

	"github.com/semgraph/semgraph/internal/build"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

type declSpec struct {
	field string
	rule  lang.DeclRule
}

// Language implements lang.Language for rust.
type Language struct {
	decls map[string]declSpec
}

// New builds the rust language front end.
func New() *Language {
	return &Language{
		decls: map[string]declSpec{
			"function_item":          {"name", lang.DeclRule{SymbolKind: scope.Function, ScopeKind: "function", FormsScope: true}},
			"function_signature_item": {"name", lang.DeclRule{SymbolKind: scope.Function, ScopeKind: "function", FormsScope: true}},
			"struct_item":             {"name", lang.DeclRule{SymbolKind: scope.Struct, ScopeKind: "struct", FormsScope: true}},
			"enum_item":               {"name", lang.DeclRule{SymbolKind: scope.Enum, ScopeKind: "enum", FormsScope: true}},
			"trait_item":              {"name", lang.DeclRule{SymbolKind: scope.Trait, ScopeKind: "trait", FormsScope: true}},
			"mod_item":                {"name", lang.DeclRule{SymbolKind: scope.Module, ScopeKind: "module", FormsScope: true}},
			"type_item":               {"name", lang.DeclRule{SymbolKind: scope.TypeAlias, ScopeKind: "type_alias", FormsScope: false}},
			"const_item":              {"name", lang.DeclRule{SymbolKind: scope.Const, FormsScope: false}},
			"static_item":             {"name", lang.DeclRule{SymbolKind: scope.Static, FormsScope: false}},
			"let_declaration":         {"pattern", lang.DeclRule{SymbolKind: scope.Variable, FormsScope: false, PatternField: "pattern", InitField: "value"}},
			"parameter":               {"pattern", lang.DeclRule{SymbolKind: scope.Variable, FormsScope: false, PatternField: "pattern"}},
			"field_declaration":       {"name", lang.DeclRule{SymbolKind: scope.Field, FormsScope: false}},
			"enum_variant":            {"name", lang.DeclRule{SymbolKind: scope.EnumVariant, FormsScope: false}},
		},
	}
}

func (l *Language) Name() string { return "rust" }

func (l *Language) Grammar() build.Grammar { return grammar{l} }

func (l *Language) Primitives() []string {
	return []string{
		"bool", "char", "str", "String",
		"i8", "i16", "i32", "i64", "i128", "isize",
		"u8", "u16", "u32", "u64", "u128", "usize",
		"f32", "f64", "()",
	}
}

func (l *Language) DeclRule(kindName string) (lang.DeclRule, bool) {
	spec, ok := l.decls[kindName]
	if !ok {
		return lang.DeclRule{}, false
	}
	return spec.rule, true
}

func (l *Language) AnonymousScope(kindName string) bool {
	return kindName == "impl_item"
}

// IsExported reports whether the declaration's leading span (before its
// first named child) contains the `pub` keyword, grounded on
// tree-sitter-rust's visibility_modifier being an unnamed leading sibling
// rather than a named field.
func (l *Language) IsExported(tree *hir.Tree, node hir.Node, source []byte) bool {
	end := node.End
	if len(node.Children) > 0 {
		end = tree.MustNode(node.Children[0]).Start
	}
	if end > uint32(len(source)) || node.Start > end {
		return false
	}
	return bytes.Contains(source[node.Start:end], []byte("pub"))
}

func (l *Language) ExprClass(kindName string) lang.ExprClass {
	switch kindName {
	case "boolean_literal", "integer_literal", "float_literal", "char_literal", "string_literal":
		return lang.ExprLiteral
	case "identifier", "type_identifier", "field_identifier", "primitive_type", "scoped_identifier", "scoped_type_identifier":
		return lang.ExprIdentifier
	case "call_expression":
		return lang.ExprCall
	case "field_expression":
		return lang.ExprFieldAccess
	case "index_expression":
		return lang.ExprIndex
	case "block":
		return lang.ExprBlock
	case "if_expression", "if_let_expression":
		return lang.ExprIf
	case "tuple_expression":
		return lang.ExprTuple
	case "array_expression":
		return lang.ExprArray
	case "binary_expression", "unary_expression", "reference_expression":
		return lang.ExprBinaryOrUnary
	default:
		return lang.ExprOther
	}
}

func (l *Language) LiteralPrimitive(kindName string) (string, bool) {
	switch kindName {
	case "boolean_literal":
		return "bool", true
	case "integer_literal":
		return "i32", true
	case "float_literal":
		return "f64", true
	case "char_literal":
		return "char", true
	case "string_literal":
		return "str", true
	default:
		return "", false
	}
}

func (l *Language) Roles() lang.ExprRoles {
	return lang.ExprRoles{
		CallTarget:    "function",
		FieldOwner:    "value",
		FieldName:     "field",
		IndexOwner:    "value",
		IfThen:        "consequence",
		ImplType:      "type",
		ImplTrait:     "trait",
		PathQualifier: "path",
		PathSegment:   "name",
	}
}

// PatternClass maps tree-sitter-rust's pattern node kinds to the shapes
// pattern binding understands.
func (l *Language) PatternClass(kindName string) lang.PatternKind {
	switch kindName {
	case "tuple_pattern", "tuple_struct_pattern":
		return lang.PatternTuple
	case "slice_pattern":
		return lang.PatternArray
	case "struct_pattern":
		return lang.PatternObject
	case "field_pattern":
		return lang.PatternFieldEntry
	case "or_pattern":
		return lang.PatternOr
	case "reference_pattern", "mut_pattern":
		return lang.PatternReference
	case "remaining_field_pattern", "rest_pattern":
		return lang.PatternStarred
	default:
		return lang.PatternOther
	}
}

func (l *Language) PatternRoles() lang.PatternRoles {
	return lang.PatternRoles{FieldName: "name", FieldValue: "pattern", Inner: "pattern"}
}

// classify maps a tree-sitter-rust node to its HIR payload. Declaration
// kinds become hir.Scope (the engine decides, from DeclRule, whether they
// also form a lexical scope); plain name references become hir.Identifier;
// string content becomes hir.Text; everything else is structural.
func (l *Language) classify(n hir.ParseNode) (hir.PayloadKind, hir.ParseNode) {
	kind := n.Kind()
	if spec, ok := l.decls[kind]; ok {
		return hir.Scope, n.ChildByFieldName(spec.field)
	}
	switch kind {
	case "identifier", "type_identifier", "field_identifier", "primitive_type":
		return hir.Identifier, nil
	case "scoped_identifier", "scoped_type_identifier":
		return hir.Identifier, n.ChildByFieldName("name")
	case "string_literal", "raw_string_literal":
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
	parser.SetLanguage(tsrust.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	return hir.WrapTreeSitter(tree.RootNode()), nil
}
