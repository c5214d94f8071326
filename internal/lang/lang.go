// Package lang defines the per-language capability set that the collector,
// binder and type-inference engines (internal/lang/engine) drive generically,
// and registers the four supported front ends (rust, typescript, cpp,
// python). Grounded on the teacher's single-language
// analyzer.GolangAnalyzer (scope hierarchy then declarations then
// expressions, all keyed off go/ast node types) and on
// original_source/crates/llmcc-rust/src/lang.rs's per-kind visitor dispatch
// (visit_function_item, visit_struct_item, ...), generalized here into a
// declaration-rule table keyed by interned grammar-kind name instead of one
// hardcoded visitor per language.
package lang

import (
	"github.com/semgraph/semgraph/internal/build"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/scope"
)

// DeclRule describes what a single HIR Scope-payload node kind (e.g.
// "function_item", "class_definition") means to the collector: which
// scope.Kind the declared symbol gets and whether the node also introduces
// a new lexical scope that its children are collected/bound within.
type DeclRule struct {
	SymbolKind scope.Kind
	ScopeKind  string // tag stored on the new scope.Scope, e.g. "function"
	FormsScope bool

	// PatternField is the field role under the decl node that holds its
	// name, when that position can carry a destructuring pattern rather
	// than a bare identifier (a let binding's LHS, a parameter, a JS
	// variable_declarator's name). Empty for decl kinds whose name is
	// always a simple identifier (functions, types, modules).
	PatternField string

	// InitField is the field role under the decl node that holds its
	// initializer expression (a let binding's RHS, e.g. rust's
	// let_declaration "value", python's assignment "right"). When the decl
	// carries no explicit type annotation, the bind engine infers one from
	// this child and propagates it onto the declared symbol/pattern the same
	// way an explicit annotation would. Empty for decl kinds with no
	// initializer position, or where the kind's nesting doesn't expose one
	// directly (cpp's declarator-wrapped init_declarator).
	InitField string
}

// Language is the capability set a front end provides. The engine package
// never branches on a language name; it only calls through this interface.
type Language interface {
	// Name is the config/unit Lang tag, e.g. "rust".
	Name() string

	// Grammar parses source and classifies parse nodes into HIR payloads
	// (component F).
	Grammar() build.Grammar

	// Primitives lists the built-in type names seeded into the global scope
	// before any unit is collected (e.g. "i32", "bool", "str" for rust).
	Primitives() []string

	// DeclRule reports how a HIR node of the given grammar kind should be
	// collected, if it declares anything at all.
	DeclRule(kindName string) (DeclRule, bool)

	// AnonymousScope reports whether a node of the given grammar kind
	// introduces a lexical scope without declaring a symbol of its own
	// (e.g. rust's impl_item, which extends an existing type).
	AnonymousScope(kindName string) bool

	// IsExported reports whether a declared symbol is visible outside its
	// declaring unit (spec.md §4.G "globals/visibility rules"). Languages
	// differ enough here (pub keyword, export keyword, leading underscore,
	// header-file visibility) that this can't be table-driven.
	IsExported(tree *hir.Tree, node hir.Node, source []byte) bool

	// ExprClass classifies an expression-position grammar kind for type
	// inference (spec.md §4.I); ExprOther nodes are opaque structure the
	// inferer skips over.
	ExprClass(kindName string) ExprClass

	// LiteralPrimitive maps a literal grammar kind (e.g. "integer_literal")
	// to the primitive type name it evaluates to (e.g. "i32" in rust,
	// "int" in python).
	LiteralPrimitive(kindName string) (string, bool)

	// Roles names the field roles the inference/bind engine needs to pick
	// apart call/field-access/conditional expressions.
	Roles() ExprRoles

	// PatternClass classifies a destructuring-pattern grammar kind for
	// pattern binding (spec.md §4.J); PatternOther nodes are opaque and
	// recursed into structurally.
	PatternClass(kindName string) PatternKind

	// PatternRoles names the field roles pattern binding needs to
	// decompose object-pattern field entries and unwrap reference/
	// starred/default wrapper patterns.
	PatternRoles() PatternRoles
}

// ExprClass is the inference-relevant shape of an expression node.
type ExprClass int

const (
	ExprOther ExprClass = iota
	ExprLiteral
	ExprIdentifier
	ExprCall
	ExprFieldAccess
	ExprBinaryOrUnary
	ExprBlock
	ExprIf
	ExprTuple
	ExprArray
	ExprIndex
)

// ExprRoles names the field roles used to decompose expression nodes whose
// meaning depends on which child is which, per language grammar.
type ExprRoles struct {
	CallTarget string // call_expression's callee, e.g. "function"
	FieldOwner string // field/attribute access's receiver, e.g. "object", "value"
	FieldName  string // field/attribute access's member name field, e.g. "field", "attribute"
	IndexOwner string // subscript/index expression's receiver
	IfThen     string // if-expression's consequence/then branch

	// ImplType and ImplTrait name the field roles, under an
	// AnonymousScope node, that hold the type being extended and (if
	// present) the trait being implemented -- rust's impl_item "type"/
	// "trait" fields. Empty for languages with no such construct (block
	// graph building then skips ImplFor/HasImpl wiring for that node).
	ImplType  string
	ImplTrait string

	// SelfName is the conventional identifier a method's receiver binds to
	// (python's "self"), never declared as a real parameter symbol since
	// languages like python never wrap it in a dedicated parameter node.
	// A field access whose owner is this identifier infers the enclosing
	// class/struct symbol directly instead of going through the scope
	// stack. Empty for languages with no such implicit receiver.
	SelfName string

	// PathQualifier and PathSegment name the field roles, on a multi-segment
	// qualified-path identifier node (rust's scoped_identifier/
	// scoped_type_identifier: "path"/"name"), that hold the path's prefix
	// and its own final segment. Empty for languages with no such construct
	// -- bindIdentifier then resolves the node as an ordinary single-segment
	// name, as before.
	PathQualifier string
	PathSegment   string
}

// PatternKind classifies a destructuring-pattern node for pattern binding
// (spec.md §4.J).
type PatternKind int

const (
	PatternOther PatternKind = iota
	PatternIdentifier
	PatternTuple
	PatternArray
	PatternObject
	PatternFieldEntry
	PatternOr
	PatternReference
	PatternStarred
	PatternDefault
)

// PatternRoles names the field roles used to decompose an object pattern's
// field entries and to unwrap reference/starred/default wrapper patterns
// down to the sub-pattern they wrap.
type PatternRoles struct {
	FieldName  string // a field entry's field-name child, e.g. "name", "key"
	FieldValue string // a field entry's bound sub-pattern child; empty for shorthand
	Inner      string // reference/starred/default pattern's wrapped sub-pattern field
}

// Registry looks up a Language by its config tag.
type Registry struct {
	byName map[string]Language
}

// NewRegistry builds a registry over the given languages, keyed by Name().
func NewRegistry(langs ...Language) *Registry {
	r := &Registry{byName: make(map[string]Language, len(langs))}
	for _, l := range langs {
		r.byName[l.Name()] = l
	}
	return r
}

// Lookup returns the language registered under name, if any.
func (r *Registry) Lookup(name string) (Language, bool) {
	l, ok := r.byName[name]
	return l, ok
}

// Grammars returns the build.Grammar for every registered language, keyed by
// name -- the shape compilectx.Context.BuildTrees expects.
func (r *Registry) Grammars() map[string]build.Grammar {
	out := make(map[string]build.Grammar, len(r.byName))
	for name, l := range r.byName {
		out[name] = l.Grammar()
	}
	return out
}

// Each calls fn for every registered language.
func (r *Registry) Each(fn func(Language)) {
	for _, l := range r.byName {
		fn(l)
	}
}
