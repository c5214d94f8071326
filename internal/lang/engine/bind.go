package engine

import (
	"github.com/semgraph/semgraph/internal/bind/pattern"
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

// typeFieldRoles are the field roles, conventional across the grammars in
// use, that mark a child as a declaration's type annotation (a let
// binding's `: Type`, a parameter's type, a function's return type).
var typeFieldRoles = map[string]bool{"type": true, "return_type": true}

// Bind runs reference resolution (spec.md §4.H) over one unit's HIR tree,
// once every unit has been Collected: every unresolved Identifier node is
// looked up against the lexical scope stack (rebuilt by re-entering each
// hir.Scope node's already-collected Scope), resolved where possible,
// parked on the unresolved queue otherwise, and field-access expressions
// are resolved through the owner's inferred type rather than the lexical
// stack. Safe to run concurrently across units.
func Bind(ctx *compilectx.Context, language lang.Language, unit *compilectx.Unit) error {
	tree := unit.Tree
	if tree == nil {
		return nil
	}

	stack := scope.NewStack(ctx.Scopes, unit.Index)
	stack.Push(unit.FileScope)
	roles := language.Roles()

	// receiver tracks the nearest enclosing class/struct symbol, for
	// resolving a method's implicit receiver (roles.SelfName) without it
	// ever having been declared as a real parameter symbol.
	var receiver []ids.SymbolID

	var walk func(id ids.HirID)
	walk = func(id ids.HirID) {
		node := tree.MustNode(id)

		switch node.Payload {
		case hir.Scope:
			if node.ScopePay.Scope != ids.NoScope {
				stack.Push(node.ScopePay.Scope)
				defer stack.Pop()
			}
			if sym, ok := unit.Decls[node.ID]; ok {
				if s, ok := ctx.Scopes.Symbol(sym); ok && (s.Kind == scope.Class || s.Kind == scope.Struct) {
					receiver = append(receiver, sym)
					defer func() { receiver = receiver[:len(receiver)-1] }()
				}
			}
		case hir.Identifier:
			bindIdentifier(ctx, language, stack, tree, unit, node)
		case hir.Internal:
			if anon, ok := unit.AnonScopes[node.ID]; ok {
				stack.Push(anon)
				defer stack.Pop()
			}
			kindName, _ := ctx.Interner.Resolve(node.KindID)
			if language.ExprClass(kindName) == lang.ExprFieldAccess {
				bindFieldAccess(ctx, language, stack, tree, unit, roles, node, receiverOf(receiver))
			}
		}

		for _, c := range node.Children {
			walk(c)
		}

		// Initializer inference runs after the declaration's own children
		// are fully walked, so a call/identifier in the initializer (e.g.
		// `let y = math::identity(5);`) is already bound by the time Infer
		// looks at it.
		if node.Payload == hir.Scope {
			bindInitializer(ctx, language, stack, tree, unit, node)
		}
	}

	walk(tree.Root)
	return nil
}

func receiverOf(stack []ids.SymbolID) ids.SymbolID {
	if len(stack) == 0 {
		return ids.NoSymbol
	}
	return stack[len(stack)-1]
}

func bindIdentifier(ctx *compilectx.Context, language lang.Language, stack *scope.Stack, tree *hir.Tree, unit *compilectx.Unit, node hir.Node) {
	if node.Ident.Symbol != ids.NoSymbol {
		return
	}

	roles := language.Roles()
	filter := scope.Any
	if fieldName, ok := ctx.Interner.Resolve(node.FieldID); ok {
		if fieldName == roles.CallTarget {
			filter = scope.CallableKinds
		} else if typeFieldRoles[fieldName] {
			filter = scope.TypeKinds
		}
	}

	if roles.PathQualifier != "" && roles.PathSegment != "" {
		if path, finalSeg, ok := qualifiedPath(ctx, tree, node, roles); ok {
			resolved := stack.LookupQualified(path, filter)
			final := resolveOrDefer(ctx, language, tree, unit, node, path, filter, resolved)
			if finalSeg.ID != node.ID && finalSeg.Ident.Symbol == ids.NoSymbol {
				tree.ResolveIdent(finalSeg.ID, final)
			}
			return
		}
	}

	resolved := stack.LookupOne(node.Ident.Name, filter)
	resolveOrDefer(ctx, language, tree, unit, node, []intern.Name{node.Ident.Name}, filter, resolved)
}

// qualifiedPath decomposes a multi-segment qualified-path identifier node
// (rust's scoped_identifier/scoped_type_identifier) into its segment names
// in source order, plus the HIR node holding its own final segment. Reports
// ok only when node actually has both a PathQualifier and a PathSegment
// child -- an ordinary identifier never does, so the single-segment
// fallback in bindIdentifier still applies to it.
func qualifiedPath(ctx *compilectx.Context, tree *hir.Tree, node hir.Node, roles lang.ExprRoles) ([]intern.Name, hir.Node, bool) {
	segment, ok := childWithRole(ctx, tree, node, roles.PathSegment)
	if !ok || segment.Payload != hir.Identifier {
		return nil, hir.Node{}, false
	}
	qualifier, ok := childWithRole(ctx, tree, node, roles.PathQualifier)
	if !ok {
		return nil, hir.Node{}, false
	}
	path := append(flattenPath(ctx, tree, qualifier, roles), segment.Ident.Name)
	return path, segment, true
}

// flattenPath recursively decomposes a qualified-path prefix into its
// individual segments: a nested scoped_identifier ("a::b" in "a::b::c") is
// itself a qualified path rather than one opaque segment.
func flattenPath(ctx *compilectx.Context, tree *hir.Tree, node hir.Node, roles lang.ExprRoles) []intern.Name {
	if path, _, ok := qualifiedPath(ctx, tree, node, roles); ok {
		return path
	}
	if node.Payload == hir.Identifier {
		return []intern.Name{node.Ident.Name}
	}
	return nil
}

func bindFieldAccess(ctx *compilectx.Context, language lang.Language, stack *scope.Stack, tree *hir.Tree, unit *compilectx.Unit, roles lang.ExprRoles, node hir.Node, receiver ids.SymbolID) {
	member, ok := childWithRole(ctx, tree, node, roles.FieldName)
	if !ok || member.Payload != hir.Identifier || member.Ident.Symbol != ids.NoSymbol {
		return
	}
	owner, ok := childWithRole(ctx, tree, node, roles.FieldOwner)
	if !ok {
		return
	}

	var ownerType ids.SymbolID
	if roles.SelfName != "" && receiver != ids.NoSymbol && owner.Payload == hir.Identifier && isSelfIdent(ctx, owner, roles.SelfName) {
		// owner is the method's implicit receiver (e.g. python's "self"),
		// never declared as a real parameter symbol -- its type is the
		// enclosing class/struct rather than anything the scope stack
		// could look up.
		ownerType = receiver
		tree.ResolveIdent(owner.ID, receiver)
	} else {
		ownerType = Infer(ctx, language, stack, tree, owner, 0)
	}

	var resolved ids.SymbolID
	if ownerType != ids.NoSymbol {
		resolved = stack.LookupMember(ownerType, member.Ident.Name, scope.Any)
	}
	resolveOrDefer(ctx, language, tree, unit, member, []intern.Name{member.Ident.Name}, scope.Any, resolved)
}

// isSelfIdent reports whether ident's interned name is the language's
// conventional receiver name (roles.SelfName).
func isSelfIdent(ctx *compilectx.Context, ident hir.Node, selfName string) bool {
	name, ok := ctx.Interner.Resolve(ident.Ident.Name)
	return ok && name == selfName
}

// resolveOrDefer records a resolved symbol on node, or -- if resolution
// failed -- allocates an unresolved placeholder and enqueues the site for
// the linker (spec.md §4.K) to retry once every unit has been bound. Returns
// whichever symbol (real or placeholder) ended up on node.
func resolveOrDefer(ctx *compilectx.Context, language lang.Language, tree *hir.Tree, unit *compilectx.Unit, node hir.Node, path []intern.Name, filter scope.KindSet, resolved ids.SymbolID) ids.SymbolID {
	if resolved == ids.NoSymbol {
		placeholder := ctx.Scopes.NewSymbol(scope.Symbol{
			Name:      node.Ident.Name,
			Kind:      scope.UnresolvedType,
			TypeOf:    ids.NoSymbol,
			UnitIndex: unit.Index,
		})
		tree.ResolveIdent(node.ID, placeholder)
		ctx.Unresolved.Enqueue(compilectx.Site{
			Unit:        unit.Index,
			Node:        node.ID,
			Path:        path,
			Filter:      filter,
			Placeholder: placeholder,
		})
		resolved = placeholder
	} else {
		tree.ResolveIdent(node.ID, resolved)
	}
	wireTypeOf(ctx, language, tree, unit, node, resolved)
	return resolved
}

// wireTypeOf, if node is itself a declaration's type-annotation child,
// propagates the annotation's resolved symbol onto the declaring symbol or
// pattern (spec.md §4.H "type-of wiring for fields/params/functions").
func wireTypeOf(ctx *compilectx.Context, language lang.Language, tree *hir.Tree, unit *compilectx.Unit, node hir.Node, resolved ids.SymbolID) {
	fieldName, ok := ctx.Interner.Resolve(node.FieldID)
	if !ok || !typeFieldRoles[fieldName] {
		return
	}
	propagateDeclaredType(ctx, language, tree, unit, node.Parent, resolved)
}

// propagateDeclaredType sets declID's declared symbol's TypeOf to resolved
// (spec.md §4.H), or -- if declID's name position held a destructuring
// pattern instead of a bare identifier (so Collect deferred to
// pattern.Declare rather than minting one symbol) -- propagates resolved
// through that pattern instead (spec.md §4.J). Used both for an explicit
// type annotation (keyed off the annotation node's parent) and for a type
// inferred from a declaration's initializer (keyed off the declaration
// node itself).
func propagateDeclaredType(ctx *compilectx.Context, language lang.Language, tree *hir.Tree, unit *compilectx.Unit, declID ids.HirID, resolved ids.SymbolID) {
	if declSym, ok := unit.Decls[declID]; ok {
		ctx.Scopes.SetTypeOf(declSym, resolved)
		return
	}

	declNode := tree.MustNode(declID)
	declKind, _ := ctx.Interner.Resolve(declNode.KindID)
	rule, ok := language.DeclRule(declKind)
	if !ok || rule.PatternField == "" {
		return
	}
	if patternChild, ok := childWithRole(ctx, tree, declNode, rule.PatternField); ok {
		pattern.Bind(ctx, language, tree, patternChild, resolved)
	}
}

// hasTypeAnnotation reports whether decl already carries an explicit type
// annotation child. SetTypeOf is write-once, but guarding here makes the
// precedence explicit rather than relying on walk order: an annotation
// always wins over an inferred initializer type.
func hasTypeAnnotation(ctx *compilectx.Context, tree *hir.Tree, decl hir.Node) bool {
	for _, c := range decl.Children {
		child := tree.MustNode(c)
		if fieldName, ok := ctx.Interner.Resolve(child.FieldID); ok && typeFieldRoles[fieldName] {
			return true
		}
	}
	return false
}

// bindInitializer infers a `let`-style declaration's type from its
// initializer expression when no explicit annotation is present (spec.md
// §4.H/I), propagating the inferred type the same way an explicit
// annotation's resolved symbol would be. Pure lookup over the already-bound
// initializer subtree; no-op for decl kinds with no InitField (or cpp's
// declarator-wrapped initializer, which InitField leaves unset).
func bindInitializer(ctx *compilectx.Context, language lang.Language, stack *scope.Stack, tree *hir.Tree, unit *compilectx.Unit, decl hir.Node) {
	declKind, _ := ctx.Interner.Resolve(decl.KindID)
	rule, ok := language.DeclRule(declKind)
	if !ok || rule.InitField == "" || hasTypeAnnotation(ctx, tree, decl) {
		return
	}
	initNode, ok := childWithRole(ctx, tree, decl, rule.InitField)
	if !ok {
		return
	}
	inferred := inferInitializerType(ctx, language, stack, tree, initNode)
	if inferred == ids.NoSymbol {
		return
	}
	propagateDeclaredType(ctx, language, tree, unit, decl.ID, inferred)
}

// inferInitializerType is Infer plus one extra case: a tuple/array literal
// initializer (`let (a, b) = (1, "x");`) builds an anonymous
// scope.CompositeType symbol carrying each element's own inferred type as
// NestedTypes, so pattern.Bind can zip per-element types onto a
// destructuring pattern instead of collapsing the whole initializer to one
// type (spec.md §4.J "propagate the inferred element types onto a
// destructuring pattern in lockstep").
func inferInitializerType(ctx *compilectx.Context, language lang.Language, stack *scope.Stack, tree *hir.Tree, node hir.Node) ids.SymbolID {
	kindName, _ := ctx.Interner.Resolve(node.KindID)
	switch language.ExprClass(kindName) {
	case lang.ExprTuple, lang.ExprArray:
		if len(node.Children) == 0 {
			return ids.NoSymbol
		}
		nested := make([]ids.SymbolID, 0, len(node.Children))
		for _, cid := range node.Children {
			nested = append(nested, Infer(ctx, language, stack, tree, tree.MustNode(cid), 0))
		}
		return ctx.Scopes.NewSymbol(scope.Symbol{
			Kind:        scope.CompositeType,
			TypeOf:      ids.NoSymbol,
			NestedTypes: nested,
		})
	default:
		return Infer(ctx, language, stack, tree, node, 0)
	}
}
