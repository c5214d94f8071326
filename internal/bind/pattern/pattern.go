// Package pattern implements destructuring-pattern binding (spec.md §4.J):
// walking a tuple/array/object/or/reference/starred/default pattern in
// lockstep with a supplied "pattern type" symbol, either declaring the
// identifiers it binds (at collect time, before any type is known) or
// propagating a now-known container type onto those identifiers' symbols
// (at bind time). Grounded on
// original_source/crates/llmcc-py/src/pattern.rs's pattern walk, generalized
// from python's match-statement patterns to every supported language's
// destructuring binding forms via the lang.Language capability set the rest
// of internal/lang/engine drives.
package pattern

import (
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

// Declare walks a pattern subtree at collect time, creating or finding a
// symbol for every identifier it binds. No type is known yet -- Bind fills
// TypeOf in later, once the container type is available.
func Declare(ctx *compilectx.Context, language lang.Language, stack *scope.Stack, tree *hir.Tree, unit *compilectx.Unit, root hir.Node, owner ids.HirID, isGlobal bool, fqnPrefix string) {
	roles := language.PatternRoles()

	switch classify(ctx, language, root) {
	case lang.PatternIdentifier:
		declareIdentifier(ctx, stack, tree, unit, root, owner, isGlobal, fqnPrefix)

	case lang.PatternOr, lang.PatternTuple, lang.PatternArray:
		for _, cid := range root.Children {
			Declare(ctx, language, stack, tree, unit, tree.MustNode(cid), owner, isGlobal, fqnPrefix)
		}

	case lang.PatternReference, lang.PatternStarred, lang.PatternDefault:
		if inner, ok := childWithRole(ctx, tree, root, roles.Inner); ok {
			Declare(ctx, language, stack, tree, unit, inner, owner, isGlobal, fqnPrefix)
			return
		}
		for _, cid := range root.Children {
			Declare(ctx, language, stack, tree, unit, tree.MustNode(cid), owner, isGlobal, fqnPrefix)
		}

	case lang.PatternObject:
		for _, cid := range root.Children {
			declareFieldEntry(ctx, language, stack, tree, unit, tree.MustNode(cid), owner, isGlobal, fqnPrefix, roles)
		}

	default:
		if root.Payload == hir.Identifier {
			declareIdentifier(ctx, stack, tree, unit, root, owner, isGlobal, fqnPrefix)
			return
		}
		for _, cid := range root.Children {
			Declare(ctx, language, stack, tree, unit, tree.MustNode(cid), owner, isGlobal, fqnPrefix)
		}
	}
}

func declareFieldEntry(ctx *compilectx.Context, language lang.Language, stack *scope.Stack, tree *hir.Tree, unit *compilectx.Unit, entry hir.Node, owner ids.HirID, isGlobal bool, fqnPrefix string, roles lang.PatternRoles) {
	if entry.Payload == hir.Identifier {
		declareIdentifier(ctx, stack, tree, unit, entry, owner, isGlobal, fqnPrefix)
		return
	}
	if value, ok := childWithRole(ctx, tree, entry, roles.FieldValue); ok {
		Declare(ctx, language, stack, tree, unit, value, owner, isGlobal, fqnPrefix)
		return
	}
	if name, ok := childWithRole(ctx, tree, entry, roles.FieldName); ok {
		Declare(ctx, language, stack, tree, unit, name, owner, isGlobal, fqnPrefix)
		return
	}
	for _, cid := range entry.Children {
		Declare(ctx, language, stack, tree, unit, tree.MustNode(cid), owner, isGlobal, fqnPrefix)
	}
}

// declareIdentifier finds an existing symbol for node's name in the
// current scope (find_or_add), or creates one with no type yet.
func declareIdentifier(ctx *compilectx.Context, stack *scope.Stack, tree *hir.Tree, unit *compilectx.Unit, node hir.Node, owner ids.HirID, isGlobal bool, fqnPrefix string) {
	if node.Payload != hir.Identifier || node.Ident.Symbol != ids.NoSymbol {
		return
	}

	current := stack.Top()
	if existing := stack.LookupOne(node.Ident.Name, scope.Any); existing != ids.NoSymbol {
		if sym, ok := ctx.Scopes.Symbol(existing); ok && sym.OwningScope == current {
			tree.ResolveIdent(node.ID, existing)
			unit.Decls[node.ID] = existing
			return
		}
	}

	nameStr, _ := ctx.Interner.Resolve(node.Ident.Name)
	fqn := nameStr
	if fqnPrefix != "" {
		fqn = fqnPrefix + "." + nameStr
	}
	sym := ctx.Scopes.NewSymbol(scope.Symbol{
		Name:        node.Ident.Name,
		Kind:        scope.Variable,
		Owner:       owner,
		OwningScope: current,
		TypeOf:      ids.NoSymbol,
		IsGlobal:    isGlobal,
		UnitIndex:   unit.Index,
		FQN:         fqn,
	})
	tree.ResolveIdent(node.ID, sym)
	unit.Decls[node.ID] = sym
}

// Bind propagates patternType through a previously Declared pattern
// subtree, setting TypeOf on each bound identifier's symbol. TypeOf is
// write-once (internal/scope.Table.SetTypeOf), so this never overrides an
// already-set type, and assignType skips const-kind symbols outright --
// satisfying spec.md §4.J's "never overrides... const bindings are never
// overwritten".
func Bind(ctx *compilectx.Context, language lang.Language, tree *hir.Tree, root hir.Node, patternType ids.SymbolID) {
	if patternType == ids.NoSymbol {
		return
	}
	roles := language.PatternRoles()

	switch classify(ctx, language, root) {
	case lang.PatternIdentifier:
		assignType(ctx, root, patternType)

	case lang.PatternOr:
		for _, cid := range root.Children {
			Bind(ctx, language, tree, tree.MustNode(cid), patternType)
		}

	case lang.PatternReference, lang.PatternStarred, lang.PatternDefault:
		if inner, ok := childWithRole(ctx, tree, root, roles.Inner); ok {
			Bind(ctx, language, tree, inner, patternType)
			return
		}
		for _, cid := range root.Children {
			Bind(ctx, language, tree, tree.MustNode(cid), patternType)
		}

	case lang.PatternTuple:
		nested := nestedTypes(ctx, patternType)
		for i, cid := range root.Children {
			elemType := patternType
			if i < len(nested) {
				elemType = nested[i]
			}
			Bind(ctx, language, tree, tree.MustNode(cid), elemType)
		}

	case lang.PatternArray:
		elemType := patternType
		if nested := nestedTypes(ctx, patternType); len(nested) > 0 {
			elemType = nested[0]
		}
		for _, cid := range root.Children {
			child := tree.MustNode(cid)
			if classify(ctx, language, child) == lang.PatternStarred {
				Bind(ctx, language, tree, child, patternType)
				continue
			}
			Bind(ctx, language, tree, child, elemType)
		}

	case lang.PatternObject:
		containerScope := ids.NoScope
		if sym, ok := ctx.Scopes.Symbol(patternType); ok {
			containerScope = sym.Scope
		}
		for _, cid := range root.Children {
			bindFieldEntry(ctx, language, tree, tree.MustNode(cid), containerScope, roles)
		}

	default:
		if root.Payload == hir.Identifier {
			assignType(ctx, root, patternType)
		}
	}
}

func bindFieldEntry(ctx *compilectx.Context, language lang.Language, tree *hir.Tree, entry hir.Node, containerScope ids.ScopeID, roles lang.PatternRoles) {
	nameNode := entry
	if n, ok := childWithRole(ctx, tree, entry, roles.FieldName); ok {
		nameNode = n
	}
	if nameNode.Payload != hir.Identifier {
		return
	}

	fieldType := ids.NoSymbol
	if containerScope != ids.NoScope {
		if sc, ok := ctx.Scopes.Scope(containerScope); ok {
			if matches := sc.Lookup(nameNode.Ident.Name); len(matches) > 0 {
				if fieldSym, ok := ctx.Scopes.Symbol(matches[0]); ok {
					fieldType = fieldSym.TypeOf
				}
			}
		}
	}

	value := nameNode
	if v, ok := childWithRole(ctx, tree, entry, roles.FieldValue); ok {
		value = v
	}
	Bind(ctx, language, tree, value, fieldType)
}

func assignType(ctx *compilectx.Context, node hir.Node, patternType ids.SymbolID) {
	if node.Payload != hir.Identifier || node.Ident.Symbol == ids.NoSymbol {
		return
	}
	sym, ok := ctx.Scopes.Symbol(node.Ident.Symbol)
	if !ok || sym.Kind.IsConst() {
		return
	}
	ctx.Scopes.SetTypeOf(node.Ident.Symbol, patternType)
}

func nestedTypes(ctx *compilectx.Context, typeSym ids.SymbolID) []ids.SymbolID {
	sym, ok := ctx.Scopes.Symbol(typeSym)
	if !ok {
		return nil
	}
	return sym.NestedTypes
}

func classify(ctx *compilectx.Context, language lang.Language, node hir.Node) lang.PatternKind {
	if node.Payload == hir.Identifier {
		return lang.PatternIdentifier
	}
	kindName, _ := ctx.Interner.Resolve(node.KindID)
	return language.PatternClass(kindName)
}

func childWithRole(ctx *compilectx.Context, tree *hir.Tree, node hir.Node, role string) (hir.Node, bool) {
	if role == "" {
		return hir.Node{}, false
	}
	for _, cid := range node.Children {
		c := tree.MustNode(cid)
		if name, ok := ctx.Interner.Resolve(c.FieldID); ok && name == role {
			return c, true
		}
	}
	return hir.Node{}, false
}
