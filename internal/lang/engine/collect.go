// Package engine implements the generic collect/bind/infer passes
// (spec.md §4.G/H/I) that every language front end in internal/lang drives
// through the lang.Language capability set, instead of each language
// reimplementing its own visitor. Grounded on the teacher's
// analyzer.GolangAnalyzer three-pass shape (buildScopeHierarchy ->
// processDeclarations -> processExpressions) and on
// original_source/crates/llmcc-rust/src/lang.rs's DeclFinder/SymbolBinder,
// generalized from one hardcoded visitor per grammar kind into a
// declaration-rule table plus one generic walk.
package engine

import (
	"strings"

	"github.com/semgraph/semgraph/internal/bind/pattern"
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

// Collect runs scope/symbol discovery (spec.md §4.G) over one unit's HIR
// tree: every hir.Scope node whose grammar kind has a lang.DeclRule gets a
// symbol, and -- if the rule forms a lexical scope -- a child scope pushed
// for its subtree. Safe to run concurrently across units; each call only
// touches its own unit plus the shared, internally-synchronized
// ctx.Scopes table.
func Collect(ctx *compilectx.Context, language lang.Language, unit *compilectx.Unit) error {
	tree := unit.Tree
	if tree == nil {
		return nil
	}

	fileScope := ctx.Scopes.NewScope(tree.Root, "file")
	if err := ctx.Scopes.AddParent(fileScope, ctx.GlobalScope()); err != nil {
		return err
	}
	unit.FileScope = fileScope
	unit.Decls = make(map[ids.HirID]ids.SymbolID)
	unit.AnonScopes = make(map[ids.HirID]ids.ScopeID)

	stack := scope.NewStack(ctx.Scopes, unit.Index)
	stack.Push(fileScope)

	var owners []string

	var walk func(id ids.HirID)
	walk = func(id ids.HirID) {
		node := tree.MustNode(id)

		if node.Payload == hir.Scope {
			kindName, _ := ctx.Interner.Resolve(node.KindID)
			if rule, ok := language.DeclRule(kindName); ok {
				patternChild, hasPattern := childWithRole(ctx, tree, node, rule.PatternField)
				if rule.PatternField != "" && hasPattern && patternChild.Payload != hir.Identifier {
					// The name position holds a destructuring pattern
					// (tuple/array/object, ...) rather than a bare
					// identifier: defer to pattern binding instead of
					// minting one symbol named after the whole pattern's
					// source text.
					fqnPrefix := strings.Join(owners, ".")
					pattern.Declare(ctx, language, stack, tree, unit, patternChild, node.ID, language.IsExported(tree, node, unit.Source), fqnPrefix)
				} else {
					nameStr, _ := ctx.Interner.Resolve(node.ScopePay.Name)
					fqn := nameStr
					if len(owners) > 0 {
						fqn = strings.Join(owners, ".") + "." + nameStr
					}

					newScopeID := ctx.Scopes.NewScope(node.ID, rule.ScopeKind)
					_ = ctx.Scopes.AddParent(newScopeID, stack.Top())
					tree.AttachScope(node.ID, newScopeID)

					sym := ctx.Scopes.NewSymbol(scope.Symbol{
						Name:        node.ScopePay.Name,
						Kind:        rule.SymbolKind,
						Owner:       node.ID,
						OwningScope: stack.Top(),
						TypeOf:      ids.NoSymbol,
						IsGlobal:    language.IsExported(tree, node, unit.Source),
						UnitIndex:   unit.Index,
						FQN:         fqn,
					})
					ctx.Scopes.SetDeclaredScope(sym, newScopeID)
					unit.Decls[node.ID] = sym

					if rule.FormsScope {
						stack.Push(newScopeID)
						owners = append(owners, nameStr)
						for _, c := range node.Children {
							walk(c)
						}
						owners = owners[:len(owners)-1]
						stack.Pop()
						return
					}
				}
			}
		} else if kindName, _ := ctx.Interner.Resolve(node.KindID); language.AnonymousScope(kindName) {
			newScopeID := ctx.Scopes.NewScope(node.ID, kindName)
			_ = ctx.Scopes.AddParent(newScopeID, stack.Top())
			unit.AnonScopes[node.ID] = newScopeID

			stack.Push(newScopeID)
			for _, c := range node.Children {
				walk(c)
			}
			stack.Pop()
			return
		}

		for _, c := range node.Children {
			walk(c)
		}
	}

	walk(tree.Root)
	return nil
}

// SeedPrimitives inserts one Primitive symbol per name into the global
// scope, idempotently (a name already present is left alone) -- run once,
// before any unit's Collect, per spec.md §4.G "primitive seeding".
func SeedPrimitives(ctx *compilectx.Context, language lang.Language) {
	global := ctx.GlobalScope()
	sc, ok := ctx.Scopes.Scope(global)
	if !ok {
		return
	}
	for _, name := range language.Primitives() {
		n := ctx.Interner.Intern(name)
		if len(sc.Lookup(n)) > 0 {
			continue
		}
		ctx.Scopes.NewSymbol(scope.Symbol{
			Name:        n,
			Kind:        scope.Primitive,
			OwningScope: global,
			TypeOf:      ids.NoSymbol,
			IsGlobal:    true,
		})
	}
}
