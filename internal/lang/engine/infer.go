package engine

import (
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

// Infer is the pure, read-only type-inference function (spec.md §4.I):
// given an expression-position HIR node it returns a best-guess type
// symbol, or ids.NoSymbol if none can be determined. It never mutates the
// tree or the symbol table -- Bind is the only pass that writes resolved
// identifiers and TypeOf links. Recursion is capped by
// ctx.Config.DepthLimit, grounded on
// original_source/crates/llmcc-rust/src/infer.rs's infer_type dispatch over
// HirKind.
func Infer(ctx *compilectx.Context, language lang.Language, stack *scope.Stack, tree *hir.Tree, node hir.Node, depth int) ids.SymbolID {
	limit := ctx.Config.DepthLimit
	if limit <= 0 {
		limit = 16
	}
	if depth > limit {
		return ids.NoSymbol
	}

	kindName, _ := ctx.Interner.Resolve(node.KindID)
	roles := language.Roles()

	switch language.ExprClass(kindName) {
	case lang.ExprLiteral:
		primName, ok := language.LiteralPrimitive(kindName)
		if !ok {
			return ids.NoSymbol
		}
		return stack.LookupOne(ctx.Interner.Intern(primName), scope.TypeKinds)

	case lang.ExprIdentifier:
		if node.Payload != hir.Identifier || node.Ident.Symbol == ids.NoSymbol {
			return ids.NoSymbol
		}
		return symbolType(ctx, node.Ident.Symbol)

	case lang.ExprCall:
		target, ok := childWithRole(ctx, tree, node, roles.CallTarget)
		if !ok {
			return ids.NoSymbol
		}
		fn := Infer(ctx, language, stack, tree, target, depth+1)
		if fn == ids.NoSymbol {
			return ids.NoSymbol
		}
		sym, ok := ctx.Scopes.Symbol(fn)
		if ok && (sym.Kind == scope.Function || sym.Kind == scope.Method) && sym.TypeOf != ids.NoSymbol {
			return sym.TypeOf
		}
		return fn

	case lang.ExprFieldAccess:
		member, ok := childWithRole(ctx, tree, node, roles.FieldName)
		if ok && member.Payload == hir.Identifier && member.Ident.Symbol != ids.NoSymbol {
			return symbolType(ctx, member.Ident.Symbol)
		}
		owner, ok := childWithRole(ctx, tree, node, roles.FieldOwner)
		if !ok {
			return ids.NoSymbol
		}
		return Infer(ctx, language, stack, tree, owner, depth+1)

	case lang.ExprIndex:
		owner, ok := childWithRole(ctx, tree, node, roles.IndexOwner)
		if !ok {
			return ids.NoSymbol
		}
		// Approximation: an index/subscript expression's type is taken as
		// its owner's type (element-type narrowing isn't tracked).
		return Infer(ctx, language, stack, tree, owner, depth+1)

	case lang.ExprBlock:
		if len(node.Children) == 0 {
			return ids.NoSymbol
		}
		last := tree.MustNode(node.Children[len(node.Children)-1])
		return Infer(ctx, language, stack, tree, last, depth+1)

	case lang.ExprIf:
		then, ok := childWithRole(ctx, tree, node, roles.IfThen)
		if !ok {
			return ids.NoSymbol
		}
		return Infer(ctx, language, stack, tree, then, depth+1)

	case lang.ExprTuple, lang.ExprArray, lang.ExprBinaryOrUnary:
		if len(node.Children) == 0 {
			return ids.NoSymbol
		}
		first := tree.MustNode(node.Children[0])
		return Infer(ctx, language, stack, tree, first, depth+1)

	default:
		if len(node.Children) == 1 {
			only := tree.MustNode(node.Children[0])
			return Infer(ctx, language, stack, tree, only, depth+1)
		}
		return ids.NoSymbol
	}
}

func symbolType(ctx *compilectx.Context, id ids.SymbolID) ids.SymbolID {
	sym, ok := ctx.Scopes.Symbol(id)
	if !ok {
		return ids.NoSymbol
	}
	if sym.TypeOf != ids.NoSymbol {
		return sym.TypeOf
	}
	return id
}

// childWithRole returns the first child of node whose field role resolves
// to role. An empty role matches nothing (callers must supply a concrete
// field name via lang.ExprRoles).
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
