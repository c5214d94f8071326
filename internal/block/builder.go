package block

import (
	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/scope"
)

// UnresolvedSite is a DependsOn/Calls edge the builder could not complete
// because the target symbol had no block yet (cross-unit or forward
// reference), recorded for the project linker (spec.md §4.L) to retry once
// every unit's block graph has been built.
type UnresolvedSite struct {
	Unit     ids.UnitIndex
	From     ids.BlockID
	Symbol   ids.SymbolID
	Relation Relation
}

// kindOf maps a collected symbol's scope.Kind to the block kind it
// materializes as. Kinds spec.md's BlockKind enum has no slot for
// (Primitive, TypeAlias, TypeParameter, CompositeType, UnresolvedType,
// Crate, File, Macro) fall back to Unknown.
func kindOf(k scope.Kind) Kind {
	switch k {
	case scope.Module, scope.Namespace:
		return Module
	case scope.Class:
		return Class
	case scope.Struct:
		return Struct
	case scope.Trait:
		return Trait
	case scope.Interface:
		return Interface
	case scope.Enum:
		return Enum
	case scope.Function:
		return Func
	case scope.Method:
		return Method
	case scope.Field, scope.EnumVariant:
		return Field
	case scope.Variable:
		return Variable
	case scope.Const, scope.Static:
		return Const
	default:
		return Unknown
	}
}

// Build runs the block graph builder (spec.md §4.K) over one already-bound
// unit: a block tree rooted at the unit (children in source order), a
// Contains/ContainedBy edge for every parent/child pair, HasMethod/MethodOf
// edges linking a method block to its enclosing type block, ImplFor/HasImpl
// edges for an AnonymousScope node that extends a type (rust's impl_item),
// and a DependsOn edge (plus a Calls edge, for call expressions) from the
// nearest enclosing block to every resolved reference's block. A reference
// whose target has no block yet is appended to unresolved for the project
// linker to retry.
func Build(ctx *compilectx.Context, language lang.Language, unit *compilectx.Unit, blocks *Table, rel *RelationMap) []UnresolvedSite {
	tree := unit.Tree
	if tree == nil {
		return nil
	}
	unit.Blocks = make(map[ids.HirID]ids.BlockID)

	root := blocks.NewBlock(Root, "", ids.NoSymbol, unit.Index)
	unit.RootBlock = root
	unit.Blocks[tree.Root] = root

	roles := language.Roles()
	var unresolved []UnresolvedSite

	addBlock := func(parent ids.BlockID, kind Kind, name string, sym ids.SymbolID, node ids.HirID) ids.BlockID {
		id := blocks.NewBlock(kind, name, sym, unit.Index)
		blocks.AddChild(parent, id)
		rel.Add(parent, Contains, id)
		unit.Blocks[node] = id
		return id
	}

	dependsOn := func(from ids.BlockID, targetSym ids.SymbolID, relation Relation) {
		if targetSym == ids.NoSymbol {
			return
		}
		symbol, ok := ctx.Scopes.Symbol(targetSym)
		if !ok {
			return
		}
		if symbol.BlockID == ids.NoBlock {
			unresolved = append(unresolved, UnresolvedSite{Unit: unit.Index, From: from, Symbol: targetSym, Relation: relation})
			return
		}
		if symbol.BlockID == from {
			// The declaration's own name token resolves to its own symbol
			// (the generic HIR builder walks it as an ordinary Identifier
			// child); not a real reference.
			return
		}
		rel.Add(from, relation, symbol.BlockID)
	}

	var walk func(id ids.HirID, parent ids.BlockID)
	walk = func(id ids.HirID, parent ids.BlockID) {
		node := tree.MustNode(id)
		here := parent

		switch node.Payload {
		case hir.Scope:
			if sym, ok := unit.Decls[node.ID]; ok {
				symbol, ok := ctx.Scopes.Symbol(sym)
				if ok {
					kind := kindOf(symbol.Kind)
					nameStr, _ := ctx.Interner.Resolve(symbol.Name)
					blockID := addBlock(parent, kind, nameStr, sym, node.ID)
					ctx.Scopes.SetBlockID(sym, blockID)

					if kind == Method {
						rel.Add(parent, HasMethod, blockID)
					}

					here = blockID
				}
			}

		case hir.Identifier:
			if node.Ident.Symbol != ids.NoSymbol {
				dependsOn(parent, node.Ident.Symbol, DependsOn)
			}

		case hir.Internal:
			kindName, _ := ctx.Interner.Resolve(node.KindID)
			if language.AnonymousScope(kindName) {
				blockID := addBlock(parent, Scope, "", ids.NoSymbol, node.ID)
				wireImpl(ctx, tree, node, roles, blockID, rel)
				here = blockID
			} else if language.ExprClass(kindName) == lang.ExprCall {
				callBlock := addBlock(parent, Call, "", ids.NoSymbol, node.ID)
				if target, ok := childWithRole(ctx, tree, node, roles.CallTarget); ok {
					blocks.SetDescriptor(callBlock, CallDescriptor{
						Chain: callChain(ctx, tree, target, roles),
						Root:  rootKindOf(ctx, tree, target, roles),
					})
					if target.Payload == hir.Identifier {
						dependsOn(parent, target.Ident.Symbol, Calls)
					}
				}
			}
		}

		for _, c := range node.Children {
			walk(c, here)
		}
	}

	walk(tree.Root, root)
	return unresolved
}

// wireImpl records ImplFor/HasImpl for an AnonymousScope block extending a
// type (and, if present, implementing a trait), by looking up the already-
// resolved type/trait identifier's block.
func wireImpl(ctx *compilectx.Context, tree *hir.Tree, node hir.Node, roles lang.ExprRoles, implBlock ids.BlockID, rel *RelationMap) {
	for _, role := range []string{roles.ImplType, roles.ImplTrait} {
		target, ok := childWithRole(ctx, tree, node, role)
		if !ok || target.Payload != hir.Identifier || target.Ident.Symbol == ids.NoSymbol {
			continue
		}
		symbol, ok := ctx.Scopes.Symbol(target.Ident.Symbol)
		if !ok || symbol.BlockID == ids.NoBlock {
			continue
		}
		rel.Add(implBlock, ImplFor, symbol.BlockID)
	}
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

// callChain decomposes a call expression's target into its full segment
// chain (self.helper() -> ["self", "helper"], math::identity ->
// ["math", "identity"], helper -> ["helper"]), walking down a field-access
// or qualified-path node's owner/qualifier child the same way bindFieldAccess
// and bindIdentifier's qualified-path resolution do, one layer up from the
// already-resolved identifiers each segment carries.
func callChain(ctx *compilectx.Context, tree *hir.Tree, node hir.Node, roles lang.ExprRoles) []string {
	if roles.PathQualifier != "" && roles.PathSegment != "" {
		if segment, ok := childWithRole(ctx, tree, node, roles.PathSegment); ok && segment.Payload == hir.Identifier {
			if qualifier, ok := childWithRole(ctx, tree, node, roles.PathQualifier); ok {
				name, _ := ctx.Interner.Resolve(segment.Ident.Name)
				return append(callChain(ctx, tree, qualifier, roles), name)
			}
		}
	}
	if node.Payload == hir.Identifier {
		name, _ := ctx.Interner.Resolve(node.Ident.Name)
		return []string{name}
	}
	if member, ok := childWithRole(ctx, tree, node, roles.FieldName); ok && member.Payload == hir.Identifier {
		if owner, ok := childWithRole(ctx, tree, node, roles.FieldOwner); ok {
			name, _ := ctx.Interner.Resolve(member.Ident.Name)
			return append(callChain(ctx, tree, owner, roles), name)
		}
	}
	return nil
}

// rootIdentNode walks down to the leftmost identifier in a call target's
// field-access/qualified-path chain (self.helper() -> "self", math::identity
// -> "math"), the segment whose resolved symbol kind decides the
// CallDescriptor's Root.
func rootIdentNode(ctx *compilectx.Context, tree *hir.Tree, node hir.Node, roles lang.ExprRoles) hir.Node {
	if roles.PathQualifier != "" && roles.PathSegment != "" {
		if _, ok := childWithRole(ctx, tree, node, roles.PathSegment); ok {
			if qualifier, ok := childWithRole(ctx, tree, node, roles.PathQualifier); ok {
				return rootIdentNode(ctx, tree, qualifier, roles)
			}
		}
	}
	if node.Payload == hir.Identifier {
		return node
	}
	if owner, ok := childWithRole(ctx, tree, node, roles.FieldOwner); ok {
		return rootIdentNode(ctx, tree, owner, roles)
	}
	return node
}

// rootKindOf classifies a call target's root segment (spec.md's
// supplemented call-descriptor requirement): the method receiver's
// conventional name (roles.SelfName) and any resolved Variable/Field/Const/
// Static/EnumVariant symbol count as a receiver, a type-kind symbol as a
// type, a Module/Namespace/Crate symbol as a module, anything else
// (including an unresolved root) as unknown.
func rootKindOf(ctx *compilectx.Context, tree *hir.Tree, target hir.Node, roles lang.ExprRoles) RootKind {
	root := rootIdentNode(ctx, tree, target, roles)
	if root.Payload != hir.Identifier {
		return RootUnknown
	}
	if roles.SelfName != "" && isSelfIdent(ctx, root, roles.SelfName) {
		return RootReceiver
	}
	if root.Ident.Symbol == ids.NoSymbol {
		return RootUnknown
	}
	symbol, ok := ctx.Scopes.Symbol(root.Ident.Symbol)
	if !ok {
		return RootUnknown
	}
	switch {
	case symbol.Kind == scope.Module || symbol.Kind == scope.Namespace || symbol.Kind == scope.Crate:
		return RootModule
	case symbol.Kind.IsType():
		return RootType
	case symbol.Kind == scope.Variable || symbol.Kind == scope.Field || symbol.Kind == scope.Const ||
		symbol.Kind == scope.Static || symbol.Kind == scope.EnumVariant:
		return RootReceiver
	default:
		return RootUnknown
	}
}

// isSelfIdent reports whether ident's interned name is the language's
// conventional receiver name (roles.SelfName).
func isSelfIdent(ctx *compilectx.Context, ident hir.Node, selfName string) bool {
	name, ok := ctx.Interner.Resolve(ident.Ident.Name)
	return ok && name == selfName
}
