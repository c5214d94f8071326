// Package build implements the per-unit HIR builder (spec.md §4.F): parse
// bytes into a parse tree, then walk it into a normalized hir.Tree. Grounded
// on the teacher's inspector/golang/inspector_tree_sitter.go processFile
// pipeline (parse, then one recursive walk that allocates one output node
// per input node), generalized from a single Go-specific walk into a
// grammar-agnostic one driven by a per-language Classifier.
package build

import (
	"context"

	"github.com/semgraph/semgraph/internal/errorx"
	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/ids"
	"github.com/semgraph/semgraph/internal/intern"
)

// Classifier tells the generic HIR builder which grammar node kinds carry
// an identifier or introduce a scope, and which node's text is the
// identifier name (usually the node itself, but a declaration node's name
// often lives on a named child).
type Classifier interface {
	Classify(n hir.ParseNode) (kind hir.PayloadKind, nameNode hir.ParseNode)
}

// Grammar parses one language's source into a ParseNode tree and classifies
// its nodes. Each internal/lang/<language> front end implements this by
// wrapping a tree-sitter grammar (hir.WrapTreeSitter) with its own node-kind
// table.
type Grammar interface {
	Classifier
	Parse(ctx context.Context, source []byte) (hir.ParseNode, error)
}

// Tree parses source with grammar and walks the resulting parse tree into a
// HIR tree for unit. A hard parse failure (grammar.Parse returning an error)
// is wrapped as errorx.ParseFailed; a recoverable parse, where tree-sitter
// returns a root containing error nodes but no Go-level error, proceeds
// exactly as spec.md §4.F's "if recoverable, the tree has error nodes but
// the build continues" requires — the generic walk below doesn't
// distinguish error nodes from any other grammar node.
func Tree(ctx context.Context, interner *intern.Table, grammar Grammar, unit ids.UnitIndex, path string, source []byte) (*hir.Tree, error) {
	root, err := grammar.Parse(ctx, source)
	if err != nil {
		return nil, errorx.Wrap(errorx.ParseFailed, "build.Tree", err).With("file", path)
	}

	tree := hir.NewTree(unit)
	if root == nil {
		return tree, nil
	}

	var walk func(n hir.ParseNode) ids.HirID
	walk = func(n hir.ParseNode) ids.HirID {
		kind, nameNode := grammar.Classify(n)
		node := hir.Node{
			KindID:  interner.Intern(n.Kind()),
			Start:   n.StartByte(),
			End:     n.EndByte(),
			Payload: kind,
		}
		if role := n.FieldRole(); role != "" {
			node.FieldID = interner.Intern(role)
		}

		switch kind {
		case hir.Identifier, hir.Scope:
			target := nameNode
			if target == nil {
				target = n
			}
			name := interner.Intern(sliceSource(source, target.StartByte(), target.EndByte()))
			if kind == hir.Identifier {
				node.Ident = hir.IdentPayload{Name: name}
			} else {
				node.ScopePay = hir.ScopePayload{Name: name}
			}
		case hir.Text:
			node.Text = sliceSource(source, n.StartByte(), n.EndByte())
		}

		id := tree.Alloc(node)

		var children []ids.HirID
		for i := 0; i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c == nil || c.IsTrivia() {
				continue
			}
			children = append(children, walk(c))
		}
		tree.SetChildren(id, children)
		return id
	}

	tree.Root = walk(root)
	return tree, nil
}

func sliceSource(src []byte, start, end uint32) string {
	if int(end) > len(src) || start > end {
		return ""
	}
	return string(src[start:end])
}
