package hir

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// tsNode adapts *sitter.Node to the ParseNode capability set. This is the
// only file in the module that imports go-tree-sitter's node API directly;
// everything above internal/hir works through ParseNode, as the teacher's
// own inspector_tree_sitter.go keeps its tree-sitter calls concentrated in
// one adapter layer per language.
type tsNode struct {
	n *sitter.Node
}

// WrapTreeSitter adapts a *sitter.Node (typically tree.RootNode()) into a
// ParseNode.
func WrapTreeSitter(n *sitter.Node) ParseNode {
	if n == nil {
		return nil
	}
	return tsNode{n: n}
}

func (t tsNode) Kind() string { return t.n.Type() }

func (t tsNode) FieldRole() string {
	parent := t.n.Parent()
	if parent == nil {
		return ""
	}
	for i := uint32(0); i < parent.ChildCount(); i++ {
		child := parent.Child(int(i))
		if child != nil && child.StartByte() == t.n.StartByte() && child.EndByte() == t.n.EndByte() {
			return parent.FieldNameForChild(i)
		}
	}
	return ""
}

func (t tsNode) IsTrivia() bool {
	if !t.n.IsNamed() {
		return true
	}
	switch t.n.Type() {
	case "comment", "line_comment", "block_comment":
		return true
	default:
		return false
	}
}

func (t tsNode) IsNamed() bool { return t.n.IsNamed() }

func (t tsNode) StartByte() uint32 { return t.n.StartByte() }
func (t tsNode) EndByte() uint32   { return t.n.EndByte() }

func (t tsNode) ChildCount() int { return int(t.n.ChildCount()) }

func (t tsNode) Child(i int) ParseNode {
	c := t.n.Child(i)
	if c == nil {
		return nil
	}
	return tsNode{n: c}
}

func (t tsNode) ChildByFieldName(name string) ParseNode {
	c := t.n.ChildByFieldName(name)
	if c == nil {
		return nil
	}
	return tsNode{n: c}
}

func (t tsNode) Parent() ParseNode {
	p := t.n.Parent()
	if p == nil {
		return nil
	}
	return tsNode{n: p}
}

func (t tsNode) FirstDescendantWithRole(role string) ParseNode {
	var found ParseNode
	var walk func(ParseNode)
	walk = func(n ParseNode) {
		if found != nil || n == nil {
			return
		}
		if n.FieldRole() == role {
			found = n
			return
		}
		for i := 0; i < n.ChildCount(); i++ {
			walk(n.Child(i))
			if found != nil {
				return
			}
		}
	}
	walk(t)
	return found
}
