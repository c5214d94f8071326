package hir

// ParseNode is the capability set any concrete parse tree must expose so a
// language front end can build a HIR Tree from it, per spec.md §4.C. It is
// satisfied by the tree-sitter adapter in treesitter.go; a hand-rolled
// recursive-descent parser could satisfy it too without this package ever
// knowing the difference.
type ParseNode interface {
	// Kind returns the grammar node kind (e.g. "function_item").
	Kind() string
	// FieldRole returns this node's field name under its parent, or "" if
	// it has none (spec.md's field_id, or *none*).
	FieldRole() string
	// IsTrivia reports whether the node is whitespace/comment/punctuation
	// that the HIR should skip rather than allocate a node for.
	IsTrivia() bool
	// IsNamed reports whether the grammar treats this as a named
	// (semantically meaningful) node vs. an anonymous token.
	IsNamed() bool

	StartByte() uint32
	EndByte() uint32

	ChildCount() int
	Child(i int) ParseNode
	ChildByFieldName(name string) ParseNode
	Parent() ParseNode

	// FirstDescendantWithRole finds the first descendant (depth-first)
	// whose FieldRole equals role; used for owner-classification walks that
	// need to look past one or two wrapper nodes.
	FirstDescendantWithRole(role string) ParseNode
}
