// Package langset wires the four supported language front ends into one
// lang.Registry. It exists only to avoid an import cycle: each front end
// (internal/lang/rust, .../typescript, .../cpp, .../python) imports
// internal/lang for the shared Language/DeclRule/ExprClass types, so the
// registry constructor that depends on all four can't live in
// internal/lang itself.
package langset

import (
	"github.com/semgraph/semgraph/internal/lang"
	"github.com/semgraph/semgraph/internal/lang/cpp"
	"github.com/semgraph/semgraph/internal/lang/python"
	"github.com/semgraph/semgraph/internal/lang/rust"
	"github.com/semgraph/semgraph/internal/lang/typescript"
)

// Default builds the registry over every supported language, matching
// spec.md §1's "Rust/TypeScript/C/C++/Python" scope (C and C++ share the
// cpp front end -- the grammar handles both).
func Default() *lang.Registry {
	return lang.NewRegistry(rust.New(), typescript.New(), cpp.New(), python.New())
}
