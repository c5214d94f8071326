package python_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgraph/semgraph/internal/hir"
	"github.com/semgraph/semgraph/internal/lang/python"
)

func TestDeclRuleCoversDefsAndAssignment(t *testing.T) {
	l := python.New()

	rule, ok := l.DeclRule("function_definition")
	require.True(t, ok)
	assert.True(t, rule.FormsScope)

	rule, ok = l.DeclRule("assignment")
	require.True(t, ok)
	assert.False(t, rule.FormsScope)

	_, ok = l.DeclRule("expression_statement")
	assert.False(t, ok)
}

func TestIsExportedFollowsLeadingUnderscoreConvention(t *testing.T) {
	l := python.New()

	public := hir.Node{Start: 0, End: 3}
	assert.True(t, l.IsExported(nil, public, []byte("foo")))

	private := hir.Node{Start: 0, End: 8}
	assert.False(t, l.IsExported(nil, private, []byte("_private")))
}
