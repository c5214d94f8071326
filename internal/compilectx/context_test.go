package compilectx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semgraph/semgraph/internal/compilectx"
	"github.com/semgraph/semgraph/internal/ids"
)

func TestNewSeedsGlobalScope(t *testing.T) {
	ctx := compilectx.New(nil, nil)
	assert.NotEqual(t, ids.NoScope, ctx.GlobalScope())

	sc, ok := ctx.Scopes.Scope(ctx.GlobalScope())
	require.True(t, ok)
	assert.Equal(t, "global", sc.Kind)
}

func TestAddUnitAssignsSequentialIndices(t *testing.T) {
	ctx := compilectx.New(nil, nil)
	a := ctx.AddUnit("a.rs", "rust", []byte("fn a(){}"))
	b := ctx.AddUnit("b.rs", "rust", []byte("fn b(){}"))

	assert.Equal(t, ids.UnitIndex(0), a.Index)
	assert.Equal(t, ids.UnitIndex(1), b.Index)

	units := ctx.Units()
	require.Len(t, units, 2)
	assert.Equal(t, "a.rs", units[0].Path)

	got, ok := ctx.Unit(1)
	require.True(t, ok)
	assert.Equal(t, "b.rs", got.Path)

	_, ok = ctx.Unit(99)
	assert.False(t, ok)
}
