package block_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/semgraph/semgraph/internal/block"
	"github.com/semgraph/semgraph/internal/ids"
)

func TestMirrorPairsEveryRelation(t *testing.T) {
	pairs := map[block.Relation]block.Relation{
		block.DependsOn:  block.DependedBy,
		block.Contains:   block.ContainedBy,
		block.HasMethod:  block.MethodOf,
		block.ImplFor:    block.HasImpl,
		block.Calls:      block.CalledBy,
	}
	for rel, mirror := range pairs {
		assert.Equal(t, mirror, rel.Mirror())
		assert.Equal(t, rel, mirror.Mirror())
	}
}

func TestAddInsertsBothDirections(t *testing.T) {
	rel := block.NewRelationMap()
	a, b := ids.BlockID(1), ids.BlockID(2)

	rel.Add(a, block.DependsOn, b)

	assert.Equal(t, []ids.BlockID{b}, rel.Get(a, block.DependsOn))
	assert.Equal(t, []ids.BlockID{a}, rel.Get(b, block.DependedBy))
}

func TestAddDeduplicatesIdenticalEdges(t *testing.T) {
	rel := block.NewRelationMap()
	a, b := ids.BlockID(1), ids.BlockID(2)

	rel.Add(a, block.Calls, b)
	rel.Add(a, block.Calls, b)

	assert.Equal(t, []ids.BlockID{b}, rel.Get(a, block.Calls))
}

func TestRemoveAllClearsBothDirections(t *testing.T) {
	rel := block.NewRelationMap()
	a, b, c := ids.BlockID(1), ids.BlockID(2), ids.BlockID(3)

	rel.Add(a, block.Contains, b)
	rel.Add(a, block.Contains, c)

	rel.RemoveAll(a, block.Contains)

	assert.Empty(t, rel.Get(a, block.Contains))
	assert.Empty(t, rel.Get(b, block.ContainedBy))
	assert.Empty(t, rel.Get(c, block.ContainedBy))
}

func TestRemoveAllLeavesUnrelatedEdgesIntact(t *testing.T) {
	rel := block.NewRelationMap()
	a, b, c := ids.BlockID(1), ids.BlockID(2), ids.BlockID(3)

	rel.Add(a, block.Contains, b)
	rel.Add(c, block.Contains, b)

	rel.RemoveAll(a, block.Contains)

	assert.Equal(t, []ids.BlockID{c}, rel.Get(b, block.ContainedBy))
}
