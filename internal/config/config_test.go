package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/semgraph/semgraph/internal/config"
)

func TestDefaultHasAllLanguages(t *testing.T) {
	c := config.Default()
	assert.ElementsMatch(t, []string{"rust", "typescript", "cpp", "python"}, c.Languages)
	assert.Equal(t, 16, c.DepthLimit)
}

func TestOptionsApplyInOrder(t *testing.T) {
	c := config.New(
		config.WithLanguages("rust"),
		config.WithDepthLimit(4),
		config.WithInterprocedural(),
		config.WithContainerDirs("rust", "source"),
	)
	assert.Equal(t, []string{"rust"}, c.Languages)
	assert.Equal(t, 4, c.DepthLimit)
	assert.True(t, c.Interprocedural)
	assert.Equal(t, []string{"source"}, c.ContainerDirs["rust"])
}

func TestWithParallelismIgnoresNonPositive(t *testing.T) {
	c := config.New(config.WithParallelism(0))
	assert.Greater(t, c.Parallelism, 0)
}
