package logging_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/semgraph/semgraph/internal/logging"
)

func TestFromEnvDefault(t *testing.T) {
	os.Unsetenv("LLMCC_LOG")
	assert.Equal(t, logging.LevelWarn, logging.FromEnv(logging.LevelWarn))
}

func TestFromEnvOverride(t *testing.T) {
	t.Setenv("LLMCC_LOG", "debug")
	assert.Equal(t, logging.LevelDebug, logging.FromEnv(logging.LevelWarn))
}

func TestNewBuildsLogger(t *testing.T) {
	logger, err := logging.New(logging.LevelInfo)
	assert.NoError(t, err)
	assert.NotNil(t, logger)
}
