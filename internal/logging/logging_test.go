package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaultsToInfoLevel(t *testing.T) {
	logger, err := New("local", "")
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewHonoursDebugLevel(t *testing.T) {
	logger, err := New("local", "debug")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestComponentAddsField(t *testing.T) {
	logger, err := New("local", "info")
	require.NoError(t, err)
	scoped := Component(logger, "dispatcher")
	require.NotNil(t, scoped)
}
