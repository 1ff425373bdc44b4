package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init(true))
	assert.True(t, Log().Core().Enabled(zapcore.DebugLevel))
	assert.Same(t, Log(), zap.L())

	require.NoError(t, Init(false))
	assert.False(t, Log().Core().Enabled(zapcore.DebugLevel))
	assert.NotNil(t, S())
	assert.NotNil(t, Named("session"))
	Sync()
}
