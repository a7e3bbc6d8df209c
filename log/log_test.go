package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	defer func(prev *zap.Logger) { Logger = prev }(Logger)

	assert.NoError(t, InitLogger("warn"))
	assert.True(t, Logger.Core().Enabled(zapcore.WarnLevel))
	assert.False(t, Logger.Core().Enabled(zapcore.InfoLevel))

	assert.NoError(t, InitLogger("debug"))
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))
}

func TestInitLoggerBadLevel(t *testing.T) {
	prev := Logger
	assert.Error(t, InitLogger("loud"))
	assert.Same(t, prev, Logger)
}
