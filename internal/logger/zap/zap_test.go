package zap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	t.Run("production logs at info", func(t *testing.T) {
		lg := NewLogger("production")
		assert.False(t, lg.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, lg.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("dev logs at debug", func(t *testing.T) {
		lg := NewLogger("dev")
		assert.True(t, lg.Core().Enabled(zapcore.DebugLevel))
	})
}

func TestToLevelPrefix(t *testing.T) {
	assert.Equal(t, "WARN", toLevelPrefix(zapcore.WarnLevel))
	assert.Equal(t, "ERROR", toLevelPrefix(zapcore.ErrorLevel))
	assert.Equal(t, "", toLevelPrefix(zapcore.PanicLevel))
}

func TestTagEncoder(t *testing.T) {
	enc := newTagEncoder(zapcore.EncoderConfig{MessageKey: "message"})

	buf, err := enc.Clone().EncodeEntry(zapcore.Entry{
		Level:   zapcore.WarnLevel,
		Message: "queue full",
	}, nil)
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, prefix)
	assert.Contains(t, out, "WARN | ")
	assert.Contains(t, out, "queue full")
}
