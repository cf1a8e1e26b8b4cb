package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, lvl := range []string{"debug", "info", "warn", "error"} {
		l, err := New(lvl)
		require.NoError(t, err, lvl)
		assert.NotNil(t, l)
	}

	_, err := New("loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestNewWithSinkFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithSink(zapcore.WarnLevel, zapcore.AddSync(&buf))

	l.Info("quiet")
	l.Warn("copy failed", zap.String("title", "wifi"))
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "copy failed")
	assert.Contains(t, out, "wifi")
}
