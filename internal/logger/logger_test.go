package logger

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	l, err := New(&buf, "prod", "warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))

	l.Warn("directive failed", zap.String("job", "map.yaml"))
	assert.Contains(t, buf.String(), `"msg":"directive failed"`)
	assert.Contains(t, buf.String(), `"job":"map.yaml"`)

	l, err = New(io.Discard, "local", "")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(io.Discard, "prod", "")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = New(io.Discard, "staging", "")
	require.Error(t, err)

	_, err = New(io.Discard, "dev", "loud")
	require.Error(t, err)
}

func TestContext(t *testing.T) {
	t.Parallel()

	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	assert.Same(t, l, FromContext(ContextWithLogger(context.Background(), l)))

	fallback := zap.NewNop()
	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))
	assert.Same(t, l, FromContextOr(ContextWithLogger(context.Background(), l), fallback))
}
