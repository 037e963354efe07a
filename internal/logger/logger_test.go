package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	for _, env := range []string{"production", "development", ""} {
		log, err := New(env, "warn")
		require.NoError(t, err, env)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel), env)
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel), env)
	}
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("production", "loud")
	assert.Error(t, err)
}
