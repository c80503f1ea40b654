package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]zapcore.Level{
		"":      zapcore.DebugLevel,
		"warn":  zapcore.WarnLevel,
		"bogus": zapcore.InfoLevel,
	}
	for in, want := range cases {
		l, err := New(in)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(want), in)
		assert.False(t, l.Core().Enabled(want-1), in)
	}
}
