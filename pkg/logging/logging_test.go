package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetup(t *testing.T) {
	original := Logger
	t.Cleanup(func() {
		Logger = original
		zap.ReplaceGlobals(original)
	})

	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"production", false, false},
		{"development", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, Setup(tt.debug, "srcmerge", "test"))

			assert.Equal(t, tt.wantDebug, Logger.Core().Enabled(zapcore.DebugLevel))
			assert.True(t, Logger.Core().Enabled(zapcore.InfoLevel))
			assert.Same(t, Logger, zap.L())
		})
	}
}
