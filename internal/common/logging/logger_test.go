package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{"info", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"nonsense", InfoLevel},
		{"", InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), tt.in)
	}
}

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "s", Value: "v"}, String("s", "v"))
	assert.Equal(t, Field{Key: "n", Value: 7}, Int("n", 7))
	assert.Equal(t, Field{Key: "b", Value: true}, Bool("b", true))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
}

func TestGlobalLoggerIsAlwaysUsable(t *testing.T) {
	logger := GetGlobalLogger()
	require.NotNil(t, logger)

	// must not panic even before InitGlobalLogger runs
	logger.Info("test message", String("key", "value"))
	Debug("debug line")
	Warn("warn line")
	Error("error line", nil)
}

func TestNewZapLogger(t *testing.T) {
	logger, err := NewZapLogger(LogConfig{Level: DebugLevel})
	require.NoError(t, err)
	require.NotNil(t, logger)

	child := logger.WithFields(String("component", "test"))
	require.NotNil(t, child)
	child.Info("with fields")
}
