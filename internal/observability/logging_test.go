package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"Info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"xyzzy", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestInitLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := InitLogger(LogConfig{Level: "info", Format: "json", Output: &buf})

	logger.Debug("hidden")
	logger.Info("simulated", "ticket", "coupon-12m", "events", 14)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "simulated", rec["msg"])
	assert.Equal(t, "coupon-12m", rec["ticket"])
	assert.EqualValues(t, 14, rec["events"])
}

func TestInitLoggerTextDefault(t *testing.T) {
	var buf bytes.Buffer
	InitLogger(LogConfig{Level: "warn", Output: &buf})

	slog.Info("dropped")
	slog.Warn("kept", "key", "value")

	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "msg=kept key=value")
}

func TestInitLoggerSetsDefault(t *testing.T) {
	logger := InitLogger(LogConfig{Level: "info", Format: "json", Output: &bytes.Buffer{}})
	assert.Equal(t, logger.Handler(), slog.Default().Handler())
}
