package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("WARNING"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestSetupRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	handler := Setup(&buf, slog.LevelWarn)
	logger := slog.New(handler)

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
}

func TestMultiHandlerFanOut(t *testing.T) {
	var a, b bytes.Buffer
	multi := NewMultiHandler(
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(multi)

	logger.Info("routine")
	logger.Error("broken")

	require.Equal(t, 2, strings.Count(a.String(), "\n"))
	assert.Contains(t, a.String(), "routine")

	// The stricter handler only sees the error record.
	require.Equal(t, 1, strings.Count(b.String(), "\n"))
	assert.Contains(t, b.String(), "broken")
	assert.NotContains(t, b.String(), "routine")
}
