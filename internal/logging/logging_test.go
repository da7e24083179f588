package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(verbosity int) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	noColor := false
	h := NewHandler(&buf, Options{
		Verbosity: verbosity,
		Color:     &noColor,
		Now: func() time.Time {
			return time.Date(2024, 5, 1, 12, 0, 0, 123456000, time.UTC)
		},
	})
	return slog.New(h), &buf
}

func TestLevelForVerbosity(t *testing.T) {
	tests := []struct {
		verbosity int
		want      slog.Level
	}{
		{-5, slog.LevelError},
		{-2, slog.LevelError},
		{-1, slog.LevelWarn},
		{0, slog.LevelInfo},
		{1, slog.LevelDebug},
		{2, LevelTrace},
		{7, LevelTrace},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForVerbosity(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "Trace", LevelName(LevelTrace))
	assert.Equal(t, "Debug", LevelName(slog.LevelDebug))
	assert.Equal(t, "Info", LevelName(slog.LevelInfo))
	assert.Equal(t, "Warn", LevelName(slog.LevelWarn))
	assert.Equal(t, "Error", LevelName(slog.LevelError))
}

func TestHandlerFormat(t *testing.T) {
	logger, buf := newTestLogger(0)
	logger.Info("resized", "size", "200x40", "title", "two words")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "["), line)
	assert.Contains(t, line, "] Info: resized")
	assert.Contains(t, line, "size=200x40")
	assert.Contains(t, line, `title="two words"`)
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestHandlerFiltersByVerbosity(t *testing.T) {
	logger, buf := newTestLogger(0)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger, buf = newTestLogger(2)
	Trace(context.Background(), logger, "visible")
	assert.Contains(t, buf.String(), "Trace: visible")
}

func TestBackendComponentsAreQuieter(t *testing.T) {
	logger, buf := newTestLogger(1)

	logger.Debug("bar debug")
	Component(logger, "sway").Debug("sway debug")
	Component(logger, "sway").Info("sway info")
	logger.Debug("inline", ComponentKey, "gtk")

	out := buf.String()
	assert.Contains(t, out, "bar debug")
	assert.NotContains(t, out, "sway debug")
	assert.Contains(t, out, "sway info")
	assert.NotContains(t, out, "inline")
}

func TestWithGroup(t *testing.T) {
	logger, buf := newTestLogger(0)
	logger.WithGroup("ipc").Info("command", "name", "redraw")
	assert.Contains(t, buf.String(), "ipc.name=redraw")
}

func TestLevelPrefixes(t *testing.T) {
	logger, buf := newTestLogger(0)
	logger.Warn("careful")
	logger.Error("broken", "err", "boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Warn: careful")
	assert.Contains(t, lines[1], "Error: broken err=boom")
}

func TestColorOnlyOnTerminals(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, isTerminal(f), "regular files are not terminals")
	assert.False(t, NewHandler(f, Options{}).color)
}
