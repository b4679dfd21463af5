package logging

import (
	"bytes"
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		log.SetOutput(os.Stderr)
		log.SetFlags(log.LstdFlags)
	})
}

func TestConsoleLevelFilters(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	closeLog, err := Setup(Config{ConsoleLevel: slog.LevelInfo, Console: &buf, NoColor: true})
	require.NoError(t, err)
	defer closeLog()

	slog.Debug("hidden detail")
	slog.Info("formatted file", "path", "a.c")

	assert.NotContains(t, buf.String(), "hidden detail")
	assert.Contains(t, buf.String(), "formatted file")
	assert.Contains(t, buf.String(), "path=a.c")
}

func TestStandardLogIsRedirected(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	closeLog, err := Setup(Config{ConsoleLevel: slog.LevelDebug, Console: &buf, NoColor: true})
	require.NoError(t, err)
	defer closeLog()

	log.Print("WARN disk almost full")
	log.Print("plain message")

	assert.Contains(t, buf.String(), "WRN disk almost full")
	assert.Contains(t, buf.String(), "DBG plain message")
}

func TestFileReceivesRecords(t *testing.T) {
	restoreDefault(t)
	path := filepath.Join(t.TempDir(), "logs", "stylefmt.log")
	var console bytes.Buffer
	closeLog, err := Setup(Config{
		ConsoleLevel: Disabled,
		Console:      &console,
		FilePath:     path,
		FileLevel:    slog.LevelDebug,
	})
	require.NoError(t, err)

	slog.Debug("checksum verified", "file", "b.c")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "checksum verified")
	assert.Empty(t, console.String())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
		ok       bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"WARN", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"off", Disabled, true},
		{"loud", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHandlerWithoutFileKeepsAttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	h := &MultiLevelHandler{consoleHandler: slog.NewTextHandler(&buf, nil)}

	logger := slog.New(h).With("path", "a.c").WithGroup("stats")
	logger.Info("formatted", "lines", 3)

	assert.Contains(t, buf.String(), "path=a.c")
	assert.Contains(t, buf.String(), "stats.lines=3")
	assert.Nil(t, h.fileHandler)
}

func TestHandlerWithNothingSetIsDisabled(t *testing.T) {
	h := &MultiLevelHandler{}
	assert.False(t, h.Enabled(context.Background(), slog.LevelError))
	assert.NotPanics(t, func() {
		slog.New(h).With("k", "v").WithGroup("g").Error("dropped")
	})
}
