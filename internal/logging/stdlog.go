package logging

import (
	"bytes"
	"log/slog"
)

// slogWriter receives standard log output. A leading ERROR, WARN or INFO
// picks the level; anything else is logged at debug.
type slogWriter struct{}

func (w *slogWriter) Write(p []byte) (int, error) {
	msg := bytes.TrimRight(p, "\n")
	switch {
	case bytes.HasPrefix(msg, []byte("ERROR ")):
		slog.Error(string(msg[6:]))
	case bytes.HasPrefix(msg, []byte("WARN ")):
		slog.Warn(string(msg[5:]))
	case bytes.HasPrefix(msg, []byte("INFO ")):
		slog.Info(string(msg[5:]))
	default:
		slog.Debug(string(msg))
	}
	return len(p), nil
}
