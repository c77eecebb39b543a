package logging

import (
	"io"
	"log/slog"
	"strings"
)

// BuildLogger creates a structured logger writing to w at the given level.
func BuildLogger(level string, w io.Writer) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})
	return slog.New(handler)
}
