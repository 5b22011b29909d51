package util

import (
	"io"
	"log/slog"
)

// NewSlogger builds a text-handler slog.Logger writing to w at the given
// level. Unlike a package-global default, this is threaded explicitly
// through constructors so the library carries no process-wide state.
func NewSlogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	return slog.New(slog.NewTextHandler(w, opts))
}
