package logger

import (
	"log/slog"
	"os"
)

// New returns a structured logger writing to stdout. Level accepts the
// slog level names (DEBUG, INFO, WARN, ERROR); unrecognized values fall
// back to INFO. Format is "json" or "text".
func New(level, format string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
