package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"jobtrack.local/internal/config"
)

// NewLogger installs the process logger. Logs go to stderr; stdout belongs
// to the menu.
func NewLogger(cfg config.LogConfig) *slog.Logger {
	l := newLoggerWithWriter(os.Stderr, cfg)
	slog.SetDefault(l)
	return l
}

func newLoggerWithWriter(w io.Writer, cfg config.LogConfig) *slog.Logger {
	level := parseLevel(cfg.Level)
	switch strings.ToLower(cfg.Format) {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	default:
		// text is read by a person at the terminal, so point at the call site
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, AddSource: true}))
	}
}

// parseLevel maps LOG_LEVEL onto slog; anything unrecognised means warn.
func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
