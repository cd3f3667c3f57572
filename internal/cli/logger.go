package cli

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ppiankov/wordgauge/internal/model"
)

// NewLogger creates a *slog.Logger writing to stderr and sets it as the
// default logger. Format "json" produces JSON lines, anything else text.
// Level is one of debug, info, warn, error; defaults to info.
func NewLogger(cfg model.LogConfig) *slog.Logger {
	logger := newLogger(cfg, os.Stderr)
	slog.SetDefault(logger)
	return logger
}

func newLogger(cfg model.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
