// Package logging builds the structured logger used by the CLI and server.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/shunichi-ikebuchi/bank-ledger/pkg/config"
)

// New builds a slog.Logger writing to stderr. debug forces the debug level.
func New(cfg config.LogConfig, debug bool) *slog.Logger {
	return NewWithWriter(os.Stderr, cfg, debug)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, cfg config.LogConfig, debug bool) *slog.Logger {
	level := parseLevel(cfg.Level)
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
