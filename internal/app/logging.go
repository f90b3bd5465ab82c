// Package app wires configuration, storage, the page engine and its
// front ends into one editing session.
package app

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dshills/pagecraft/internal/config"
)

// ParseLogLevel parses a level name. Unknown names fall back to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
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

// LoggerConfig configures the logger.
type LoggerConfig struct {
	// Level is the minimum level. It may be changed later.
	Level *slog.LevelVar
	// Format is config.FormatText or config.FormatJSON.
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// NewLogger creates the application logger.
func NewLogger(cfg LoggerConfig) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.Level == nil {
		cfg.Level = new(slog.LevelVar)
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}

	var h slog.Handler
	if cfg.Format == config.FormatJSON {
		h = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		h = slog.NewTextHandler(cfg.Output, opts)
	}
	return slog.New(h).With(slog.String("app", "pagecraft"))
}
