package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/LegacyCodeHQ/projectimport/internal/mcplogdlog"
)

// newLogger builds the CLI logger. Records also reach the mcplogd daemon in
// dev builds.
func newLogger(levelStr, formatStr string, outW io.Writer) (*slog.Logger, error) {
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %s (valid options: debug, info, warn, error)", levelStr)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	switch formatStr {
	case "json":
		handler = slog.NewJSONHandler(outW, handlerOpts)
	case "text":
		handler = slog.NewTextHandler(outW, handlerOpts)
	default:
		return nil, fmt.Errorf("unknown log format: %s (valid options: text, json)", formatStr)
	}

	return slog.New(mcplogdlog.NewHandler(handler)), nil
}
