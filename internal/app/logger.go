package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

var (
	LogLevels  = []string{"debug", "info", "warn", "error"}
	LogFormats = []string{"text", "json"}
)

// ValidateLogSettings checks level and format names before a logger is built.
func ValidateLogSettings(level, format string) error {
	if !contains(LogLevels, strings.ToLower(level)) {
		return errors.Errorf("invalid log-level %q: must be one of %s", level, strings.Join(LogLevels, ", "))
	}
	if !contains(LogFormats, strings.ToLower(format)) {
		return errors.Errorf("invalid log-format %q: must be one of %s", format, strings.Join(LogFormats, ", "))
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// newLogger creates and configures a new slog.Logger instance. It does not
// set the global logger, allowing for isolated logger instances.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(levelStr) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelWarn
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if strings.ToLower(formatStr) == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}
