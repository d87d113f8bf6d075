// Package logger provides the process-wide structured logger. Console
// output uses tint for readable local runs; "json" format is for
// aggregated production logs.
package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New creates a slog.Logger with the given minimum level ("debug", "info",
// "warn", "error") and format ("json" or anything else for console).
func New(level, format string) *slog.Logger {
	var handler slog.Handler
	lv := parseLevel(level)
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lv})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      lv,
			TimeFormat: time.TimeOnly,
		})
	}
	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
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
