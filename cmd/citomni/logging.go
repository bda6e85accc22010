package main

import (
	"log/slog"
	"os"
	"strings"
)

// parseLevel maps the -log-level flag to a slog level. Unknown values fall
// back to info rather than failing, matching validateFlags which already
// rejects anything outside the documented set.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

func setupLogger(level, format string) *slog.Logger {
	logLevel := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level: logLevel,
		// Source locations only matter when debugging the build tool
		// itself; warm logs stay compact otherwise.
		AddSource: logLevel <= slog.LevelDebug,
	}

	var handler slog.Handler
	if strings.ToLower(format) == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler).With(
		"service", appName,
		"version", Version,
		"pid", os.Getpid(),
	)
}
