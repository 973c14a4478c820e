package cli

import (
	"log/slog"
	"os"
)

// setupLogger builds the process logger. Output always goes to stderr:
// stdout is reserved for the stdio MCP transport and for inspect output.
func setupLogger(level, format string, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	if verbose {
		logLevel = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler).With("service", "swagger-mcp")
	slog.SetDefault(logger)
	return logger
}
