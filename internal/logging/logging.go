package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup builds the process logger from KINDORA_LOG_LEVEL ("debug", "info",
// "warn", "error", case-insensitive; anything else means info), installs it
// as the slog default, and returns it.
func Setup(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
