package config

import (
	"log/slog"
	"os"
	"strings"
)

var logLevel slog.LevelVar

func parseLogLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, true
	case "", "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// InitLogger installs the default slog handler at the configured level.
func InitLogger(level string) {
	lvl, ok := parseLogLevel(level)
	if !ok {
		lvl = slog.LevelInfo
	}
	logLevel.Set(lvl)

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: &logLevel,
	})
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", "level", strings.ToUpper(lvl.String()))
}
