// Package logging wraps log/slog with the level conventions used by the CLI.
// The level comes from the --log-level flag or the SANDBOX_LOG_LEVEL
// environment variable (DEBUG, INFO, WARN, ERROR), defaulting to INFO.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

const EnvLevel = "SANDBOX_LOG_LEVEL"

// New returns a text logger writing to w at the given level name.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// FromEnv resolves the level from flag, then the environment.
func FromEnv(w io.Writer, flag string) *slog.Logger {
	if flag == "" {
		flag = os.Getenv(EnvLevel)
	}
	return New(w, flag)
}

// Discard drops every record; used while a full-screen view owns the terminal.
func Discard() *slog.Logger {
	return New(io.Discard, "ERROR")
}

func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
