// Package slogutil bootstraps structured logging: an env-var controls
// the level of a plain slog.TextHandler written to stderr. The query
// engine itself never logs; this is for the CLI and driver
// instrumentation hooks that sit around it.
package slogutil

import (
	"log/slog"
	"os"
	"strings"
)

// EnvVar is the environment variable Init reads.
const EnvVar = "MARCQL_LOG_LEVEL"

// Init configures the default slog logger from MARCQL_LOG_LEVEL.
// Supported levels: debug, info, warn, error. Unset or unrecognized
// values fall back to info.
func Init() {
	level := slog.LevelInfo
	if raw, ok := os.LookupEnv(EnvVar); ok {
		switch strings.ToLower(raw) {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
