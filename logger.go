package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// parseLogLevel accepts the slog level names in any case, with an optional
// offset such as "debug-2" or "warn+1".
func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// newLogger builds a logger for an already validated config without
// touching the global default.
func newLogger(config *Config, w io.Writer) *slog.Logger {
	level, _ := parseLogLevel(config.LogLevel)
	opts := &slog.HandlerOptions{Level: level}
	if config.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openLogger picks the log destination. The interactive program owns the
// terminal, so without a log file its logs are dropped.
func openLogger(config *Config, headless bool, stderr io.Writer) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }
	switch {
	case config.LogFile != "":
		file, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, noop, err
		}
		return newLogger(config, file), file.Close, nil
	case headless:
		return newLogger(config, stderr), noop, nil
	default:
		return newLogger(config, io.Discard), noop, nil
	}
}
