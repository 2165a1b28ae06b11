// Package logging builds the root slog logger from configuration.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Setup creates the root logger. Level is one of DEBUG, INFO, WARN or
// ERROR (case-insensitive, default INFO). When file is non-empty, log
// output is appended there instead of stderr.
func Setup(level, file string) (*slog.Logger, error) {
	var lvl slog.Level
	switch strings.ToUpper(level) {
	case "DEBUG":
		lvl = slog.LevelDebug
	case "", "INFO":
		lvl = slog.LevelInfo
	case "WARN", "WARNING":
		lvl = slog.LevelWarn
	case "ERROR":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	w := os.Stderr
	if file != "" {
		f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
