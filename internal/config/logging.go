package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
)

// SetupLogger builds the process logger: text to console, JSON to the
// configured log file. A nil console drops console output, which the TUI
// needs. Returns the logger and a cleanup function to close the file.
func SetupLogger(cfg LogConfig, console io.Writer) (*slog.Logger, func() error) {
	level := ParseLogLevel(cfg.Level)
	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, &slog.HandlerOptions{Level: level}))
	}

	noop := func() error { return nil }
	if cfg.File == "" {
		return slog.New(slogmulti.Fanout(handlers...)), noop
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		slog.Error("failed to create log directory, file logging disabled", "error", err, "file", cfg.File)
		return slog.New(slogmulti.Fanout(handlers...)), noop
	}
	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// Fall back to console-only if file fails
		slog.Error("failed to open log file, file logging disabled", "error", err, "file", cfg.File)
		return slog.New(slogmulti.Fanout(handlers...)), noop
	}

	handlers = append(handlers, slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level}))
	return slog.New(slogmulti.Fanout(handlers...)), file.Close
}
