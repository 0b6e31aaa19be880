// internal/config/validate_test.go
package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string // substring of the single expected error; empty means valid
	}{
		{"defaults", func(*Config) {}, ""},
		{"raw selector", func(c *Config) { c.Output.Quality = "bv*[height<=1440]+ba" }, ""},
		{"unknown quality", func(c *Config) { c.Output.Quality = "zzzzzz" }, "output.quality"},
		{"quality without suffix", func(c *Config) { c.Output.Quality = "1080" }, ""},
		{"upper case quality", func(c *Config) { c.Output.Quality = "720P" }, ""},
		{"empty directory", func(c *Config) { c.Output.Directory = "" }, "output.directory"},
		{"zero concurrency", func(c *Config) { c.Queue.MaxConcurrent = 0 }, "queue.max_concurrent"},
		{"too much concurrency", func(c *Config) { c.Queue.MaxConcurrent = 11 }, "queue.max_concurrent"},
		{"upper concurrency bound", func(c *Config) { c.Queue.MaxConcurrent = 10 }, ""},
		{"zero cancel timeout", func(c *Config) { c.Queue.CancelTimeout = 0 }, "queue.cancel_timeout"},
		{"missing ffmpeg", func(c *Config) { c.Tools.FFmpeg = "" }, "tools.ffmpeg"},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"upper case log level", func(c *Config) { c.Log.Level = "DEBUG" }, ""},
		{"no database", func(c *Config) { c.Database.Path = "" }, "database.path"},
		{"negative retention", func(c *Config) { c.Database.Retention = -time.Hour }, "database.retention"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()

			if tt.want == "" {
				if len(errs) != 0 {
					t.Errorf("expected valid config, got %v", errs)
				}
				return
			}
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %v", errs)
			}
			if !strings.Contains(errs[0], tt.want) {
				t.Errorf("expected error about %s, got %q", tt.want, errs[0])
			}
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
