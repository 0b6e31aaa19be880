// internal/config/validate.go
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/vmunix/carbon/internal/download"
	"github.com/vmunix/carbon/internal/queue"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if c.Output.Directory == "" {
		errs = append(errs, "output.directory: required")
	}
	if q := c.Output.Quality; !download.KnownQuality(q) {
		errs = append(errs, fmt.Sprintf("output.quality: must be one of %s or a yt-dlp format selector; got %q",
			strings.Join(download.Qualities(), ", "), q))
	}

	if n := c.Queue.MaxConcurrent; n < queue.MinConcurrent || n > queue.MaxConcurrentLimit {
		errs = append(errs, fmt.Sprintf("queue.max_concurrent: must be between %d and %d, got %d",
			queue.MinConcurrent, queue.MaxConcurrentLimit, n))
	}
	if c.Queue.CancelTimeout <= 0 {
		errs = append(errs, fmt.Sprintf("queue.cancel_timeout: must be positive, got %s", c.Queue.CancelTimeout))
	}

	if c.Tools.YtDlp == "" {
		errs = append(errs, "tools.ytdlp: required")
	}
	if c.Tools.FFmpeg == "" {
		errs = append(errs, "tools.ffmpeg: required")
	}
	if c.Tools.FFprobe == "" {
		errs = append(errs, "tools.ffprobe: required")
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port: must be between 1 and 65535, got %d", c.Server.Port))
	}
	if !validLogLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}
	if c.Database.Retention < 0 {
		errs = append(errs, fmt.Sprintf("database.retention: must not be negative, got %s", c.Database.Retention))
	}

	return errs
}

// ParseLogLevel maps a config log level to a slog.Level. Unknown values
// fall back to info.
func ParseLogLevel(level string) slog.Level {
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
