// Package app assembles the download and convert pipeline from configuration.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/vmunix/carbon/internal/config"
	"github.com/vmunix/carbon/internal/convert"
	"github.com/vmunix/carbon/internal/download"
	"github.com/vmunix/carbon/internal/process"
	"github.com/vmunix/carbon/internal/queue"
	"github.com/vmunix/carbon/internal/workspace"
)

// ErrToolMissing is returned when a required external tool is not on PATH.
var ErrToolMissing = errors.New("required tool not found")

// Pipeline is a configured scheduler and the workspace it writes into.
type Pipeline struct {
	Scheduler *queue.Scheduler
	Workspace *workspace.Workspace
}

// CheckTools verifies the external tools the configuration needs.
func CheckTools(cfg *config.Config) error {
	tools := []string{cfg.Tools.YtDlp}
	if cfg.Output.AutoConvert {
		tools = append(tools, cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	}
	var missing []error
	for _, t := range tools {
		if _, err := exec.LookPath(t); err != nil {
			missing = append(missing, fmt.Errorf("%w: %s", ErrToolMissing, t))
		}
	}
	return errors.Join(missing...)
}

// Build wires the stages to a scheduler. bus may be nil.
// Scratch directories left behind by an earlier run are removed.
func Build(cfg *config.Config, bus queue.Publisher, logger *slog.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if err := os.MkdirAll(cfg.Output.Directory, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	ws := workspace.New(cfg.Output.Directory, logger.With("component", "workspace"))
	if _, err := ws.Sweep(); err != nil {
		logger.Warn("failed to sweep stale job dirs", "error", err)
	}

	runner := process.NewRunner(cfg.Queue.CancelTimeout, logger.With("component", "process"))
	stages := queue.Stages{
		Fetcher:   download.NewStage(runner, cfg.Tools.YtDlp, ws, logger.With("component", "download")),
		Artifacts: ws,
	}
	if cfg.Output.AutoConvert {
		durations := convert.NewFFProbe(runner, cfg.Tools.FFprobe)
		stages.Converter = convert.NewStage(runner, cfg.Tools.FFmpeg, durations, ws, cfg.Output.Directory,
			logger.With("component", "convert"))
	}

	sched, err := queue.New(stages, queue.Config{
		MaxConcurrent:  cfg.Queue.MaxConcurrent,
		DefaultQuality: cfg.Output.Quality,
		AutoConvert:    cfg.Output.AutoConvert,
	}, bus, logger)
	if err != nil {
		return nil, err
	}
	return &Pipeline{Scheduler: sched, Workspace: ws}, nil
}
