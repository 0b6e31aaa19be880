// Package convert transcodes downloads into an editing-friendly profile:
// the video stream is copied and the audio is re-encoded to 16-bit PCM at
// 48 kHz.
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/process"
	"github.com/vmunix/carbon/internal/workspace"
)

const (
	// DefaultBinary is the transcode tool looked up on PATH.
	DefaultBinary = "ffmpeg"

	// Suffix is appended to the source stem of every converted file.
	Suffix = "_davinci"

	// Extension is the container of converted files.
	Extension = ".mov"

	partialName = "convert.part"
)

// Workspace provides per-job scratch directories.
type Workspace interface {
	Dir(jobID string) (string, error)
}

// Request describes one conversion.
type Request struct {
	JobID string
	Input string
}

// Result is a finished conversion.
type Result struct {
	Path     string
	Duration time.Duration
}

// Stage runs ffmpeg for jobs.
type Stage struct {
	exec      process.Executor
	binary    string
	durations DurationReader
	ws        Workspace
	outputDir string
	log       *slog.Logger
}

// NewStage creates a convert stage writing into outputDir.
func NewStage(exec process.Executor, binary string, durations DurationReader, ws Workspace, outputDir string, log *slog.Logger) *Stage {
	if binary == "" {
		binary = DefaultBinary
	}
	if log == nil {
		log = slog.Default()
	}
	return &Stage{
		exec:      exec,
		binary:    binary,
		durations: durations,
		ws:        ws,
		outputDir: outputDir,
		log:       log,
	}
}

// OutputPath returns where the converted form of input is written.
func OutputPath(outputDir, input string) string {
	stem := workspace.SanitizeFilename(workspace.Stem(input))
	if stem == "" {
		stem = "output"
	}
	return filepath.Join(outputDir, stem+Suffix+Extension)
}

// Args builds the ffmpeg argument list.
func Args(input, output string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-nostats",
		"-loglevel", "error",
		"-y",
		"-i", input,
		"-c:v", "copy",
		"-c:a", "pcm_s16le",
		"-ar", "48000",
		"-progress", "pipe:1",
		"-f", "mov",
		output,
	}
}

// Convert transcodes req.Input. The output is written to the job's scratch
// directory and moved into place only after ffmpeg succeeds; on any failure
// the partial file is removed. An existing file with the same name is never
// overwritten.
func (s *Stage) Convert(ctx context.Context, req Request, progress func(job.Progress)) (*Result, error) {
	if _, err := os.Stat(req.Input); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInputMissing, req.Input)
	}
	dir, err := s.ws.Dir(req.JobID)
	if err != nil {
		return nil, err
	}
	partial := filepath.Join(dir, partialName)

	total, err := s.durations.Duration(ctx, req.Input)
	if err != nil {
		if errors.Is(err, process.ErrCancelled) || ctx.Err() != nil {
			return nil, err
		}
		s.log.Warn("duration unknown, progress will be indeterminate", "job_id", req.JobID, "error", err)
		total = 0
	}

	s.log.Info("conversion started", "job_id", req.JobID, "input", req.Input, "duration", total)
	if err := s.run(ctx, req.Input, partial, total, progress); err != nil {
		removePartial(partial, s.log)
		return nil, err
	}

	final, err := workspace.Reserve(s.outputDir, filepath.Base(OutputPath(s.outputDir, req.Input)), req.JobID)
	if err != nil {
		removePartial(partial, s.log)
		return nil, err
	}
	if err := os.Rename(partial, final); err != nil {
		removePartial(partial, s.log)
		removePartial(final, s.log)
		return nil, fmt.Errorf("move converted file: %w", err)
	}
	s.log.Info("conversion finished", "job_id", req.JobID, "path", final)
	return &Result{Path: final, Duration: total}, nil
}

func (s *Stage) run(ctx context.Context, input, output string, total time.Duration, progress func(job.Progress)) error {
	h, err := s.exec.Start(ctx, s.binary, Args(input, output)...)
	if err != nil {
		return err
	}
	reader := progressReader{total: total}
	for line := range h.Lines() {
		if p, ok := reader.observe(line); ok && progress != nil {
			progress(p)
		}
	}
	return h.Wait()
}

func removePartial(path string, log *slog.Logger) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("remove partial output failed", "path", path, "error", err)
	}
}
