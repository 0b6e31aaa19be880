package convert

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/carbon/internal/process"
)

// DefaultFFprobeBinary is the duration tool looked up on PATH.
const DefaultFFprobeBinary = "ffprobe"

//go:generate mockgen -source=duration.go -destination=mocks/mock_duration.go -package=mocks

// DurationReader reports the duration of a media file.
type DurationReader interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// FFProbe is a DurationReader backed by ffprobe.
type FFProbe struct {
	exec   process.Executor
	binary string
}

// NewFFProbe creates an ffprobe-backed durations. An empty binary uses
// DefaultFFprobeBinary.
func NewFFProbe(exec process.Executor, binary string) *FFProbe {
	if binary == "" {
		binary = DefaultFFprobeBinary
	}
	return &FFProbe{exec: exec, binary: binary}
}

// Duration implements DurationReader.
func (p *FFProbe) Duration(ctx context.Context, path string) (time.Duration, error) {
	h, err := p.exec.Start(ctx, p.binary,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, err
	}

	var out []string
	for line := range h.Lines() {
		out = append(out, line)
	}
	if err := h.Wait(); err != nil {
		return 0, err
	}
	return parseDuration(out)
}

func parseDuration(lines []string) (time.Duration, error) {
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || line == "N/A" {
			continue
		}
		secs, err := strconv.ParseFloat(line, 64)
		if err != nil || secs <= 0 {
			continue
		}
		return time.Duration(secs * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrNoDuration, strings.Join(lines, " "))
}
