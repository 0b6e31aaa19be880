package convert

import (
	"strconv"
	"strings"
	"time"

	"github.com/vmunix/carbon/internal/job"
)

// progressReader interprets ffmpeg "-progress" key=value output.
type progressReader struct {
	total time.Duration
}

// observe returns a progress report for lines that carry one.
func (r progressReader) observe(line string) (job.Progress, bool) {
	key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
	if !ok {
		return job.Progress{}, false
	}

	switch key {
	case "out_time_us", "out_time_ms": // both are microseconds
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return job.Progress{}, false
		}
		p := job.Progress{Phase: "converting"}
		if r.total > 0 {
			p.Percent = float64(time.Duration(us)*time.Microsecond) / float64(r.total) * 100
		}
		return p, true
	case "speed":
		if value == "" || value == "N/A" {
			return job.Progress{}, false
		}
		return job.Progress{Phase: "converting", Speed: value}, true
	case "progress":
		if value == "end" {
			return job.Progress{Percent: 100, Phase: "converting"}, true
		}
	}
	return job.Progress{}, false
}
