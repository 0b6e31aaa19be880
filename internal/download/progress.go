package download

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/carbon/internal/job"
)

// Markers printed by the --print templates passed to yt-dlp.
const (
	titleMarker = "carbon-title "
	fileMarker  = "carbon-file "
)

var (
	progressRegex    = regexp.MustCompile(`\[download\]\s+(\d+\.?\d*)%`)
	speedRegex       = regexp.MustCompile(`at\s+(\S+/s)`)
	etaRegex         = regexp.MustCompile(`ETA\s+(\S+)`)
	destinationRegex = regexp.MustCompile(`^\[download\] Destination: (.+)$`)
	mergerRegex      = regexp.MustCompile(`^\[Merger\] Merging formats into "(.+)"$`)
	alreadyRegex     = regexp.MustCompile(`^\[download\] (.+) has already been downloaded`)
)

// ParseProgress extracts a progress report from a yt-dlp output line.
// Lines that are not progress lines return false and are skipped.
func ParseProgress(line string) (job.Progress, bool) {
	m := progressRegex.FindStringSubmatch(line)
	if m == nil {
		return job.Progress{}, false
	}
	pct, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return job.Progress{}, false
	}

	p := job.Progress{Percent: pct}
	if s := speedRegex.FindStringSubmatch(line); s != nil {
		p.Speed = s[1]
	}
	if e := etaRegex.FindStringSubmatch(line); e != nil && !strings.EqualFold(e[1], "unknown") {
		p.ETA = e[1]
	}
	return p, true
}

// pathSource ranks where a downloaded path was learned from. Higher wins.
type pathSource int

const (
	sourceNone pathSource = iota
	sourceAlready
	sourceDestination
	sourceMerger
	sourceMarker
)

// outputTracker follows one yt-dlp run and remembers what it reported.
type outputTracker struct {
	dir   string
	title string
	paths map[pathSource]string

	part    int
	lastPct float64
}

func newOutputTracker(dir string) *outputTracker {
	return &outputTracker{dir: dir, paths: make(map[pathSource]string), part: 1}
}

// observe consumes one line and returns a progress report if the line
// carried one.
func (t *outputTracker) observe(line string) (job.Progress, bool) {
	if v, ok := strings.CutPrefix(line, titleMarker); ok {
		t.title = strings.TrimSpace(v)
		return job.Progress{}, false
	}
	if v, ok := strings.CutPrefix(line, fileMarker); ok {
		t.record(sourceMarker, v)
		return job.Progress{}, false
	}
	if m := mergerRegex.FindStringSubmatch(line); m != nil {
		t.record(sourceMerger, m[1])
		return job.Progress{}, false
	}
	if m := destinationRegex.FindStringSubmatch(line); m != nil {
		t.record(sourceDestination, m[1])
		return job.Progress{}, false
	}
	if m := alreadyRegex.FindStringSubmatch(line); m != nil {
		t.record(sourceAlready, m[1])
		return job.Progress{}, false
	}

	p, ok := ParseProgress(line)
	if !ok {
		return job.Progress{}, false
	}
	// Merged formats download one stream after another, each from 0%.
	if p.Percent+50 < t.lastPct {
		t.part++
	}
	t.lastPct = p.Percent
	p.Phase = "downloading"
	if t.part > 1 {
		p.Phase = fmt.Sprintf("downloading part %d", t.part)
	}
	return p, true
}

func (t *outputTracker) record(src pathSource, path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(t.dir, path)
	}
	t.paths[src] = path
}

// candidates returns reported paths, most trusted first.
func (t *outputTracker) candidates() []string {
	var out []string
	for src := sourceMarker; src > sourceNone; src-- {
		if p, ok := t.paths[src]; ok {
			out = append(out, p)
		}
	}
	return out
}
