// Package download fetches source media for a job with yt-dlp.
package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/process"
)

// DefaultBinary is the fetch tool looked up on PATH.
const DefaultBinary = "yt-dlp"

// Workspace provides per-job scratch directories.
type Workspace interface {
	Dir(jobID string) (string, error)
	Discard(jobID string) error
}

// Request describes one fetch.
type Request struct {
	JobID   string
	URL     string
	Quality string
}

// Result is a completed fetch.
type Result struct {
	Path  string // inside the job's scratch directory
	Title string
}

// Stage runs yt-dlp for jobs.
type Stage struct {
	exec   process.Executor
	binary string
	ws     Workspace
	log    *slog.Logger
}

// NewStage creates a download stage. An empty binary uses DefaultBinary.
func NewStage(exec process.Executor, binary string, ws Workspace, log *slog.Logger) *Stage {
	if binary == "" {
		binary = DefaultBinary
	}
	if log == nil {
		log = slog.Default()
	}
	return &Stage{exec: exec, binary: binary, ws: ws, log: log}
}

// Args builds the yt-dlp argument list for one fetch into dir.
func Args(dir, format, url string) []string {
	return []string{
		"-f", format,
		"--merge-output-format", "mp4",
		"--newline",
		"--no-playlist",
		"--no-colors",
		"--progress",
		"--print", "before_dl:" + titleMarker + "%(title)s",
		"--print", "after_move:" + fileMarker + "%(filepath)s",
		"-P", dir,
		"-o", "%(title)s.%(ext)s",
		"--", url,
	}
}

// Fetch downloads req.URL into the job's scratch directory, reporting
// progress as it goes. On failure or cancellation the scratch directory is
// removed so no partial file survives.
func (s *Stage) Fetch(ctx context.Context, req Request, progress func(job.Progress)) (*Result, error) {
	if req.JobID == "" || strings.TrimSpace(req.URL) == "" {
		return nil, ErrInvalidRequest
	}

	res, err := s.fetch(ctx, req, progress)
	if err != nil {
		if derr := s.ws.Discard(req.JobID); derr != nil {
			s.log.Warn("discard partial download failed", "job_id", req.JobID, "error", derr)
		}
		return nil, err
	}
	return res, nil
}

func (s *Stage) fetch(ctx context.Context, req Request, progress func(job.Progress)) (*Result, error) {
	dir, err := s.ws.Dir(req.JobID)
	if err != nil {
		return nil, err
	}

	quality, format := ResolveQuality(req.Quality)
	s.log.Info("download started", "job_id", req.JobID, "url", req.URL, "quality", quality)

	h, err := s.exec.Start(ctx, s.binary, Args(dir, format, req.URL)...)
	if err != nil {
		return nil, err
	}

	tracker := newOutputTracker(dir)
	for line := range h.Lines() {
		if p, ok := tracker.observe(line); ok && progress != nil {
			progress(p)
		}
	}
	if err := h.Wait(); err != nil {
		return nil, err
	}

	path, err := locate(dir, tracker.candidates())
	if err != nil {
		return nil, err
	}
	title := tracker.title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s.log.Info("download finished", "job_id", req.JobID, "path", path)
	return &Result{Path: path, Title: title}, nil
}

// locate picks the downloaded file. Reported paths are tried in order of
// trust; failing that, the job directory is scanned. Only this job writes to
// dir, so the scan cannot pick up another job's file.
func locate(dir string, reported []string) (string, error) {
	for _, p := range reported {
		if filepath.Dir(filepath.Clean(p)) != filepath.Clean(dir) {
			continue
		}
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			return p, nil
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("scan job dir: %w", err)
	}
	type file struct {
		name string
		size int64
	}
	var files []file
	for _, e := range entries {
		if !e.Type().IsRegular() || isPartial(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, file{name: e.Name(), size: info.Size()})
	}
	if len(files) == 0 {
		return "", ErrOutputNotFound
	}
	// Largest wins: leftover unmerged audio is smaller than the video.
	sort.Slice(files, func(i, j int) bool {
		if files[i].size != files[j].size {
			return files[i].size > files[j].size
		}
		return files[i].name < files[j].name
	})
	return filepath.Join(dir, files[0].name), nil
}

var partialSuffixes = []string{".part", ".ytdl", ".temp", ".tmp"}

func isPartial(name string) bool {
	if strings.HasPrefix(name, ".") || strings.Contains(name, ".part-Frag") {
		return true
	}
	for _, s := range partialSuffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}
