// Package workspace manages the output directory layout: finished files in
// the output root, per-job scratch directories under <root>/.temp/<job-id>.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// TempDirName is the scratch directory inside the output root.
const TempDirName = ".temp"

// Sentinel errors for the workspace package.
var (
	// ErrInvalidJobID is returned for ids that are not a single path element.
	ErrInvalidJobID = errors.New("invalid job id")

	// ErrPathTraversal is returned when a path would escape the workspace.
	ErrPathTraversal = errors.New("path escapes workspace")
)

// Workspace owns the output root and the per-job scratch directories.
type Workspace struct {
	root   string
	logger *slog.Logger
}

// New creates a workspace rooted at outputDir.
func New(outputDir string, logger *slog.Logger) *Workspace {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workspace{root: filepath.Clean(outputDir), logger: logger}
}

// Dir returns the scratch directory for a job, creating it if needed.
func (w *Workspace) Dir(jobID string) (string, error) {
	dir, err := w.jobDir(jobID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create job dir: %w", err)
	}
	return dir, nil
}

// Discard removes a job's scratch directory and everything in it.
// Removing a directory that does not exist is not an error.
func (w *Workspace) Discard(jobID string) error {
	dir, err := w.jobDir(jobID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("remove job dir: %w", err)
	}
	w.logger.Debug("job dir discarded", "job_id", jobID)
	return nil
}

// Promote moves a finished file out of the job's scratch directory into the
// output root under a sanitized name and returns the final path. A file
// already holding that name is left alone; see Reserve.
func (w *Workspace) Promote(jobID, src string) (string, error) {
	dir, err := w.jobDir(jobID)
	if err != nil {
		return "", err
	}
	if err := ValidatePath(src, dir); err != nil {
		return "", err
	}

	name := SanitizeFilename(filepath.Base(src))
	if name == "" {
		name = jobID + filepath.Ext(src)
	}
	dst, err := Reserve(w.root, name, jobID)
	if err != nil {
		return "", err
	}
	if err := os.Rename(src, dst); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("move %s to output: %w", filepath.Base(src), err)
	}
	w.logger.Info("file promoted", "job_id", jobID, "path", dst)
	return dst, nil
}

// Sweep removes every scratch directory left behind by a previous run.
func (w *Workspace) Sweep() (int, error) {
	entries, err := os.ReadDir(filepath.Join(w.root, TempDirName))
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read temp dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(w.root, TempDirName, e.Name())); err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name(), err)
		}
		removed++
	}
	if removed > 0 {
		w.logger.Info("stale job dirs removed", "count", removed)
	}
	return removed, nil
}

func (w *Workspace) jobDir(jobID string) (string, error) {
	if jobID == "" || jobID == "." || jobID == ".." || strings.ContainsAny(jobID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidJobID, jobID)
	}
	return filepath.Join(w.root, TempDirName, jobID), nil
}

// ValidatePath ensures the path is within the expected root directory.
// Returns ErrPathTraversal if the path would escape the root.
func ValidatePath(path, expectedRoot string) error {
	cleanPath := filepath.Clean(path)
	cleanRoot := filepath.Clean(expectedRoot)

	if !strings.HasSuffix(cleanRoot, string(filepath.Separator)) {
		cleanRoot += string(filepath.Separator)
	}

	if cleanPath != filepath.Clean(expectedRoot) && !strings.HasPrefix(cleanPath, cleanRoot) {
		return ErrPathTraversal
	}
	return nil
}
