package workspace

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// maxReserveAttempts bounds the numbered fallbacks tried after the job id
// suffix is also taken.
const maxReserveAttempts = 100

// ErrNameTaken is returned when no free name could be found for a file.
var ErrNameTaken = errors.New("no free output name")

// Reserve claims a free file name in dir and returns its path. The name is
// used as given when free; otherwise the short job id is appended to the
// stem, then a counter. An empty placeholder is created with O_EXCL so two
// jobs finishing together never claim the same path. Callers rename over the
// placeholder, or remove it on failure.
func Reserve(dir, name, jobID string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	tag := shortJobID(jobID)

	for i := 0; i < maxReserveAttempts; i++ {
		candidate := name
		switch {
		case i == 1:
			candidate = fmt.Sprintf("%s [%s]%s", stem, tag, ext)
		case i > 1:
			candidate = fmt.Sprintf("%s [%s-%d]%s", stem, tag, i, ext)
		}
		path := filepath.Join(dir, candidate)
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reserve %s: %w", candidate, err)
		}
		if err := f.Close(); err != nil {
			_ = os.Remove(path)
			return "", fmt.Errorf("reserve %s: %w", candidate, err)
		}
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNameTaken, name)
}

func shortJobID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}
