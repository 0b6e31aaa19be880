// Package job defines the job record and its state machine.
package job

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxErrorLength bounds the failure summary kept on a job.
const MaxErrorLength = 240

// Progress is the live progress of the current stage.
type Progress struct {
	Percent float64 `json:"percent"` // 0.0 - 100.0
	Phase   string  `json:"phase,omitempty"`
	Speed   string  `json:"speed,omitempty"`
	ETA     string  `json:"eta,omitempty"`
}

// Job is one URL's trip through the pipeline.
type Job struct {
	ID           string     `json:"id"`
	URL          string     `json:"url"`
	Quality      string     `json:"quality"`
	Title        string     `json:"title,omitempty"`
	Status       Status     `json:"status"`
	Progress     Progress   `json:"progress"`
	Error        string     `json:"error,omitempty"`
	DownloadPath string     `json:"download_path,omitempty"`
	OutputPath   string     `json:"output_path,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Seq          uint64     `json:"seq"`
}

// New creates a queued job for the given URL.
func New(rawURL, quality string, seq uint64) (*Job, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, ErrEmptyURL
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate job id: %w", err)
	}
	return &Job{
		ID:        id.String(),
		URL:       rawURL,
		Quality:   quality,
		Status:    StatusQueued,
		CreatedAt: time.Now(),
		Seq:       seq,
	}, nil
}

// Transition moves the job to status to.
// Entering an active stage resets progress; entering a terminal status
// stamps FinishedAt.
func (j *Job) Transition(to Status) error {
	if !j.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, j.Status, to)
	}
	now := time.Now()
	j.Status = to
	switch {
	case to.IsActive():
		j.Progress = Progress{}
		if j.StartedAt == nil {
			j.StartedAt = &now
		}
	case to.IsTerminal():
		j.FinishedAt = &now
		if to == StatusCompleted {
			j.Progress.Percent = 100
		}
		j.Progress.Speed = ""
		j.Progress.ETA = ""
	}
	return nil
}

// Advance applies a progress report to the running stage.
// Percent is clamped to [0, 100] and never decreases. Returns true if the
// visible progress changed.
func (j *Job) Advance(p Progress) bool {
	if !j.Status.IsActive() {
		return false
	}
	next := j.Progress
	pct := clamp(p.Percent)
	if pct > next.Percent {
		next.Percent = pct
	}
	if p.Phase != "" {
		next.Phase = p.Phase
	}
	if p.Speed != "" {
		next.Speed = p.Speed
	}
	if p.ETA != "" {
		next.ETA = p.ETA
	}
	if next == j.Progress {
		return false
	}
	j.Progress = next
	return true
}

// Fail records a failure summary and moves the job to failed.
func (j *Job) Fail(err error) error {
	if err := j.Transition(StatusFailed); err != nil {
		return err
	}
	j.Error = Summarize(err)
	return nil
}

// Summarize shortens an error into a single-line summary.
func Summarize(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.Join(strings.Fields(err.Error()), " ")
	if r := []rune(msg); len(r) > MaxErrorLength {
		msg = string(r[:MaxErrorLength-3]) + "..."
	}
	return msg
}

// Clone returns a deep copy safe to hand outside the owner.
func (j *Job) Clone() Job {
	c := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		c.StartedAt = &t
	}
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		c.FinishedAt = &t
	}
	return c
}

func clamp(pct float64) float64 {
	switch {
	case pct != pct: // NaN
		return 0
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
