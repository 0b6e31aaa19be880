package queue

import (
	"time"

	"github.com/vmunix/carbon/internal/job"
)

// Snapshot is a consistent view of the queue at one instant.
type Snapshot struct {
	Version       uint64    `json:"version"`
	Jobs          []job.Job `json:"jobs"` // submission order
	MaxConcurrent int       `json:"max_concurrent"`
	Active        int       `json:"active"`
	TakenAt       time.Time `json:"taken_at"`
}

// Find returns the job with the given id.
func (s Snapshot) Find(id string) (job.Job, bool) {
	for _, j := range s.Jobs {
		if j.ID == id {
			return j, true
		}
	}
	return job.Job{}, false
}

// Counts tallies jobs by status.
func (s Snapshot) Counts() map[job.Status]int {
	counts := make(map[job.Status]int)
	for _, j := range s.Jobs {
		counts[j.Status]++
	}
	return counts
}

// Settled reports whether every job is terminal.
func (s Snapshot) Settled() bool {
	for _, j := range s.Jobs {
		if !j.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// offer hands snap to a capacity-1 subscriber channel, replacing any value
// the subscriber has not read yet. Only the scheduler sends on ch.
func offer(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
