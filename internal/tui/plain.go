package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/queue"
)

// progressStep is the percent granularity of plain progress lines.
const progressStep = 10

// Printer writes one line per job state change, for terminals without a TUI
// and for logs.
type Printer struct {
	w    io.Writer
	seen map[string]printed
}

type printed struct {
	status job.Status
	step   int
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, seen: make(map[string]printed)}
}

// Print reports what changed since the previous snapshot.
func (p *Printer) Print(snap queue.Snapshot) {
	for _, j := range snap.Jobs {
		prev, known := p.seen[j.ID]
		step := int(j.Progress.Percent) / progressStep
		if !j.Status.IsActive() {
			step = 0
		}

		switch {
		case !known || prev.status != j.Status:
			p.line(j)
		case step > prev.step:
			_, _ = fmt.Fprintf(p.w, "[%s] %s %s %.0f%%\n", shortID(j.ID), j.Status, Label(j), j.Progress.Percent)
		default:
			continue
		}
		p.seen[j.ID] = printed{status: j.Status, step: step}
	}
}

func (p *Printer) line(j job.Job) {
	switch j.Status {
	case job.StatusCompleted:
		_, _ = fmt.Fprintf(p.w, "[%s] completed %s -> %s\n", shortID(j.ID), Label(j), j.OutputPath)
	case job.StatusFailed:
		_, _ = fmt.Fprintf(p.w, "[%s] failed %s: %s\n", shortID(j.ID), Label(j), j.Error)
	default:
		_, _ = fmt.Fprintf(p.w, "[%s] %s %s\n", shortID(j.ID), j.Status, Label(j))
	}
}

// RunPlain prints snapshots until ctx is done, the feed ends, or, with
// exitWhenSettled, every job is terminal. It returns the last snapshot.
func RunPlain(ctx context.Context, w io.Writer, snaps <-chan queue.Snapshot, exitWhenSettled bool) (queue.Snapshot, error) {
	p := NewPrinter(w)
	var last queue.Snapshot
	for {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case snap, ok := <-snaps:
			if !ok {
				return last, ErrStreamClosed
			}
			last = snap
			p.Print(snap)
			if exitWhenSettled && len(snap.Jobs) > 0 && snap.Settled() {
				return last, nil
			}
		}
	}
}
