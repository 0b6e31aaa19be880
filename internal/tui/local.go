package tui

import (
	"context"

	"github.com/vmunix/carbon/internal/queue"
)

// Local drives an in-process scheduler.
type Local struct {
	Scheduler *queue.Scheduler
}

// Submit queues url at the configured default quality.
func (l Local) Submit(_ context.Context, url string) (string, error) {
	return l.Scheduler.Submit(url)
}

func (l Local) Cancel(ctx context.Context, id string) error {
	return l.Scheduler.Cancel(ctx, id)
}

func (l Local) Delete(_ context.Context, id string) error {
	return l.Scheduler.Delete(id)
}

func (l Local) ClearCompleted(context.Context) (int, error) {
	return l.Scheduler.ClearCompleted(), nil
}
