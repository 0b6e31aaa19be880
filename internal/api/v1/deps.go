package v1

//go:generate mockgen -source=deps.go -destination=mocks/mock_deps.go -package=mocks

import (
	"context"
	"time"

	"github.com/vmunix/carbon/internal/events"
	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/queue"
)

// Queue is the scheduler surface the API drives.
type Queue interface {
	SubmitWithQuality(url, quality string) (string, error)
	Cancel(ctx context.Context, id string) error
	Delete(id string) error
	ClearCompleted() int
	Get(id string) (job.Job, error)
	Snapshot() queue.Snapshot
	Subscribe() (<-chan queue.Snapshot, func())
	SetMaxConcurrent(n int) error
	MaxConcurrent() int
}

// EventLister reads the persisted event journal.
type EventLister interface {
	Recent(limit, offset int) ([]events.RawEvent, int, error)
	ForEntity(entityType, entityID string) ([]events.RawEvent, error)
	Since(t time.Time) ([]events.RawEvent, error)
}
