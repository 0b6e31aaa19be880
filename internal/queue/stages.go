package queue

import (
	"context"

	"github.com/vmunix/carbon/internal/convert"
	"github.com/vmunix/carbon/internal/download"
	"github.com/vmunix/carbon/internal/events"
	"github.com/vmunix/carbon/internal/job"
)

//go:generate mockgen -source=stages.go -destination=mocks/mock_stages.go -package=mocks

// Fetcher downloads a job's URL into its scratch directory.
type Fetcher interface {
	Fetch(ctx context.Context, req download.Request, progress func(job.Progress)) (*download.Result, error)
}

// Converter transcodes a downloaded file into the output directory.
type Converter interface {
	Convert(ctx context.Context, req convert.Request, progress func(job.Progress)) (*convert.Result, error)
}

// Artifacts manages per-job scratch files.
type Artifacts interface {
	Promote(jobID, src string) (string, error)
	Discard(jobID string) error
}

// Publisher receives job and queue events.
type Publisher interface {
	Publish(ctx context.Context, e events.Event) error
}

// Stages groups the collaborators a scheduler dispatches to.
// Converter may be nil when conversion is disabled.
type Stages struct {
	Fetcher   Fetcher
	Converter Converter
	Artifacts Artifacts
}
