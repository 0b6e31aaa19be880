package queue

import (
	"context"
	"errors"
	"fmt"

	"github.com/vmunix/carbon/internal/convert"
	"github.com/vmunix/carbon/internal/download"
	"github.com/vmunix/carbon/internal/job"
	"github.com/vmunix/carbon/internal/process"
)

// runJob runs one job through its stages. It is the only goroutine that
// drives the job while it is active.
func (s *Scheduler) runJob(ctx context.Context, req download.Request) {
	id := req.JobID

	res, err := s.stages.Fetcher.Fetch(ctx, req, s.reporter(id, job.StatusDownloading))
	if err != nil {
		s.stageFailed(ctx, id, job.StatusDownloading, err)
		return
	}
	if ctx.Err() != nil {
		s.abort(id, job.StatusDownloading)
		return
	}

	if !s.autoConvert {
		out, err := s.stages.Artifacts.Promote(id, res.Path)
		if err != nil {
			s.stageFailed(ctx, id, job.StatusDownloading, fmt.Errorf("promote download: %w", err))
			return
		}
		s.complete(id, job.StatusDownloading, res.Title, out, out)
		return
	}

	if !s.beginConvert(ctx, id, res) {
		s.abort(id, job.StatusDownloading)
		return
	}

	cres, err := s.stages.Converter.Convert(ctx, convert.Request{JobID: id, Input: res.Path}, s.reporter(id, job.StatusConverting))
	if err != nil {
		s.stageFailed(ctx, id, job.StatusConverting, err)
		return
	}
	// The converted file is in place; the source goes with the job dir.
	s.discard(id)
	s.complete(id, job.StatusConverting, res.Title, "", cres.Path)
}

// reporter returns the progress callback for one stage of a job. Reports
// that arrive after the job has left the stage are dropped.
func (s *Scheduler) reporter(id string, stage job.Status) func(job.Progress) {
	return func(p job.Progress) {
		s.mu.Lock()
		defer s.mu.Unlock()
		rec, ok := s.jobs[id]
		if !ok || rec.job.Status != stage {
			return
		}
		if rec.job.Advance(p) {
			s.changed()
		}
	}
}

// beginConvert records the download and enters the convert stage. It
// returns false if the job was cancelled meanwhile.
func (s *Scheduler) beginConvert(ctx context.Context, id string, res *download.Result) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Cancel holds s.mu while it cancels ctx, so this check cannot race it.
	if ctx.Err() != nil {
		return false
	}
	j := s.jobs[id].job
	if res.Title != "" {
		j.Title = res.Title
	}
	j.DownloadPath = res.Path
	if err := j.Transition(job.StatusConverting); err != nil {
		s.log.Error("job transition failed", "job_id", id, "error", err)
		return false
	}
	s.log.Info("job converting", "job_id", id, "input", res.Path)
	s.emitStarted(id, job.StatusConverting)
	s.changed()
	return true
}

func (s *Scheduler) complete(id string, from job.Status, title, downloadPath, output string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle(s.jobs[id], from, func(j *job.Job) error {
		if err := j.Transition(job.StatusCompleted); err != nil {
			return err
		}
		if title != "" {
			j.Title = title
		}
		j.DownloadPath = downloadPath
		j.OutputPath = output
		return nil
	})
}

// stageFailed settles a job whose stage returned err. Interruptions end the
// job as cancelled; anything else is a failure.
func (s *Scheduler) stageFailed(ctx context.Context, id string, stage job.Status, err error) {
	if ctx.Err() != nil || errors.Is(err, process.ErrCancelled) || errors.Is(err, context.Canceled) {
		s.abort(id, stage)
		return
	}
	if stage == job.StatusDownloading {
		s.discard(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle(s.jobs[id], stage, func(j *job.Job) error {
		return j.Fail(err)
	})
}

// abort removes the job's files and settles it as cancelled.
func (s *Scheduler) abort(id string, stage job.Status) {
	s.discard(id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle(s.jobs[id], stage, func(j *job.Job) error {
		if err := j.Transition(job.StatusCancelled); err != nil {
			return err
		}
		j.DownloadPath = ""
		return nil
	})
}
