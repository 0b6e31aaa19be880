// Package queue owns the job set and dispatches jobs through the pipeline.
package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vmunix/carbon/internal/download"
	"github.com/vmunix/carbon/internal/events"
	"github.com/vmunix/carbon/internal/job"
)

// Concurrency bounds.
const (
	MinConcurrent        = 1
	MaxConcurrentLimit   = 10
	DefaultMaxConcurrent = 3
)

// Config holds the scheduler's startup settings.
type Config struct {
	MaxConcurrent  int // 0 uses DefaultMaxConcurrent
	DefaultQuality string
	AutoConvert    bool
}

type record struct {
	job    *job.Job
	cancel context.CancelFunc // set while active
	done   chan struct{}      // closed on the terminal transition
}

// Scheduler is the single owner of the job set and the active count.
// Stage goroutines report back only through its methods.
type Scheduler struct {
	stages         Stages
	bus            Publisher
	defaultQuality string
	autoConvert    bool
	log            *slog.Logger

	mu      sync.Mutex
	jobs    map[string]*record
	order   []string
	seq     uint64
	max     int
	active  int
	version uint64
	subs    map[int]chan Snapshot
	nextSub int
	outbox  []events.Event
	running bool
	ctx     context.Context
	wg      sync.WaitGroup

	wake    chan struct{}
	pending chan struct{}
}

// New creates a scheduler. bus may be nil.
func New(stages Stages, cfg Config, bus Publisher, logger *slog.Logger) (*Scheduler, error) {
	if stages.Fetcher == nil || stages.Artifacts == nil {
		return nil, fmt.Errorf("queue: fetcher and artifacts are required")
	}
	if cfg.AutoConvert && stages.Converter == nil {
		return nil, fmt.Errorf("queue: auto convert requires a converter")
	}
	limit := cfg.MaxConcurrent
	if limit == 0 {
		limit = DefaultMaxConcurrent
	}
	if err := validateConcurrency(limit); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	quality, _ := download.ResolveQuality(cfg.DefaultQuality)
	return &Scheduler{
		stages:         stages,
		bus:            bus,
		defaultQuality: quality,
		autoConvert:    cfg.AutoConvert,
		log:            logger.With("component", "queue"),
		jobs:           make(map[string]*record),
		max:            limit,
		subs:           make(map[int]chan Snapshot),
		ctx:            context.Background(),
		wake:           make(chan struct{}, 1),
		pending:        make(chan struct{}, 1),
	}, nil
}

// Run is the admission loop. It returns after ctx is done and every running
// stage has wound down. Jobs still queued at that point stay queued.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyRunning
	}
	s.running = true
	s.ctx = ctx
	s.mu.Unlock()

	s.log.Info("scheduler started", "max_concurrent", s.MaxConcurrent())

	stop := make(chan struct{})
	delivered := make(chan struct{})
	go func() {
		defer close(delivered)
		s.deliver(stop)
	}()

	for {
		s.admit()
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopping")
			s.wg.Wait()
			close(stop)
			<-delivered

			s.mu.Lock()
			s.running = false
			s.ctx = context.Background()
			s.mu.Unlock()
			return nil
		case <-s.wake:
		}
	}
}

// Submit queues url with the default quality.
func (s *Scheduler) Submit(url string) (string, error) {
	return s.SubmitWithQuality(url, "")
}

// SubmitWithQuality queues url. It never blocks on the URL itself.
func (s *Scheduler) SubmitWithQuality(url, quality string) (string, error) {
	if quality == "" {
		quality = s.defaultQuality
	}
	quality, _ = download.ResolveQuality(quality)

	s.mu.Lock()
	defer s.mu.Unlock()

	j, err := job.New(url, quality, s.seq+1)
	if err != nil {
		return "", err
	}
	s.seq++
	s.jobs[j.ID] = &record{job: j, done: make(chan struct{})}
	s.order = append(s.order, j.ID)

	s.log.Info("job queued", "job_id", j.ID, "url", j.URL, "quality", j.Quality)
	s.emit(&events.JobQueued{
		BaseEvent: events.NewBaseEvent(events.EventJobQueued, events.EntityJob, j.ID),
		URL:       j.URL,
		Quality:   j.Quality,
	})
	s.changed()
	s.signal()
	return j.ID, nil
}

// Cancel stops a job. A queued job is cancelled at once without running any
// stage. An active job's stage is told to stop and Cancel waits for the job
// to settle, or for ctx. Cancelling a terminal job does nothing.
func (s *Scheduler) Cancel(ctx context.Context, id string) error {
	s.mu.Lock()
	rec, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}

	switch {
	case rec.job.Status.IsTerminal():
		s.mu.Unlock()
		return nil
	case rec.job.Status == job.StatusQueued:
		s.settle(rec, job.StatusQueued, func(j *job.Job) error {
			return j.Transition(job.StatusCancelled)
		})
		s.mu.Unlock()
		return nil
	}

	s.log.Info("cancelling job", "job_id", id, "status", rec.job.Status)
	rec.cancel()
	done := rec.done
	s.mu.Unlock()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Delete removes a terminal job and its scratch files.
func (s *Scheduler) Delete(id string) error {
	s.mu.Lock()
	rec, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	if !rec.job.Status.IsTerminal() {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s is %s", ErrJobActive, id, rec.job.Status)
	}
	s.remove(rec)
	s.changed()
	s.mu.Unlock()

	s.discard(id)
	return nil
}

// ClearCompleted removes every terminal job and returns how many went.
func (s *Scheduler) ClearCompleted() int {
	s.mu.Lock()
	var removed []string
	for _, id := range append([]string(nil), s.order...) {
		rec := s.jobs[id]
		if rec.job.Status.IsTerminal() {
			s.remove(rec)
			removed = append(removed, id)
		}
	}
	if len(removed) > 0 {
		s.changed()
	}
	s.mu.Unlock()

	for _, id := range removed {
		s.discard(id)
	}
	if len(removed) > 0 {
		s.log.Info("cleared finished jobs", "count", len(removed))
	}
	return len(removed)
}

// Get returns a copy of one job.
func (s *Scheduler) Get(id string) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.jobs[id]
	if !ok {
		return job.Job{}, ErrNotFound
	}
	return rec.job.Clone(), nil
}

// Snapshot returns the current state of the queue.
func (s *Scheduler) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Subscribe returns a channel that always holds the latest snapshot, starting
// with the current one. A slow reader only ever misses intermediate states.
// Call the returned func to unsubscribe; it closes the channel.
func (s *Scheduler) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Snapshot, 1)
	ch <- s.snapshot()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
}

// SetMaxConcurrent changes the ceiling. Lowering it never stops running
// jobs; it only holds back new admissions.
func (s *Scheduler) SetMaxConcurrent(n int) error {
	if err := validateConcurrency(n); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if n == s.max {
		return nil
	}
	prev := s.max
	s.max = n

	s.log.Info("concurrency changed", "from", prev, "to", n, "active", s.active)
	s.emit(&events.QueueResized{
		BaseEvent: events.NewBaseEvent(events.EventQueueResized, events.EntityQueue, events.EntityQueue),
		From:      prev,
		To:        n,
	})
	s.changed()
	s.signal()
	return nil
}

// MaxConcurrent returns the current ceiling.
func (s *Scheduler) MaxConcurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

func validateConcurrency(n int) error {
	if n < MinConcurrent || n > MaxConcurrentLimit {
		return fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidConcurrency, n, MinConcurrent, MaxConcurrentLimit)
	}
	return nil
}

// admit starts the oldest queued jobs while slots are free.
func (s *Scheduler) admit() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for s.ctx.Err() == nil && s.active < s.max {
		rec := s.nextQueued()
		if rec == nil {
			return
		}
		s.start(rec)
	}
}

func (s *Scheduler) nextQueued() *record {
	for _, id := range s.order {
		if rec := s.jobs[id]; rec.job.Status == job.StatusQueued {
			return rec
		}
	}
	return nil
}

// start moves rec into the download stage. Caller holds s.mu.
func (s *Scheduler) start(rec *record) {
	if err := rec.job.Transition(job.StatusDownloading); err != nil {
		s.log.Error("admit failed", "job_id", rec.job.ID, "error", err)
		return
	}
	ctx, cancel := context.WithCancel(s.ctx)
	rec.cancel = cancel
	s.active++

	j := rec.job
	s.log.Info("job started", "job_id", j.ID, "active", s.active, "max_concurrent", s.max)
	s.emitStarted(j.ID, job.StatusDownloading)
	s.changed()

	req := download.Request{JobID: j.ID, URL: j.URL, Quality: j.Quality}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJob(ctx, req)
	}()
}

// settle applies a terminal transition to rec and frees its slot if it held
// one. Caller holds s.mu.
func (s *Scheduler) settle(rec *record, from job.Status, apply func(*job.Job) error) {
	j := rec.job
	if err := apply(j); err != nil {
		s.log.Error("job transition failed", "job_id", j.ID, "from", from, "error", err)
		return
	}
	if from.IsActive() {
		s.active--
		rec.cancel()
		rec.cancel = nil
	}
	close(rec.done)

	base := func(eventType string) events.BaseEvent {
		return events.NewBaseEvent(eventType, events.EntityJob, j.ID)
	}
	switch j.Status {
	case job.StatusCompleted:
		s.log.Info("job completed", "job_id", j.ID, "output", j.OutputPath)
		s.emit(&events.JobCompleted{BaseEvent: base(events.EventJobCompleted), Title: j.Title, OutputPath: j.OutputPath})
	case job.StatusFailed:
		s.log.Warn("job failed", "job_id", j.ID, "stage", from, "error", j.Error)
		s.emit(&events.JobFailed{BaseEvent: base(events.EventJobFailed), Stage: string(from), Reason: j.Error})
	case job.StatusCancelled:
		stage := ""
		if from.IsActive() {
			stage = string(from)
		}
		s.log.Info("job cancelled", "job_id", j.ID, "stage", from)
		s.emit(&events.JobCancelled{BaseEvent: base(events.EventJobCancelled), Stage: stage})
	}
	s.changed()
	s.signal()
}

// remove drops rec from the job set. Caller holds s.mu.
func (s *Scheduler) remove(rec *record) {
	id := rec.job.ID
	delete(s.jobs, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.emit(&events.JobRemoved{
		BaseEvent: events.NewBaseEvent(events.EventJobRemoved, events.EntityJob, id),
		Status:    string(rec.job.Status),
	})
}

func (s *Scheduler) discard(id string) {
	if err := s.stages.Artifacts.Discard(id); err != nil {
		s.log.Warn("discard job files failed", "job_id", id, "error", err)
	}
}

// snapshot builds a Snapshot. Caller holds s.mu.
func (s *Scheduler) snapshot() Snapshot {
	jobs := make([]job.Job, 0, len(s.order))
	for _, id := range s.order {
		jobs = append(jobs, s.jobs[id].job.Clone())
	}
	return Snapshot{
		Version:       s.version,
		Jobs:          jobs,
		MaxConcurrent: s.max,
		Active:        s.active,
		TakenAt:       time.Now(),
	}
}

// changed bumps the version and pushes a snapshot to subscribers.
// Caller holds s.mu.
func (s *Scheduler) changed() {
	s.version++
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshot()
	for _, ch := range s.subs {
		offer(ch, snap)
	}
}

// signal wakes the admission loop.
func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// emit queues an event for delivery outside the lock. Caller holds s.mu.
func (s *Scheduler) emit(e events.Event) {
	if s.bus == nil {
		return
	}
	s.outbox = append(s.outbox, e)
	select {
	case s.pending <- struct{}{}:
	default:
	}
}

func (s *Scheduler) emitStarted(id string, stage job.Status) {
	s.emit(&events.JobStarted{
		BaseEvent: events.NewBaseEvent(events.EventJobStarted, events.EntityJob, id),
		Stage:     string(stage),
	})
}

// deliver publishes queued events in order until stop, then drains.
func (s *Scheduler) deliver(stop <-chan struct{}) {
	for {
		select {
		case <-s.pending:
			s.flush()
		case <-stop:
			s.flush()
			return
		}
	}
}

func (s *Scheduler) flush() {
	s.mu.Lock()
	batch := s.outbox
	s.outbox = nil
	s.mu.Unlock()

	for _, e := range batch {
		if err := s.bus.Publish(context.Background(), e); err != nil {
			s.log.Warn("publish event failed", "type", e.EventType(), "error", err)
		}
	}
}
