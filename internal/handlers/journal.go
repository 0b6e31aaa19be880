// internal/handlers/journal.go
package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/vmunix/carbon/internal/events"
)

// DefaultPruneInterval is how often the journal trims the event log.
const DefaultPruneInterval = time.Hour

// Pruner removes persisted events older than a cutoff.
type Pruner interface {
	Prune(olderThan time.Duration) (int64, error)
}

// JournalConfig configures the journal handler.
type JournalConfig struct {
	Retention     time.Duration // 0 keeps everything
	PruneInterval time.Duration
}

// JournalHandler logs every job event and keeps the event log trimmed.
type JournalHandler struct {
	*BaseHandler
	pruner Pruner
	config JournalConfig
}

// NewJournalHandler creates a journal handler. pruner may be nil.
func NewJournalHandler(bus *events.Bus, pruner Pruner, config JournalConfig, logger *slog.Logger) *JournalHandler {
	if config.PruneInterval <= 0 {
		config.PruneInterval = DefaultPruneInterval
	}
	return &JournalHandler{
		BaseHandler: NewBaseHandler(bus, logger),
		pruner:      pruner,
		config:      config,
	}
}

// Name returns the handler name.
func (h *JournalHandler) Name() string {
	return "journal"
}

// Start begins processing events.
func (h *JournalHandler) Start(ctx context.Context) error {
	all := h.Bus().SubscribeAll(100)
	defer h.Bus().Unsubscribe(all)

	h.prune()
	ticker := time.NewTicker(h.config.PruneInterval)
	defer ticker.Stop()

	for {
		select {
		case e, ok := <-all:
			if !ok {
				return nil // Channel closed
			}
			h.record(e)
		case <-ticker.C:
			h.prune()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *JournalHandler) record(e events.Event) {
	log := h.Logger().With("type", e.EventType(), "entity_id", e.EntityID())
	switch e := e.(type) {
	case *events.JobQueued:
		log.Info("job submitted", "url", e.URL, "quality", e.Quality)
	case *events.JobStarted:
		log.Debug("job stage started", "stage", e.Stage)
	case *events.JobCompleted:
		log.Info("job finished", "title", e.Title, "output", e.OutputPath)
	case *events.JobFailed:
		log.Warn("job failed", "stage", e.Stage, "reason", e.Reason)
	case *events.JobCancelled:
		log.Info("job cancelled", "stage", e.Stage)
	case *events.JobRemoved:
		log.Debug("job removed", "status", e.Status)
	case *events.QueueResized:
		log.Info("queue resized", "from", e.From, "to", e.To)
	default:
		log.Debug("event")
	}
}

func (h *JournalHandler) prune() {
	if h.pruner == nil || h.config.Retention <= 0 {
		return
	}
	n, err := h.pruner.Prune(h.config.Retention)
	if err != nil {
		h.Logger().Error("prune event log failed", "error", err)
		return
	}
	if n > 0 {
		h.Logger().Info("pruned event log", "removed", n, "retention", h.config.Retention)
	}
}
