package v1

import (
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vmunix/carbon/internal/events"
)

func (s *Server) listEvents(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	// Validate pagination parameters
	if limit < 0 || offset < 0 {
		writeError(w, http.StatusBadRequest, "INVALID_PAGINATION", "limit and offset must be non-negative")
		return
	}
	const maxLimit = 1000
	if limit > maxLimit {
		limit = maxLimit
	}

	var since time.Time
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_SINCE", "since must be an RFC 3339 timestamp")
			return
		}
		since = t
	}

	if s.events == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
		return
	}

	if !since.IsZero() {
		s.listEventsSince(w, since, limit, offset)
		return
	}

	raw, total, err := s.events.Recent(limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Items:  s.toEventResponses(raw),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// listEventsSince pages through the window newest first, like Recent.
func (s *Server) listEventsSince(w http.ResponseWriter, since time.Time, limit, offset int) {
	raw, err := s.events.Since(since)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	slices.Reverse(raw)

	total := len(raw)
	page := raw[min(offset, total):min(offset+limit, total)]
	writeJSON(w, http.StatusOK, listEventsResponse{
		Items:  s.toEventResponses(page),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *Server) listJobEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if s.events == nil {
		writeError(w, http.StatusServiceUnavailable, "NO_EVENT_LOG", "Event log not configured")
		return
	}

	// The journal outlives the queue, so a deleted job still has history.
	raw, err := s.events.ForEntity(events.EntityJob, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "EVENT_ERROR", err.Error())
		return
	}
	if len(raw) == 0 {
		if _, err := s.queue.Get(id); err != nil {
			writeQueueError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, listEventsResponse{
		Items:  s.toEventResponses(raw),
		Total:  len(raw),
		Limit:  len(raw),
		Offset: 0,
	})
}

func (s *Server) toEventResponses(raw []events.RawEvent) []EventResponse {
	out := make([]EventResponse, len(raw))
	for i, e := range raw {
		out[i] = EventResponse{
			ID:         e.ID,
			EventType:  e.EventType,
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Payload:    e.Payload,
			OccurredAt: e.OccurredAt,
		}
		// Rows written by other versions may not decode; they keep the raw payload.
		if decoded, err := s.registry.Unmarshal(e); err == nil {
			out[i].Detail = events.Describe(decoded)
		} else {
			s.log.Debug("event payload not decoded", "id", e.ID, "type", e.EventType, "error", err)
		}
	}
	return out
}
