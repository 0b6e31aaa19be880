package v1

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vmunix/carbon/internal/job"
)

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	snap := s.queue.Snapshot()

	items := snap.Jobs
	if status := r.URL.Query().Get("status"); status != "" {
		want := job.Status(strings.ToLower(status))
		if !want.Valid() {
			writeError(w, http.StatusBadRequest, "INVALID_STATUS", "unknown status: "+status)
			return
		}
		items = make([]job.Job, 0, len(snap.Jobs))
		for _, j := range snap.Jobs {
			if j.Status == want {
				items = append(items, j)
			}
		}
	}
	if items == nil {
		items = []job.Job{}
	}

	writeJSON(w, http.StatusOK, listJobsResponse{
		Items:         items,
		Total:         len(items),
		Version:       snap.Version,
		MaxConcurrent: snap.MaxConcurrent,
		Active:        snap.Active,
	})
}

func (s *Server) addJob(w http.ResponseWriter, r *http.Request) {
	var req addJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}

	id, err := s.queue.SubmitWithQuality(req.URL, req.Quality)
	if err != nil {
		writeQueueError(w, err)
		return
	}

	j, err := s.queue.Get(id)
	if err != nil {
		writeQueueError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, j)
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	j, err := s.queue.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeQueueError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, j)
}

func (s *Server) deleteJob(w http.ResponseWriter, r *http.Request) {
	if err := s.queue.Delete(chi.URLParam(r, "id")); err != nil {
		writeQueueError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cancelJob answers 200 once the job has settled, or 202 if it is still
// winding down when the timeout expires.
func (s *Server) cancelJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.CancelTimeout)
	defer cancel()

	status := http.StatusOK
	if err := s.queue.Cancel(ctx, id); err != nil {
		if !errors.Is(err, context.DeadlineExceeded) {
			writeQueueError(w, err)
			return
		}
		status = http.StatusAccepted
	}

	j, err := s.queue.Get(id)
	if err != nil {
		writeQueueError(w, err)
		return
	}
	writeJSON(w, status, j)
}

func (s *Server) clearJobs(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, clearResponse{Removed: s.queue.ClearCompleted()})
}

func (s *Server) getConcurrency(w http.ResponseWriter, _ *http.Request) {
	snap := s.queue.Snapshot()
	writeJSON(w, http.StatusOK, concurrencyResponse{MaxConcurrent: snap.MaxConcurrent, Active: snap.Active})
}

func (s *Server) setConcurrency(w http.ResponseWriter, r *http.Request) {
	var req concurrencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", err.Error())
		return
	}
	if err := s.queue.SetMaxConcurrent(req.MaxConcurrent); err != nil {
		writeQueueError(w, err)
		return
	}
	snap := s.queue.Snapshot()
	writeJSON(w, http.StatusOK, concurrencyResponse{MaxConcurrent: snap.MaxConcurrent, Active: snap.Active})
}

func (s *Server) getStatus(w http.ResponseWriter, _ *http.Request) {
	snap := s.queue.Snapshot()

	counts := make(map[string]int)
	for status, n := range snap.Counts() {
		counts[string(status)] = n
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:        "ok",
		Version:       s.cfg.Version,
		Uptime:        time.Since(s.started).Round(time.Second).String(),
		Jobs:          counts,
		Total:         len(snap.Jobs),
		MaxConcurrent: snap.MaxConcurrent,
		Active:        snap.Active,
	})
}
