package v1

import (
	"time"

	"github.com/vmunix/carbon/internal/job"
)

// addJobRequest is the body for POST /jobs.
type addJobRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality,omitempty"`
}

// listJobsResponse is the response for GET /jobs.
type listJobsResponse struct {
	Items         []job.Job `json:"items"`
	Total         int       `json:"total"`
	Version       uint64    `json:"version"`
	MaxConcurrent int       `json:"max_concurrent"`
	Active        int       `json:"active"`
}

// clearResponse is the response for POST /jobs/clear.
type clearResponse struct {
	Removed int `json:"removed"`
}

// concurrencyRequest is the body for PUT /queue/concurrency.
type concurrencyRequest struct {
	MaxConcurrent int `json:"max_concurrent"`
}

// concurrencyResponse is the response for the concurrency endpoints.
type concurrencyResponse struct {
	MaxConcurrent int `json:"max_concurrent"`
	Active        int `json:"active"`
}

// EventResponse is the API representation of a journal entry.
type EventResponse struct {
	ID         int64     `json:"id"`
	EventType  string    `json:"event_type"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Payload    string    `json:"payload,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// listEventsResponse is the response for GET /events.
type listEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// statusResponse is the response for GET /status.
type statusResponse struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	Uptime        string         `json:"uptime"`
	Jobs          map[string]int `json:"jobs"`
	Total         int            `json:"total"`
	MaxConcurrent int            `json:"max_concurrent"`
	Active        int            `json:"active"`
}
