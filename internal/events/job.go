// internal/events/job.go
package events

// Entity types
const (
	EntityJob   = "job"
	EntityQueue = "queue"
)

// Event type constants
const (
	EventJobQueued    = "job.queued"
	EventJobStarted   = "job.started"
	EventJobCompleted = "job.completed"
	EventJobFailed    = "job.failed"
	EventJobCancelled = "job.cancelled"
	EventJobRemoved   = "job.removed"
	EventQueueResized = "queue.resized"
)

// JobQueued is emitted when a URL is submitted.
type JobQueued struct {
	BaseEvent
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

// JobStarted is emitted when a job enters a stage.
type JobStarted struct {
	BaseEvent
	Stage string `json:"stage"` // "downloading" or "converting"
}

// JobCompleted is emitted when a job's output is in place.
type JobCompleted struct {
	BaseEvent
	Title      string `json:"title,omitempty"`
	OutputPath string `json:"output_path"`
}

// JobFailed is emitted when a stage fails.
type JobFailed struct {
	BaseEvent
	Stage  string `json:"stage"`
	Reason string `json:"reason"`
}

// JobCancelled is emitted when a job is cancelled, before or during a stage.
type JobCancelled struct {
	BaseEvent
	Stage string `json:"stage,omitempty"` // empty if it never started
}

// JobRemoved is emitted when a finished job is deleted or cleared.
type JobRemoved struct {
	BaseEvent
	Status string `json:"status"`
}

// QueueResized is emitted when the concurrency ceiling changes.
type QueueResized struct {
	BaseEvent
	From int `json:"from"`
	To   int `json:"to"`
}
