package job

// Status is the lifecycle state of a job.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusConverting  Status = "converting"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
	StatusCancelled   Status = "cancelled"
)

// validTransitions defines allowed state transitions.
// Key is the "from" status, value is list of valid "to" statuses.
var validTransitions = map[Status][]Status{
	StatusQueued:      {StatusDownloading, StatusCancelled},
	StatusDownloading: {StatusConverting, StatusCompleted, StatusFailed, StatusCancelled},
	StatusConverting:  {StatusCompleted, StatusFailed, StatusCancelled},
	StatusCompleted:   {}, // terminal
	StatusFailed:      {}, // terminal
	StatusCancelled:   {}, // terminal
}

// CanTransitionTo returns true if transitioning from s to target is valid.
func (s Status) CanTransitionTo(target Status) bool {
	valid, ok := validTransitions[s]
	if !ok {
		return false
	}
	for _, v := range valid {
		if v == target {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further stage runs on a job in this status.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// IsActive returns true if a stage is running for a job in this status.
// Active jobs count against the concurrency ceiling.
func (s Status) IsActive() bool {
	return s == StatusDownloading || s == StatusConverting
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := validTransitions[s]
	return ok
}
