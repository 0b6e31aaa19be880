package events

import "fmt"

// Describe returns a one-line summary of an event's payload, or "" when the
// event carries nothing beyond its type and entity.
func Describe(e Event) string {
	switch e := e.(type) {
	case *JobQueued:
		if e.Quality != "" {
			return fmt.Sprintf("%s (%s)", e.URL, e.Quality)
		}
		return e.URL
	case *JobStarted:
		return e.Stage
	case *JobCompleted:
		return e.OutputPath
	case *JobFailed:
		if e.Stage == "" {
			return e.Reason
		}
		return e.Stage + ": " + e.Reason
	case *JobCancelled:
		if e.Stage == "" {
			return ""
		}
		return "while " + e.Stage
	case *JobRemoved:
		return e.Status
	case *QueueResized:
		return fmt.Sprintf("%d -> %d", e.From, e.To)
	default:
		return ""
	}
}
