package job

import "errors"

// Sentinel errors for the job package.
var (
	// ErrEmptyURL is returned when a job is submitted without a source URL.
	ErrEmptyURL = errors.New("source url is empty")

	// ErrInvalidTransition is returned when a status change is not allowed.
	ErrInvalidTransition = errors.New("invalid status transition")
)
