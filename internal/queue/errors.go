package queue

import "errors"

var (
	// ErrNotFound indicates no job has the requested id.
	ErrNotFound = errors.New("job not found")
	// ErrJobActive indicates the job must reach a terminal status first.
	ErrJobActive = errors.New("job is active")
	// ErrInvalidConcurrency indicates a ceiling outside the allowed range.
	ErrInvalidConcurrency = errors.New("invalid max concurrent")
	// ErrAlreadyRunning indicates Run was called while already running.
	ErrAlreadyRunning = errors.New("scheduler already running")
)
