package process

import (
	"errors"
	"fmt"
)

// Sentinel errors for the process package.
var (
	// ErrSpawnFailed is returned when the command could not be started.
	ErrSpawnFailed = errors.New("spawn failed")

	// ErrCommandFailed is matched by errors for commands that exited non-zero.
	ErrCommandFailed = errors.New("command failed")

	// ErrCancelled is returned when termination was requested before the
	// command exited on its own.
	ErrCancelled = errors.New("cancelled")
)

// SpawnError reports a command that could not be started.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("spawn %s: %v", e.Name, e.Err)
}

func (e *SpawnError) Unwrap() []error {
	return []error{ErrSpawnFailed, e.Err}
}

// CommandError reports a command that ran and exited unsuccessfully.
type CommandError struct {
	Name   string
	Code   int    // -1 when terminated by a signal
	Stderr string // last stderr lines, if any
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s exited with code %d", e.Name, e.Code)
	if e.Code < 0 {
		msg = fmt.Sprintf("%s terminated by signal", e.Name)
	}
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *CommandError) Is(target error) bool {
	return target == ErrCommandFailed
}
