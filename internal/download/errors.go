package download

import "errors"

// Sentinel errors for the download package.
var (
	// ErrOutputNotFound is returned when the fetch tool exited cleanly but no
	// downloaded file could be located in the job directory.
	ErrOutputNotFound = errors.New("downloaded file not found")

	// ErrInvalidRequest is returned for requests missing a job id or URL.
	ErrInvalidRequest = errors.New("invalid download request")
)
