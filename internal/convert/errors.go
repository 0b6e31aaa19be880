package convert

import "errors"

// Sentinel errors for the convert package.
var (
	// ErrNoDuration is returned when ffprobe prints no usable duration.
	ErrNoDuration = errors.New("no duration in ffprobe output")

	// ErrInputMissing is returned when the file to convert does not exist.
	ErrInputMissing = errors.New("input file missing")
)
