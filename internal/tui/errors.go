package tui

import "errors"

// ErrStreamClosed is returned when the snapshot feed ends before the user
// quits.
var ErrStreamClosed = errors.New("snapshot stream closed")
