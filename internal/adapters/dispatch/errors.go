package dispatch

import "errors"

// Sentinel kinds for dispatch outcomes.
var (
	ErrNoChannel = errors.New("no control channel attached")
	ErrSend      = errors.New("control channel send failed")
)
