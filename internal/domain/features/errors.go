package features

import "errors"

// Sentinel kinds for extraction validation failures.
var (
	ErrNoHeartRate   = errors.New("heart-rate window has no valid samples")
	ErrBadAccelShape = errors.New("acceleration window must be Nx3 rows")
)
