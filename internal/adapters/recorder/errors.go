package recorder

import "errors"

// Sentinel kinds for archive errors.
var (
	ErrEncode = errors.New("archive encode failed")
	ErrUpload = errors.New("archive upload failed")
)
