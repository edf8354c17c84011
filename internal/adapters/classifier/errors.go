package classifier

import "errors"

// Sentinel kinds for classifier errors.
var (
	ErrPredict = errors.New("prediction failed")
)
