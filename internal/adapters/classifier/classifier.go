// Package classifier defines the contract for turning a feature
// vector into a predicted fatigue severity score. The model itself is
// opaque to the pipeline: implementations may call a remote model
// server or evaluate an embedded fallback.
package classifier

import (
	"context"

	"github.com/okian/strain/internal/domain/model"
)

// Predictor computes a severity score from a feature vector. The
// pipeline performs no retries; a failed prediction degrades the
// decision cycle to the safe default.
type Predictor interface {
	// Predict returns the predicted severity, honoring ctx for
	// cancellation and deadlines.
	Predict(ctx context.Context, features model.FeatureVector) (float64, error)
}
