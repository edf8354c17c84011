package classifier

import (
	"context"
	"math"

	"github.com/okian/strain/internal/domain/model"
)

// Default linear model parameters, fitted offline against the same
// feature definition as the exported model. Used when no remote
// classifier is configured.
var defaultWeights = model.FeatureVector{
	0.035,  // mean_hr
	0.020,  // max_hr
	0.150,  // lambda_hr
	0.400,  // y_skewness
	1.200,  // xyz_cycle_std
	-0.800, // xyz_cycle_mean
	0.050,  // y_peak_mean
	0.600,  // xyz_high_low_ratio
}

const defaultIntercept = -1.5

// Linear is a deterministic weighted-sum fallback model. Undefined
// feature slots contribute nothing to the score, mirroring how the
// exported model imputes missing inputs.
type Linear struct {
	weights   model.FeatureVector
	intercept float64
}

// LinearOption applies a configuration option to a Linear model.
type LinearOption func(*Linear)

// WithWeights sets the per-feature weights.
func WithWeights(weights model.FeatureVector) LinearOption {
	return func(l *Linear) {
		l.weights = weights
	}
}

// WithIntercept sets the model intercept.
func WithIntercept(intercept float64) LinearOption {
	return func(l *Linear) {
		l.intercept = intercept
	}
}

// NewLinear creates a linear model with the default parameters.
func NewLinear(opts ...LinearOption) *Linear {
	l := &Linear{
		weights:   defaultWeights,
		intercept: defaultIntercept,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Predict evaluates the weighted sum.
func (l *Linear) Predict(ctx context.Context, features model.FeatureVector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	score := l.intercept
	for i, v := range features {
		if math.IsNaN(v) {
			continue
		}
		score += l.weights[i] * v
	}
	return score, nil
}
