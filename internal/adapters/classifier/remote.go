package classifier

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/strain/internal/domain/model"
)

// defaultTimeout bounds a single prediction call so a hung model
// server cannot stall a decision cycle indefinitely.
const defaultTimeout = 2 * time.Second

// Remote calls an external model server over HTTP. Undefined feature
// slots are sent as null; the server owns the imputation policy.
type Remote struct {
	client *resty.Client
	url    string
}

// RemoteOption applies a configuration option to a Remote predictor.
type RemoteOption func(*Remote)

// WithTimeout bounds a single prediction request.
func WithTimeout(timeout time.Duration) RemoteOption {
	return func(r *Remote) {
		if timeout > 0 {
			r.client.SetTimeout(timeout)
		}
	}
}

// WithRestyClient replaces the underlying HTTP client, e.g. for tests.
func WithRestyClient(client *resty.Client) RemoteOption {
	return func(r *Remote) {
		if client != nil {
			r.client = client
		}
	}
}

// NewRemote creates a predictor backed by the model server at url.
func NewRemote(url string, opts ...RemoteOption) *Remote {
	r := &Remote{
		client: resty.New().SetTimeout(defaultTimeout),
		url:    url,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// predictRequest mirrors the model server's /predict schema. NaN is
// not representable in JSON, so undefined slots travel as null.
type predictRequest struct {
	Features []*float64 `json:"features"`
}

type predictResponse struct {
	Score float64 `json:"score"`
}

// Predict posts the feature vector and returns the predicted score.
func (r *Remote) Predict(ctx context.Context, features model.FeatureVector) (float64, error) {
	req := predictRequest{Features: make([]*float64, model.FeatureCount)}
	for i := range features {
		if math.IsNaN(features[i]) {
			continue
		}
		v := features[i]
		req.Features[i] = &v
	}

	var out predictResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post(r.url)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrPredict, err)
	}
	if resp.IsError() {
		return 0, fmt.Errorf("%w: model server returned %s", ErrPredict, resp.Status())
	}
	return out.Score, nil
}
