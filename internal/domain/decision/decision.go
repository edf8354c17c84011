// Package decision runs the trigger-driven cycle: snapshot both
// windows, extract features, invoke the classifier, threshold the
// score into a mode, dispatch it, and clear the buffers.
//
// Every fallible step degrades to the safe default instead of
// aborting: a cycle always reaches its terminal clear step, so stale
// samples never leak into the next decision. Cycles are serialized by
// an engine-level mutex; window appends use their own locking and are
// never blocked by a cycle in flight.
package decision

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/okian/strain/internal/adapters/classifier"
	"github.com/okian/strain/internal/adapters/dispatch"
	"github.com/okian/strain/internal/domain/features"
	"github.com/okian/strain/internal/domain/model"
	"github.com/okian/strain/pkg/logger"
	"github.com/okian/strain/pkg/metrics"
)

// Defaults tied to the trained classifier.
const (
	defaultThreshold    = 6.0
	defaultSamplePeriod = 1.0 / 60
)

// Degraded cycle causes recorded in Outcome and the archive.
const (
	DegradedExtraction = "extraction"
	DegradedPrediction = "prediction"
)

// HeartRateSource is the heart-rate window as the engine sees it.
type HeartRateSource interface {
	Snapshot() []float64
	Clear()
}

// AccelSource is the acceleration window as the engine sees it.
type AccelSource interface {
	Snapshot() []model.AccelSample
	Clear()
}

// Outcome is the result of one decision cycle.
type Outcome struct {
	Mode     model.Mode
	Score    float64 // NaN when the classifier was never consulted
	Features model.FeatureVector
	Degraded string // empty for a clean cycle
}

// Engine orchestrates decision cycles over one session's windows.
type Engine struct {
	mu sync.Mutex // serializes cycles; one trigger at a time

	heartRate HeartRateSource
	accel     AccelSource
	predictor classifier.Predictor
	sink      dispatch.Sink

	threshold    float64
	samplePeriod float64

	logger logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithThreshold sets the normal/reduce boundary (inclusive on the
// normal side).
func WithThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// WithSamplePeriod sets the accelerometer sampling period in seconds.
func WithSamplePeriod(period float64) Option {
	return func(e *Engine) {
		if period > 0 {
			e.samplePeriod = period
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(log logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.logger = log
		}
	}
}

// NewEngine creates an engine over the given windows, classifier, and
// dispatch sink.
func NewEngine(hr HeartRateSource, accel AccelSource, predictor classifier.Predictor, sink dispatch.Sink, opts ...Option) *Engine {
	e := &Engine{
		heartRate:    hr,
		accel:        accel,
		predictor:    predictor,
		sink:         sink,
		threshold:    defaultThreshold,
		samplePeriod: defaultSamplePeriod,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logger.Named("decision")
	}

	return e
}

// OnTrigger runs one decision cycle for a fatigue self-report. The
// rpe value is carried for observability only; the arrival of the
// trigger is what starts the cycle. OnTrigger never fails: degraded
// cycles resolve to the normal mode.
func (e *Engine) OnTrigger(ctx context.Context, rpe float64) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	metrics.RecordTrigger()

	hr := e.heartRate.Snapshot()
	accelSamples := e.accel.Snapshot()

	// Terminal step: both windows are cleared on every exit path so
	// the next trigger starts from empty state.
	defer func() {
		e.heartRate.Clear()
		e.accel.Clear()
	}()

	out := Outcome{Mode: model.ModeNormal, Score: math.NaN()}

	rows := make([][]float64, len(accelSamples))
	for i, s := range accelSamples {
		rows[i] = s.Row()
	}

	fv, err := features.Extract(hr, rows, e.samplePeriod)
	if err != nil {
		metrics.RecordExtractionFailure()
		metrics.RecordDecisionCycle(out.Mode.String())
		e.logger.Warn(ctx, "feature extraction failed; defaulting to normal",
			logger.Error(err),
			logger.Float64("rpe", rpe),
			logger.Int("hrSamples", len(hr)),
			logger.Int("accelSamples", len(accelSamples)),
		)
		out.Degraded = DegradedExtraction
		return out
	}
	out.Features = fv

	start := time.Now()
	score, err := e.predictor.Predict(ctx, fv)
	metrics.RecordPredictionLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordPredictionFailure()
		metrics.RecordDecisionCycle(out.Mode.String())
		e.logger.Warn(ctx, "prediction failed; defaulting to normal",
			logger.Error(err),
			logger.Float64("rpe", rpe),
		)
		out.Degraded = DegradedPrediction
		e.send(ctx, out.Mode)
		return out
	}

	out.Score = score
	if score > e.threshold {
		out.Mode = model.ModeReduce
	}
	metrics.RecordDecisionCycle(out.Mode.String())

	e.logger.Info(ctx, "decision cycle complete",
		logger.Float64("rpe", rpe),
		logger.Float64("score", score),
		logger.String("mode", out.Mode.String()),
	)

	e.send(ctx, out.Mode)
	return out
}

// send delivers the mode best-effort. A missing or broken receiver is
// logged, never raised.
func (e *Engine) send(ctx context.Context, mode model.Mode) {
	err := e.sink.Send(ctx, mode)
	switch {
	case err == nil:
		metrics.RecordDispatchSent()
	case errors.Is(err, dispatch.ErrNoChannel):
		metrics.RecordDispatchDropped()
		e.logger.Debug(ctx, "no control channel attached; mode dropped",
			logger.String("mode", mode.String()),
		)
	default:
		metrics.RecordDispatchFailure()
		e.logger.Warn(ctx, "control channel send failed",
			logger.Error(err),
			logger.String("mode", mode.String()),
		)
	}
}
