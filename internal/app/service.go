// Package service provides the core session service that implements
// the dependencies required by the transport layer.
package service

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/strain/internal/adapters/classifier"
	"github.com/okian/strain/internal/adapters/dispatch"
	"github.com/okian/strain/internal/adapters/recorder"
	"github.com/okian/strain/internal/adapters/window"
	"github.com/okian/strain/internal/domain/decision"
	"github.com/okian/strain/internal/domain/model"
	"github.com/okian/strain/pkg/logger"
	"github.com/okian/strain/pkg/metrics"
)

// Default session configuration constants; reference values for the
// trained classifier.
const (
	defaultAccelWindowSize     = 400
	defaultHeartRateWindowSize = 20
	defaultSamplePeriod        = 1.0 / 60
	defaultThreshold           = 6.0
	archiveFlushTimeout        = 30 * time.Second
)

// Service owns one logical session: its two sample windows, the
// decision engine over them, the control-channel hub, and the
// optional archive recorder. The design assumes a single session at a
// time; multi-tenant isolation is an extension, not a guarantee.
type Service struct {
	mu sync.RWMutex

	// Core components
	sessionID string
	accel     *window.Window[model.AccelSample]
	heartRate *window.Window[float64]
	engine    *decision.Engine
	predictor classifier.Predictor
	hub       *dispatch.Hub
	archive   *recorder.Recorder

	// Configuration
	accelWindowSize     int
	heartRateWindowSize int
	samplePeriod        float64
	threshold           float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithAccelWindowSize sets the accelerometer window capacity.
func WithAccelWindowSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.accelWindowSize = size
		}
	}
}

// WithHeartRateWindowSize sets the heart-rate window capacity.
func WithHeartRateWindowSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.heartRateWindowSize = size
		}
	}
}

// WithSamplePeriod sets the accelerometer sampling period in seconds.
func WithSamplePeriod(period float64) Option {
	return func(s *Service) {
		if period > 0 {
			s.samplePeriod = period
		}
	}
}

// WithThreshold sets the decision threshold.
func WithThreshold(threshold float64) Option {
	return func(s *Service) {
		s.threshold = threshold
	}
}

// WithPredictor sets the classifier implementation.
func WithPredictor(p classifier.Predictor) Option {
	return func(s *Service) {
		if p != nil {
			s.predictor = p
		}
	}
}

// WithArchive enables CSV session archiving through rec.
func WithArchive(rec *recorder.Recorder) Option {
	return func(s *Service) {
		s.archive = rec
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		accelWindowSize:     defaultAccelWindowSize,
		heartRateWindowSize: defaultHeartRateWindowSize,
		samplePeriod:        defaultSamplePeriod,
		threshold:           defaultThreshold,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the session state and decision engine.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("session")
	}
	if s.predictor == nil {
		s.predictor = classifier.NewLinear()
	}

	s.sessionID = uuid.NewString()
	s.accel = window.New(s.accelWindowSize, window.WithStream[model.AccelSample]("accel"))
	s.heartRate = window.New(s.heartRateWindowSize, window.WithStream[float64]("heart_rate"))
	s.hub = dispatch.NewHub(dispatch.WithLogger(s.logger.Named("dispatch")))
	s.engine = decision.NewEngine(
		s.heartRate,
		s.accel,
		s.predictor,
		s.hub,
		decision.WithThreshold(s.threshold),
		decision.WithSamplePeriod(s.samplePeriod),
		decision.WithLogger(s.logger.Named("decision")),
	)

	s.started = true
	s.logger.Info(ctx, "session started",
		logger.String("sessionID", s.sessionID),
		logger.Int("accelWindow", s.accelWindowSize),
		logger.Int("hrWindow", s.heartRateWindowSize),
		logger.Float64("samplePeriod", s.samplePeriod),
	)

	return nil
}

// Stop tears the session down, flushing any buffered archive rows.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	if s.archive != nil && s.archive.Len() > 0 {
		flushCtx, cancel := context.WithTimeout(ctx, archiveFlushTimeout)
		if err := s.archive.Flush(flushCtx); err != nil {
			s.logger.Warn(ctx, "final archive flush failed", logger.Error(err))
		}
		cancel()
	}

	s.started = false
	s.logger.Info(ctx, "session stopped", logger.String("sessionID", s.sessionID))
}

// IngestAccel appends a batch of accelerometer samples.
func (s *Service) IngestAccel(ctx context.Context, batch []model.AccelSample) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return
	}
	for _, sample := range batch {
		s.accel.Append(sample)
	}
}

// IngestHeartRate appends one heart-rate reading.
func (s *Service) IngestHeartRate(ctx context.Context, bpm float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return
	}
	s.heartRate.Append(bpm)
}

// Trigger runs one decision cycle for a fatigue self-report and
// returns its outcome. The outcome of a trigger on a stopped service
// is the safe default.
func (s *Service) Trigger(ctx context.Context, rpe float64) decision.Outcome {
	s.mu.RLock()
	started := s.started
	engine := s.engine
	sessionID := s.sessionID
	archive := s.archive
	s.mu.RUnlock()

	if !started {
		return decision.Outcome{Mode: model.ModeNormal, Score: math.NaN()}
	}

	triggeredAt := time.Now()
	out := engine.OnTrigger(ctx, rpe)

	if archive != nil {
		archive.Append(recorder.Record{
			SessionID:   sessionID,
			TriggeredAt: triggeredAt,
			RPE:         rpe,
			Features:    out.Features,
			Score:       out.Score,
			Mode:        out.Mode,
			Degraded:    out.Degraded,
		})
		// Upload off the ingest path; archive latency must not stall
		// the transport read loop.
		go func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), archiveFlushTimeout)
			defer cancel()
			if err := archive.Flush(flushCtx); err != nil {
				s.logger.Warn(flushCtx, "archive flush failed", logger.Error(err))
			}
		}()
	}

	return out
}

// Hub exposes the control-channel hub for transport attachment.
func (s *Service) Hub() *dispatch.Hub {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hub
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"sessionID":    s.sessionID,
		"accelWindow":  s.accelWindowSize,
		"hrWindow":     s.heartRateWindowSize,
		"threshold":    s.threshold,
		"samplePeriod": s.samplePeriod,
	}

	if s.started {
		stats["accelBuffered"] = s.accel.Len()
		stats["hrBuffered"] = s.heartRate.Len()
		stats["controlClients"] = s.hub.Count()

		metrics.UpdateWindowFill("accel", s.accel.Len())
		metrics.UpdateWindowFill("heart_rate", s.heartRate.Len())
	}

	return stats
}
