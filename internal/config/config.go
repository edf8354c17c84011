// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(...) initializer to build a Config with defaults.
// - External errors must be wrapped via this package's error helpers.
package config

import "context"

// Reference constants tied to the trained classifier. The window
// capacities and the decision threshold match the data the model was
// trained against; override them only when deploying a retrained model.
const (
	defaultAccelWindowSize     = 400 // ~20 s of accelerometer samples
	defaultHeartRateWindowSize = 20  // ~20 s of heart-rate samples
	defaultSamplePeriodSeconds = 1.0 / 60
	defaultDecisionThreshold   = 6.0
	defaultClassifierTimeoutMS = 2000
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AccelWindowSize bounds the accelerometer ring buffer.
	AccelWindowSize int `koanf:"accel_window_size"`

	// HeartRateWindowSize bounds the heart-rate ring buffer.
	HeartRateWindowSize int `koanf:"hr_window_size"`

	// SamplePeriodSeconds is the nominal accelerometer sampling period.
	SamplePeriodSeconds float64 `koanf:"sample_period_seconds"`

	// DecisionThreshold separates normal from reduce; inclusive on the
	// normal side.
	DecisionThreshold float64 `koanf:"decision_threshold"`

	// ClassifierURL points at a remote model server. Empty selects the
	// built-in linear fallback model.
	ClassifierURL string `koanf:"classifier_url"`

	// ClassifierTimeoutMS bounds a single prediction call.
	ClassifierTimeoutMS int `koanf:"classifier_timeout_ms"`

	// ArchiveEnabled toggles CSV session archiving.
	ArchiveEnabled bool `koanf:"archive_enabled"`

	// ArchiveURL is the storage endpoint CSV archives are uploaded to.
	ArchiveURL string `koanf:"archive_url"`
}

// New creates a Config with reference defaults. Context is accepted
// first to satisfy the project-wide convention; it is reserved for
// future use and currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":8080",
		AccelWindowSize:     defaultAccelWindowSize,
		HeartRateWindowSize: defaultHeartRateWindowSize,
		SamplePeriodSeconds: defaultSamplePeriodSeconds,
		DecisionThreshold:   defaultDecisionThreshold,
		ClassifierTimeoutMS: defaultClassifierTimeoutMS,
	}
}
