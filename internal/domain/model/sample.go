// Package model contains domain models passed between layers.
package model

import (
	"math"
	"time"
)

// AccelSample represents one tri-axial accelerometer reading.
// Timestamp is the original device timestamp; it is carried through
// for archiving but never read by the core algorithms.
type AccelSample struct {
	X         float64
	Y         float64
	Z         float64
	Timestamp time.Time
}

// Row returns the sample as an [x, y, z] row for the feature matrix.
func (s AccelSample) Row() []float64 {
	return []float64{s.X, s.Y, s.Z}
}

// Heart-rate samples are plain beats-per-minute float64 values; a NaN
// marks a reading the device flagged as missing. Estimators must
// tolerate missing entries.

// Missing is the sentinel for an undefined numeric value.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the undefined sentinel.
func IsMissing(v float64) bool { return math.IsNaN(v) }
