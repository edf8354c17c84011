// Package features builds the eight-feature vector consumed by the
// fatigue classifier from one heart-rate window and one acceleration
// window.
package features

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/okian/strain/internal/domain/model"
	"github.com/okian/strain/internal/domain/signal"
)

// Peak detection parameters shared by the y-axis and magnitude
// series. Fixed alongside the trained model.
const (
	peakHeight   = 5.0
	peakDistance = 20
)

// accelRowWidth is the expected width of an acceleration row.
const accelRowWidth = 3

// Extract computes the canonical feature vector from a heart-rate
// window, an acceleration window of [x, y, z] rows, and the sampling
// period in seconds.
//
// It fails with ErrNoHeartRate when the heart-rate window is empty or
// holds only missing values, and with ErrBadAccelShape when the
// acceleration window is empty or any row is not a 3-component
// triplet. Given valid input it always returns a full vector;
// individually undefined features are NaN, not errors.
func Extract(heartRates []float64, accel [][]float64, samplePeriod float64) (model.FeatureVector, error) {
	var fv model.FeatureVector

	if len(heartRates) == 0 || allMissing(heartRates) {
		return fv, ErrNoHeartRate
	}
	if len(accel) == 0 {
		return fv, ErrBadAccelShape
	}
	for _, row := range accel {
		if len(row) != accelRowWidth {
			return fv, ErrBadAccelShape
		}
	}

	fv[model.FeatureMeanHR] = signal.MeanValid(heartRates)
	fv[model.FeatureMaxHR] = signal.MaxValid(heartRates)
	fv[model.FeatureLambdaHR] = heartRateDrift(heartRates)

	y := make([]float64, len(accel))
	xyz := make([]float64, len(accel))
	for i, row := range accel {
		y[i] = row[1]
		xyz[i] = math.Sqrt(row[0]*row[0] + row[1]*row[1] + row[2]*row[2])
	}

	fv[model.FeatureYSkewness] = signal.Skewness(y)
	fv[model.FeatureYPeakMean] = peakMean(y)

	cycleMean, cycleStd := cycleStats(xyz, samplePeriod)
	fv[model.FeatureXYZCycleStd] = cycleStd
	fv[model.FeatureXYZCycleMean] = cycleMean

	fv[model.FeatureXYZHighLowRatio] = signal.HighLowRatio(xyz, samplePeriod)

	return fv, nil
}

// heartRateDrift is the last valid reading minus the first valid
// reading; NaN when either endpoint is undefined.
func heartRateDrift(heartRates []float64) float64 {
	first, last := signal.FirstLastValid(heartRates)
	if math.IsNaN(first) || math.IsNaN(last) {
		return math.NaN()
	}
	return last - first
}

// peakMean is the mean value at detected peaks, NaN when the series
// has no peaks.
func peakMean(values []float64) float64 {
	peaks := signal.FindPeaks(values, peakHeight, peakDistance)
	if len(peaks) == 0 {
		return math.NaN()
	}
	heights := make([]float64, len(peaks))
	for i, idx := range peaks {
		heights[i] = values[idx]
	}
	return stat.Mean(heights, nil)
}

// cycleStats derives inter-peak intervals from the magnitude series
// and returns their mean and population standard deviation. Both are
// NaN with fewer than two peaks.
func cycleStats(xyz []float64, samplePeriod float64) (mean, std float64) {
	peaks := signal.FindPeaks(xyz, peakHeight, peakDistance)
	if len(peaks) < 2 {
		return math.NaN(), math.NaN()
	}
	intervals := make([]float64, len(peaks)-1)
	for i := 1; i < len(peaks); i++ {
		intervals[i-1] = float64(peaks[i]-peaks[i-1]) * samplePeriod
	}
	return stat.Mean(intervals, nil), stat.PopStdDev(intervals, nil)
}

func allMissing(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) {
			return false
		}
	}
	return true
}
