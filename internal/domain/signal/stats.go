package signal

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// minSkewSamples is the smallest sample count skewness is defined for.
const minSkewSamples = 3

// Skewness returns the bias-corrected sample skewness (adjusted
// Fisher-Pearson coefficient) of values.
//
// Fewer than 3 samples yield NaN. A zero or undefined standard
// deviation yields exactly 0: a flat signal has no skew by convention.
func Skewness(values []float64) float64 {
	n := len(values)
	if n < minSkewSamples {
		return math.NaN()
	}

	mean := floats.Sum(values) / float64(n)

	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(n-1))
	if std == 0 || math.IsNaN(std) {
		return 0
	}

	var m3 float64
	for _, v := range values {
		d := v - mean
		m3 += d * d * d
	}
	m3 /= float64(n)

	g1 := m3 / (std * std * std)
	correction := math.Sqrt(float64(n*(n-1))) / float64(n-2)
	return correction * g1
}

// FirstLastValid scans forward for the first non-missing value and
// backward for the last non-missing value. Each endpoint is NaN when
// no valid value exists in that direction.
func FirstLastValid(values []float64) (first, last float64) {
	first, last = math.NaN(), math.NaN()
	for _, v := range values {
		if !math.IsNaN(v) {
			first = v
			break
		}
	}
	for i := len(values) - 1; i >= 0; i-- {
		if !math.IsNaN(values[i]) {
			last = values[i]
			break
		}
	}
	return first, last
}

// MeanValid returns the arithmetic mean of the non-missing entries,
// or NaN when every entry is missing.
func MeanValid(values []float64) float64 {
	var sum float64
	var count int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return math.NaN()
	}
	return sum / float64(count)
}

// MaxValid returns the maximum of the non-missing entries, or NaN when
// every entry is missing.
func MaxValid(values []float64) float64 {
	maxVal := math.NaN()
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(maxVal) || v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}
