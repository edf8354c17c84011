package signal

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Band edges in Hz. Bins between lowBandMax and highBandMin belong to
// neither band; the guard band is part of the trained model's feature
// definition and must not be widened or closed.
const (
	lowBandMin  = 0.5
	lowBandMax  = 1.5
	highBandMin = 2.0
)

// minSpectralSamples is the shortest signal the ratio is defined for.
const minSpectralSamples = 4

// HighLowRatio returns the ratio of high-frequency to low-frequency
// power in values, sampled every samplePeriod seconds.
//
// The signal is demeaned (ignoring missing entries) and transformed
// with a real FFT; per-bin power is the squared coefficient magnitude.
// Low band is [0.5, 1.5) Hz, high band is >= 2.0 Hz. The result is NaN
// when the signal is shorter than 4 samples, carries no power, or has
// no power in the low band.
func HighLowRatio(values []float64, samplePeriod float64) float64 {
	n := len(values)
	if n < minSpectralSamples {
		return math.NaN()
	}

	mean := MeanValid(values)
	demeaned := make([]float64, n)
	for i, v := range values {
		demeaned[i] = v - mean
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, demeaned)

	var total, low, high float64
	for i, c := range coeffs {
		power := real(c)*real(c) + imag(c)*imag(c)
		total += power

		// fft.Freq is in cycles per sample; divide by the sampling
		// period to get Hz.
		freq := fft.Freq(i) / samplePeriod
		switch {
		case freq >= lowBandMin && freq < lowBandMax:
			low += power
		case freq >= highBandMin:
			high += power
		}
	}

	if total <= 0 || low == 0 {
		return math.NaN()
	}
	return high / low
}
