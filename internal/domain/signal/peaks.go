// Package signal implements the numeric primitives behind feature
// extraction: peak detection, spectral band power, and summary
// statistics with an explicit missing-value policy.
//
// All functions are pure and deterministic. Undefined results are
// reported as NaN, never as errors.
package signal

// FindPeaks returns the indices of local maxima in values that are at
// least height tall and at least distance indices apart.
//
// An interior index is a candidate when its value is >= height and
// strictly greater than both neighbors; flat-top ties are not peaks.
// When a candidate lands closer than distance to the last accepted
// peak, the taller of the two survives: the previous peak is replaced
// only on strict improvement, otherwise the candidate is dropped.
// Sequences shorter than 3 samples yield no peaks.
func FindPeaks(values []float64, height float64, distance int) []int {
	if len(values) < 3 {
		return nil
	}

	var peaks []int
	for idx := 1; idx < len(values)-1; idx++ {
		v := values[idx]
		if v < height {
			continue
		}
		if v <= values[idx-1] || v <= values[idx+1] {
			continue
		}
		if len(peaks) > 0 && idx-peaks[len(peaks)-1] < distance {
			if v > values[peaks[len(peaks)-1]] {
				peaks[len(peaks)-1] = idx
			}
			continue
		}
		peaks = append(peaks, idx)
	}
	return peaks
}
