package model

// FeatureCount is the fixed width of a feature vector.
const FeatureCount = 8

// Feature slot indices, in the canonical order the classifier was
// trained against. Do not reorder.
const (
	FeatureMeanHR = iota
	FeatureMaxHR
	FeatureLambdaHR
	FeatureYSkewness
	FeatureXYZCycleStd
	FeatureXYZCycleMean
	FeatureYPeakMean
	FeatureXYZHighLowRatio
)

// FeatureVector is the fixed 8-value numeric summary of one
// heart-rate window and one acceleration window. Individual slots may
// hold the undefined sentinel when a feature is mathematically
// undefined for the given input.
type FeatureVector [FeatureCount]float64

// featureNames index-aligns with the slot constants above.
var featureNames = [FeatureCount]string{
	"mean_hr",
	"max_hr",
	"lambda_hr",
	"y_skewness",
	"xyz_cycle_std",
	"xyz_cycle_mean",
	"y_peak_mean",
	"xyz_high_low_ratio",
}

// FeatureNames returns the canonical slot names in vector order.
func FeatureNames() []string {
	names := make([]string, FeatureCount)
	copy(names, featureNames[:])
	return names
}

// Slice returns the vector as a fresh slice, e.g. for JSON payloads.
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, FeatureCount)
	copy(out, v[:])
	return out
}
