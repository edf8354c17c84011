package signal_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/strain/internal/domain/signal"
)

func TestSkewness(t *testing.T) {
	Convey("Given the skewness estimator", t, func() {
		Convey("When the sequence has fewer than 3 samples", func() {
			Convey("Then the result is undefined", func() {
				So(math.IsNaN(signal.Skewness(nil)), ShouldBeTrue)
				So(math.IsNaN(signal.Skewness([]float64{1, 2})), ShouldBeTrue)
			})
		})

		Convey("When the sequence is constant", func() {
			Convey("Then the skew is exactly zero, not undefined", func() {
				So(signal.Skewness([]float64{5, 5, 5, 5}), ShouldEqual, 0)
			})
		})

		Convey("When the sequence is symmetric", func() {
			Convey("Then the skew is near zero", func() {
				So(signal.Skewness([]float64{1, 2, 3, 4, 5}), ShouldAlmostEqual, 0, 1e-12)
			})
		})

		Convey("When the sequence is right-tailed", func() {
			// Bias-corrected value for [1, 2, 5]:
			// sqrt(n(n-1))/(n-2) * m3 / s^3 with s the ddof=1 std.
			Convey("Then the corrected coefficient matches", func() {
				So(signal.Skewness([]float64{1, 2, 5}), ShouldAlmostEqual, 0.7040066389575836, 1e-9)
			})
		})

		Convey("When the sequence contains a missing value", func() {
			Convey("Then the undefined std collapses the skew to zero", func() {
				So(signal.Skewness([]float64{1, math.NaN(), 3}), ShouldEqual, 0)
			})
		})
	})
}

func TestFirstLastValid(t *testing.T) {
	Convey("Given the first/last valid scan", t, func() {
		Convey("When the sequence has missing edges", func() {
			first, last := signal.FirstLastValid([]float64{math.NaN(), 3, 7, math.NaN()})

			Convey("Then the valid endpoints are found", func() {
				So(first, ShouldEqual, 3)
				So(last, ShouldEqual, 7)
			})
		})

		Convey("When every value is missing", func() {
			first, last := signal.FirstLastValid([]float64{math.NaN(), math.NaN()})

			Convey("Then both endpoints are undefined", func() {
				So(math.IsNaN(first), ShouldBeTrue)
				So(math.IsNaN(last), ShouldBeTrue)
			})
		})

		Convey("When the sequence is empty", func() {
			first, last := signal.FirstLastValid(nil)

			Convey("Then both endpoints are undefined", func() {
				So(math.IsNaN(first), ShouldBeTrue)
				So(math.IsNaN(last), ShouldBeTrue)
			})
		})
	})
}

func TestMeanMaxValid(t *testing.T) {
	Convey("Given the missing-tolerant aggregates", t, func() {
		values := []float64{70, 72, 75, math.NaN(), 80}

		Convey("When some entries are missing", func() {
			Convey("Then the mean ignores them", func() {
				So(signal.MeanValid(values), ShouldAlmostEqual, 74.25, 1e-12)
			})

			Convey("And the max ignores them", func() {
				So(signal.MaxValid(values), ShouldEqual, 80)
			})
		})

		Convey("When every entry is missing", func() {
			all := []float64{math.NaN(), math.NaN()}

			Convey("Then both aggregates are undefined", func() {
				So(math.IsNaN(signal.MeanValid(all)), ShouldBeTrue)
				So(math.IsNaN(signal.MaxValid(all)), ShouldBeTrue)
			})
		})
	})
}
