package signal_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/strain/internal/domain/signal"
)

func TestFindPeaks(t *testing.T) {
	Convey("Given the peak detector", t, func() {
		Convey("When the sequence has fewer than 3 samples", func() {
			Convey("Then it yields no peaks", func() {
				So(signal.FindPeaks(nil, 1.0, 1), ShouldBeEmpty)
				So(signal.FindPeaks([]float64{9}, 1.0, 1), ShouldBeEmpty)
				So(signal.FindPeaks([]float64{9, 9}, 1.0, 1), ShouldBeEmpty)
			})
		})

		Convey("When a single interior maximum clears the height", func() {
			peaks := signal.FindPeaks([]float64{0, 10, 0}, 5.0, 1)

			Convey("Then its index is returned", func() {
				So(peaks, ShouldResemble, []int{1})
			})
		})

		Convey("When the maximum is below the height", func() {
			peaks := signal.FindPeaks([]float64{0, 3, 0}, 5.0, 1)

			Convey("Then it is not a peak", func() {
				So(peaks, ShouldBeEmpty)
			})
		})

		Convey("When the maximum is a flat top", func() {
			peaks := signal.FindPeaks([]float64{0, 10, 10, 0}, 5.0, 1)

			Convey("Then the tie is not a peak", func() {
				So(peaks, ShouldBeEmpty)
			})
		})

		Convey("When endpoints are the largest values", func() {
			peaks := signal.FindPeaks([]float64{10, 2, 10}, 5.0, 1)

			Convey("Then they are excluded from the scan", func() {
				So(peaks, ShouldBeEmpty)
			})
		})

		Convey("When two peaks are closer than the minimum distance", func() {
			Convey("And the later one is taller", func() {
				peaks := signal.FindPeaks([]float64{0, 6, 0, 8, 0}, 5.0, 3)

				Convey("Then the earlier peak is replaced", func() {
					So(peaks, ShouldResemble, []int{3})
				})
			})

			Convey("And the later one is shorter", func() {
				peaks := signal.FindPeaks([]float64{0, 8, 0, 6, 0}, 5.0, 3)

				Convey("Then the later candidate is dropped", func() {
					So(peaks, ShouldResemble, []int{1})
				})
			})

			Convey("And the heights are equal", func() {
				peaks := signal.FindPeaks([]float64{0, 8, 0, 8, 0}, 5.0, 3)

				Convey("Then the earlier-accepted peak survives", func() {
					So(peaks, ShouldResemble, []int{1})
				})
			})
		})

		Convey("When peaks respect the minimum distance", func() {
			peaks := signal.FindPeaks([]float64{0, 6, 0, 0, 8, 0}, 5.0, 3)

			Convey("Then both are kept in order", func() {
				So(peaks, ShouldResemble, []int{1, 4})
			})
		})
	})
}
