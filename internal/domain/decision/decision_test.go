package decision_test

import (
	"context"
	"errors"
	"math"
	"os"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/strain/internal/adapters/window"
	"github.com/okian/strain/internal/domain/decision"
	"github.com/okian/strain/internal/domain/model"
	"github.com/okian/strain/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	_ = logger.SetLevelString("error")
	os.Exit(m.Run())
}

// stubPredictor returns a fixed score or error and records whether it
// was consulted.
type stubPredictor struct {
	score  float64
	err    error
	called bool
}

func (p *stubPredictor) Predict(_ context.Context, _ model.FeatureVector) (float64, error) {
	p.called = true
	if p.err != nil {
		return 0, p.err
	}
	return p.score, nil
}

// stubSink collects dispatched modes.
type stubSink struct {
	modes []model.Mode
	err   error
}

func (s *stubSink) Send(_ context.Context, mode model.Mode) error {
	if s.err != nil {
		return s.err
	}
	s.modes = append(s.modes, mode)
	return nil
}

func fillWindows(hr *window.Window[float64], accel *window.Window[model.AccelSample]) {
	for _, v := range []float64{70, 72, 75, 80} {
		hr.Append(v)
	}
	for i := 0; i < 100; i++ {
		y := 8 * math.Sin(2*math.Pi*2*float64(i)/60+0.3)
		accel.Append(model.AccelSample{X: 0, Y: y, Z: 0})
	}
}

func TestOnTrigger(t *testing.T) {
	Convey("Given an engine over populated windows", t, func() {
		hr := window.New[float64](20)
		accel := window.New[model.AccelSample](400)
		fillWindows(hr, accel)

		Convey("When the score sits exactly on the threshold", func() {
			predictor := &stubPredictor{score: 6.0}
			sink := &stubSink{}
			engine := decision.NewEngine(hr, accel, predictor, sink)

			out := engine.OnTrigger(context.Background(), 14)

			Convey("Then the boundary resolves to normal", func() {
				So(out.Mode, ShouldEqual, model.ModeNormal)
				So(out.Score, ShouldEqual, 6.0)
				So(out.Degraded, ShouldBeEmpty)
				So(sink.modes, ShouldResemble, []model.Mode{model.ModeNormal})
			})

			Convey("And both windows are cleared", func() {
				So(hr.Len(), ShouldEqual, 0)
				So(accel.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the score barely exceeds the threshold", func() {
			predictor := &stubPredictor{score: 6.0001}
			sink := &stubSink{}
			engine := decision.NewEngine(hr, accel, predictor, sink)

			out := engine.OnTrigger(context.Background(), 14)

			Convey("Then the mode is reduce", func() {
				So(out.Mode, ShouldEqual, model.ModeReduce)
				So(sink.modes, ShouldResemble, []model.Mode{model.ModeReduce})
			})
		})

		Convey("When a custom threshold is configured", func() {
			predictor := &stubPredictor{score: 4.5}
			sink := &stubSink{}
			engine := decision.NewEngine(hr, accel, predictor, sink, decision.WithThreshold(4.0))

			out := engine.OnTrigger(context.Background(), 14)

			Convey("Then the custom boundary applies", func() {
				So(out.Mode, ShouldEqual, model.ModeReduce)
			})
		})

		Convey("When the classifier fails", func() {
			predictor := &stubPredictor{err: errors.New("endpoint down")}
			sink := &stubSink{}
			engine := decision.NewEngine(hr, accel, predictor, sink)

			out := engine.OnTrigger(context.Background(), 14)

			Convey("Then the cycle degrades to normal and still dispatches", func() {
				So(out.Mode, ShouldEqual, model.ModeNormal)
				So(math.IsNaN(out.Score), ShouldBeTrue)
				So(out.Degraded, ShouldEqual, decision.DegradedPrediction)
				So(sink.modes, ShouldResemble, []model.Mode{model.ModeNormal})
			})

			Convey("And both windows are cleared", func() {
				So(hr.Len(), ShouldEqual, 0)
				So(accel.Len(), ShouldEqual, 0)
			})
		})

		Convey("When the sink has no attached channel", func() {
			predictor := &stubPredictor{score: 2.0}
			sink := &stubSink{err: errors.New("no receiver")}
			engine := decision.NewEngine(hr, accel, predictor, sink)

			out := engine.OnTrigger(context.Background(), 14)

			Convey("Then the cycle still completes and clears", func() {
				So(out.Mode, ShouldEqual, model.ModeNormal)
				So(hr.Len(), ShouldEqual, 0)
				So(accel.Len(), ShouldEqual, 0)
			})
		})
	})

	Convey("Given an engine over empty windows", t, func() {
		hr := window.New[float64](20)
		accel := window.New[model.AccelSample](400)
		predictor := &stubPredictor{score: 9.0}
		sink := &stubSink{}
		engine := decision.NewEngine(hr, accel, predictor, sink)

		Convey("When a trigger arrives before any samples", func() {
			out := engine.OnTrigger(context.Background(), 14)

			Convey("Then extraction degrades to normal without dispatching", func() {
				So(out.Mode, ShouldEqual, model.ModeNormal)
				So(out.Degraded, ShouldEqual, decision.DegradedExtraction)
				So(predictor.called, ShouldBeFalse)
				So(sink.modes, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a session with only heart-rate samples", t, func() {
		hr := window.New[float64](20)
		accel := window.New[model.AccelSample](400)
		hr.Append(72)
		predictor := &stubPredictor{score: 9.0}
		sink := &stubSink{}
		engine := decision.NewEngine(hr, accel, predictor, sink)

		Convey("When a trigger arrives", func() {
			out := engine.OnTrigger(context.Background(), 14)

			Convey("Then the missing acceleration degrades the cycle", func() {
				So(out.Degraded, ShouldEqual, decision.DegradedExtraction)
				So(predictor.called, ShouldBeFalse)
				So(hr.Len(), ShouldEqual, 0)
			})
		})
	})
}
