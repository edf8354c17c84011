package classifier_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/strain/internal/adapters/classifier"
	"github.com/okian/strain/internal/domain/model"
)

func TestLinear(t *testing.T) {
	Convey("Given the fallback linear model", t, func() {
		Convey("When every feature is defined", func() {
			l := classifier.NewLinear(
				classifier.WithWeights(model.FeatureVector{1, 0, 0, 0, 0, 0, 0, 2}),
				classifier.WithIntercept(0.5),
			)

			score, err := l.Predict(context.Background(), model.FeatureVector{3, 9, 9, 9, 9, 9, 9, 1.25})

			Convey("Then the score is the weighted sum plus intercept", func() {
				So(err, ShouldBeNil)
				So(score, ShouldAlmostEqual, 0.5+3+2.5, 1e-12)
			})
		})

		Convey("When a feature slot is undefined", func() {
			l := classifier.NewLinear(
				classifier.WithWeights(model.FeatureVector{1, 1, 1, 1, 1, 1, 1, 1}),
				classifier.WithIntercept(0),
			)
			fv := model.FeatureVector{1, 2, math.NaN(), 4, math.NaN(), 6, 7, 8}

			score, err := l.Predict(context.Background(), fv)

			Convey("Then the undefined slots contribute nothing", func() {
				So(err, ShouldBeNil)
				So(score, ShouldAlmostEqual, 28, 1e-12)
			})
		})

		Convey("When the context is already cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := classifier.NewLinear().Predict(ctx, model.FeatureVector{})

			Convey("Then prediction fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestRemote(t *testing.T) {
	Convey("Given a model server", t, func() {
		fv := model.FeatureVector{74.25, 80, 10, math.NaN(), 0, 0.5, 8, 89.5}

		Convey("When the server answers with a score", func() {
			var got struct {
				Features []*float64 `json:"features"`
			}
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				// So must not run off the test goroutine; report via t.
				if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
					t.Error(err)
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"score": 7.5}`))
			}))
			defer srv.Close()

			score, err := classifier.NewRemote(srv.URL).Predict(context.Background(), fv)

			Convey("Then the score is returned", func() {
				So(err, ShouldBeNil)
				So(score, ShouldEqual, 7.5)
			})

			Convey("And undefined slots travel as null", func() {
				So(got.Features, ShouldHaveLength, model.FeatureCount)
				So(got.Features[3], ShouldBeNil)
				So(*got.Features[0], ShouldEqual, 74.25)
			})
		})

		Convey("When the server fails", func() {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer srv.Close()

			_, err := classifier.NewRemote(srv.URL).Predict(context.Background(), fv)

			Convey("Then prediction fails with the predict sentinel", func() {
				So(err, ShouldWrap, classifier.ErrPredict)
			})
		})

		Convey("When the server is unreachable", func() {
			_, err := classifier.NewRemote("http://127.0.0.1:1/predict").Predict(context.Background(), fv)

			Convey("Then prediction fails with the predict sentinel", func() {
				So(err, ShouldWrap, classifier.ErrPredict)
			})
		})
	})
}
