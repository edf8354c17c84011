// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/strain/internal/domain/model"
	"github.com/okian/strain/pkg/logger"
	"github.com/okian/strain/pkg/metrics"
)

// Message kinds accepted on the ingest socket.
const (
	kindAcceleration = "acceleration"
	kindHeartRate    = "heart_rate"
	kindFatigue      = "fatigue"
)

// The relay connects from a private network; origin checks are the
// deployment's concern.
var upgrader = websocket.Upgrader{ //nolint:gochecknoglobals // shared upgrader, stateless
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ingestMessage is the envelope for all three ingest event kinds.
type ingestMessage struct {
	Type      string           `json:"type"`
	Samples   []accelSampleMsg `json:"samples"`
	HeartRate *float64         `json:"heart_rate"`
	RPE       *float64         `json:"rpe"`
}

type accelSampleMsg struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Z         float64 `json:"z"`
	Timestamp string  `json:"timestamp"`
}

// IngestHandler terminates the sensor relay's websocket connection.
type IngestHandler struct {
	deps   Dependencies
	active atomic.Int64
	logger logger.Logger
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(deps Dependencies) *IngestHandler {
	return &IngestHandler{
		deps:   deps,
		logger: logger.Named("ingest"),
	}
}

// HandleWS upgrades the connection and pumps ingest messages into the
// session. Malformed messages are counted and skipped; they never
// close the connection.
func (h *IngestHandler) HandleWS(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(ctx, "ingest upgrade failed", logger.Error(fmt.Errorf("%w: %w", ErrUpgrade, err)))
		return
	}
	defer conn.Close()

	metrics.UpdateWSConnections("ws", int(h.active.Add(1)))
	defer func() {
		metrics.UpdateWSConnections("ws", int(h.active.Add(-1)))
	}()

	h.logger.Info(ctx, "relay connected", logger.String("remote", conn.RemoteAddr().String()))

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn(ctx, "relay connection lost", logger.Error(err))
			}
			return
		}

		var msg ingestMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			metrics.RecordMalformedMessage("envelope")
			h.logger.Debug(ctx, "undecodable ingest message", logger.Error(err))
			continue
		}

		switch msg.Type {
		case kindAcceleration:
			h.deps.IngestAccel(ctx, toSamples(msg.Samples))
		case kindHeartRate:
			// A null reading is a missing-marked sample, not an error.
			bpm := model.Missing()
			if msg.HeartRate != nil {
				bpm = *msg.HeartRate
			}
			h.deps.IngestHeartRate(ctx, bpm)
		case kindFatigue:
			rpe := math.NaN()
			if msg.RPE != nil {
				rpe = *msg.RPE
			}
			h.deps.Trigger(ctx, rpe)
		default:
			metrics.RecordMalformedMessage("unknown_type")
			h.logger.Debug(ctx, "unknown ingest message type", logger.String("type", msg.Type))
		}
	}
}

func toSamples(msgs []accelSampleMsg) []model.AccelSample {
	samples := make([]model.AccelSample, len(msgs))
	for i, m := range msgs {
		ts, _ := time.Parse(time.RFC3339, m.Timestamp) // zero when absent or unparseable
		samples[i] = model.AccelSample{X: m.X, Y: m.Y, Z: m.Z, Timestamp: ts}
	}
	return samples
}
