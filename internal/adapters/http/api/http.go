// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/strain/internal/adapters/dispatch"
	"github.com/okian/strain/internal/domain/decision"
	"github.com/okian/strain/internal/domain/model"
)

// Dependencies required by the transport handlers. Using an interface
// bundle keeps the handler layer loosely coupled to implementations
// in other packages.
type Dependencies interface {
	// Ingestion path; appends never fail.
	IngestAccel(ctx context.Context, batch []model.AccelSample)
	IngestHeartRate(ctx context.Context, bpm float64)

	// Trigger runs one decision cycle.
	Trigger(ctx context.Context, rpe float64) decision.Outcome

	// Hub exposes the control-channel hub for client attachment.
	Hub() *dispatch.Hub
}

// StatsProvider exposes service statistics for monitoring.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// Server wires HTTP routes for the sensor pipeline.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	ingestHandler  *IngestHandler
	channelHandler *ChannelHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		ingestHandler:  NewIngestHandler(deps),
		channelHandler: NewChannelHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/ws", s.ingestHandler.HandleWS)
	mux.HandleFunc("/channel", s.channelHandler.HandleChannel)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
