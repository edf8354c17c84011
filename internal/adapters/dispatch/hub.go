package dispatch

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/strain/internal/domain/model"
	"github.com/okian/strain/pkg/logger"
	"github.com/okian/strain/pkg/metrics"
)

// defaultWriteTimeout bounds one control frame write so a stalled
// client cannot hold up a decision cycle.
const defaultWriteTimeout = 2 * time.Second

// modeMessage is the wire shape sent to control clients.
type modeMessage struct {
	Mode string `json:"mode"`
}

// Hub fans decided modes out to the attached websocket clients.
type Hub struct {
	mu           sync.Mutex
	conns        map[*websocket.Conn]struct{}
	writeTimeout time.Duration
	logger       logger.Logger
}

// HubOption applies a configuration option to the Hub.
type HubOption func(*Hub)

// WithWriteTimeout bounds a single control frame write.
func WithWriteTimeout(timeout time.Duration) HubOption {
	return func(h *Hub) {
		if timeout > 0 {
			h.writeTimeout = timeout
		}
	}
}

// WithLogger sets a custom logger for the hub.
func WithLogger(log logger.Logger) HubOption {
	return func(h *Hub) {
		if log != nil {
			h.logger = log
		}
	}
}

// NewHub creates an empty control-channel hub.
func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		conns:        make(map[*websocket.Conn]struct{}),
		writeTimeout: defaultWriteTimeout,
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.logger == nil {
		h.logger = logger.Named("dispatch")
	}

	return h
}

// Attach registers a control client connection.
func (h *Hub) Attach(conn *websocket.Conn) {
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()

	metrics.UpdateWSConnections("channel", n)
}

// Detach removes a control client connection.
func (h *Hub) Detach(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	n := len(h.conns)
	h.mu.Unlock()

	metrics.UpdateWSConnections("channel", n)
}

// Count returns the number of attached control clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Send writes the mode to every attached client. Connections that
// fail to accept the frame are detached. Returns ErrNoChannel when
// nothing is attached, ErrSend when every write failed.
func (h *Hub) Send(ctx context.Context, mode model.Mode) error {
	h.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	if len(conns) == 0 {
		return ErrNoChannel
	}

	msg := modeMessage{Mode: mode.String()}
	delivered := 0
	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			h.logger.Warn(ctx, "control client write failed; detaching", logger.Error(err))
			h.Detach(conn)
			continue
		}
		delivered++
	}

	if delivered == 0 {
		return ErrSend
	}
	return nil
}
