package api

import (
	"fmt"
	"net/http"

	"github.com/okian/strain/pkg/logger"
)

// ChannelHandler attaches downstream control clients to the dispatch
// hub. Clients only receive; inbound frames are drained and dropped.
type ChannelHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewChannelHandler creates a new control-channel handler.
func NewChannelHandler(deps Dependencies) *ChannelHandler {
	return &ChannelHandler{
		deps:   deps,
		logger: logger.Named("channel"),
	}
}

// HandleChannel upgrades the connection and keeps it attached to the
// hub until the client goes away.
func (h *ChannelHandler) HandleChannel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn(ctx, "channel upgrade failed", logger.Error(fmt.Errorf("%w: %w", ErrUpgrade, err)))
		return
	}

	hub := h.deps.Hub()
	hub.Attach(conn)
	h.logger.Info(ctx, "control client attached", logger.String("remote", conn.RemoteAddr().String()))

	defer func() {
		hub.Detach(conn)
		conn.Close()
		h.logger.Info(ctx, "control client detached", logger.String("remote", conn.RemoteAddr().String()))
	}()

	// Read loop exists only to observe the close handshake.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
