// Package dispatch delivers decided modes to the downstream control
// channel. Delivery is best-effort and fire-and-forget: an absent or
// broken receiver is a normal condition the caller logs and moves past.
package dispatch

import (
	"context"

	"github.com/okian/strain/internal/domain/model"
)

// Sink is the abstract destination for a decided mode.
type Sink interface {
	// Send delivers mode to whatever is attached. It returns
	// ErrNoChannel when no receiver is attached and ErrSend when
	// delivery failed for every receiver.
	Send(ctx context.Context, mode model.Mode) error
}
