package driven

import (
	"context"

	"github.com/custodia-labs/padctl/internal/core/domain"
)

// Transport delivers controller reports to the host.
type Transport interface {
	// Send delivers one report.
	// Returns domain.ErrNotConnected once the transport is closed.
	Send(ctx context.Context, snapshot domain.ControllerSnapshot) error

	// Close disconnects the transport. Later sends fail.
	Close() error
}
