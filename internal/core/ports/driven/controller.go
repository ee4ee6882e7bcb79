package driven

import (
	"context"

	"github.com/custodia-labs/padctl/internal/core/domain"
)

// Controller is the emulated device whose state is pushed to a transport.
// Implementations must serialise concurrent pushes: repeat loops and the
// interpreter push from different goroutines.
type Controller interface {
	// Kind returns the emulated controller kind.
	Kind() domain.ControllerKind

	// IsButton reports whether name is a button of this controller.
	IsButton(name string) bool

	// Buttons returns every button name, sorted.
	Buttons() []string

	// Push presses the buttons together, sends the state, waits the press
	// duration, releases them and sends again. A push that has started runs
	// to completion even if ctx is cancelled. Buttons held with Hold stay
	// pressed after the push.
	// Returns domain.ErrNotConnected when no transport is attached.
	Push(ctx context.Context, buttons ...string) error

	// Hold presses the buttons and sends the state without releasing them.
	Hold(ctx context.Context, buttons ...string) error

	// Release releases the buttons and sends the state.
	Release(ctx context.Context, buttons ...string) error

	// Flush sends the current state unchanged.
	Flush(ctx context.Context) error

	// Stick returns the stick on the given side.
	// Returns domain.ErrNoStick if the controller kind has none there.
	Stick(side domain.StickSide) (Stick, error)

	// Snapshot returns the current input state.
	Snapshot() domain.ControllerSnapshot
}

// Stick is one analog stick. Setters only change state; nothing is sent
// until the next push or flush.
type Stick interface {
	SetCenter()
	SetUp()
	SetDown()
	SetLeft()
	SetRight()

	// SetH sets the horizontal value. Returns domain.ErrInvalidArgument when out of range.
	SetH(v int) error

	// SetV sets the vertical value. Returns domain.ErrInvalidArgument when out of range.
	SetV(v int) error

	// Position returns the current value.
	Position() domain.StickPosition
}
