package driving

import (
	"context"

	"github.com/custodia-labs/padctl/internal/core/domain"
)

// LoopManager runs repeat loops: background tasks that press one button at a
// fixed period until stopped.
type LoopManager interface {
	// Start begins a loop for button key, pressing it every periodMillis milliseconds.
	// Returns domain.ErrAlreadyActive if key already has an active loop and
	// domain.ErrInvalidArgument if periodMillis is not an integer.
	Start(ctx context.Context, key, periodMillis string) (string, error)

	// Stop requests cancellation of the loop for key and returns without waiting.
	// Stopping a key with no active loop is not an error.
	Stop(key string) string

	// List returns the keys of active loops, sorted.
	List() []string

	// Status returns a snapshot of every active loop, sorted by key.
	Status() []domain.LoopTask

	// StopAll cancels every active loop.
	StopAll()

	// Wait blocks until every loop goroutine has exited or ctx is done.
	Wait(ctx context.Context) error
}
