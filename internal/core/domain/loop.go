package domain

import "time"

// MinLoopPeriod is the shortest delay between two presses of a repeat loop.
const MinLoopPeriod = time.Millisecond

// DefaultLoopPeriod is used when configuration does not set one.
const DefaultLoopPeriod = 100 * time.Millisecond

// LoopState describes where a repeat loop is in its lifecycle.
type LoopState string

const (
	// LoopStateActive means the loop is pressing its button.
	LoopStateActive LoopState = "active"

	// LoopStateStopping means cancellation was requested but the goroutine has not exited yet.
	LoopStateStopping LoopState = "stopping"

	// LoopStateFinished means the loop goroutine has exited.
	LoopStateFinished LoopState = "finished"
)

// LoopTask is a snapshot of one repeat loop.
type LoopTask struct {
	// Key is the button the loop presses. At most one active loop exists per key.
	Key string

	// RunID distinguishes successive loops started for the same key.
	RunID string

	// Period is the delay between presses.
	Period time.Duration

	// State is the lifecycle state at snapshot time.
	State LoopState

	// StartedAt is when the loop was started.
	StartedAt time.Time

	// Presses counts completed pushes.
	Presses int

	// LastError contains the error that ended the loop, if any.
	LastError string
}

// ClampLoopPeriod converts a millisecond count to a loop period of at least MinLoopPeriod.
func ClampLoopPeriod(millis int) time.Duration {
	if millis < 1 {
		millis = 1
	}
	return time.Duration(millis) * time.Millisecond
}
