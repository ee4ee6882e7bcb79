// Package services implements the driving port interfaces.
// Services contain the core session logic and orchestrate
// calls to driven ports (adapters).
//
//   - CommandRegistry: named commands registered at setup
//   - Interpreter: chained line dispatch, button batching and built-ins
//   - LoopManager: cancellable repeat loops keyed by button
package services
