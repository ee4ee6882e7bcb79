package domain

import "errors"

// Domain errors represent session and command failures.
// These are distinct from transport-level infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Command Errors.

	// ErrDuplicateCommand indicates a command name is already registered.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrCommandNotFound indicates no built-in, registered command or button matches a name.
	ErrCommandNotFound = errors.New("command not found")

	// ErrInvalidArgument indicates a command received arguments it cannot use.
	ErrInvalidArgument = errors.New("invalid argument")

	// Loop Errors.

	// ErrAlreadyActive indicates a repeat loop is already running for a button.
	ErrAlreadyActive = errors.New("repeat loop already active")

	// Controller Errors.

	// ErrNotConnected indicates the controller has no live transport.
	// It ends the interactive session and stops every repeat loop.
	ErrNotConnected = errors.New("not connected")

	// ErrUnknownButton indicates a button name the controller does not have.
	ErrUnknownButton = errors.New("unknown button")

	// ErrNoStick indicates the controller kind has no stick on the requested side.
	ErrNoStick = errors.New("controller has no such stick")
)
