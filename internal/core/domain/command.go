package domain

import (
	"context"
	"strings"
)

// ChainDelimiter separates chained sub-commands on one input line.
const ChainDelimiter = "&&"

// ExitCommand ends the interactive session.
const ExitCommand = "exit"

// HandlerFunc executes one command invocation.
// A non-empty result is printed by the shell; an error is printed instead of a result.
type HandlerFunc func(ctx context.Context, args []string) (string, error)

// Command is a named handler available in the interactive shell.
type Command struct {
	// Name is the unique word that invokes the command.
	Name string

	// Doc documents usage for the help listing.
	// Common leading indentation is stripped when printed.
	Doc string

	// Handler runs the command.
	Handler HandlerFunc
}

// Validate checks the command can be registered.
func (c Command) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrInvalidInput
	}
	if strings.ContainsAny(c.Name, " \t\r\n") {
		return ErrInvalidInput
	}
	if c.Name == ExitCommand {
		return ErrDuplicateCommand
	}
	if c.Handler == nil {
		return ErrInvalidInput
	}
	return nil
}

// Outcome is the result of dispatching one input line.
type Outcome int

const (
	// OutcomeContinue keeps the session open.
	OutcomeContinue Outcome = iota

	// OutcomeExit ends the session on an explicit exit command.
	OutcomeExit

	// OutcomeDisconnected ends the session after the transport was lost.
	OutcomeDisconnected
)

// String returns the string representation.
func (o Outcome) String() string {
	switch o {
	case OutcomeContinue:
		return "continue"
	case OutcomeExit:
		return "exit"
	case OutcomeDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Ends reports whether the outcome terminates the session.
func (o Outcome) Ends() bool {
	return o == OutcomeExit || o == OutcomeDisconnected
}
