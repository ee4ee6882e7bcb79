package driven

// Console prints user-facing output of the interactive session.
// Implementations must be safe for concurrent use: repeat loops print
// diagnostics while the interpreter prints results.
type Console interface {
	// Print writes a command result.
	Print(msg string)

	// Notice writes an informational message.
	Notice(msg string)

	// Error writes an error message.
	Error(msg string)
}

// LineReader supplies input lines to the interpreter.
type LineReader interface {
	// ReadLine returns the next line without its terminator.
	// Returns io.EOF when input is exhausted.
	ReadLine() (string, error)
}
