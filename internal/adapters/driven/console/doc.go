// Package console provides the terminal adapters of the interactive session:
// a styled Console for output and line readers for input.
package console
