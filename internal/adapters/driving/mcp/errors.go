// Package mcp provides an MCP (Model Context Protocol) server adapter for padctl.
// It lets AI assistants drive the controller through the same interpreter as
// the interactive shell.
package mcp

import "errors"

// ErrMissingInterpreter is returned when the interpreter is not provided.
var ErrMissingInterpreter = errors.New("mcp: interpreter is required")

// ErrMissingLoopManager is returned when the loop manager is not provided.
var ErrMissingLoopManager = errors.New("mcp: loop manager is required")
