// Package driving defines the interfaces the shell and the MCP server use to
// drive a controller session: the command interpreter and the repeat loop
// manager.
//
// Implementations of these interfaces live in internal/core/services.
package driving
