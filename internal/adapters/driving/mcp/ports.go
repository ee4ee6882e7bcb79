package mcp

import (
	"github.com/custodia-labs/padctl/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
type Ports struct {
	// Interpreter runs command lines.
	Interpreter driving.Interpreter

	// Loops reports repeat loop state.
	Loops driving.LoopManager
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Interpreter == nil {
		return ErrMissingInterpreter
	}
	if p.Loops == nil {
		return ErrMissingLoopManager
	}
	return nil
}
