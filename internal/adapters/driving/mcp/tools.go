package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ExecInput is the input schema for the exec tool.
type ExecInput struct {
	Line string `json:"line" jsonschema:"command line to run, sub-commands may be chained with &&"`
}

// ExecOutput is the output schema for the exec tool.
type ExecOutput struct {
	Output  string   `json:"output"`
	Errors  []string `json:"errors"`
	Outcome string   `json:"outcome"`
}

// RepeatListOutput is the output schema for the repeat_list tool.
type RepeatListOutput struct {
	Keys  []string `json:"keys"`
	Count int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "exec",
		Description: "Run one padctl command line, e.g. \"a && b\" or \"repeat a 100\"",
	}, s.handleExec)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "repeat_list",
		Description: "List buttons with an active repeat loop",
	}, s.handleRepeatList)
}

// handleExec runs a line and returns what it printed.
func (s *Server) handleExec(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExecInput,
) (*mcp.CallToolResult, ExecOutput, error) {
	if strings.TrimSpace(input.Line) == "" {
		return nil, ExecOutput{}, errors.New("line is required")
	}

	out := &captureConsole{}
	outcome := s.ports.Interpreter.Exec(ctx, input.Line, out)

	return nil, ExecOutput{
		Output:  strings.Join(out.lines(), "\n"),
		Errors:  out.errorLines(),
		Outcome: outcome.String(),
	}, nil
}

// handleRepeatList returns the keys of active repeat loops.
func (s *Server) handleRepeatList(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ struct{},
) (*mcp.CallToolResult, RepeatListOutput, error) {
	keys := s.ports.Loops.List()
	return nil, RepeatListOutput{Keys: keys, Count: len(keys)}, nil
}

// captureConsole records the output of one exec call.
// Errors are kept in the output stream too so their order is preserved.
type captureConsole struct {
	mu     sync.Mutex
	output []string
	errors []string
}

func (c *captureConsole) Print(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = append(c.output, msg)
}

func (c *captureConsole) Notice(msg string) {
	c.Print(msg)
}

func (c *captureConsole) Error(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.output = append(c.output, msg)
	c.errors = append(c.errors, msg)
}

func (c *captureConsole) lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.output...)
}

func (c *captureConsole) errorLines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string{}, c.errors...)
}
