package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/padctl/internal/core/domain"
)

// uriScheme is the custom URI scheme for padctl resources.
const uriScheme = "padctl://"

// loopInfo is the JSON form of one repeat loop.
type loopInfo struct {
	Key       string `json:"key"`
	RunID     string `json:"run_id"`
	PeriodMS  int64  `json:"period_ms"`
	Presses   int    `json:"presses"`
	StartedAt string `json:"started_at"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "loops",
		Name:        "loops",
		Description: "Status of all active repeat loops",
		MIMEType:    "application/json",
	}, s.handleLoopsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "loops/{key}",
		Name:        "loop",
		Description: "Status of the repeat loop of one button",
		MIMEType:    "application/json",
	}, s.handleLoopResource)
}

// handleLoopsResource returns the status of every active loop.
func (s *Server) handleLoopsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	tasks := s.ports.Loops.Status()
	infos := make([]loopInfo, 0, len(tasks))
	for _, task := range tasks {
		infos = append(infos, toLoopInfo(task))
	}
	return jsonResource(req.Params.URI, infos)
}

// handleLoopResource returns the status of one active loop.
func (s *Server) handleLoopResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	key := extractLoopKey(req.Params.URI)
	if key == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	for _, task := range s.ports.Loops.Status() {
		if task.Key == key {
			return jsonResource(req.Params.URI, toLoopInfo(task))
		}
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func toLoopInfo(task domain.LoopTask) loopInfo {
	return loopInfo{
		Key:       task.Key,
		RunID:     task.RunID,
		PeriodMS:  task.Period.Milliseconds(),
		Presses:   task.Presses,
		StartedAt: task.StartedAt.UTC().Format(time.RFC3339),
	}
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling loops: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractLoopKey extracts the button from a URI like padctl://loops/{key}.
func extractLoopKey(uri string) string {
	const prefix = uriScheme + "loops/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	key := strings.TrimPrefix(uri, prefix)
	if strings.Contains(key, "/") {
		return ""
	}
	return key
}
