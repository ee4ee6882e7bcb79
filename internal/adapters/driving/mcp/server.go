package mcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/padctl/internal/logger"
)

// DefaultVersion is reported to clients when no version is set.
const DefaultVersion = "dev"

// shutdownTimeout bounds how long open HTTP streams may delay shutdown.
const shutdownTimeout = 5 * time.Second

// instructions tells clients how the tools drive the controller.
const instructions = `padctl drives one emulated game controller.

Call "exec" with one command line, exactly as typed in the padctl shell:
button names press buttons, "a && b" presses them together,
"repeat <button> <interval_ms>" starts a background loop and
"repeat_stop <button>" ends it. "help" lists every command.

Active loops are returned by "repeat_list" and the padctl://loops resources.
An exec outcome of "disconnected" means the controller is gone; further
presses fail until padctl is restarted.`

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported to clients.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// Server exposes a controller session over the Model Context Protocol.
type Server struct {
	ports   *Ports
	version string
	server  *mcp.Server
}

// NewServer creates a server whose tools call into ports.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports, version: DefaultVersion}
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(
		&mcp.Implementation{Name: "padctl", Version: s.version},
		&mcp.ServerOptions{Instructions: instructions},
	)
	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves one client over stdio until the client disconnects or ctx is
// cancelled. Cancellation is not an error.
func (s *Server) Run(ctx context.Context) error {
	err := s.server.Run(ctx, &mcp.StdioTransport{})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Serve accepts streamable HTTP clients on ln until ctx is cancelled.
// Open streams get shutdownTimeout to finish before they are cut.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	served := make(chan error, 1)
	go func() {
		served <- httpServer.Serve(ln)
	}()

	select {
	case err := <-served:
		return fmt.Errorf("serve mcp: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("mcp: closing open streams after %s: %v", shutdownTimeout, err)
		_ = httpServer.Close()
	}

	if err := <-served; !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve mcp: %w", err)
	}
	return nil
}
