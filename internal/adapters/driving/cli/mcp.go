package cli

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/padctl/internal/adapters/driven/console"
	"github.com/custodia-labs/padctl/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can drive the
controller.

The server exposes the "exec" tool, which runs one command line exactly as
the shell would, and "repeat_list". Loop status is readable from the
padctl://loops resources.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead.

Examples:
  # Stdio mode (default)
  padctl mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  padctl mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	session, err := openSession(SessionOptions{StdoutReserved: port == 0})
	if err != nil {
		return err
	}
	defer closeSession(session)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stdout carries the protocol; loop diagnostics go to stderr.
	rt, err := newSessionRuntime(session, console.New(os.Stderr, false))
	if err != nil {
		return err
	}
	defer rt.shutdown()

	server, err := mcp.NewServer(&mcp.Ports{
		Interpreter: rt.interpreter,
		Loops:       rt.loops,
	}, mcp.WithVersion(version))
	if err != nil {
		return err
	}

	if port > 0 {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return fmt.Errorf("listen on port %d: %w", port, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost:%d\n", port)
		return server.Serve(ctx, ln)
	}

	return server.Run(ctx)
}
