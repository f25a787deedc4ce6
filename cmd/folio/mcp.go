package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aretw0/folio"
	"github.com/aretw0/folio/internal/cli"
	"github.com/aretw0/folio/internal/presentation/tui"
	"github.com/aretw0/folio/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the folio store as an MCP server so AI agents can load chapters,
generate outlines and beats, stream scenes and export manuscripts as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.NoArgs,
	RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
		srv := mcp.NewServer(app.Client.Store, app.Client.Resources.Scenes,
			mcp.WithLogger(app.Logger),
			mcp.WithSessions(app.Client.Sessions),
		)

		switch mcpTransport {
		case "stdio":
			// Logs must not corrupt JSON-RPC on stdout.
			log.SetOutput(os.Stderr)
			app.Logger.Info("starting folio MCP server (stdio)")
			return srv.ServeStdio()
		case "sse":
			tui.PrintBanner(os.Stderr, folio.Version)
			app.Logger.Info("starting folio MCP server (SSE)", "port", mcpPort)
			if err := srv.ServeSSE(ctx, mcpPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			app.Logger.Info("MCP server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport %q: supported are stdio and sse", mcpTransport)
		}
	}),
}

var (
	mcpTransport string
	mcpPort      int
)

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().IntVar(&mcpPort, "port", 8080, "Port to listen on (only for SSE)")
}
