package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/tilesync/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	mcpCmd := &cobra.Command{
		Use:   "mcp",
		Short: "Model Context Protocol integration",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdio

Exposes the running daemon's windows to MCP clients. The daemon must be
running; every tool call is forwarded over the IPC socket.`,
		Example: `  claude mcp add tilesync -- tilesync mcp serve`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runMCPServe(ctx)
		},
	}

	mcpCmd.AddCommand(serveCmd)
	return mcpCmd
}

func runMCPServe(ctx context.Context) error {
	return mcp.NewServer(newClient()).Run(ctx)
}
