package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilesync/internal/model"
)

const (
	ServerName    = "tilesync"
	ServerVersion = "0.1.0"
)

// Daemon is the subset of the IPC client the tools call.
type Daemon interface {
	GetFocused() (*model.ContainerDTO, error)
	GetWindows() ([]model.ContainerDTO, error)
	Focus(handle uint32) error
	ResetEffects() error
}

// Server exposes the running daemon's window model over MCP.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
}

// NewServer creates an MCP server that forwards to daemon.
func NewServer(daemon Daemon) *Server {
	s := &Server{daemon: daemon}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_focused",
		Description: "Return the container that currently holds focus in the tiling model. When it is a window, its handle, title, class and geometry are included.",
	}, s.handleGetFocused)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every managed window with its handle, title, class, process, tiling state, visibility state and rectangle.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus a managed window by its handle, switching to its workspace if needed. The window manager may refuse to raise it.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "reset_window_effects",
		Description: "Reapply focused and unfocused border colors to every managed window.",
	}, s.handleResetEffects)
}
