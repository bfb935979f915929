// Package main implements tilesync, a tiling window manager daemon that keeps
// an in-memory layout model in step with the X11 window system.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// Version information (set by the release build)
var (
	version = "dev"
	commit  = "none"
)

// Global flags
var (
	socketPath string
	configPath string
)

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s", version, commit)),
	); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tilesync",
		Short: "Tiling window manager daemon for X11",
		Long: `tilesync - tiling window manager daemon for X11

Keeps a tree of workspaces and windows, lays tiling windows out in a grid,
and synchronizes window positions, focus and border colors with the X
server. Clients talk to the running daemon over a unix socket.`,
		Example: `  # Start the daemon in the foreground
  tilesync daemon

  # Inspect the model
  tilesync state
  tilesync windows

  # Move focus and switch workspaces
  tilesync focus next
  tilesync workspace 2

  # Stream focus changes
  tilesync events`,
		Version:      version,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&socketPath, "socket", "", "IPC socket path (default: $XDG_RUNTIME_DIR/tilesync/tilesync.sock)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (default: $XDG_CONFIG_HOME/tilesync/config.yaml)")

	rootCmd.AddCommand(
		newDaemonCmd(),
		newStateCmd(),
		newFocusedCmd(),
		newWindowsCmd(),
		newFocusCmd(),
		newWorkspaceCmd(),
		newSplitCmd(),
		newResizeCmd(),
		newRedrawCmd(),
		newResetEffectsCmd(),
		newReloadCmd(),
		newEventsCmd(),
		newConfigCmd(),
		newMCPCmd(),
	)
	return rootCmd
}
