package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/tilesync/internal/daemon"
	"github.com/1broseidon/tilesync/internal/ipc"
	"github.com/1broseidon/tilesync/internal/model"
)

func newClient() *ipc.Client {
	if socketPath != "" {
		return ipc.NewClientAt(socketPath)
	}
	return ipc.NewClient()
}

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Print the full container tree as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := newClient().GetState()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), state, true)
		},
	}
}

func newFocusedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focused",
		Short: "Print the focused container as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			focused, err := newClient().GetFocused()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), focused, true)
		},
	}
}

func newWindowsCmd() *cobra.Command {
	var asJSON bool
	c := &cobra.Command{
		Use:   "windows",
		Short: "List managed windows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			windows, err := newClient().GetWindows()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), windows, true)
			}
			printWindows(cmd.OutOrStdout(), windows)
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return c
}

func newFocusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus <handle|next|prev>",
		Short: "Focus a window by handle or move focus within the workspace",
		Example: `  tilesync focus next
  tilesync focus 0x3a00007`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			if dir, ok := parseDirection(args[0]); ok {
				return client.FocusDirection(dir)
			}
			handle, err := parseHandle(args[0])
			if err != nil {
				return err
			}
			return client.Focus(handle)
		},
	}
}

func newWorkspaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "workspace <name|next|prev>",
		Short: "Display a workspace by name or cycle through workspaces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := newClient()
			if dir, ok := parseDirection(args[0]); ok {
				return client.WorkspaceDirection(dir)
			}
			return client.Workspace(args[0])
		},
	}
}

func newSplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "split <horizontal|vertical>",
		Short:     "Choose where the focused window's next sibling opens",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.SplitHorizontal), string(model.SplitVertical)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := model.SplitDirection(strings.ToLower(args[0]))
			if !dir.Valid() {
				return fmt.Errorf("invalid split direction %q", args[0])
			}
			return newClient().Split(dir)
		},
	}
}

func newResizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <grow-width|shrink-width|grow-height|shrink-height>",
		Short: "Grow or shrink the focused window by one resize step",
		Example: `  tilesync resize grow-width
  tilesync resize shrink-height`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"grow-width", "shrink-width", "grow-height", "shrink-height"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, ok := parseResize(args[0])
			if !ok {
				return fmt.Errorf("invalid resize direction %q", args[0])
			}
			return newClient().Resize(dir)
		},
	}
}

func newRedrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redraw",
		Short: "Re-lay out and reposition every window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().Redraw()
		},
	}
}

func newResetEffectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-effects",
		Short: "Reapply border colors to every window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return newClient().ResetEffects()
		},
	}
}

func newReloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to reload its configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "config: reloaded")
			return nil
		},
	}
}

func newEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Stream daemon events until interrupted",
		Long: `Stream daemon events until interrupted

Events are printed as indented JSON on a terminal and as one JSON object
per line otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			indent := term.IsTerminal(int(os.Stdout.Fd()))
			var writeErr error
			err := newClient().Subscribe(cmd.Context(), func(ev model.Event) {
				if writeErr == nil {
					writeErr = writeJSON(out, ev, indent)
				}
			})
			if writeErr != nil {
				return writeErr
			}
			if cmd.Context().Err() != nil {
				return nil
			}
			return err
		},
	}
}

func parseDirection(arg string) (ipc.Direction, bool) {
	dir := ipc.Direction(strings.ToLower(arg))
	return dir, dir.Delta() != 0
}

// parseResize accepts dashed or underscored step names.
func parseResize(arg string) (daemon.ResizeDirection, bool) {
	dir := daemon.ResizeDirection(strings.ReplaceAll(strings.ToLower(arg), "-", "_"))
	return dir, dir.Valid()
}

// parseHandle accepts decimal or 0x-prefixed hex window ids.
func parseHandle(arg string) (uint32, error) {
	v, err := strconv.ParseUint(arg, 0, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid window handle %q", arg)
	}
	return uint32(v), nil
}

func writeJSON(w io.Writer, v any, indent bool) error {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func printWindows(w io.Writer, windows []model.ContainerDTO) {
	fmt.Fprintf(w, "%-12s %-10s %-8s %-5s %-16s %s\n", "HANDLE", "STATE", "DISPLAY", "FOCUS", "CLASS", "TITLE")
	for _, win := range windows {
		display := ""
		if win.DisplayState != nil {
			display = win.DisplayState.String()
		}
		focus := ""
		if win.HasFocus {
			focus = "*"
		}
		fmt.Fprintf(w, "0x%-10x %-10s %-8s %-5s %-16s %s\n",
			uint32(win.Handle), win.State, display, focus, win.ClassName, win.Title)
	}
}
