package daemon

import (
	"errors"
	"fmt"
	"slices"

	"github.com/1broseidon/tilesync/internal/config"
	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
	"github.com/1broseidon/tilesync/internal/tiling"
)

// FocusWindow focuses the managed window bound to handle, switching to its
// workspace first when that workspace is not displayed.
func FocusWindow(handle platform.WindowID) Command {
	return Command{
		Name: "focus_window",
		Run: func(env *Env) error {
			c, ok := env.State.WindowByHandle(handle)
			if !ok {
				return fmt.Errorf("%w: window %d", model.ErrContainerNotFound, handle)
			}
			ws, err := env.State.WorkspaceOf(c.ID)
			if err != nil {
				return err
			}
			if !ws.Workspace.Displayed {
				displayWorkspace(env.State, ws)
			}
			return focus(env.State, c.ID)
		},
	}
}

// FocusRelative moves focus by delta through the windows of the displayed
// workspace, wrapping at both ends.
func FocusRelative(delta int) Command {
	return Command{
		Name: "focus_relative",
		Run: func(env *Env) error {
			ws, ok := env.State.DisplayedWorkspace()
			if !ok {
				return model.ErrNoWorkspace
			}
			windows := env.State.WindowsIn(ws.ID)
			if len(windows) == 0 {
				return nil
			}

			current := -1
			if focused, err := env.State.FocusedContainer(); err == nil {
				for i, w := range windows {
					if w.ID == focused.ID {
						current = i
						break
					}
				}
			}

			next := 0
			if current >= 0 {
				next = wrap(current+delta, len(windows))
			} else if delta < 0 {
				next = len(windows) - 1
			}
			return focus(env.State, windows[next].ID)
		},
	}
}

// SwitchWorkspace displays the named workspace.
func SwitchWorkspace(name string) Command {
	return Command{
		Name: "switch_workspace",
		Run: func(env *Env) error {
			ws, ok := env.State.WorkspaceByName(name)
			if !ok {
				return fmt.Errorf("%w: workspace %q", model.ErrNoWorkspace, name)
			}
			return switchTo(env.State, ws)
		},
	}
}

// SwitchWorkspaceRelative displays the workspace delta positions away from
// the displayed one, wrapping at both ends.
func SwitchWorkspaceRelative(delta int) Command {
	return Command{
		Name: "switch_workspace_relative",
		Run: func(env *Env) error {
			workspaces := env.State.Workspaces()
			if len(workspaces) == 0 {
				return model.ErrNoWorkspace
			}
			current := 0
			for i, ws := range workspaces {
				if ws.Workspace.Displayed {
					current = i
					break
				}
			}
			return switchTo(env.State, workspaces[wrap(current+delta, len(workspaces))])
		},
	}
}

// ManageWindows reconciles the model with the platform's window list:
// unknown windows are adopted into the displayed workspace and windows that
// no longer exist are dropped.
func ManageWindows() Command {
	return Command{
		Name: "manage_windows",
		Run:  manageWindows,
	}
}

// UnmanageWindow drops a window from the model.
func UnmanageWindow(handle platform.WindowID) Command {
	return Command{
		Name: "unmanage_window",
		Run: func(env *Env) error {
			c, ok := env.State.WindowByHandle(handle)
			if !ok {
				return nil
			}
			return unmanage(env, c)
		},
	}
}

// MarkShown completes a Showing transition once the window is mapped.
func MarkShown(handle platform.WindowID) Command {
	return Command{
		Name: "mark_shown",
		Run: func(env *Env) error {
			if w, ok := windowByHandle(env.State, handle); ok && w.DisplayState == platform.DisplayShowing {
				w.DisplayState = platform.DisplayShown
			}
			return nil
		},
	}
}

// MarkHidden completes a Hiding transition once the window is unmapped.
func MarkHidden(handle platform.WindowID) Command {
	return Command{
		Name: "mark_hidden",
		Run: func(env *Env) error {
			if w, ok := windowByHandle(env.State, handle); ok && w.DisplayState == platform.DisplayHiding {
				w.DisplayState = platform.DisplayHidden
			}
			return nil
		},
	}
}

// ExternalFocus adopts a focus change made outside the daemon, such as a
// click. Only managed windows on the displayed workspace are adopted.
func ExternalFocus() Command {
	return Command{
		Name: "external_focus",
		Run: func(env *Env) error {
			handle, err := env.Backend.ForegroundWindow()
			if err != nil {
				return err
			}
			c, ok := env.State.WindowByHandle(handle)
			if !ok {
				return nil
			}
			if focused, err := env.State.FocusedContainer(); err == nil && focused.ID == c.ID {
				return nil
			}
			ws, err := env.State.WorkspaceOf(c.ID)
			if err != nil || !ws.Workspace.Displayed {
				return err
			}
			return focus(env.State, c.ID)
		},
	}
}

// Reload swaps the configuration, re-lays out every workspace and
// reapplies effects to every window.
func Reload(cfg *config.Config) Command {
	return Command{
		Name: "reload",
		Run: func(env *Env) error {
			env.Config = cfg
			if err := arrangeAll(env); err != nil {
				return err
			}
			env.State.QueueRedraw(env.State.Root().ID)
			env.State.PendingSync.QueueResetWindowEffects()
			return nil
		},
	}
}

// ResetEffects reapplies window effects to every window.
func ResetEffects() Command {
	return Command{
		Name: "reset_window_effects",
		Run: func(env *Env) error {
			env.State.PendingSync.QueueResetWindowEffects()
			return nil
		},
	}
}

// RedrawAll re-lays out every workspace and redraws every window.
func RedrawAll() Command {
	return Command{
		Name: "redraw",
		Run: func(env *Env) error {
			if err := arrangeAll(env); err != nil {
				return err
			}
			env.State.QueueRedraw(env.State.Root().ID)
			return nil
		},
	}
}

// SplitFocused sets the layout direction for the focused window's next
// sibling. A window already alone in a split changes that split's direction.
// Any other window is wrapped in a new split of that direction.
func SplitFocused(direction model.SplitDirection) Command {
	return Command{
		Name: "split",
		Run: func(env *Env) error {
			if !direction.Valid() {
				return fmt.Errorf("unknown split direction %q", direction)
			}
			c, ok := focusedWindow(env.State)
			if !ok {
				return nil
			}
			ws, err := env.State.WorkspaceOf(c.ID)
			if err != nil {
				return err
			}

			parent, _ := env.State.Container(c.Parent)
			if parent.Kind == model.KindSplit && len(parent.Children) == 1 {
				parent.Split.Direction = direction
			} else if _, err := env.State.WrapInSplit(c.ID, direction); err != nil {
				return err
			}

			if err := tiling.Arrange(env.State, ws.ID, layoutOptions(env.Config)); err != nil {
				return err
			}
			env.State.QueueRedraw(ws.ID)
			return nil
		},
	}
}

// ResizeDirection names a resize step of the focused window.
type ResizeDirection string

const (
	GrowWidth    ResizeDirection = "grow_width"
	ShrinkWidth  ResizeDirection = "shrink_width"
	GrowHeight   ResizeDirection = "grow_height"
	ShrinkHeight ResizeDirection = "shrink_height"
)

// Valid reports whether d names a resize step.
func (d ResizeDirection) Valid() bool {
	_, _, ok := d.axis()
	return ok
}

// axis returns the split direction a resize acts along and the sign of the
// step.
func (d ResizeDirection) axis() (model.SplitDirection, float64, bool) {
	switch d {
	case GrowWidth:
		return model.SplitHorizontal, 1, true
	case ShrinkWidth:
		return model.SplitHorizontal, -1, true
	case GrowHeight:
		return model.SplitVertical, 1, true
	case ShrinkHeight:
		return model.SplitVertical, -1, true
	}
	return "", 0, false
}

// ResizeFocused grows or shrinks the focused window by one resize step.
// The step applies to the nearest container, starting at the window, whose
// parent split runs along the resize axis. The siblings give up or take the
// difference evenly. A window with no such split, or a step that would make
// any sibling too small, leaves the layout unchanged.
func ResizeFocused(dir ResizeDirection) Command {
	return Command{
		Name: "resize",
		Run: func(env *Env) error {
			axis, sign, ok := dir.axis()
			if !ok {
				return fmt.Errorf("unknown resize direction %q", dir)
			}
			c, ok := focusedWindow(env.State)
			if !ok {
				return nil
			}

			target, parent, ok := resizeTarget(env.State, c, axis)
			if !ok {
				return nil
			}
			if err := env.State.Resize(target.ID, sign*env.Config.ResizePercentage); err != nil {
				if errors.Is(err, model.ErrResizeLimit) {
					env.Logger.Debug("resize at limit", "window", c, "direction", dir)
					return nil
				}
				return err
			}

			ws, err := env.State.WorkspaceOf(parent.ID)
			if err != nil {
				return err
			}
			if err := tiling.Arrange(env.State, ws.ID, layoutOptions(env.Config)); err != nil {
				return err
			}
			env.State.QueueRedraw(parent.ID)
			return nil
		},
	}
}

// resizeTarget walks up from c to the first container with siblings inside
// a split along axis.
func resizeTarget(state *model.State, c *model.Container, axis model.SplitDirection) (target, parent *model.Container, ok bool) {
	for {
		parent, ok = state.Container(c.Parent)
		if !ok || parent.Kind != model.KindSplit {
			return nil, nil, false
		}
		if parent.Split.Direction == axis && len(parent.Children) > 1 {
			return c, parent, true
		}
		c = parent
	}
}

func focusedWindow(state *model.State) (*model.Container, bool) {
	c, err := state.FocusedContainer()
	if err != nil || c.Kind != model.KindWindow {
		return nil, false
	}
	return c, true
}

// Query runs fn against the model without queuing anything.
func Query(fn func(env *Env) error) Command {
	return Command{Name: "query", Run: fn}
}

func focus(state *model.State, id model.ContainerID) error {
	if err := state.SetFocused(id); err != nil {
		return err
	}
	state.PendingSync.QueueFocusChange()
	return nil
}

// switchTo displays ws and focuses what it last had focused.
func switchTo(state *model.State, ws *model.Container) error {
	if ws.Workspace.Displayed {
		return nil
	}
	displayWorkspace(state, ws)

	target := state.LastFocusedDescendant(ws.ID)
	if target == model.NoContainer {
		target = ws.ID
	}
	return focus(state, target)
}

// displayWorkspace hides the displayed workspace and shows ws, queuing
// both for redraw.
func displayWorkspace(state *model.State, ws *model.Container) {
	if current, ok := state.DisplayedWorkspace(); ok {
		current.Workspace.Displayed = false
		state.QueueRedraw(current.ID)
	}
	ws.Workspace.Displayed = true
	state.QueueRedraw(ws.ID)
}

func manageWindows(env *Env) error {
	windows, err := env.Backend.ListWindows()
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}

	present := make(map[platform.WindowID]bool, len(windows))
	for _, w := range windows {
		present[w.ID] = true
	}

	for _, c := range env.State.Windows() {
		if !present[c.Window.Handle] {
			env.Logger.Info("window gone", "window", c)
			if err := unmanage(env, c); err != nil {
				return err
			}
		}
	}

	target, ok := env.State.DisplayedWorkspace()
	if !ok {
		return model.ErrNoWorkspace
	}

	parent := adoptionParent(env.State, target)
	var added []model.ContainerID
	for _, w := range windows {
		if _, ok := env.State.WindowByHandle(w.ID); ok {
			continue
		}
		id, err := env.State.AddWindow(parent, windowFromPlatform(w))
		if err != nil {
			return err
		}
		added = append(added, id)
		c, _ := env.State.Container(id)
		env.Logger.Info("window managed", "window", c, "title", w.Title)

		if env.Events != nil {
			if err := env.Events.Track(w.ID); err != nil {
				env.Logger.Debug("track window failed", "window", c, "error", err)
			}
		}
	}
	if len(added) == 0 {
		return nil
	}

	if err := tiling.Arrange(env.State, target.ID, layoutOptions(env.Config)); err != nil {
		return err
	}
	env.State.QueueRedraw(target.ID)

	// Adopt OS focus when it sits on a window we just picked up.
	if handle, err := env.Backend.ForegroundWindow(); err == nil {
		if c, ok := env.State.WindowByHandle(handle); ok && slices.Contains(added, c.ID) {
			return focus(env.State, c.ID)
		}
	}
	return nil
}

// adoptionParent returns the split holding the focused window when it sits
// on ws, so new windows open next to it. Otherwise windows join ws.
func adoptionParent(state *model.State, ws *model.Container) model.ContainerID {
	c, ok := focusedWindow(state)
	if !ok {
		return ws.ID
	}
	parent, ok := state.Container(c.Parent)
	if !ok || parent.Kind != model.KindSplit {
		return ws.ID
	}
	if owner, err := state.WorkspaceOf(parent.ID); err != nil || owner.ID != ws.ID {
		return ws.ID
	}
	return parent.ID
}

func unmanage(env *Env, c *model.Container) error {
	ws, wsErr := env.State.WorkspaceOf(c.ID)
	handle := c.Window.Handle

	moved, err := env.State.RemoveContainer(c.ID)
	if err != nil {
		return err
	}
	if env.Events != nil {
		env.Events.Untrack(handle)
	}
	if moved {
		env.State.PendingSync.QueueFocusChange()
	}
	if wsErr == nil {
		if err := tiling.Arrange(env.State, ws.ID, layoutOptions(env.Config)); err != nil {
			return err
		}
		env.State.QueueRedraw(ws.ID)
	}
	return nil
}

func arrangeAll(env *Env) error {
	opts := layoutOptions(env.Config)
	for _, ws := range env.State.Workspaces() {
		if err := tiling.Arrange(env.State, ws.ID, opts); err != nil {
			return err
		}
	}
	return nil
}

func layoutOptions(cfg *config.Config) tiling.Options {
	return tiling.Options{
		GapSize:       cfg.GapSize,
		ScreenPadding: cfg.ScreenPadding,
		BorderDelta:   cfg.BorderDelta,
	}
}

func windowFromPlatform(w platform.Window) model.Window {
	win := model.Window{
		Handle:       w.ID,
		DisplayState: platform.DisplayShown,
		State:        platform.WindowTiling,
		Bounds:       w.Bounds,
		Title:        w.Title,
		Class:        w.AppID,
		Process:      w.Process,
	}
	if w.Hidden {
		win.State = platform.WindowMinimized
	}
	return win
}

func windowByHandle(state *model.State, handle platform.WindowID) (*model.Window, bool) {
	c, ok := state.WindowByHandle(handle)
	if !ok {
		return nil, false
	}
	return c.AsWindow()
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}
