package daemon

import (
	"fmt"

	"github.com/1broseidon/tilesync/internal/model"
)

// Bootstrap builds the initial model: one workspace per configured name on
// the active display, the first one displayed, and every existing window
// adopted into it. The first sync cycle redraws everything, aligns focus and
// applies effects to every window.
func Bootstrap(env *Env, emitter model.Emitter) error {
	display, err := env.Backend.ActiveDisplay()
	if err != nil {
		return fmt.Errorf("active display: %w", err)
	}

	state := model.NewState(emitter)
	for i, name := range env.Config.Workspaces {
		id := state.AddWorkspace(name, display.Usable)
		if i == 0 {
			ws, _ := state.Container(id)
			ws.Workspace.Displayed = true
		}
	}
	env.State = state

	if err := manageWindows(env); err != nil {
		return err
	}

	// Without an adopted foreground window, focus lands on the displayed
	// workspace's first window, or the workspace itself.
	if focused, err := state.FocusedContainer(); err == nil && focused.Kind == model.KindRoot {
		ws, _ := state.DisplayedWorkspace()
		target := state.LastFocusedDescendant(ws.ID)
		if target == model.NoContainer {
			target = ws.ID
		}
		if err := state.SetFocused(target); err != nil {
			return err
		}
	}

	if err := arrangeAll(env); err != nil {
		return err
	}
	state.QueueRedraw(state.Root().ID)
	state.PendingSync.QueueFocusChange()
	state.PendingSync.QueueResetWindowEffects()
	return nil
}
