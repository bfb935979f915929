package daemon

import (
	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
)

type redrawTarget struct {
	container *model.Container
	displayed bool
}

// redrawWindows advances the display state of every queued window and
// issues one SetPosition call per window. Workspaces are resolved for the
// whole batch first so a corrupt model aborts before any native call.
func (p *PlatformSync) redrawWindows(state *model.State) error {
	windows := state.WindowsToRedraw()
	targets := make([]redrawTarget, 0, len(windows))
	for _, c := range windows {
		ws, err := state.WorkspaceOf(c.ID)
		if err != nil {
			return err
		}
		targets = append(targets, redrawTarget{container: c, displayed: ws.Workspace.Displayed})
	}

	for _, target := range targets {
		w, _ := target.container.AsWindow()

		next := platform.NextDisplayState(w.DisplayState, target.displayed)
		if next != w.DisplayState {
			p.logger.Debug("display state transition",
				"window", target.container,
				"from", w.DisplayState,
				"to", next)
		}
		w.DisplayState = next

		rect := w.Bounds.ApplyDelta(w.BorderDelta)
		if err := p.native.SetPosition(w.Handle, w.State, w.DisplayState, rect, w.PendingDPIAdjustment); err != nil {
			p.logger.Debug("set position failed",
				"window", target.container,
				"display_state", w.DisplayState,
				"error", err)
		}
	}

	return nil
}
