package daemon

import "github.com/1broseidon/tilesync/internal/model"

// syncFocus asks the platform to focus the model's focus target, emits
// focus_changed and moves the recency hint. A rejected focus request is not
// an error: focus-stealing prevention may legitimately refuse it.
func (p *PlatformSync) syncFocus(state *model.State, focused *model.Container) error {
	target := p.native.DesktopWindow()
	if w, ok := focused.AsWindow(); ok {
		target = w.Handle
	}

	current, err := p.native.ForegroundWindow()
	if err != nil {
		p.logger.Debug("foreground query failed", "error", err)
	}
	if err != nil || current != target {
		if err := p.native.SetForeground(target); err != nil {
			p.logger.Debug("set foreground rejected",
				"container", focused,
				"handle", uint32(target),
				"error", err)
		}
	}

	// TODO: raise workspace siblings that share the focused window's state
	// without lowering always-on-top floating windows.

	dto, err := state.ToDTO(focused.ID)
	if err != nil {
		return err
	}
	state.Emit(model.Event{
		Type:             model.EventFocusChanged,
		FocusedContainer: &dto,
	})

	state.RecentFocused = focused.ID
	return nil
}
