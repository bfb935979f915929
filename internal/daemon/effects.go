package daemon

import (
	"github.com/1broseidon/tilesync/internal/config"
	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
)

// applyWindowEffects styles the focused window and the unfocused candidates.
// Without a reset only the previously focused window is restyled; the rest
// keep the border they already have.
func (p *PlatformSync) applyWindowEffects(state *model.State, cfg *config.Config, focused *model.Container, recentFocused model.ContainerID) {
	reset := state.PendingSync.ResetWindowEffects

	if _, ok := focused.AsWindow(); ok {
		p.applyBorder(state, cfg, focused, true, reset)
	}

	for _, c := range unfocusedCandidates(state, focused.ID, recentFocused, reset) {
		p.applyBorder(state, cfg, c, false, reset)
	}
}

// unfocusedCandidates selects the windows that may need the unfocused
// border: every window on reset, otherwise at most the recently focused one.
// The focused container is never a candidate.
func unfocusedCandidates(state *model.State, focused, recentFocused model.ContainerID, reset bool) []*model.Container {
	var pool []*model.Container
	if reset {
		pool = state.Windows()
	} else if c, ok := state.Container(recentFocused); ok {
		if _, isWindow := c.AsWindow(); isWindow {
			pool = []*model.Container{c}
		}
	}

	out := pool[:0:0]
	for _, c := range pool {
		if c.ID != focused {
			out = append(out, c)
		}
	}
	return out
}

func (p *PlatformSync) applyBorder(state *model.State, cfg *config.Config, c *model.Container, focused, force bool) {
	class := model.EffectUnfocused
	if focused {
		class = model.EffectFocused
	}
	// Skip windows already carrying this class's border.
	if applied, ok := state.AppliedEffect(c.ID); ok && applied == class && !force {
		return
	}

	border := cfg.BorderFor(focused)
	if !border.Enabled {
		return
	}
	color, err := platform.ParseColor(border.Color)
	if err != nil {
		p.logger.Debug("invalid border color", "color", border.Color, "error", err)
		return
	}

	w, _ := c.AsWindow()
	if err := p.native.SetBorderColor(w.Handle, &color); err != nil {
		p.logger.Debug("set border color failed",
			"window", c,
			"focused", focused,
			"error", err)
		// Left unrecorded so the next cycle touching this window retries.
		return
	}
	state.RecordEffect(c.ID, class)
}
