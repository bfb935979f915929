package daemon

import (
	"fmt"
	"log/slog"

	"github.com/1broseidon/tilesync/internal/config"
	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
)

// PlatformSync turns the model's pending intents into native window calls.
// Native failures are logged and dropped; the next intent touching the same
// window retries naturally.
type PlatformSync struct {
	native platform.NativeSync
	logger *slog.Logger
}

// NewPlatformSync creates a synchronizer issuing calls through native.
func NewPlatformSync(native platform.NativeSync, logger *slog.Logger) *PlatformSync {
	return &PlatformSync{
		native: native,
		logger: logger,
	}
}

// Sync runs one reconciliation cycle. The step order matters: redraw runs
// before focus so the focus target is already visible and placed, and
// effects run last so borders reflect the final focus.
func (p *PlatformSync) Sync(state *model.State, cfg *config.Config) error {
	// Fail before touching the platform when the model has no focus target.
	if _, err := state.FocusedContainer(); err != nil {
		return fmt.Errorf("platform sync: %w", err)
	}

	// The hint is read before focus sync replaces it: its window is the one
	// that just lost focus.
	recentFocused := state.RecentFocused

	if state.PendingSync.HasRedraw() {
		if err := p.redrawWindows(state); err != nil {
			return fmt.Errorf("platform sync: %w", err)
		}
		state.PendingSync.ClearRedraw()
	}

	focused, err := state.FocusedContainer()
	if err != nil {
		return fmt.Errorf("platform sync: %w", err)
	}

	if state.PendingSync.FocusChange {
		if err := p.syncFocus(state, focused); err != nil {
			return fmt.Errorf("platform sync: %w", err)
		}
		state.PendingSync.FocusChange = false
	}

	p.applyWindowEffects(state, cfg, focused, recentFocused)
	state.PendingSync.ResetWindowEffects = false

	return nil
}
