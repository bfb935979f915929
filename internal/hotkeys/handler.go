package hotkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/tilesync/internal/config"
	"github.com/1broseidon/tilesync/internal/daemon"
	"github.com/1broseidon/tilesync/internal/model"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Poster queues commands without waiting for them.
type Poster interface {
	Post(cmd daemon.Command) bool
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Binding maps a key sequence to a command factory.
type Binding struct {
	Keys    string
	Name    string
	Command func() daemon.Command
}

// Bindings lists the configured bindings, skipping empty key sequences.
func Bindings(hk config.Hotkeys) []Binding {
	all := []Binding{
		{hk.FocusNext, "focus_next", func() daemon.Command { return daemon.FocusRelative(1) }},
		{hk.FocusPrev, "focus_prev", func() daemon.Command { return daemon.FocusRelative(-1) }},
		{hk.WorkspaceNext, "workspace_next", func() daemon.Command { return daemon.SwitchWorkspaceRelative(1) }},
		{hk.WorkspacePrev, "workspace_prev", func() daemon.Command { return daemon.SwitchWorkspaceRelative(-1) }},
		{hk.ResetEffects, "reset_effects", daemon.ResetEffects},
		{hk.SplitHorizontal, "split_horizontal", func() daemon.Command { return daemon.SplitFocused(model.SplitHorizontal) }},
		{hk.SplitVertical, "split_vertical", func() daemon.Command { return daemon.SplitFocused(model.SplitVertical) }},
		{hk.GrowWidth, "grow_width", func() daemon.Command { return daemon.ResizeFocused(daemon.GrowWidth) }},
		{hk.ShrinkWidth, "shrink_width", func() daemon.Command { return daemon.ResizeFocused(daemon.ShrinkWidth) }},
		{hk.GrowHeight, "grow_height", func() daemon.Command { return daemon.ResizeFocused(daemon.GrowHeight) }},
		{hk.ShrinkHeight, "shrink_height", func() daemon.Command { return daemon.ResizeFocused(daemon.ShrinkHeight) }},
	}
	out := all[:0]
	for _, b := range all {
		if b.Keys != "" {
			out = append(out, b)
		}
	}
	return out
}

// Handler manages global keyboard shortcuts
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	poster Poster
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler. The backend must expose its X
// connection.
func NewHandler(backend any, poster Poster, logger *slog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, errors.New("hotkeys require an X11 backend")
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		poster: poster,
		logger: logger,
	}, nil
}

// Register grabs every configured binding. A binding that fails to grab is
// logged and skipped; the joined errors are returned.
func (h *Handler) Register(hk config.Hotkeys) error {
	var errs []error
	for _, b := range Bindings(hk) {
		if err := h.RegisterFunc(b.Keys, func() {
			h.logger.Debug("hotkey triggered", "binding", b.Name, "keys", b.Keys)
			h.poster.Post(b.Command())
		}); err != nil {
			h.logger.Warn("hotkey registration failed", "binding", b.Name, "keys", b.Keys, "error", err)
			errs = append(errs, fmt.Errorf("%s (%s): %w", b.Name, b.Keys, err))
			continue
		}
		h.logger.Info("hotkey registered", "binding", b.Name, "keys", b.Keys)
	}
	return errors.Join(errs...)
}

// Rebind releases every grab on the root window and registers hk.
// It must not be called from a hotkey callback.
func (h *Handler) Rebind(hk config.Hotkeys) error {
	keybind.Detach(h.xu, h.root)
	return h.Register(hk)
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
