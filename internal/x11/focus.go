package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// GetActiveWindow returns _NET_ACTIVE_WINDOW, or the root window when no
// client holds focus.
func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	win, err := ewmh.ActiveWindowGet(c.XUtil)
	if err != nil {
		return 0, err
	}
	if win == 0 {
		return c.Root, nil
	}
	return win, nil
}

// FocusWindow activates and raises a window using _NET_ACTIVE_WINDOW.
// We build the message manually because the xgbutil ewmh request helpers
// panic on this library version (uint vs int type assertion).
func (c *Connection) FocusWindow(windowID xproto.Window) error {
	const sourceIndication = 2 // pager/direct action
	return c.sendRootMessage(windowID, "_NET_ACTIVE_WINDOW", sourceIndication)
}

// FocusRoot gives keyboard focus back to the root window.
func (c *Connection) FocusRoot() error {
	return xproto.SetInputFocusChecked(
		c.XUtil.Conn(),
		xproto.InputFocusPointerRoot,
		c.Root,
		xproto.TimeCurrentTime,
	).Check()
}
