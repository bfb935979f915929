package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// RootHandlers receive root window property changes.
type RootHandlers struct {
	ActiveWindowChanged func()
	ClientListChanged   func()
}

// WatchRoot subscribes to _NET_ACTIVE_WINDOW and _NET_CLIENT_LIST changes.
// Handlers run on the X event loop goroutine.
func (c *Connection) WatchRoot(h RootHandlers) error {
	root := xwindow.New(c.XUtil, c.Root)
	if err := root.Listen(xproto.EventMaskPropertyChange); err != nil {
		return err
	}

	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil {
			return
		}
		switch name {
		case "_NET_ACTIVE_WINDOW":
			if h.ActiveWindowChanged != nil {
				h.ActiveWindowChanged()
			}
		case "_NET_CLIENT_LIST":
			if h.ClientListChanged != nil {
				h.ClientListChanged()
			}
		}
	}).Connect(c.XUtil, c.Root)

	return nil
}

// WatchWindow reports map and unmap notifications for a client window.
// Watching the same window twice is a no-op.
func (c *Connection) WatchWindow(windowID xproto.Window, onMap, onUnmap func(xproto.Window)) error {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	if c.watched[windowID] {
		return nil
	}

	win := xwindow.New(c.XUtil, windowID)
	if err := win.Listen(xproto.EventMaskStructureNotify); err != nil {
		return err
	}

	xevent.MapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.MapNotifyEvent) {
		onMap(ev.Window)
	}).Connect(c.XUtil, windowID)
	xevent.UnmapNotifyFun(func(_ *xgbutil.XUtil, ev xevent.UnmapNotifyEvent) {
		onUnmap(ev.Window)
	}).Connect(c.XUtil, windowID)
	xevent.DestroyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.DestroyNotifyEvent) {
		c.Unwatch(ev.Window)
	}).Connect(c.XUtil, windowID)

	c.watched[windowID] = true
	return nil
}

// Unwatch drops every callback attached to a window.
func (c *Connection) Unwatch(windowID xproto.Window) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	if !c.watched[windowID] {
		return
	}
	xevent.Detach(c.XUtil, windowID)
	delete(c.watched, windowID)
}
