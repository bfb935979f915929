//go:build linux

package platform

import (
	"fmt"
	"sort"

	"github.com/1broseidon/tilesync/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn    *x11.Connection
	handler func(Event)
}

var (
	_ Backend     = (*LinuxBackend)(nil)
	_ EventSource = (*LinuxBackend)(nil)
)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Displays returns all active displays.
func (b *LinuxBackend) Displays() ([]Display, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		displays = append(displays, b.displayFromMonitor(m))
	}

	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})

	return displays, nil
}

// ActiveDisplay returns the display under the pointer.
func (b *LinuxBackend) ActiveDisplay() (Display, error) {
	conn, err := b.connection()
	if err != nil {
		return Display{}, err
	}

	active, err := conn.GetActiveMonitor()
	if err != nil {
		return Display{}, err
	}

	return b.displayFromMonitor(*active), nil
}

// ListWindows lists normal top-level client windows in stacking-list order.
func (b *LinuxBackend) ListWindows() ([]Window, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}

	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}

	windows := make([]Window, 0, len(clients))
	for _, windowID := range clients {
		if !conn.IsNormalWindow(windowID) {
			continue
		}

		x, y, width, height, err := conn.WindowGeometry(windowID)
		if err != nil {
			continue
		}

		pid := conn.WindowPID(windowID)
		windows = append(windows, Window{
			ID:      WindowID(windowID),
			PID:     pid,
			AppID:   conn.WindowClass(windowID),
			Title:   conn.WindowTitle(windowID),
			Process: ProcessName(pid),
			Bounds:  Rect{X: x, Y: y, Width: width, Height: height},
			Hidden:  conn.IsIconified(windowID),
		})
	}

	return windows, nil
}

// ForegroundWindow returns the window holding focus, or the root window.
func (b *LinuxBackend) ForegroundWindow() (WindowID, error) {
	conn, err := b.connection()
	if err != nil {
		return 0, err
	}

	wid, err := conn.GetActiveWindow()
	if err != nil {
		return 0, err
	}
	return WindowID(wid), nil
}

// DesktopWindow returns the root window.
func (b *LinuxBackend) DesktopWindow() WindowID {
	return WindowID(b.RootWindow())
}

// SetForeground activates a client window, or focuses the root window.
func (b *LinuxBackend) SetForeground(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if xproto.Window(windowID) == conn.Root {
		return conn.FocusRoot()
	}
	return conn.FocusWindow(xproto.Window(windowID))
}

// SetPosition applies visibility and placement in one call. X11 handles
// per-monitor scaling in the toolkit, so pendingDPI has no effect here.
func (b *LinuxBackend) SetPosition(windowID WindowID, state WindowState, display DisplayState, bounds Rect, pendingDPI bool) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	win := xproto.Window(windowID)

	if display == DisplayHiding || display == DisplayHidden || state == WindowMinimized {
		return conn.HideWindow(win)
	}

	if err := conn.ShowWindow(win); err != nil {
		return fmt.Errorf("show window %d: %w", windowID, err)
	}

	switch state {
	case WindowMaximized:
		return conn.MaximizeWindow(win)
	case WindowFullscreen:
		return conn.SetFullscreen(win, true)
	default:
		return conn.MoveResizeWindow(win, bounds.X, bounds.Y, bounds.Width, bounds.Height)
	}
}

// SetBorderColor sets the X border pixel. A nil color is ignored.
func (b *LinuxBackend) SetBorderColor(windowID WindowID, color *Color) error {
	if color == nil {
		return nil
	}
	conn, err := b.connection()
	if err != nil {
		return err
	}
	return conn.SetBorderColor(xproto.Window(windowID), color.Pixel())
}

// Subscribe routes root window notifications to handler. Only one handler
// is kept; tracked windows report through the same handler.
func (b *LinuxBackend) Subscribe(handler func(Event)) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	b.handler = handler
	return conn.WatchRoot(x11.RootHandlers{
		ActiveWindowChanged: func() {
			handler(Event{Kind: EventForegroundChanged})
		},
		ClientListChanged: func() {
			handler(Event{Kind: EventWindowsChanged})
		},
	})
}

// Track reports map and unmap of a window to the subscribed handler.
func (b *LinuxBackend) Track(windowID WindowID) error {
	conn, err := b.connection()
	if err != nil {
		return err
	}
	if b.handler == nil {
		return fmt.Errorf("track window %d: no subscriber", windowID)
	}
	handler := b.handler
	return conn.WatchWindow(xproto.Window(windowID),
		func(w xproto.Window) { handler(Event{Kind: EventWindowShown, Window: WindowID(w)}) },
		func(w xproto.Window) { handler(Event{Kind: EventWindowHidden, Window: WindowID(w)}) },
	)
}

// Untrack stops visibility notifications for a window.
func (b *LinuxBackend) Untrack(windowID WindowID) {
	if b != nil && b.conn != nil {
		b.conn.Unwatch(xproto.Window(windowID))
	}
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}

func (b *LinuxBackend) displayFromMonitor(m x11.Monitor) Display {
	usable := b.conn.UsableArea(m)
	return Display{
		ID:     m.ID,
		Name:   m.Name,
		Bounds: Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height},
		Usable: Rect{X: usable.X, Y: usable.Y, Width: usable.Width, Height: usable.Height},
	}
}
