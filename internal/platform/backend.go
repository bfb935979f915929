package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RectDelta grows (positive) or shrinks (negative) a rectangle per edge.
type RectDelta struct {
	Top    int `json:"top" yaml:"top"`
	Bottom int `json:"bottom" yaml:"bottom"`
	Left   int `json:"left" yaml:"left"`
	Right  int `json:"right" yaml:"right"`
}

// ApplyDelta returns r expanded outward by d.
func (r Rect) ApplyDelta(d RectDelta) Rect {
	return Rect{
		X:      r.X - d.Left,
		Y:      r.Y - d.Top,
		Width:  r.Width + d.Left + d.Right,
		Height: r.Height + d.Top + d.Bottom,
	}
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID      WindowID
	PID     int
	AppID   string
	Title   string
	Process string
	Bounds  Rect
	// Hidden reports an iconified or otherwise unmapped window.
	Hidden bool
}

// NativeSync is the subset of native calls the reconciliation cycle issues.
type NativeSync interface {
	// ForegroundWindow reports the window that currently holds OS focus.
	ForegroundWindow() (WindowID, error)
	// DesktopWindow is the root surface focused when no window is.
	DesktopWindow() WindowID
	SetForeground(windowID WindowID) error
	SetPosition(windowID WindowID, state WindowState, display DisplayState, bounds Rect, pendingDPI bool) error
	SetBorderColor(windowID WindowID, color *Color) error
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	NativeSync
	Displays() ([]Display, error)
	ActiveDisplay() (Display, error)
	ListWindows() ([]Window, error)
}
