package platform

// EventKind classifies a platform notification.
type EventKind int

const (
	// EventForegroundChanged fires when OS focus moved, possibly by the user.
	EventForegroundChanged EventKind = iota
	// EventWindowsChanged fires when top-level windows appeared or vanished.
	EventWindowsChanged
	// EventWindowShown fires when a tracked window became visible.
	EventWindowShown
	// EventWindowHidden fires when a tracked window stopped being visible.
	EventWindowHidden
)

func (k EventKind) String() string {
	switch k {
	case EventForegroundChanged:
		return "foreground_changed"
	case EventWindowsChanged:
		return "windows_changed"
	case EventWindowShown:
		return "window_shown"
	case EventWindowHidden:
		return "window_hidden"
	default:
		return "unknown"
	}
}

// Event is a notification raised by the window system.
type Event struct {
	Kind   EventKind
	Window WindowID
}

// EventSource delivers window-system notifications. Handlers may run on a
// backend-owned goroutine and must not block.
type EventSource interface {
	Subscribe(handler func(Event)) error
	// Track starts per-window visibility notifications.
	Track(windowID WindowID) error
	Untrack(windowID WindowID)
}
