// Package platformtest provides an in-memory platform backend that records
// every native call for assertions in tests.
package platformtest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/1broseidon/tilesync/internal/platform"
)

// ErrRejected is returned by calls configured to fail.
var ErrRejected = errors.New("platformtest: call rejected")

// CallKind names a recorded native call.
type CallKind string

const (
	CallSetForeground  CallKind = "set_foreground"
	CallSetPosition    CallKind = "set_position"
	CallSetBorderColor CallKind = "set_border_color"
)

// Call is one recorded native call.
type Call struct {
	Kind       CallKind
	Window     platform.WindowID
	State      platform.WindowState
	Display    platform.DisplayState
	Bounds     platform.Rect
	PendingDPI bool
	Color      *platform.Color
}

func (c Call) String() string {
	switch c.Kind {
	case CallSetPosition:
		return fmt.Sprintf("%s(%d, %s, %s, %+v, dpi=%v)", c.Kind, c.Window, c.State, c.Display, c.Bounds, c.PendingDPI)
	case CallSetBorderColor:
		return fmt.Sprintf("%s(%d, %v)", c.Kind, c.Window, c.Color)
	default:
		return fmt.Sprintf("%s(%d)", c.Kind, c.Window)
	}
}

// Backend is a recording platform.Backend. Methods are safe for concurrent
// use; set the exported fields before handing the backend to a goroutine.
type Backend struct {
	mu sync.Mutex

	Foreground platform.WindowID
	Desktop    platform.WindowID
	Display    platform.Display
	Windows    []platform.Window

	// Fail makes every mutating call of the given kinds return ErrRejected.
	Fail map[CallKind]bool
	// FocusFollowsRequest updates Foreground on successful SetForeground.
	FocusFollowsRequest bool

	Calls []Call

	// Tracked holds windows registered for visibility notifications.
	Tracked map[platform.WindowID]bool
	handler func(platform.Event)
}

var (
	_ platform.Backend     = (*Backend)(nil)
	_ platform.EventSource = (*Backend)(nil)
)

// New returns a backend with a single 1920x1080 display and root handle 1.
func New() *Backend {
	bounds := platform.Rect{Width: 1920, Height: 1080}
	return &Backend{
		Desktop:    1,
		Foreground: 1,
		Display:    platform.Display{ID: 0, Name: "fake-0", Bounds: bounds, Usable: bounds},
		Fail:       map[CallKind]bool{},
		Tracked:    map[platform.WindowID]bool{},
	}
}

func (b *Backend) ForegroundWindow() (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Foreground, nil
}

func (b *Backend) DesktopWindow() platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Desktop
}

func (b *Backend) SetForeground(windowID platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, Call{Kind: CallSetForeground, Window: windowID})
	if b.Fail[CallSetForeground] {
		return ErrRejected
	}
	if b.FocusFollowsRequest {
		b.Foreground = windowID
	}
	return nil
}

func (b *Backend) SetPosition(windowID platform.WindowID, state platform.WindowState, display platform.DisplayState, bounds platform.Rect, pendingDPI bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, Call{
		Kind:       CallSetPosition,
		Window:     windowID,
		State:      state,
		Display:    display,
		Bounds:     bounds,
		PendingDPI: pendingDPI,
	})
	if b.Fail[CallSetPosition] {
		return ErrRejected
	}
	return nil
}

func (b *Backend) SetBorderColor(windowID platform.WindowID, color *platform.Color) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = append(b.Calls, Call{Kind: CallSetBorderColor, Window: windowID, Color: color})
	if b.Fail[CallSetBorderColor] {
		return ErrRejected
	}
	return nil
}

func (b *Backend) Displays() ([]platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return []platform.Display{b.Display}, nil
}

func (b *Backend) ActiveDisplay() (platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Display, nil
}

func (b *Backend) ListWindows() ([]platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Windows, nil
}

// CallsOf returns the recorded calls of one kind, in order.
func (b *Backend) CallsOf(kind CallKind) []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []Call
	for _, c := range b.Calls {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Reset forgets recorded calls.
func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Calls = nil
}

func (b *Backend) Subscribe(handler func(platform.Event)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handler = handler
	return nil
}

func (b *Backend) Track(windowID platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Tracked[windowID] = true
	return nil
}

func (b *Backend) Untrack(windowID platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Tracked, windowID)
}

// Raise delivers ev to the subscribed handler, if any.
func (b *Backend) Raise(ev platform.Event) {
	b.mu.Lock()
	handler := b.handler
	b.mu.Unlock()
	if handler != nil {
		handler(ev)
	}
}
