// Package model holds the declarative window tree: workspaces, split
// containers and windows, plus the pending intents that the platform
// synchronizer drains.
//
// Containers live in an arena addressed by ContainerID. IDs are never
// reused, so a stale ID simply fails to resolve.
package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/1broseidon/tilesync/internal/platform"
)

var (
	ErrNoFocusedContainer = errors.New("no focused container")
	ErrNoWorkspace        = errors.New("container has no workspace")
	ErrContainerNotFound  = errors.New("container not found")
	ErrInvalidParent      = errors.New("invalid parent container")
	ErrResizeLimit        = errors.New("container would shrink below the minimum size")
)

// MinSizePercent is the smallest share a split child may be resized to.
const MinSizePercent = 0.05

// ContainerID addresses a container in the State arena.
type ContainerID int

// NoContainer is the zero reference.
const NoContainer ContainerID = -1

// Kind tags the container variant.
type Kind int

const (
	KindRoot Kind = iota
	KindWorkspace
	KindSplit
	KindWindow
)

func (k Kind) String() string {
	switch k {
	case KindRoot:
		return "root"
	case KindWorkspace:
		return "workspace"
	case KindSplit:
		return "split"
	case KindWindow:
		return "window"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for _, candidate := range []Kind{KindRoot, KindWorkspace, KindSplit, KindWindow} {
		if candidate.String() == string(text) {
			*k = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown container kind %q", text)
}

// SplitDirection is the tiling axis of a split container.
type SplitDirection string

const (
	// SplitHorizontal places children side by side.
	SplitHorizontal SplitDirection = "horizontal"
	// SplitVertical stacks children top to bottom.
	SplitVertical SplitDirection = "vertical"
)

// Valid reports whether d names a known direction.
func (d SplitDirection) Valid() bool {
	return d == SplitHorizontal || d == SplitVertical
}

// Workspace is the payload of a workspace container.
type Workspace struct {
	Name      string
	Displayed bool
	Bounds    platform.Rect
}

// Split is the payload of a split container.
type Split struct {
	Direction SplitDirection
}

// Window is the payload of a window container.
type Window struct {
	Handle       platform.WindowID
	DisplayState platform.DisplayState
	State        platform.WindowState
	// Bounds is the rectangle computed by the layout.
	Bounds      platform.Rect
	BorderDelta platform.RectDelta
	// PendingDPIAdjustment is set when the window moved between displays
	// with different scale factors and needs a second placement.
	PendingDPIAdjustment bool

	Title   string
	Class   string
	Process string
}

// Container is one node of the tree. Exactly one payload pointer is set,
// matching Kind (the root has none).
type Container struct {
	ID       ContainerID
	UUID     uuid.UUID
	Kind     Kind
	Parent   ContainerID
	Children []ContainerID
	// FocusOrder lists children, most recently focused first.
	FocusOrder []ContainerID
	// SizePercent is the share of the parent split's axis, in (0, 1].
	// Children of a workspace ignore it.
	SizePercent float64

	Workspace *Workspace
	Split     *Split
	Window    *Window
}

// AsWindow projects the container to its window payload.
func (c *Container) AsWindow() (*Window, bool) {
	if c == nil || c.Kind != KindWindow || c.Window == nil {
		return nil, false
	}
	return c.Window, true
}

// AsWorkspace projects the container to its workspace payload.
func (c *Container) AsWorkspace() (*Workspace, bool) {
	if c == nil || c.Kind != KindWorkspace || c.Workspace == nil {
		return nil, false
	}
	return c.Workspace, true
}

func (c *Container) String() string {
	switch c.Kind {
	case KindWindow:
		return fmt.Sprintf("window#%d(0x%x)", c.ID, uint32(c.Window.Handle))
	case KindWorkspace:
		return fmt.Sprintf("workspace#%d(%s)", c.ID, c.Workspace.Name)
	default:
		return fmt.Sprintf("%s#%d", c.Kind, c.ID)
	}
}

func removeID(ids []ContainerID, id ContainerID) []ContainerID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func replaceID(ids []ContainerID, old, id ContainerID) {
	for i, v := range ids {
		if v == old {
			ids[i] = id
		}
	}
}
