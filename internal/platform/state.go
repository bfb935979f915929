package platform

import (
	"fmt"
	"strconv"
	"strings"
)

// DisplayState is the visibility lifecycle stage of a window.
type DisplayState int

const (
	DisplayShown DisplayState = iota
	DisplayShowing
	DisplayHiding
	DisplayHidden
)

func (d DisplayState) String() string {
	switch d {
	case DisplayShown:
		return "shown"
	case DisplayShowing:
		return "showing"
	case DisplayHiding:
		return "hiding"
	case DisplayHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// MarshalText renders the state as its lowercase name.
func (d DisplayState) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *DisplayState) UnmarshalText(text []byte) error {
	for _, candidate := range []DisplayState{DisplayShown, DisplayShowing, DisplayHiding, DisplayHidden} {
		if candidate.String() == string(text) {
			*d = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown display state %q", text)
}

// NextDisplayState advances the visibility state machine for a window whose
// workspace is (or is not) currently displayed.
func NextDisplayState(current DisplayState, workspaceDisplayed bool) DisplayState {
	switch {
	case (current == DisplayHidden || current == DisplayHiding) && workspaceDisplayed:
		return DisplayShowing
	case (current == DisplayShown || current == DisplayShowing) && !workspaceDisplayed:
		return DisplayHiding
	default:
		return current
	}
}

// WindowState is the geometry state a window is placed in.
type WindowState string

const (
	WindowTiling     WindowState = "tiling"
	WindowFloating   WindowState = "floating"
	WindowFullscreen WindowState = "fullscreen"
	WindowMaximized  WindowState = "maximized"
	WindowMinimized  WindowState = "minimized"
)

// Color is an RGBA border color.
type Color struct {
	R uint8
	G uint8
	B uint8
	A uint8
}

// ParseColor accepts "#rrggbb" or "#rrggbbaa".
func ParseColor(s string) (Color, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

// Pixel packs the color into a 24-bit 0xRRGGBB value.
func (c Color) Pixel() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func (c Color) String() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
