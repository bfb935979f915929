package mcp

import "github.com/1broseidon/tilesync/internal/model"

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// WindowInfo is the flat view of a managed window handed to MCP clients.
type WindowInfo struct {
	ID           string `json:"id"`
	Handle       uint32 `json:"handle"`
	Title        string `json:"title,omitempty"`
	ClassName    string `json:"class_name,omitempty"`
	ProcessName  string `json:"process_name,omitempty"`
	State        string `json:"state,omitempty"`
	DisplayState string `json:"display_state,omitempty"`
	HasFocus     bool   `json:"has_focus"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// FocusedOutput is the output for the get_focused tool.
type FocusedOutput struct {
	Type   string      `json:"type"`
	Name   string      `json:"name,omitempty"`
	Window *WindowInfo `json:"window,omitempty"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []WindowInfo `json:"windows"`
}

// FocusWindowInput is the input for the focus_window tool.
type FocusWindowInput struct {
	Handle uint32 `json:"handle" jsonschema:"Native X11 window id as reported by list_windows"`
}

// FocusWindowOutput is the output for the focus_window tool.
type FocusWindowOutput struct {
	Focused FocusedOutput `json:"focused"`
}

// ResetEffectsOutput is the output for the reset_window_effects tool.
type ResetEffectsOutput struct {
	Reset bool `json:"reset"`
}

func windowInfo(dto model.ContainerDTO) WindowInfo {
	info := WindowInfo{
		ID:          dto.ID,
		Handle:      uint32(dto.Handle),
		Title:       dto.Title,
		ClassName:   dto.ClassName,
		ProcessName: dto.ProcessName,
		State:       string(dto.State),
		HasFocus:    dto.HasFocus,
	}
	if dto.DisplayState != nil {
		info.DisplayState = dto.DisplayState.String()
	}
	if dto.Rect != nil {
		info.X, info.Y = dto.Rect.X, dto.Rect.Y
		info.Width, info.Height = dto.Rect.Width, dto.Rect.Height
	}
	return info
}

func focusedOutput(dto model.ContainerDTO) FocusedOutput {
	out := FocusedOutput{Type: dto.Type.String(), Name: dto.Name}
	if dto.Type == model.KindWindow {
		info := windowInfo(dto)
		out.Window = &info
	}
	return out
}
