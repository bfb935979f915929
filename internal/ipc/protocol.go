package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/tilesync/internal/daemon"
	"github.com/1broseidon/tilesync/internal/model"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandGetState     CommandType = "GET_STATE"
	CommandGetFocused   CommandType = "GET_FOCUSED"
	CommandGetWindows   CommandType = "GET_WINDOWS"
	CommandFocus        CommandType = "FOCUS"
	CommandWorkspace    CommandType = "WORKSPACE"
	CommandRedraw       CommandType = "REDRAW"
	CommandResetEffects CommandType = "RESET_EFFECTS"
	CommandReload       CommandType = "RELOAD"
	CommandSplit        CommandType = "SPLIT"
	CommandResize       CommandType = "RESIZE"
	// CommandSubscribe keeps the connection open and streams one JSON
	// event per line after the OK response.
	CommandSubscribe CommandType = "SUBSCRIBE"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StateData is returned by GET_STATE.
type StateData struct {
	Root          model.ContainerDTO `json:"root"`
	UptimeSeconds int64              `json:"uptime_seconds"`
}

// WindowsData is returned by GET_WINDOWS.
type WindowsData struct {
	Windows []model.ContainerDTO `json:"windows"`
}

// Direction selects a relative target.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

// Delta maps a direction to a step, or 0 for an unknown direction.
func (d Direction) Delta() int {
	switch d {
	case DirectionNext:
		return 1
	case DirectionPrev:
		return -1
	default:
		return 0
	}
}

// FocusPayload targets a window handle or a direction. Handle wins when
// both are set.
type FocusPayload struct {
	Handle    uint32    `json:"handle,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// WorkspacePayload targets a workspace by name or direction.
type WorkspacePayload struct {
	Name      string    `json:"name,omitempty"`
	Direction Direction `json:"direction,omitempty"`
}

// SplitPayload sets the split direction for the focused window:
// "horizontal" or "vertical".
type SplitPayload struct {
	Direction model.SplitDirection `json:"direction"`
}

// ResizePayload resizes the focused window by one step: "grow_width",
// "shrink_width", "grow_height" or "shrink_height".
type ResizePayload struct {
	Direction daemon.ResizeDirection `json:"direction"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
