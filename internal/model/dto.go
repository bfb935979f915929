package model

import (
	"fmt"

	"github.com/1broseidon/tilesync/internal/platform"
)

// ContainerDTO is the serializable snapshot of a container subtree handed
// to IPC and MCP clients.
type ContainerDTO struct {
	ID       string         `json:"id"`
	Type     Kind           `json:"type"`
	HasFocus bool           `json:"has_focus"`
	Children []ContainerDTO `json:"children,omitempty"`

	Name        string         `json:"name,omitempty"`
	Displayed   *bool          `json:"displayed,omitempty"`
	Direction   SplitDirection `json:"direction,omitempty"`
	SizePercent float64        `json:"size_percent,omitempty"`

	Handle       platform.WindowID      `json:"handle,omitempty"`
	DisplayState *platform.DisplayState `json:"display_state,omitempty"`
	State        platform.WindowState   `json:"state,omitempty"`
	Rect         *platform.Rect         `json:"rect,omitempty"`
	Title        string                 `json:"title,omitempty"`
	ClassName    string                 `json:"class_name,omitempty"`
	ProcessName  string                 `json:"process_name,omitempty"`
}

// ToDTO snapshots the subtree rooted at id.
func (s *State) ToDTO(id ContainerID) (ContainerDTO, error) {
	c, ok := s.Container(id)
	if !ok {
		return ContainerDTO{}, fmt.Errorf("snapshot: %w: %d", ErrContainerNotFound, id)
	}

	dto := ContainerDTO{
		ID:       c.UUID.String(),
		Type:     c.Kind,
		HasFocus: c.ID == s.focused,
	}

	switch c.Kind {
	case KindWorkspace:
		displayed := c.Workspace.Displayed
		bounds := c.Workspace.Bounds
		dto.Name = c.Workspace.Name
		dto.Displayed = &displayed
		dto.Rect = &bounds
	case KindSplit:
		dto.Direction = c.Split.Direction
	case KindWindow:
		w := c.Window
		state := w.DisplayState
		bounds := w.Bounds
		dto.Handle = w.Handle
		dto.DisplayState = &state
		dto.State = w.State
		dto.Rect = &bounds
		dto.Title = w.Title
		dto.ClassName = w.Class
		dto.ProcessName = w.Process
	}
	if parent, ok := s.Container(c.Parent); ok && parent.Kind == KindSplit {
		dto.SizePercent = c.SizePercent
	}

	for _, child := range c.Children {
		childDTO, err := s.ToDTO(child)
		if err != nil {
			return ContainerDTO{}, err
		}
		dto.Children = append(dto.Children, childDTO)
	}
	return dto, nil
}
