package mcp

import (
	"context"
	"errors"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) handleGetFocused(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, FocusedOutput, error) {
	dto, err := s.daemon.GetFocused()
	if err != nil {
		return nil, FocusedOutput{}, err
	}
	return nil, focusedOutput(*dto), nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	dtos, err := s.daemon.GetWindows()
	if err != nil {
		return nil, ListWindowsOutput{}, err
	}
	out := ListWindowsOutput{Windows: make([]WindowInfo, 0, len(dtos))}
	for _, dto := range dtos {
		out.Windows = append(out.Windows, windowInfo(dto))
	}
	return nil, out, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusWindowInput) (*mcpsdk.CallToolResult, FocusWindowOutput, error) {
	if args.Handle == 0 {
		return nil, FocusWindowOutput{}, errors.New("handle is required")
	}
	if err := s.daemon.Focus(args.Handle); err != nil {
		return nil, FocusWindowOutput{}, err
	}
	dto, err := s.daemon.GetFocused()
	if err != nil {
		return nil, FocusWindowOutput{}, err
	}
	return nil, FocusWindowOutput{Focused: focusedOutput(*dto)}, nil
}

func (s *Server) handleResetEffects(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ResetEffectsOutput, error) {
	if err := s.daemon.ResetEffects(); err != nil {
		return nil, ResetEffectsOutput{}, err
	}
	return nil, ResetEffectsOutput{Reset: true}, nil
}
