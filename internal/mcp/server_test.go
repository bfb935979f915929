package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
)

type fakeDaemon struct {
	windows []model.ContainerDTO
	focused uint32
	resets  int
	err     error
}

func (d *fakeDaemon) GetFocused() (*model.ContainerDTO, error) {
	if d.err != nil {
		return nil, d.err
	}
	for _, w := range d.windows {
		if uint32(w.Handle) == d.focused {
			w.HasFocus = true
			return &w, nil
		}
	}
	return &model.ContainerDTO{ID: "ws", Type: model.KindWorkspace, Name: "1", HasFocus: true}, nil
}

func (d *fakeDaemon) GetWindows() ([]model.ContainerDTO, error) {
	return d.windows, d.err
}

func (d *fakeDaemon) Focus(handle uint32) error {
	if d.err != nil {
		return d.err
	}
	for _, w := range d.windows {
		if uint32(w.Handle) == handle {
			d.focused = handle
			return nil
		}
	}
	return errors.New("no managed window")
}

func (d *fakeDaemon) ResetEffects() error {
	d.resets++
	return d.err
}

func windowDTO(handle uint32, title string) model.ContainerDTO {
	shown := platform.DisplayShown
	return model.ContainerDTO{
		ID:           title,
		Type:         model.KindWindow,
		Handle:       platform.WindowID(handle),
		Title:        title,
		ClassName:    "XTerm",
		State:        platform.WindowTiling,
		DisplayState: &shown,
		Rect:         &platform.Rect{X: 10, Y: 20, Width: 300, Height: 200},
	}
}

func connect(t *testing.T, d Daemon) *mcpsdk.ClientSession {
	t.Helper()
	ctx := context.Background()
	srv := NewServer(d)
	serverTransport, clientTransport := mcpsdk.NewInMemoryTransports()

	ss, err := srv.mcpServer.Connect(ctx, serverTransport, nil)
	if err != nil {
		t.Fatalf("server connect: %v", err)
	}
	t.Cleanup(func() { ss.Close() })

	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "test", Version: "0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		t.Fatalf("client connect: %v", err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *mcpsdk.ClientSession, name string, args map[string]any, out any) *mcpsdk.CallToolResult {
	t.Helper()
	if args == nil {
		args = map[string]any{}
	}
	res, err := cs.CallTool(context.Background(), &mcpsdk.CallToolParams{Name: name, Arguments: args})
	if err != nil {
		t.Fatalf("CallTool(%s): %v", name, err)
	}
	if out != nil && !res.IsError {
		data, err := json.Marshal(res.StructuredContent)
		if err != nil {
			t.Fatalf("marshal structured content: %v", err)
		}
		if err := json.Unmarshal(data, out); err != nil {
			t.Fatalf("decode %s output: %v", name, err)
		}
	}
	return res
}

func TestListTools(t *testing.T) {
	cs := connect(t, &fakeDaemon{})
	res, err := cs.ListTools(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListTools: %v", err)
	}
	want := map[string]bool{"get_focused": false, "list_windows": false, "focus_window": false, "reset_window_effects": false}
	for _, tool := range res.Tools {
		if _, ok := want[tool.Name]; ok {
			want[tool.Name] = true
		}
	}
	for name, seen := range want {
		if !seen {
			t.Fatalf("tool %q not registered", name)
		}
	}
}

func TestListWindowsTool(t *testing.T) {
	d := &fakeDaemon{windows: []model.ContainerDTO{windowDTO(1, "a"), windowDTO(2, "b")}}
	cs := connect(t, d)

	var out ListWindowsOutput
	if res := call(t, cs, "list_windows", nil, &out); res.IsError {
		t.Fatalf("list_windows returned error result")
	}
	if len(out.Windows) != 2 {
		t.Fatalf("windows = %d, want 2", len(out.Windows))
	}
	w := out.Windows[1]
	if w.Handle != 2 || w.Title != "b" || w.State != "tiling" || w.DisplayState != "shown" {
		t.Fatalf("unexpected window %+v", w)
	}
	if w.X != 10 || w.Y != 20 || w.Width != 300 || w.Height != 200 {
		t.Fatalf("unexpected rect %+v", w)
	}
}

func TestFocusWindowTool(t *testing.T) {
	d := &fakeDaemon{windows: []model.ContainerDTO{windowDTO(1, "a"), windowDTO(2, "b")}, focused: 1}
	cs := connect(t, d)

	var out FocusWindowOutput
	if res := call(t, cs, "focus_window", map[string]any{"handle": 2}, &out); res.IsError {
		t.Fatalf("focus_window returned error result")
	}
	if d.focused != 2 {
		t.Fatalf("daemon focused = %d, want 2", d.focused)
	}
	if out.Focused.Type != "window" || out.Focused.Window == nil || out.Focused.Window.Handle != 2 {
		t.Fatalf("unexpected focused output %+v", out.Focused)
	}

	if res := call(t, cs, "focus_window", map[string]any{"handle": 99}, nil); !res.IsError {
		t.Fatalf("focusing unknown handle should be an error result")
	}
}

func TestGetFocusedWorkspace(t *testing.T) {
	cs := connect(t, &fakeDaemon{})

	var out FocusedOutput
	call(t, cs, "get_focused", nil, &out)
	if out.Type != "workspace" || out.Name != "1" || out.Window != nil {
		t.Fatalf("unexpected focused output %+v", out)
	}
}

func TestDaemonErrorsBecomeToolErrors(t *testing.T) {
	d := &fakeDaemon{err: errors.New("failed to connect to daemon")}
	cs := connect(t, d)

	for _, name := range []string{"get_focused", "list_windows", "reset_window_effects"} {
		if res := call(t, cs, name, nil, nil); !res.IsError {
			t.Fatalf("%s: expected error result", name)
		}
	}
}

func TestResetEffectsTool(t *testing.T) {
	d := &fakeDaemon{}
	cs := connect(t, d)

	var out ResetEffectsOutput
	call(t, cs, "reset_window_effects", nil, &out)
	if !out.Reset || d.resets != 1 {
		t.Fatalf("reset = %v, calls = %d", out.Reset, d.resets)
	}
}
