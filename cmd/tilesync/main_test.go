package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/1broseidon/tilesync/internal/daemon"
	"github.com/1broseidon/tilesync/internal/ipc"
	"github.com/1broseidon/tilesync/internal/model"
	"github.com/1broseidon/tilesync/internal/platform"
)

func TestParseHandle(t *testing.T) {
	tests := []struct {
		arg     string
		want    uint32
		wantErr bool
	}{
		{"42", 42, false},
		{"0x3a00007", 0x3a00007, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"window", 0, true},
		{"0x1ffffffff", 0, true},
	}
	for _, tt := range tests {
		got, err := parseHandle(tt.arg)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseHandle(%q) err = %v, wantErr %v", tt.arg, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("parseHandle(%q) = %d, want %d", tt.arg, got, tt.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		arg  string
		want ipc.Direction
		ok   bool
	}{
		{"next", ipc.DirectionNext, true},
		{"PREV", ipc.DirectionPrev, true},
		{"2", "", false},
	}
	for _, tt := range tests {
		got, ok := parseDirection(tt.arg)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("parseDirection(%q) = %q, %v", tt.arg, got, ok)
		}
	}
}

func TestParseResize(t *testing.T) {
	tests := []struct {
		arg  string
		want daemon.ResizeDirection
		ok   bool
	}{
		{"grow-width", daemon.GrowWidth, true},
		{"SHRINK_HEIGHT", daemon.ShrinkHeight, true},
		{"wider", "", false},
	}
	for _, tt := range tests {
		got, ok := parseResize(tt.arg)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("parseResize(%q) = %q, %v", tt.arg, got, ok)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if _, ok := parseLevel("verbose"); ok {
		t.Fatalf("unknown level accepted")
	}
	if lvl, ok := parseLevel("DEBUG"); !ok || lvl.String() != "DEBUG" {
		t.Fatalf("parseLevel(DEBUG) = %v, %v", lvl, ok)
	}
}

func TestPrintWindows(t *testing.T) {
	shown := platform.DisplayShown
	var buf bytes.Buffer
	printWindows(&buf, []model.ContainerDTO{{
		Type:         model.KindWindow,
		Handle:       0x2a,
		State:        platform.WindowTiling,
		DisplayState: &shown,
		HasFocus:     true,
		ClassName:    "XTerm",
		Title:        "shell",
	}})
	out := buf.String()
	for _, want := range []string{"HANDLE", "0x2a", "tiling", "shown", "XTerm", "shell"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRootRegistersCommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"daemon", "state", "focused", "windows", "focus", "workspace", "split", "resize", "redraw", "reset-effects", "reload", "events", "config", "mcp"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered", name)
		}
	}
}
