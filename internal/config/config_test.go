package config

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if !cfg.BorderFor(true).Enabled || !cfg.BorderFor(false).Enabled {
		t.Fatalf("expected borders enabled by default")
	}
	if cfg.BorderFor(true).Color == cfg.BorderFor(false).Color {
		t.Fatalf("expected distinct focused/unfocused colors")
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GapSize != DefaultConfig().GapSize {
		t.Fatalf("expected default gap, got %d", cfg.GapSize)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty\n")
	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Workspaces) != 4 {
		t.Fatalf("expected default workspaces, got %v", cfg.Workspaces)
	}
}

func TestLoadFromPath_OverridesEffects(t *testing.T) {
	path := writeConfig(t, strings.Join([]string{
		"border_delta: {left: 2, right: 2, top: 0, bottom: 2}",
		"workspaces: [web, code]",
		"window_effects:",
		"  focused_window:",
		"    border: {enabled: true, color: \"#ff0000\"}",
		"  other_windows:",
		"    border: {enabled: false}",
		"",
	}, "\n"))

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BorderFor(true).Color != "#ff0000" {
		t.Fatalf("expected focused color override, got %q", cfg.BorderFor(true).Color)
	}
	if cfg.BorderFor(false).Enabled {
		t.Fatalf("expected other_windows border disabled")
	}
	if cfg.BorderDelta.Left != 2 || cfg.BorderDelta.Bottom != 2 {
		t.Fatalf("unexpected border delta %+v", cfg.BorderDelta)
	}
	if len(cfg.Workspaces) != 2 || cfg.Workspaces[0] != "web" {
		t.Fatalf("unexpected workspaces %v", cfg.Workspaces)
	}
}

func TestLoadFromPath_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad color", "window_effects: {focused_window: {border: {enabled: true, color: blue}}}\n", "color"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"negative gap", "gap_size: -1\n", "gap_size"},
		{"resize step too large", "resize_percentage: 1.5\n", "resize_percentage"},
		{"zero resize step", "resize_percentage: 0\n", "resize_percentage"},
		{"duplicate workspace", "workspaces: [a, a]\n", "duplicate"},
		{"no workspaces", "workspaces: []\n", "at least one"},
		{"unknown key", "gaps: 3\n", "gaps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromPath(writeConfig(t, tt.data))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestDisabledBorderSkipsColorValidation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowEffects.OtherWindows.Border = BorderConfig{Enabled: false, Color: "nope"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled border should not validate color: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.GapSize = 3
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.GapSize != 3 {
		t.Fatalf("expected gap 3, got %d", loaded.GapSize)
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "gap_size: 1\n")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, logger, func(cfg *Config) { changes <- cfg })
	}()

	// Give the watcher time to register before writing.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case cfg := <-changes:
			// A truncate can surface as its own write event.
			if cfg.GapSize != 12 {
				continue
			}
			cancel()
			if err := <-done; err != nil {
				t.Fatalf("watch: %v", err)
			}
			return
		case <-tick.C:
			if err := os.WriteFile(path, []byte("gap_size: 12\n"), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}
		case <-deadline:
			t.Fatalf("timed out waiting for reload")
		}
	}
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}
