package config

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tilesync/internal/platform"
)

// BorderConfig styles the border of one window class.
type BorderConfig struct {
	Enabled bool   `yaml:"enabled"`
	Color   string `yaml:"color"`
}

// WindowEffect groups the effects applied to one window class.
type WindowEffect struct {
	Border BorderConfig `yaml:"border"`
}

// WindowEffects holds the effects for focused and unfocused windows.
type WindowEffects struct {
	FocusedWindow WindowEffect `yaml:"focused_window"`
	OtherWindows  WindowEffect `yaml:"other_windows"`
}

// Hotkeys binds xgbutil keybind sequences (e.g. "Mod4-j") to commands.
// Empty bindings are not registered.
type Hotkeys struct {
	FocusNext     string `yaml:"focus_next"`
	FocusPrev     string `yaml:"focus_prev"`
	WorkspaceNext string `yaml:"workspace_next"`
	WorkspacePrev string `yaml:"workspace_prev"`
	ResetEffects  string `yaml:"reset_effects"`

	SplitHorizontal string `yaml:"split_horizontal"`
	SplitVertical   string `yaml:"split_vertical"`
	GrowWidth       string `yaml:"grow_width"`
	ShrinkWidth     string `yaml:"shrink_width"`
	GrowHeight      string `yaml:"grow_height"`
	ShrinkHeight    string `yaml:"shrink_height"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel      string             `yaml:"log_level"`
	GapSize       int                `yaml:"gap_size"`
	ScreenPadding platform.RectDelta `yaml:"screen_padding"`
	// BorderDelta compensates for invisible native frame borders so the
	// visible edge lands on the layout rectangle.
	BorderDelta   platform.RectDelta `yaml:"border_delta"`

	// ResizePercentage is the share of a split moved by one resize step.
	ResizePercentage float64       `yaml:"resize_percentage"`
	Workspaces       []string      `yaml:"workspaces"`
	WindowEffects    WindowEffects `yaml:"window_effects"`
	Hotkeys          Hotkeys       `yaml:"hotkeys"`
}

func DefaultConfig() *Config {
	return &Config{
		LogLevel:   "info",
		GapSize:          8,
		ResizePercentage: 0.05,
		Workspaces:       []string{"1", "2", "3", "4"},
		WindowEffects: WindowEffects{
			FocusedWindow: WindowEffect{Border: BorderConfig{Enabled: true, Color: "#8dbcff"}},
			OtherWindows:  WindowEffect{Border: BorderConfig{Enabled: true, Color: "#a1a1a1"}},
		},
		Hotkeys: Hotkeys{
			FocusNext:     "Mod4-j",
			FocusPrev:     "Mod4-k",
			WorkspaceNext: "Mod4-l",
			WorkspacePrev: "Mod4-h",
			ResetEffects:  "Mod4-Shift-r",

			SplitHorizontal: "Mod4-b",
			SplitVertical:   "Mod4-v",
			GrowWidth:       "Mod4-Control-l",
			ShrinkWidth:     "Mod4-Control-h",
			GrowHeight:      "Mod4-Control-k",
			ShrinkHeight:    "Mod4-Control-j",
		},
	}
}

// Validate checks the config for values the daemon cannot use.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error (got %q)", c.LogLevel)
	}
	if c.GapSize < 0 {
		return fmt.Errorf("gap_size must be >= 0 (got %d)", c.GapSize)
	}
	if c.ResizePercentage <= 0 || c.ResizePercentage >= 1 {
		return fmt.Errorf("resize_percentage must be between 0 and 1 (got %v)", c.ResizePercentage)
	}
	if len(c.Workspaces) == 0 {
		return fmt.Errorf("workspaces must list at least one workspace")
	}
	seen := make(map[string]bool, len(c.Workspaces))
	for _, name := range c.Workspaces {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("workspace names must not be empty")
		}
		if seen[name] {
			return fmt.Errorf("duplicate workspace %q", name)
		}
		seen[name] = true
	}
	for key, border := range map[string]BorderConfig{
		"window_effects.focused_window.border": c.WindowEffects.FocusedWindow.Border,
		"window_effects.other_windows.border":  c.WindowEffects.OtherWindows.Border,
	} {
		if !border.Enabled {
			continue
		}
		if _, err := platform.ParseColor(border.Color); err != nil {
			return fmt.Errorf("%s.color: %w", key, err)
		}
	}
	return nil
}

// BorderFor returns the border settings for the focused or unfocused class.
func (c *Config) BorderFor(focused bool) BorderConfig {
	if focused {
		return c.WindowEffects.FocusedWindow.Border
	}
	return c.WindowEffects.OtherWindows.Border
}
