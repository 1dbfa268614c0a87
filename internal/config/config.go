package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Viewport is the desktop area windows are clamped to. When Auto is set the
// daemon asks the X server for the primary monitor size and falls back to
// Width x Height when no display is reachable.
type Viewport struct {
	Auto   bool `yaml:"auto,omitempty"`
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
}

// WindowDefaults applies to windows opened without explicit size or bounds.
type WindowDefaults struct {
	Width          int `yaml:"width"`
	Height         int `yaml:"height"`
	MinWidth       int `yaml:"min_width"`
	MinHeight      int `yaml:"min_height"`
	MaxWidth       int `yaml:"max_width"`  // 0 = viewport width
	MaxHeight      int `yaml:"max_height"` // 0 = viewport height
	TitleBarHeight int `yaml:"title_bar_height"`
	Border         int `yaml:"border"`
}

// Activation controls how windows recognise activation messages.
type Activation struct {
	// MatchBy is one of name, type or either. Under either, a taskbar click
	// also restores every other window of the clicked window's type, and the
	// last of them to answer ends up on top. Use name to touch only the
	// clicked window.
	MatchBy string `yaml:"match_by"`
}

// RegistrySettings controls the process registry.
type RegistrySettings struct {
	// Duplicates is upsert (one record per name) or append.
	Duplicates string `yaml:"duplicates"`
}

// ArrangeSettings configures the arrange command.
type ArrangeSettings struct {
	Gap         int    `yaml:"gap"`
	DefaultMode string `yaml:"default_mode"`
}

// Applet is a start menu entry.
type Applet struct {
	Title     string `yaml:"title"`
	Icon      string `yaml:"icon,omitempty"`
	Type      string `yaml:"type,omitempty"`
	Order     int    `yaml:"order,omitempty"`
	Width     int    `yaml:"width,omitempty"`
	Height    int    `yaml:"height,omitempty"`
	MinWidth  int    `yaml:"min_width,omitempty"`
	MinHeight int    `yaml:"min_height,omitempty"`
	MaxWidth  int    `yaml:"max_width,omitempty"`
	MaxHeight int    `yaml:"max_height,omitempty"`
	Hidden    bool   `yaml:"hidden,omitempty"`
}

// Config holds the application configuration.
type Config struct {
	LogLevel                 string            `yaml:"log_level"`
	Display                  string            `yaml:"display,omitempty"`
	XAuthority               string            `yaml:"xauthority,omitempty"`
	Viewport                 Viewport          `yaml:"viewport"`
	WindowDefaults           WindowDefaults    `yaml:"window_defaults"`
	Activation               Activation        `yaml:"activation"`
	Registry                 RegistrySettings  `yaml:"registry"`
	Arrange                  ArrangeSettings   `yaml:"arrange"`
	ReconcileIntervalSeconds int               `yaml:"reconcile_interval_seconds"`
	SessionDir               string            `yaml:"session_dir,omitempty"`
	PaletteBackend           string            `yaml:"palette_backend"`
	MenuHotkey               string            `yaml:"menu_hotkey,omitempty"`
	ArrangeHotkey            string            `yaml:"arrange_hotkey,omitempty"`
	Applets                  map[string]Applet `yaml:"applets"`
}

const (
	DefaultViewportWidth     = 1280
	DefaultViewportHeight    = 800
	DefaultReconcileInterval = 5
)

func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Viewport: Viewport{
			Width:  DefaultViewportWidth,
			Height: DefaultViewportHeight,
		},
		WindowDefaults: WindowDefaults{
			Width:          480,
			Height:         360,
			MinWidth:       200,
			MinHeight:      120,
			TitleBarHeight: 24,
			Border:         4,
		},
		Activation:               Activation{MatchBy: "either"},
		Registry:                 RegistrySettings{Duplicates: "upsert"},
		Arrange:                  ArrangeSettings{Gap: 8, DefaultMode: "cascade"},
		ReconcileIntervalSeconds: DefaultReconcileInterval,
		PaletteBackend:           "auto",
		Applets:                  BuiltinApplets(),
	}
}

// ReconcileInterval returns the reconcile period in seconds, never below one.
func (c *Config) ReconcileInterval() int {
	if c == nil || c.ReconcileIntervalSeconds <= 0 {
		return DefaultReconcileInterval
	}
	return c.ReconcileIntervalSeconds
}

// GetSessionDir returns the directory saved sessions are stored in.
func (c *Config) GetSessionDir() (string, error) {
	if c != nil && c.SessionDir != "" {
		return expandHome(c.SessionDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "deskshell", "sessions"), nil
}

// AppletKinds returns visible applet kinds in start menu order.
func (c *Config) AppletKinds() []string {
	kinds := make([]string, 0, len(c.Applets))
	for kind, applet := range c.Applets {
		if applet.Hidden {
			continue
		}
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		a, b := c.Applets[kinds[i]], c.Applets[kinds[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include/inherits structure from the original YAML.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	save := *c
	save.Applets = appletsForSave(c.Applets)

	data, err := yaml.Marshal(&save)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func appletsForSave(applets map[string]Applet) map[string]Applet {
	builtin := BuiltinApplets()
	out := make(map[string]Applet)
	for kind, applet := range applets {
		if base, ok := builtin[kind]; ok && base == applet {
			continue
		}
		out[kind] = applet
	}
	return out
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	switch c.PaletteBackend {
	case "", "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport width and height must be > 0")}
	}

	wd := c.WindowDefaults
	if wd.MinWidth < 1 || wd.MinHeight < 1 {
		return &ValidationError{Path: "window_defaults", Err: fmt.Errorf("min_width and min_height must be >= 1")}
	}
	if wd.MaxWidth < 0 || wd.MaxHeight < 0 {
		return &ValidationError{Path: "window_defaults", Err: fmt.Errorf("max_width and max_height must be >= 0 (0 = viewport)")}
	}
	if wd.MaxWidth > 0 && wd.MaxWidth < wd.MinWidth {
		return &ValidationError{Path: "window_defaults.max_width", Err: fmt.Errorf("max_width must be >= min_width")}
	}
	if wd.MaxHeight > 0 && wd.MaxHeight < wd.MinHeight {
		return &ValidationError{Path: "window_defaults.max_height", Err: fmt.Errorf("max_height must be >= min_height")}
	}
	if wd.Width <= 0 || wd.Height <= 0 {
		return &ValidationError{Path: "window_defaults", Err: fmt.Errorf("width and height must be > 0")}
	}
	if wd.TitleBarHeight < 0 || wd.Border < 0 {
		return &ValidationError{Path: "window_defaults", Err: fmt.Errorf("title_bar_height and border must be >= 0")}
	}

	switch c.Activation.MatchBy {
	case "name", "type", "either":
	default:
		return &ValidationError{Path: "activation.match_by", Err: fmt.Errorf("match_by must be one of: name, type, either")}
	}
	switch c.Registry.Duplicates {
	case "upsert", "append":
	default:
		return &ValidationError{Path: "registry.duplicates", Err: fmt.Errorf("duplicates must be one of: upsert, append")}
	}
	if c.Arrange.Gap < 0 {
		return &ValidationError{Path: "arrange.gap", Err: fmt.Errorf("gap must be >= 0")}
	}
	switch c.Arrange.DefaultMode {
	case "cascade", "grid", "vertical", "horizontal":
	default:
		return &ValidationError{Path: "arrange.default_mode", Err: fmt.Errorf("default_mode must be one of: cascade, grid, vertical, horizontal")}
	}
	if c.ReconcileIntervalSeconds < 0 {
		return &ValidationError{Path: "reconcile_interval_seconds", Err: fmt.Errorf("reconcile_interval_seconds must be >= 0")}
	}

	titles := make(map[string]string, len(c.Applets))
	for _, kind := range sortedKeys(c.Applets) {
		if err := validateApplet(c.Applets[kind]); err != nil {
			return &ValidationError{Path: "applets." + kind, Err: err}
		}
		title := c.Applets[kind].Title
		if other, ok := titles[title]; ok {
			return &ValidationError{Path: "applets." + kind + ".title", Err: fmt.Errorf("title %q already used by applet %q", title, other)}
		}
		titles[title] = kind
	}
	return nil
}

func validateApplet(a Applet) error {
	if strings.TrimSpace(a.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if a.Width < 0 || a.Height < 0 || a.MinWidth < 0 || a.MinHeight < 0 || a.MaxWidth < 0 || a.MaxHeight < 0 {
		return fmt.Errorf("sizes must be >= 0")
	}
	if a.MaxWidth > 0 && a.MaxWidth < a.MinWidth {
		return fmt.Errorf("max_width must be >= min_width")
	}
	if a.MaxHeight > 0 && a.MaxHeight < a.MinHeight {
		return fmt.Errorf("max_height must be >= min_height")
	}
	return nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
