package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawViewport supports either:
//
//	viewport: auto
//
// or:
//
//	viewport:
//	  width: 1280
//	  height: 800
//	  auto: true   # optional; width/height become the fallback
type RawViewport struct {
	Auto   *bool
	Width  *int
	Height *int
}

func (v *RawViewport) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if strings.TrimSpace(value.Value) != "auto" {
			return fmt.Errorf("viewport must be \"auto\" or a mapping with width and height")
		}
		auto := true
		v.Auto = &auto
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i].Value
			val := value.Content[i+1]
			switch key {
			case "auto":
				var b bool
				if err := val.Decode(&b); err != nil {
					return fmt.Errorf("viewport.auto: %w", err)
				}
				v.Auto = &b
			case "width":
				var n int
				if err := val.Decode(&n); err != nil {
					return fmt.Errorf("viewport.width: %w", err)
				}
				v.Width = &n
			case "height":
				var n int
				if err := val.Decode(&n); err != nil {
					return fmt.Errorf("viewport.height: %w", err)
				}
				v.Height = &n
			default:
				return fmt.Errorf("line %d: field %s not found in type config.RawViewport", value.Content[i].Line, key)
			}
		}
		return nil
	default:
		return fmt.Errorf("viewport must be \"auto\" or a mapping with width and height")
	}
}

type RawWindowDefaults struct {
	Width          *int `yaml:"width"`
	Height         *int `yaml:"height"`
	MinWidth       *int `yaml:"min_width"`
	MinHeight      *int `yaml:"min_height"`
	MaxWidth       *int `yaml:"max_width"`
	MaxHeight      *int `yaml:"max_height"`
	TitleBarHeight *int `yaml:"title_bar_height"`
	Border         *int `yaml:"border"`
}

type RawActivation struct {
	MatchBy *string `yaml:"match_by"`
}

type RawRegistry struct {
	Duplicates *string `yaml:"duplicates"`
}

type RawArrange struct {
	Gap         *int    `yaml:"gap"`
	DefaultMode *string `yaml:"default_mode"`
}

type RawApplet struct {
	Inherits  *string `yaml:"inherits"`
	Title     *string `yaml:"title"`
	Icon      *string `yaml:"icon"`
	Type      *string `yaml:"type"`
	Order     *int    `yaml:"order"`
	Width     *int    `yaml:"width"`
	Height    *int    `yaml:"height"`
	MinWidth  *int    `yaml:"min_width"`
	MinHeight *int    `yaml:"min_height"`
	MaxWidth  *int    `yaml:"max_width"`
	MaxHeight *int    `yaml:"max_height"`
	Hidden    *bool   `yaml:"hidden"`
}

type RawConfig struct {
	Include                  IncludeList          `yaml:"include"`
	LogLevel                 *string              `yaml:"log_level"`
	Display                  *string              `yaml:"display"`
	XAuthority               *string              `yaml:"xauthority"`
	Viewport                 *RawViewport         `yaml:"viewport"`
	WindowDefaults           *RawWindowDefaults   `yaml:"window_defaults"`
	Activation               *RawActivation       `yaml:"activation"`
	Registry                 *RawRegistry         `yaml:"registry"`
	Arrange                  *RawArrange          `yaml:"arrange"`
	ReconcileIntervalSeconds *int                 `yaml:"reconcile_interval_seconds"`
	SessionDir               *string              `yaml:"session_dir"`
	PaletteBackend           *string              `yaml:"palette_backend"`
	MenuHotkey               *string              `yaml:"menu_hotkey"`
	ArrangeHotkey            *string              `yaml:"arrange_hotkey"`
	Applets                  map[string]RawApplet `yaml:"applets"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.MenuHotkey != nil {
		out.MenuHotkey = overlay.MenuHotkey
	}
	if overlay.ArrangeHotkey != nil {
		out.ArrangeHotkey = overlay.ArrangeHotkey
	}
	if overlay.PaletteBackend != nil {
		out.PaletteBackend = overlay.PaletteBackend
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.Viewport != nil {
		if out.Viewport == nil {
			out.Viewport = &RawViewport{}
		}
		merged := *out.Viewport
		if overlay.Viewport.Auto != nil {
			merged.Auto = overlay.Viewport.Auto
		}
		if overlay.Viewport.Width != nil {
			merged.Width = overlay.Viewport.Width
		}
		if overlay.Viewport.Height != nil {
			merged.Height = overlay.Viewport.Height
		}
		out.Viewport = &merged
	}
	if overlay.WindowDefaults != nil {
		if out.WindowDefaults == nil {
			out.WindowDefaults = &RawWindowDefaults{}
		}
		merged := mergeRawWindowDefaults(*out.WindowDefaults, *overlay.WindowDefaults)
		out.WindowDefaults = &merged
	}
	if overlay.Activation != nil && overlay.Activation.MatchBy != nil {
		out.Activation = &RawActivation{MatchBy: overlay.Activation.MatchBy}
	}
	if overlay.Registry != nil && overlay.Registry.Duplicates != nil {
		out.Registry = &RawRegistry{Duplicates: overlay.Registry.Duplicates}
	}
	if overlay.Arrange != nil {
		if out.Arrange == nil {
			out.Arrange = &RawArrange{}
		}
		merged := *out.Arrange
		if overlay.Arrange.Gap != nil {
			merged.Gap = overlay.Arrange.Gap
		}
		if overlay.Arrange.DefaultMode != nil {
			merged.DefaultMode = overlay.Arrange.DefaultMode
		}
		out.Arrange = &merged
	}
	if overlay.ReconcileIntervalSeconds != nil {
		out.ReconcileIntervalSeconds = overlay.ReconcileIntervalSeconds
	}
	if overlay.SessionDir != nil {
		out.SessionDir = overlay.SessionDir
	}

	if overlay.Applets != nil {
		applets := make(map[string]RawApplet, len(out.Applets)+len(overlay.Applets))
		for kind, applet := range out.Applets {
			applets[kind] = applet
		}
		for kind, applet := range overlay.Applets {
			base, ok := applets[kind]
			if !ok {
				applets[kind] = applet
				continue
			}
			applets[kind] = mergeRawApplet(base, applet)
		}
		out.Applets = applets
	}

	return out
}

func mergeRawWindowDefaults(base RawWindowDefaults, overlay RawWindowDefaults) RawWindowDefaults {
	out := base
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.MinWidth != nil {
		out.MinWidth = overlay.MinWidth
	}
	if overlay.MinHeight != nil {
		out.MinHeight = overlay.MinHeight
	}
	if overlay.MaxWidth != nil {
		out.MaxWidth = overlay.MaxWidth
	}
	if overlay.MaxHeight != nil {
		out.MaxHeight = overlay.MaxHeight
	}
	if overlay.TitleBarHeight != nil {
		out.TitleBarHeight = overlay.TitleBarHeight
	}
	if overlay.Border != nil {
		out.Border = overlay.Border
	}
	return out
}

func mergeRawApplet(base RawApplet, overlay RawApplet) RawApplet {
	out := base
	if overlay.Inherits != nil {
		out.Inherits = overlay.Inherits
	}
	if overlay.Title != nil {
		out.Title = overlay.Title
	}
	if overlay.Icon != nil {
		out.Icon = overlay.Icon
	}
	if overlay.Type != nil {
		out.Type = overlay.Type
	}
	if overlay.Order != nil {
		out.Order = overlay.Order
	}
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	if overlay.MinWidth != nil {
		out.MinWidth = overlay.MinWidth
	}
	if overlay.MinHeight != nil {
		out.MinHeight = overlay.MinHeight
	}
	if overlay.MaxWidth != nil {
		out.MaxWidth = overlay.MaxWidth
	}
	if overlay.MaxHeight != nil {
		out.MaxHeight = overlay.MaxHeight
	}
	if overlay.Hidden != nil {
		out.Hidden = overlay.Hidden
	}
	return out
}
