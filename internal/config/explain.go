package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	log_level
//	display
//	xauthority
//	viewport
//	viewport.width
//	window_defaults.min_width
//	activation.match_by
//	registry.duplicates
//	arrange.gap
//	reconcile_interval_seconds
//	palette_backend
//	menu_hotkey
//	arrange_hotkey
//	session_dir
//	applets
//	applets.<kind>
//	applets.<kind>.title
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	// Otherwise infer from category.
	if kind := appletKindFromPath(path); kind != "" {
		if base := res.AppletBases[kind]; base != "" {
			return value, Source{Kind: SourceBuiltin, Name: base}, nil
		}
	}

	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func appletKindFromPath(path string) string {
	parts := strings.Split(path, ".")
	if len(parts) < 2 || parts[0] != "applets" {
		return ""
	}
	return parts[1]
}

func lookupValue(cfg *Config, path string) (any, error) {
	parts := strings.Split(path, ".")
	leaf := func(v any) (any, error) {
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return v, nil
	}

	switch parts[0] {
	case "log_level":
		return leaf(cfg.LogLevel)
	case "menu_hotkey":
		return leaf(cfg.MenuHotkey)
	case "arrange_hotkey":
		return leaf(cfg.ArrangeHotkey)
	case "palette_backend":
		return leaf(cfg.PaletteBackend)
	case "display":
		return leaf(cfg.Display)
	case "xauthority":
		return leaf(cfg.XAuthority)
	case "reconcile_interval_seconds":
		return leaf(cfg.ReconcileIntervalSeconds)
	case "session_dir":
		if len(parts) != 1 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		return cfg.GetSessionDir()
	case "viewport":
		if len(parts) == 1 {
			return cfg.Viewport, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[1] {
		case "auto":
			return cfg.Viewport.Auto, nil
		case "width":
			return cfg.Viewport.Width, nil
		case "height":
			return cfg.Viewport.Height, nil
		}
	case "window_defaults":
		if len(parts) == 1 {
			return cfg.WindowDefaults, nil
		}
		if len(parts) != 2 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		wd := cfg.WindowDefaults
		switch parts[1] {
		case "width":
			return wd.Width, nil
		case "height":
			return wd.Height, nil
		case "min_width":
			return wd.MinWidth, nil
		case "min_height":
			return wd.MinHeight, nil
		case "max_width":
			return wd.MaxWidth, nil
		case "max_height":
			return wd.MaxHeight, nil
		case "title_bar_height":
			return wd.TitleBarHeight, nil
		case "border":
			return wd.Border, nil
		}
	case "activation":
		if len(parts) == 1 {
			return cfg.Activation, nil
		}
		if len(parts) == 2 && parts[1] == "match_by" {
			return cfg.Activation.MatchBy, nil
		}
	case "registry":
		if len(parts) == 1 {
			return cfg.Registry, nil
		}
		if len(parts) == 2 && parts[1] == "duplicates" {
			return cfg.Registry.Duplicates, nil
		}
	case "arrange":
		if len(parts) == 1 {
			return cfg.Arrange, nil
		}
		if len(parts) == 2 {
			switch parts[1] {
			case "gap":
				return cfg.Arrange.Gap, nil
			case "default_mode":
				return cfg.Arrange.DefaultMode, nil
			}
		}
	case "applets":
		if len(parts) == 1 {
			return cfg.Applets, nil
		}
		kind := parts[1]
		applet, ok := cfg.Applets[kind]
		if !ok {
			return nil, fmt.Errorf("unknown applet %q", kind)
		}
		if len(parts) == 2 {
			return applet, nil
		}
		if len(parts) != 3 {
			return nil, fmt.Errorf("unknown path: %s", path)
		}
		switch parts[2] {
		case "title":
			return applet.Title, nil
		case "icon":
			return applet.Icon, nil
		case "type":
			return applet.Type, nil
		case "order":
			return applet.Order, nil
		case "width":
			return applet.Width, nil
		case "height":
			return applet.Height, nil
		case "min_width":
			return applet.MinWidth, nil
		case "min_height":
			return applet.MinHeight, nil
		case "max_width":
			return applet.MaxWidth, nil
		case "max_height":
			return applet.MaxHeight, nil
		case "hidden":
			return applet.Hidden, nil
		}
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
