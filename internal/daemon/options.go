package daemon

import (
	"log/slog"

	"github.com/1broseidon/deskshell/internal/bus"
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/registry"
)

// DesktopOptions builds desktop options from an effective config. The
// viewport is passed separately because "auto" is resolved by the caller.
func DesktopOptions(cfg *config.Config, viewport geometry.Rect, logger *slog.Logger) desktop.Options {
	wd := cfg.WindowDefaults
	return desktop.Options{
		Viewport:   viewport,
		Duplicates: registry.DuplicatePolicy(cfg.Registry.Duplicates),
		MatchBy:    bus.MatchMode(cfg.Activation.MatchBy),
		DefaultSize: geometry.Size{
			Width:  wd.Width,
			Height: wd.Height,
		},
		DefaultBounds: geometry.Bounds{
			MinWidth:  wd.MinWidth,
			MinHeight: wd.MinHeight,
			MaxWidth:  wd.MaxWidth,
			MaxHeight: wd.MaxHeight,
		},
		TitleBarHeight: wd.TitleBarHeight,
		Border:         wd.Border,
		ArrangeGap:     cfg.Arrange.Gap,
		Applets:        Applets(cfg),
		Logger:         logger,
	}
}

// Applets converts the visible configured applets into the start menu
// catalog, in menu order. Unset sizes and bounds fall back to the window
// defaults.
func Applets(cfg *config.Config) []desktop.Applet {
	kinds := cfg.AppletKinds()
	out := make([]desktop.Applet, 0, len(kinds))
	wd := cfg.WindowDefaults
	for _, kind := range kinds {
		a := cfg.Applets[kind]
		out = append(out, desktop.Applet{
			Kind:  kind,
			Title: a.Title,
			Icon:  a.Icon,
			Type:  a.Type,
			Size: geometry.Size{
				Width:  orDefault(a.Width, wd.Width),
				Height: orDefault(a.Height, wd.Height),
			},
			Bounds: geometry.Bounds{
				MinWidth:  orDefault(a.MinWidth, wd.MinWidth),
				MinHeight: orDefault(a.MinHeight, wd.MinHeight),
				MaxWidth:  orDefault(a.MaxWidth, wd.MaxWidth),
				MaxHeight: orDefault(a.MaxHeight, wd.MaxHeight),
			},
		})
	}
	return out
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Viewport returns the fixed viewport configured in cfg.
func Viewport(cfg *config.Config) geometry.Rect {
	return geometry.Rect{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
}
