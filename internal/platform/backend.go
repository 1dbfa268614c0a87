// Package platform resolves the desktop viewport from the host display.
package platform

import (
	"log/slog"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/geometry"
)

// Screen reports the area the desktop should occupy.
type Screen interface {
	Viewport() (geometry.Rect, error)
}

// Static is a Screen with a fixed viewport.
type Static geometry.Rect

// Viewport returns the fixed rectangle.
func (s Static) Viewport() (geometry.Rect, error) { return geometry.Rect(s), nil }

// ResolveViewport returns the viewport for cfg. With viewport.auto the screen
// is measured and the configured size is used when that fails.
func ResolveViewport(cfg *config.Config, screen Screen, logger *slog.Logger) geometry.Rect {
	fallback := geometry.Rect{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height}
	if !cfg.Viewport.Auto || screen == nil {
		return fallback
	}

	r, err := screen.Viewport()
	if err != nil || r.Empty() {
		if logger != nil {
			logger.Warn("viewport detection failed, using configured size",
				"error", err,
				"width", fallback.Width,
				"height", fallback.Height)
		}
		return fallback
	}
	if logger != nil {
		logger.Info("viewport detected", "width", r.Width, "height", r.Height)
	}
	return geometry.Rect{Width: r.Width, Height: r.Height}
}
