//go:build linux

package platform

import (
	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/x11"
)

// X11Screen measures the work area of the current X11 monitor.
type X11Screen struct {
	Display    string
	XAuthority string
}

var _ Screen = X11Screen{}

// NewScreen returns the host screen for cfg.
func NewScreen(cfg *config.Config) Screen {
	return X11Screen{Display: cfg.Display, XAuthority: cfg.XAuthority}
}

// Viewport connects to the X server and returns the usable monitor area.
func (s X11Screen) Viewport() (geometry.Rect, error) {
	return x11.DetectViewport(s.Display, s.XAuthority)
}
