package x11

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// DetectViewport measures the usable work area of the current monitor. The
// result is origin-based: the desktop has its own coordinate space.
func DetectViewport(display, xauthority string) (geometry.Rect, error) {
	display, xauthority = ResolveDisplay(display, xauthority)
	if display == "" {
		return geometry.Rect{}, fmt.Errorf("no X display found; set display in config or export DISPLAY")
	}

	conn, err := NewConnection(display, xauthority)
	if err != nil {
		return geometry.Rect{}, err
	}
	defer conn.Close()

	area, err := conn.WorkArea()
	if err != nil {
		return geometry.Rect{}, err
	}
	return geometry.Rect{Width: area.Width, Height: area.Height}, nil
}
