//go:build !linux

package platform

import (
	"errors"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/geometry"
)

type unsupportedScreen struct{}

// NewScreen returns the host screen for cfg. Only X11 is measured; other
// platforms always fall back to the configured size.
func NewScreen(cfg *config.Config) Screen { return unsupportedScreen{} }

func (unsupportedScreen) Viewport() (geometry.Rect, error) {
	return geometry.Rect{}, errors.New("viewport detection is only supported on X11")
}
