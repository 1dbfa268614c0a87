package desktop

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/geometry"
)

// Arrange lays out every visible window. Maximized windows are restored
// first; minimized windows are left alone. Stacking order is preserved.
func (d *Desktop) Arrange(mode geometry.ArrangeMode) ([]WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var visible []*entry
	for _, e := range d.stackLocked() {
		if !e.win.Minimized() {
			visible = append(visible, e)
		}
	}
	if len(visible) == 0 {
		return nil, nil
	}

	sizes := make([]geometry.Size, len(visible))
	for i, e := range visible {
		sizes[i] = e.win.NormalRect().Size()
	}
	gap := d.opts.ArrangeGap
	if mode == geometry.ArrangeCascade {
		gap = cascadeStep
	}
	rects, err := geometry.Arrange(mode, sizes, d.opts.Viewport, gap)
	if err != nil {
		return nil, fmt.Errorf("arrange %s: %w", mode, err)
	}

	out := make([]WindowInfo, len(visible))
	for i, e := range visible {
		if e.win.Maximized() {
			e.win.ToggleMaximize()
		}
		e.win.SetRect(rects[i])
		e.win.RaiseToFront()
		out[i] = infoFor(e)
	}
	d.logger.Info("windows arranged", "mode", mode, "count", len(visible))
	return out, nil
}
