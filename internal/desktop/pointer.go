package desktop

import (
	"fmt"

	"github.com/1broseidon/deskshell/internal/geometry"
	"github.com/1broseidon/deskshell/internal/window"
)

// PointerDown routes a press at p to the topmost visible window under it.
// A press on the border band starts a resize, a press on the title bar starts
// a drag and a press anywhere else on the window raises it. It reports false
// when p hits no window.
func (d *Desktop) PointerDown(p geometry.Point) (Hit, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active != nil {
		d.active.win.PointerUp()
		d.active = nil
	}

	e := d.hitLocked(p)
	if e == nil {
		return Hit{}, false
	}
	w := e.win
	r := w.Rect()
	hit := Hit{Title: w.Title(), Action: ActionRaise}

	if !w.Maximized() {
		if edge := geometry.EdgeAt(r, p, d.opts.Border); edge != geometry.EdgeNone {
			if w.BeginResize(edge, p) {
				w.RaiseToFront()
				d.active = e
				hit.Action, hit.Edge = ActionResize, edge
				return hit, true
			}
		}
		if geometry.InTitleBar(r, p, d.opts.Border, d.opts.TitleBarHeight) && w.BeginDrag(p) {
			d.active = e
			hit.Action = ActionDrag
			return hit, true
		}
	}
	w.RaiseToFront()
	return hit, true
}

// PointerMove feeds p to the window tracking a gesture and reports whether
// its geometry changed.
func (d *Desktop) PointerMove(p geometry.Point) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return false
	}
	return d.active.win.PointerMove(p)
}

// PointerUp ends the active gesture.
func (d *Desktop) PointerUp() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return
	}
	d.active.win.PointerUp()
	d.active = nil
}

// PointerLeave ends the active gesture when the pointer leaves the desktop.
func (d *Desktop) PointerLeave() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.active == nil {
		return
	}
	d.active.win.PointerLeave()
	d.active = nil
}

func (d *Desktop) hitLocked(p geometry.Point) *entry {
	stack := d.stackLocked()
	for i := len(stack) - 1; i >= 0; i-- {
		w := stack[i].win
		if w.Minimized() {
			continue
		}
		if w.Rect().Contains(p) {
			return stack[i]
		}
	}
	return nil
}

// Move drags the window with the given title so its top-left corner
// follows the pointer from its current origin to to. The result is clamped
// to the viewport like an interactive drag.
func (d *Desktop) Move(title string, to geometry.Point) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.lookupLocked(title)
	if err != nil {
		return WindowInfo{}, err
	}
	w := e.win
	if !w.BeginDrag(w.NormalRect().Origin()) {
		return infoFor(e), fmt.Errorf("%w: cannot drag %q", ErrGestureRefused, title)
	}
	w.PointerMove(to)
	w.EndDrag()
	return infoFor(e), nil
}

// Resize drags edge of the window with the given title by (dx, dy).
func (d *Desktop) Resize(title string, edge geometry.Edge, dx, dy int) (WindowInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, err := d.lookupLocked(title)
	if err != nil {
		return WindowInfo{}, err
	}
	w := e.win
	from := w.NormalRect().Origin()
	if !w.BeginResize(edge, from) {
		return infoFor(e), fmt.Errorf("%w: cannot resize %q from edge %q", ErrGestureRefused, title, edge)
	}
	w.PointerMove(geometry.Point{X: from.X + dx, Y: from.Y + dy})
	w.EndResize()
	return infoFor(e), nil
}

// Place sets the normal rectangle of the window with the given title.
func (d *Desktop) Place(title string, r geometry.Rect) (WindowInfo, error) {
	return d.do(title, func(w *window.Window) { w.SetRect(r) })
}
