package window

import "github.com/1broseidon/deskshell/internal/geometry"

// BeginDrag starts moving the window with the pointer at p. The window is
// raised and text selection is disabled until the drag ends. The drag does
// not begin, and false is returned, when p lies outside the viewport, another
// gesture is active, or the window is closed, minimized or maximized.
func (w *Window) BeginDrag(p geometry.Point) bool {
	if !w.canBeginGesture(p) {
		return false
	}
	w.dragOffset = geometry.Point{X: p.X - w.rect.X, Y: p.Y - w.rect.Y}
	w.RaiseToFront()
	w.mode = ModeDragging
	w.selection.DisableSelection()
	return true
}

// EndDrag finishes a drag. It is a no-op when no drag is active.
func (w *Window) EndDrag() {
	if w.mode != ModeDragging {
		return
	}
	w.endGesture()
}

// BeginResize starts resizing from edge with the pointer at p. Text selection
// is disabled until the resize ends. Invalid edges and the conditions listed
// on BeginDrag keep the resize from starting.
func (w *Window) BeginResize(edge geometry.Edge, p geometry.Point) bool {
	if !edge.Valid() || !w.canBeginGesture(p) {
		return false
	}
	w.resizeEdge = edge
	w.resizeFrom = p
	w.resizeStart = w.rect
	w.mode = ModeResizing
	w.selection.DisableSelection()
	return true
}

// EndResize finishes a resize. It is a no-op when no resize is active.
func (w *Window) EndResize() {
	if w.mode != ModeResizing {
		return
	}
	w.endGesture()
}

// PointerMove updates the active gesture and reports whether the geometry changed.
func (w *Window) PointerMove(p geometry.Point) bool {
	before := w.rect
	switch w.mode {
	case ModeDragging:
		pos := geometry.ClampDrag(p, w.dragOffset, w.rect.Size(), w.viewport)
		w.rect.X, w.rect.Y = pos.X, pos.Y
	case ModeResizing:
		w.rect = geometry.ApplyResize(w.resizeStart, w.resizeEdge, w.resizeFrom, p, w.bounds, w.viewport)
	default:
		return false
	}
	return w.rect != before
}

// PointerUp ends whichever gesture is active.
func (w *Window) PointerUp() {
	w.cancelGesture()
}

// PointerLeave ends the active gesture when the pointer leaves the window
// host, so selection is never left disabled.
func (w *Window) PointerLeave() {
	w.cancelGesture()
}

func (w *Window) canBeginGesture(p geometry.Point) bool {
	if w.closed || w.minimized || w.maximized || w.mode != ModeIdle {
		return false
	}
	return w.viewport.Contains(p)
}

func (w *Window) cancelGesture() {
	if w.mode == ModeIdle {
		return
	}
	w.endGesture()
}

func (w *Window) endGesture() {
	w.mode = ModeIdle
	w.resizeEdge = geometry.EdgeNone
	w.selection.EnableSelection()
}
