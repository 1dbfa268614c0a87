package tui

import (
	"github.com/1broseidon/deskshell/internal/desktop"
	"github.com/1broseidon/deskshell/internal/geometry"
)

// screen maps between terminal cells and viewport coordinates. The desktop
// occupies cols x rows cells; the taskbar row is below it.
type screen struct {
	viewport geometry.Rect
	cols     int
	rows     int
}

func (s screen) valid() bool {
	return s.cols > 0 && s.rows > 0 && s.viewport.Width > 0 && s.viewport.Height > 0
}

func (s screen) col(x int) int { return (x - s.viewport.X) * s.cols / s.viewport.Width }
func (s screen) row(y int) int { return (y - s.viewport.Y) * s.rows / s.viewport.Height }

// point returns the viewport coordinate of the top-left of cell (c, r).
func (s screen) point(c, r int) geometry.Point {
	return geometry.Point{
		X: s.viewport.X + c*s.viewport.Width/s.cols,
		Y: s.viewport.Y + r*s.viewport.Height/s.rows,
	}
}

// delta converts a cell offset into a viewport offset.
func (s screen) delta(dc, dr int) geometry.Point {
	return geometry.Point{
		X: dc * s.viewport.Width / s.cols,
		Y: dr * s.viewport.Height / s.rows,
	}
}

// cellRect is an inclusive rectangle of cells.
type cellRect struct {
	c0, r0, c1, r1 int
}

func (cr cellRect) contains(c, r int) bool {
	return c >= cr.c0 && c <= cr.c1 && r >= cr.r0 && r <= cr.r1
}

// cells returns the cells covered by r, at least two cells each way so a
// frame can be drawn.
func (s screen) cells(r geometry.Rect) cellRect {
	cr := cellRect{
		c0: s.col(r.X),
		r0: s.row(r.Y),
		c1: s.col(r.Right() - 1),
		r1: s.row(r.Bottom() - 1),
	}
	if cr.c1 <= cr.c0 {
		cr.c1 = cr.c0 + 1
	}
	if cr.r1 <= cr.r0 {
		cr.r1 = cr.r0 + 1
	}
	return cr
}

type region int

const (
	regionNone region = iota
	regionTitle
	regionBody
	regionEdge
	regionMinimize
	regionMaximize
	regionClose
)

// minButtonsWidth is the narrowest frame that still shows title buttons.
const minButtonsWidth = 8

// regionAt classifies cell (c, r) of a window frame.
func (cr cellRect) regionAt(c, r int) (region, geometry.Edge) {
	if !cr.contains(c, r) {
		return regionNone, geometry.EdgeNone
	}
	switch {
	case r == cr.r0 && c == cr.c0:
		return regionEdge, geometry.EdgeNorthWest
	case r == cr.r0 && c == cr.c1:
		return regionEdge, geometry.EdgeNorthEast
	case r == cr.r1 && c == cr.c0:
		return regionEdge, geometry.EdgeSouthWest
	case r == cr.r1 && c == cr.c1:
		return regionEdge, geometry.EdgeSouthEast
	case r == cr.r0:
		if cr.c1-cr.c0+1 >= minButtonsWidth {
			switch c {
			case cr.c1 - 1:
				return regionClose, geometry.EdgeNone
			case cr.c1 - 2:
				return regionMaximize, geometry.EdgeNone
			case cr.c1 - 3:
				return regionMinimize, geometry.EdgeNone
			}
		}
		return regionTitle, geometry.EdgeNone
	case r == cr.r1:
		return regionEdge, geometry.EdgeSouth
	case c == cr.c0:
		return regionEdge, geometry.EdgeWest
	case c == cr.c1:
		return regionEdge, geometry.EdgeEast
	}
	return regionBody, geometry.EdgeNone
}

// hitWindow returns the topmost visible window covering cell (c, r).
func (s screen) hitWindow(snap desktop.Snapshot, c, r int) (desktop.WindowInfo, cellRect, bool) {
	for i := len(snap.Windows) - 1; i >= 0; i-- {
		w := snap.Windows[i]
		if w.Minimized {
			continue
		}
		cr := s.cells(w.Rect)
		if cr.contains(c, r) {
			return w, cr, true
		}
	}
	return desktop.WindowInfo{}, cellRect{}, false
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// anchor returns a viewport point the desktop will classify the same way
// the cell region was classified. Cells are much coarser than the border and
// title bar, so the pointer position alone would often miss them.
func anchor(snap desktop.Snapshot, r geometry.Rect, reg region, edge geometry.Edge, near geometry.Point) geometry.Point {
	b := snap.Border
	innerX := clampInt(near.X, r.X+b, r.Right()-b-1)
	innerY := clampInt(near.Y, r.Y+b, r.Bottom()-b-1)

	switch reg {
	case regionTitle:
		return geometry.Point{X: innerX, Y: r.Y + b + snap.TitleBarHeight/2}
	case regionEdge:
		p := geometry.Point{X: innerX, Y: innerY}
		if edge.West() {
			p.X = r.X
		}
		if edge.East() {
			p.X = r.Right() - 1
		}
		if edge.North() {
			p.Y = r.Y
		}
		if edge.South() {
			p.Y = r.Bottom() - 1
		}
		return p
	}
	return geometry.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}
