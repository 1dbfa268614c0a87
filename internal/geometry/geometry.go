package geometry

import "fmt"

// Point is a pointer position in viewport coordinates.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size is a window width and height.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect represents a window position and size. X is the left edge and Y the top edge.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// Size returns the width and height of r.
func (r Rect) Size() Size { return Size{Width: r.Width, Height: r.Height} }

// Origin returns the top-left corner of r.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Within reports whether r lies entirely inside outer.
func (r Rect) Within(outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y && r.Right() <= outer.Right() && r.Bottom() <= outer.Bottom()
}

// Intersect returns the overlap of r and o, or the zero Rect when they do
// not overlap.
func (r Rect) Intersect(o Rect) Rect {
	x1, y1 := max(r.X, o.X), max(r.Y, o.Y)
	x2, y2 := min(r.Right(), o.Right()), min(r.Bottom(), o.Bottom())
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Empty reports whether r has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Bounds limits the size of a window. A zero maximum means "as large as the viewport".
type Bounds struct {
	MinWidth  int `json:"min_width"`
	MinHeight int `json:"min_height"`
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

// Normalize fills unlimited maxima from the viewport and repairs inverted ranges.
func (b Bounds) Normalize(viewport Rect) Bounds {
	if b.MinWidth < 1 {
		b.MinWidth = 1
	}
	if b.MinHeight < 1 {
		b.MinHeight = 1
	}
	if b.MaxWidth <= 0 {
		b.MaxWidth = viewport.Width
	}
	if b.MaxHeight <= 0 {
		b.MaxHeight = viewport.Height
	}
	if b.MaxWidth < b.MinWidth {
		b.MaxWidth = b.MinWidth
	}
	if b.MaxHeight < b.MinHeight {
		b.MaxHeight = b.MinHeight
	}
	return b
}

// ClampSize clamps s into the bounds.
func (b Bounds) ClampSize(s Size) Size {
	return Size{
		Width:  clamp(s.Width, b.MinWidth, b.MaxWidth),
		Height: clamp(s.Height, b.MinHeight, b.MaxHeight),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInto moves r so it lies inside viewport, shrinking it when it is larger
// than the viewport.
func ClampInto(r Rect, viewport Rect) Rect {
	if r.Width > viewport.Width {
		r.Width = viewport.Width
	}
	if r.Height > viewport.Height {
		r.Height = viewport.Height
	}
	r.X = clamp(r.X, viewport.X, viewport.Right()-r.Width)
	r.Y = clamp(r.Y, viewport.Y, viewport.Bottom()-r.Height)
	return r
}

// ClampDrag returns the new top-left corner for a window of the given size
// being dragged so that its top-left follows pointer minus offset. The result
// keeps the whole window inside viewport.
func ClampDrag(pointer, offset Point, size Size, viewport Rect) Point {
	maxX := viewport.Right() - size.Width
	if maxX < viewport.X {
		maxX = viewport.X
	}
	maxY := viewport.Bottom() - size.Height
	if maxY < viewport.Y {
		maxY = viewport.Y
	}
	return Point{
		X: clamp(pointer.X-offset.X, viewport.X, maxX),
		Y: clamp(pointer.Y-offset.Y, viewport.Y, maxY),
	}
}

// ApplyResize computes the rectangle produced by dragging edge from the
// pointer position at start to pointer. Width and height are clamped to
// bounds first; then the rectangle is clamped to the viewport, shrinking it
// rather than moving it off-screen. The edge opposite the one being dragged
// stays anchored.
func ApplyResize(start Rect, edge Edge, from, pointer Point, bounds Bounds, viewport Rect) Rect {
	bounds = bounds.Normalize(viewport)
	dx := pointer.X - from.X
	dy := pointer.Y - from.Y

	out := start
	if edge.East() {
		out.Width = clamp(start.Width+dx, bounds.MinWidth, bounds.MaxWidth)
	}
	if edge.West() {
		out.Width = clamp(start.Width-dx, bounds.MinWidth, bounds.MaxWidth)
		out.X = start.Right() - out.Width
	}
	if edge.South() {
		out.Height = clamp(start.Height+dy, bounds.MinHeight, bounds.MaxHeight)
	}
	if edge.North() {
		out.Height = clamp(start.Height-dy, bounds.MinHeight, bounds.MaxHeight)
		out.Y = start.Bottom() - out.Height
	}

	// Viewport wins over the requested size.
	if out.X < viewport.X {
		out.Width -= viewport.X - out.X
		out.X = viewport.X
	}
	if out.Right() > viewport.Right() {
		out.Width = viewport.Right() - out.X
	}
	if out.Y < viewport.Y {
		out.Height -= viewport.Y - out.Y
		out.Y = viewport.Y
	}
	if out.Bottom() > viewport.Bottom() {
		out.Height = viewport.Bottom() - out.Y
	}
	return out
}
