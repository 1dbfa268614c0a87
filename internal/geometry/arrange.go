package geometry

import (
	"fmt"
	"math"
)

// ArrangeMode selects how Arrange lays out windows.
type ArrangeMode string

const (
	ArrangeCascade    ArrangeMode = "cascade"
	ArrangeGrid       ArrangeMode = "grid"
	ArrangeVertical   ArrangeMode = "vertical"
	ArrangeHorizontal ArrangeMode = "horizontal"
)

// ParseArrangeMode validates an arrange mode name.
func ParseArrangeMode(s string) (ArrangeMode, error) {
	switch m := ArrangeMode(s); m {
	case ArrangeCascade, ArrangeGrid, ArrangeVertical, ArrangeHorizontal:
		return m, nil
	}
	return "", fmt.Errorf("unknown arrange mode %q (want cascade, grid, vertical or horizontal)", s)
}

// CalculateGrid determines the grid dimensions for the given number of windows.
func CalculateGrid(numWindows int) (rows, cols int) {
	if numWindows == 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(numWindows))))
	rows = int(math.Ceil(float64(numWindows) / float64(cols)))
	return rows, cols
}

// Arrange computes a rectangle per window. Cascade keeps each window's own
// size (clamped to the viewport) and offsets successive windows by step;
// the grid modes split the viewport into equal cells separated by gap.
func Arrange(mode ArrangeMode, sizes []Size, viewport Rect, gap int) ([]Rect, error) {
	n := len(sizes)
	if n == 0 {
		return nil, nil
	}

	var rows, cols int
	switch mode {
	case ArrangeCascade:
		return cascade(sizes, viewport, gap), nil
	case ArrangeGrid:
		rows, cols = CalculateGrid(n)
	case ArrangeVertical:
		rows, cols = n, 1
	case ArrangeHorizontal:
		rows, cols = 1, n
	default:
		return nil, fmt.Errorf("unsupported arrange mode: %q", mode)
	}

	cellWidth := (viewport.Width - (cols+1)*gap) / cols
	cellHeight := (viewport.Height - (rows+1)*gap) / rows
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for %s arrangement: viewport=%dx%d rows=%d cols=%d gap=%d",
			mode, viewport.Width, viewport.Height, rows, cols, gap,
		)
	}

	out := make([]Rect, n)
	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols
		out[i] = Rect{
			X:      viewport.X + gap + col*(cellWidth+gap),
			Y:      viewport.Y + gap + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return out, nil
}

func cascade(sizes []Size, viewport Rect, step int) []Rect {
	if step <= 0 {
		step = 24
	}
	out := make([]Rect, len(sizes))
	x, y := viewport.X, viewport.Y
	for i, s := range sizes {
		r := ClampInto(Rect{X: x, Y: y, Width: s.Width, Height: s.Height}, viewport)
		if r.X != x || r.Y != y {
			// Wrapped past the viewport; start a new diagonal from the corner.
			x, y = viewport.X, viewport.Y
			r = ClampInto(Rect{X: x, Y: y, Width: s.Width, Height: s.Height}, viewport)
		}
		out[i] = r
		x += step
		y += step
	}
	return out
}
