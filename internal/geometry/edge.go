package geometry

import "fmt"

// Edge identifies the border or corner grabbed by a resize gesture.
type Edge string

const (
	EdgeNone      Edge = ""
	EdgeNorth     Edge = "n"
	EdgeSouth     Edge = "s"
	EdgeEast      Edge = "e"
	EdgeWest      Edge = "w"
	EdgeNorthEast Edge = "ne"
	EdgeNorthWest Edge = "nw"
	EdgeSouthEast Edge = "se"
	EdgeSouthWest Edge = "sw"
)

// Edges lists every valid resize edge.
var Edges = []Edge{EdgeNorth, EdgeSouth, EdgeEast, EdgeWest, EdgeNorthEast, EdgeNorthWest, EdgeSouthEast, EdgeSouthWest}

// ParseEdge parses one of n, s, e, w, ne, nw, se, sw.
func ParseEdge(s string) (Edge, error) {
	e := Edge(s)
	if !e.Valid() {
		return EdgeNone, fmt.Errorf("invalid edge %q (want one of n, s, e, w, ne, nw, se, sw)", s)
	}
	return e, nil
}

// Valid reports whether e is one of the eight resize edges.
func (e Edge) Valid() bool {
	switch e {
	case EdgeNorth, EdgeSouth, EdgeEast, EdgeWest, EdgeNorthEast, EdgeNorthWest, EdgeSouthEast, EdgeSouthWest:
		return true
	}
	return false
}

func (e Edge) North() bool { return e == EdgeNorth || e == EdgeNorthEast || e == EdgeNorthWest }
func (e Edge) South() bool { return e == EdgeSouth || e == EdgeSouthEast || e == EdgeSouthWest }
func (e Edge) East() bool  { return e == EdgeEast || e == EdgeNorthEast || e == EdgeSouthEast }
func (e Edge) West() bool  { return e == EdgeWest || e == EdgeNorthWest || e == EdgeSouthWest }

// EdgeAt returns the resize edge under p when p falls inside the border band
// of r. It returns EdgeNone for points in the interior or outside r.
func EdgeAt(r Rect, p Point, border int) Edge {
	if border <= 0 || !r.Contains(p) {
		return EdgeNone
	}
	north := p.Y < r.Y+border
	south := p.Y >= r.Bottom()-border
	west := p.X < r.X+border
	east := p.X >= r.Right()-border

	switch {
	case north && west:
		return EdgeNorthWest
	case north && east:
		return EdgeNorthEast
	case south && west:
		return EdgeSouthWest
	case south && east:
		return EdgeSouthEast
	case north:
		return EdgeNorth
	case south:
		return EdgeSouth
	case west:
		return EdgeWest
	case east:
		return EdgeEast
	}
	return EdgeNone
}

// InTitleBar reports whether p is on the title bar of r, the strip of the
// given height just below the top border.
func InTitleBar(r Rect, p Point, border, height int) bool {
	if !r.Contains(p) {
		return false
	}
	return p.Y >= r.Y+border && p.Y < r.Y+border+height &&
		p.X >= r.X+border && p.X < r.Right()-border
}
