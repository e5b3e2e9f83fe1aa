// Package grid models positions on the 3x3 battlefield.
//
// X is the file (0 front, 1 mid, 2 back); Y is the rank (0 top, 1 mid, 2 bottom).
package grid

import "fmt"

// Grid bounds, inclusive.
const (
	MinPos = 0
	MaxPos = 2
)

// Point is a coordinate on the battlefield.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Named spots.
var (
	FrontTop    = Point{0, 0}
	FrontMid    = Point{0, 1}
	FrontBottom = Point{0, 2}
	MidTop      = Point{1, 0}
	MidMid      = Point{1, 1}
	MidBottom   = Point{1, 2}
	BackTop     = Point{2, 0}
	BackMid     = Point{2, 1}
	BackBottom  = Point{2, 2}
)

// Columns returns the front, mid and back files.
func Columns() [][]Point {
	return [][]Point{
		{FrontTop, FrontMid, FrontBottom},
		{MidTop, MidMid, MidBottom},
		{BackTop, BackMid, BackBottom},
	}
}

// Rows returns the top, mid and bottom ranks.
func Rows() [][]Point {
	return [][]Point{
		{FrontTop, MidTop, BackTop},
		{FrontMid, MidMid, BackMid},
		{FrontBottom, MidBottom, BackBottom},
	}
}

// All returns every spot on the grid, front file first.
func All() []Point {
	var out []Point
	for _, col := range Columns() {
		out = append(out, col...)
	}
	return out
}

// InBounds reports whether p lies on the grid.
func (p Point) InBounds() bool {
	return p.X >= MinPos && p.X <= MaxPos && p.Y >= MinPos && p.Y <= MaxPos
}

// In reports whether p is one of points.
func (p Point) In(points []Point) bool {
	for _, q := range points {
		if q == p {
			return true
		}
	}
	return false
}

// String renders the point as "(x,y)".
func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}
