// Package grid maps world coordinates onto the card placement grid.
package grid

import "math"

const (
	DefaultLargeCell = 200
	DefaultGutter    = 20
)

type Point struct {
	X float64
	Y float64
}

// Grid is a uniform lattice whose pitch is one large cell plus one gutter.
type Grid struct {
	LargeCell float64
	Gutter    float64
}

func Default() Grid {
	return Grid{LargeCell: DefaultLargeCell, Gutter: DefaultGutter}
}

func (g Grid) Pitch() float64 {
	return g.LargeCell + g.Gutter
}

// Snap returns the lattice point nearest to p. Each axis is rounded
// independently, halves away from zero.
func (g Grid) Snap(p Point) Point {
	pitch := g.Pitch()
	if pitch <= 0 {
		return p
	}
	return Point{
		X: math.Round(p.X/pitch) * pitch,
		Y: math.Round(p.Y/pitch) * pitch,
	}
}

// Cell returns the origin of the cell at (col, row).
func (g Grid) Cell(col, row int) Point {
	pitch := g.Pitch()
	return Point{X: float64(col) * pitch, Y: float64(row) * pitch}
}

func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
