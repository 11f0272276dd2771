package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrid_Pitch(t *testing.T) {
	assert.Equal(t, 220.0, Default().Pitch())
	assert.Equal(t, 55.0, Grid{LargeCell: 50, Gutter: 5}.Pitch())
}

func TestGrid_Snap(t *testing.T) {
	g := Default()

	tests := []struct {
		name string
		in   Point
		want Point
	}{
		{"origin", Point{0, 0}, Point{0, 0}},
		{"below half rounds down", Point{109, 50}, Point{0, 0}},
		{"half rounds up", Point{110, 110}, Point{220, 220}},
		{"above half rounds up", Point{300, 400}, Point{220, 440}},
		{"axes independent", Point{330, 10}, Point{440, 0}},
		{"negative half away from zero", Point{-110, -330}, Point{-220, -440}},
		{"negative below half", Point{-100, -50}, Point{0, 0}},
		{"large value", Point{2199, 2201}, Point{2200, 2200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := g.Snap(tt.in)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestGrid_SnapIdempotent(t *testing.T) {
	g := Default()
	inputs := []Point{{13, 17}, {110, -110}, {999.5, 1234.25}, {-4321, 87}, {220, 440}}

	for _, p := range inputs {
		once := g.Snap(p)
		assert.Equal(t, once, g.Snap(once), "snap of %v", p)
	}
}

func TestGrid_SnapZeroPitch(t *testing.T) {
	p := Point{12, 34}
	assert.Equal(t, p, Grid{}.Snap(p))
}

func TestGrid_Cell(t *testing.T) {
	g := Default()
	assert.Equal(t, Point{0, 0}, g.Cell(0, 0))
	assert.Equal(t, Point{660, 220}, g.Cell(3, 1))
	assert.Equal(t, g.Cell(2, 5), g.Snap(g.Cell(2, 5)))
}

func TestDistance(t *testing.T) {
	assert.Equal(t, 5.0, Distance(Point{0, 0}, Point{3, 4}))
	assert.Equal(t, 0.0, Distance(Point{7, 7}, Point{7, 7}))
}
