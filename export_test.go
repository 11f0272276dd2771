package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procflow/internal/catalog"
	"procflow/internal/diagram"
	"procflow/internal/grid"
)

func TestExportVisualTXT(t *testing.T) {
	cards := []diagram.Card{
		{ID: "a", Title: "Assembly", X: 0, Y: 0, Width: 160, Height: 140},
		{ID: "b", Title: "Paint", X: 440, Y: 0, Width: 160, Height: 140},
	}
	conns := []diagram.Connection{{ID: "c", From: "a", To: "b", Kind: diagram.KindFlow}}

	var buf bytes.Buffer
	require.NoError(t, exportVisualTXT(&buf, cards, conns, 10, 20))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	// 640 units wide plus padding at 10 units per column.
	require.Len(t, lines, 10)
	assert.Contains(t, buf.String(), "Assembly")
	assert.Contains(t, buf.String(), "Paint")
	assert.Contains(t, buf.String(), "->")
	for _, line := range lines {
		assert.Equal(t, strings.TrimRight(line, " "), line)
	}
}

func TestExportVisualTXTEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := exportVisualTXT(&buf, nil, nil, 10, 20)
	assert.ErrorIs(t, err, errNothingToExport)
	assert.Empty(t, buf.String())
}

func TestExportVisualTXTFile(t *testing.T) {
	cards, conns := catalog.Demo(grid.Default())
	path := filepath.Join(t.TempDir(), "demo.txt")

	require.NoError(t, exportVisualTXTFile(path, cards, conns, 10, 20))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), cards[0].Title[:4])
}

func TestExportToPNG(t *testing.T) {
	cards := []diagram.Card{
		{ID: "a", Title: "Assembly", Color: "#2196F3", X: 0, Y: 0, Width: 160, Height: 140},
		{ID: "b", Title: "Paint", Description: "Two coats", SubLabel: "Line 2", X: 440, Y: 220, Width: 160, Height: 140},
	}
	conns := []diagram.Connection{
		{ID: "c1", From: "a", To: "b", Kind: diagram.KindParallel, Label: "batch"},
		{ID: "c2", From: "a", To: "gone", Kind: diagram.KindRoute},
	}
	path := filepath.Join(t.TempDir(), "flow.png")

	require.NoError(t, ExportToPNG(path, cards, conns, diagram.Selection{ConnectionID: "c1"}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 600+2*int(pngPadding), img.Bounds().Dx())
	assert.Equal(t, 360+2*int(pngPadding), img.Bounds().Dy())
}

func TestExportToPNGEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	assert.ErrorIs(t, ExportToPNG(path, nil, nil, diagram.Selection{}), errNothingToExport)
	assert.NoFileExists(t, path)
}

func TestEdgePoint(t *testing.T) {
	tests := []struct {
		name           string
		ox, oy         float64
		wantX, wantY   float64
		wantIntersects bool
	}{
		{"from the left", -100, 0, -80, 0, true},
		{"from above", 0, -200, 0, -70, true},
		{"diagonal hits the short side", 200, 200, 70, 70, true},
		{"same centre", 0, 0, 0, 0, false},
		{"inside", 10, 10, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := edgePoint(0, 0, tt.ox, tt.oy, 80, 70)
			assert.Equal(t, tt.wantIntersects, ok)
			if ok {
				assert.InDelta(t, tt.wantX, x, 1e-9)
				assert.InDelta(t, tt.wantY, y, 1e-9)
			}
		})
	}
}

func TestLineStyle(t *testing.T) {
	w, dashes := lineStyle(diagram.KindFlow)
	assert.Equal(t, 2.0, w)
	assert.Empty(t, dashes)

	w, dashes = lineStyle(diagram.KindParallel)
	assert.Equal(t, 2.0, w)
	assert.Equal(t, []float64{10, 5}, dashes)

	w, dashes = lineStyle(diagram.KindRoute)
	assert.Equal(t, 3.0, w)
	assert.Equal(t, []float64{5, 5}, dashes)
}
