package main

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"

	"procflow/internal/diagram"
	"procflow/internal/grid"
)

var errNothingToExport = errors.New("nothing to export")

const (
	pngPadding   = 50.0
	txtPadding   = 20.0
	defaultColor = "#607D8B"
)

// exportVisualTXT writes the whole diagram at zoom 1 as plain text.
func exportVisualTXT(w io.Writer, cards []diagram.Card, conns []diagram.Connection, unitsX, unitsY float64) error {
	minX, minY, maxX, maxY, ok := contentBounds(cards)
	if !ok {
		return errNothingToExport
	}
	view := viewport{
		panX:   minX - txtPadding,
		panY:   minY - txtPadding,
		zoom:   1,
		unitsX: unitsX,
		unitsY: unitsY,
	}
	width := int(math.Ceil((maxX-minX+2*txtPadding)/unitsX)) + 1
	height := int(math.Ceil((maxY-minY+2*txtPadding)/unitsY)) + 1

	for _, line := range NewCanvas(cards, conns, view).Render(width, height, renderOptions{}) {
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func exportVisualTXTFile(filename string, cards []diagram.Card, conns []diagram.Connection, unitsX, unitsY float64) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := exportVisualTXT(file, cards, conns, unitsX, unitsY); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// ExportToPNG draws the diagram in world coordinates, one pixel per unit.
func ExportToPNG(filename string, cards []diagram.Card, conns []diagram.Connection, sel diagram.Selection) error {
	minX, minY, maxX, maxY, ok := contentBounds(cards)
	if !ok {
		return errNothingToExport
	}

	imageWidth := int(math.Ceil(maxX - minX + 2*pngPadding))
	imageHeight := int(math.Ceil(maxY - minY + 2*pngPadding))

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()

	regular, err := loadFace(gomono.TTF, 11)
	if err != nil {
		return err
	}
	bold, err := loadFace(gomonobold.TTF, 13)
	if err != nil {
		return err
	}

	offset := func(p grid.Point) (float64, float64) {
		return p.X - minX + pngPadding, p.Y - minY + pngPadding
	}

	byID := make(map[string]diagram.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}

	dc.SetFontFace(regular)
	for _, conn := range conns {
		from, okFrom := byID[conn.From]
		to, okTo := byID[conn.To]
		if !okFrom || !okTo {
			continue
		}
		drawConnectionPNG(dc, conn, from, to, offset, conn.ID == sel.ConnectionID)
	}

	for _, card := range cards {
		drawCardPNG(dc, card, offset, card.ID == sel.CardID, regular, bold)
	}

	return dc.SavePNG(filename)
}

func loadFace(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

func lineStyle(kind diagram.ConnectionKind) (width float64, dashes []float64) {
	switch kind {
	case diagram.KindParallel:
		return 2, []float64{10, 5}
	case diagram.KindRoute:
		return 3, []float64{5, 5}
	default:
		return 2, nil
	}
}

func drawConnectionPNG(dc *gg.Context, conn diagram.Connection, from, to diagram.Card, offset func(grid.Point) (float64, float64), selected bool) {
	fx, fy := offset(from.Center())
	tx, ty := offset(to.Center())

	stroke := connectionColor
	if selected {
		stroke = selectedColor
	}
	width, dashes := lineStyle(conn.Kind)

	dc.SetHexColor(stroke)
	dc.SetLineWidth(width)
	dc.SetDash(dashes...)
	dc.DrawLine(fx, fy, tx, ty)
	dc.Stroke()
	dc.SetDash()

	if tipX, tipY, ok := edgePoint(tx, ty, fx, fy, to.Width/2, to.Height/2); ok {
		drawArrowPNG(dc, fx, fy, tipX, tipY)
	}

	if conn.Label == "" {
		return
	}
	midX, midY := (fx+tx)/2, (fy+ty)/2
	w, h := dc.MeasureString(conn.Label)
	if selected {
		dc.SetHexColor("#FFEB3B")
	} else {
		dc.SetColor(color.White)
	}
	dc.DrawRoundedRectangle(midX-w/2-2, midY-h/2-2, w+4, h+4, 3)
	dc.Fill()
	dc.SetHexColor(stroke)
	dc.DrawStringAnchored(conn.Label, midX, midY, 0.5, 0.35)
}

// edgePoint is where the segment from the centre (cx, cy) of a halfW x
// halfH rectangle towards (ox, oy) leaves the rectangle.
func edgePoint(cx, cy, ox, oy, halfW, halfH float64) (float64, float64, bool) {
	dx, dy := ox-cx, oy-cy
	if dx == 0 && dy == 0 {
		return 0, 0, false
	}
	t := math.Inf(1)
	if dx != 0 {
		t = halfW / math.Abs(dx)
	}
	if dy != 0 {
		t = min(t, halfH/math.Abs(dy))
	}
	if t >= 1 {
		// Source centre lies inside the target.
		return 0, 0, false
	}
	return cx + dx*t, cy + dy*t, true
}

func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dx := tx - fx
	dy := ty - fy
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	arrowSize := 10.0
	arrowAngle := 0.5

	dc.MoveTo(tx, ty)
	dc.LineTo(tx-arrowSize*dx+arrowSize*dy*arrowAngle, ty-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(tx-arrowSize*dx-arrowSize*dy*arrowAngle, ty-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

func drawCardPNG(dc *gg.Context, card diagram.Card, offset func(grid.Point) (float64, float64), selected bool, regular, bold font.Face) {
	x, y := offset(card.Position())

	fill := card.Color
	if fill == "" {
		fill = defaultColor
	}
	dc.SetHexColor(fill)
	dc.DrawRoundedRectangle(x, y, card.Width, card.Height, 8)
	dc.Fill()

	if selected {
		dc.SetHexColor(selectedColor)
		dc.SetLineWidth(3)
		dc.DrawRoundedRectangle(x, y, card.Width, card.Height, 8)
		dc.Stroke()
	}

	dc.Push()
	defer dc.Pop()
	dc.DrawRectangle(x, y, card.Width, card.Height)
	dc.Clip()
	defer dc.ResetClip()

	dc.SetColor(color.White)
	textWidth := card.Width - 16

	dc.SetFontFace(bold)
	dc.DrawStringWrapped(card.Title, x+card.Width/2, y+10, 0.5, 0, textWidth, 1.2, gg.AlignCenter)

	dc.SetFontFace(regular)
	if card.SubLabel != "" {
		dc.DrawStringAnchored("("+card.SubLabel+")", x+card.Width/2, y+48, 0.5, 0.5)
	}
	if card.Description != "" {
		dc.DrawStringWrapped(card.Description, x+card.Width/2, y+60, 0.5, 0, textWidth, 1.2, gg.AlignCenter)
	}
}
