package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"procflow/internal/diagram"
	"procflow/internal/grid"
)

const (
	selectedColor   = "#FF5722"
	connectionColor = "#666666"
)

// Canvas draws a diagram onto a grid of terminal cells.
type Canvas struct {
	cards       []diagram.Card
	connections []diagram.Connection
	byID        map[string]diagram.Card
	view        viewport
}

func NewCanvas(cards []diagram.Card, connections []diagram.Connection, view viewport) *Canvas {
	byID := make(map[string]diagram.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	return &Canvas{cards: cards, connections: connections, byID: byID, view: view}
}

type renderOptions struct {
	selectedCard       string
	selectedConnection string
	// highlightCard is drawn like a selected card: the connect source or
	// the card being moved.
	highlightCard string
	// moving overrides the position of highlightCard while a move is
	// being previewed.
	moving    *grid.Point
	cursor    *point
	styled    bool
	hideLines bool
}

type cellGrid struct {
	runes  [][]rune
	colors [][]string
}

func newCellGrid(width, height int) *cellGrid {
	g := &cellGrid{runes: make([][]rune, height), colors: make([][]string, height)}
	for y := range g.runes {
		g.runes[y] = make([]rune, width)
		g.colors[y] = make([]string, width)
		for x := range g.runes[y] {
			g.runes[y][x] = ' '
		}
	}
	return g
}

func (g *cellGrid) valid(x, y int) bool {
	return y >= 0 && y < len(g.runes) && x >= 0 && x < len(g.runes[y])
}

func (g *cellGrid) set(x, y int, r rune, color string) {
	if !g.valid(x, y) {
		return
	}
	if runewidth.RuneWidth(r) != 1 {
		r = '?'
	}
	g.runes[y][x] = r
	g.colors[y][x] = color
}

func (g *cellGrid) text(x, y int, s string, color string) {
	for i, r := range []rune(s) {
		g.set(x+i, y, r, color)
	}
}

// lines flattens the grid. When styled, runs of coloured cells are wrapped
// in lipgloss foreground styles.
func (g *cellGrid) lines(styled bool) []string {
	out := make([]string, len(g.runes))
	for y, row := range g.runes {
		if !styled {
			out[y] = string(row)
			continue
		}
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && g.colors[y][x] == g.colors[y][start] {
				continue
			}
			run := string(row[start:x])
			if c := g.colors[y][start]; c != "" {
				run = lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render(run)
			}
			b.WriteString(run)
			start = x
		}
		out[y] = b.String()
	}
	return out
}

func (v viewport) toScreen(p grid.Point) (int, int) {
	x := math.Floor((p.X - v.panX) * v.zoom / v.unitsX)
	y := math.Floor((p.Y - v.panY) * v.zoom / v.unitsY)
	return int(x), int(y)
}

func (v viewport) toWorld(x, y int) grid.Point {
	return grid.Point{
		X: v.panX + float64(x)*v.unitsX/v.zoom,
		Y: v.panY + float64(y)*v.unitsY/v.zoom,
	}
}

// cells is the on-screen size of a world-space extent.
func (v viewport) cells(width, height float64) (int, int) {
	w := int(math.Round(width * v.zoom / v.unitsX))
	h := int(math.Round(height * v.zoom / v.unitsY))
	return max(w, minBoxWidth), max(h, minBoxHeight)
}

func (c *Canvas) cardRect(card diagram.Card) (x, y, w, h int) {
	x, y = c.view.toScreen(card.Position())
	w, h = c.view.cells(card.Width, card.Height)
	return x, y, w, h
}

// CardAt returns the topmost card covering screen cell (x, y).
func (c *Canvas) CardAt(x, y int) (diagram.Card, bool) {
	for i := len(c.cards) - 1; i >= 0; i-- {
		bx, by, bw, bh := c.cardRect(c.cards[i])
		if x >= bx && x < bx+bw && y >= by && y < by+bh {
			return c.cards[i], true
		}
	}
	return diagram.Card{}, false
}

func (c *Canvas) Render(width, height int, opts renderOptions) []string {
	if height < 1 {
		height = 1
	}
	if width < 1 {
		width = 1
	}
	g := newCellGrid(width, height)

	cards, byID := c.cards, c.byID
	if opts.moving != nil {
		cards = make([]diagram.Card, len(c.cards))
		byID = make(map[string]diagram.Card, len(c.byID))
		for i, card := range c.cards {
			if card.ID == opts.highlightCard {
				card.X, card.Y = opts.moving.X, opts.moving.Y
			}
			cards[i] = card
			byID[card.ID] = card
		}
	}

	// Connections first so cards sit on top of them.
	if !opts.hideLines {
		for _, conn := range c.connections {
			c.drawConnection(g, byID, conn, conn.ID == opts.selectedConnection)
		}
	}
	for _, card := range cards {
		selected := card.ID == opts.selectedCard || card.ID == opts.highlightCard
		c.drawCard(g, card, selected)
	}

	if opts.cursor != nil {
		g.set(opts.cursor.X, opts.cursor.Y, '█', "")
	}
	return g.lines(opts.styled)
}

func kindGlyphs(kind diagram.ConnectionKind) (horizontal, vertical rune) {
	switch kind {
	case diagram.KindParallel:
		return '=', '"'
	case diagram.KindRoute:
		return '.', ':'
	default:
		return '-', '|'
	}
}

// drawConnection routes an elbow from the source centre: along the source
// row first, then down or up the target column. Connections whose
// endpoints are missing are skipped.
func (c *Canvas) drawConnection(g *cellGrid, byID map[string]diagram.Card, conn diagram.Connection, selected bool) {
	from, ok := byID[conn.From]
	if !ok {
		return
	}
	to, ok := byID[conn.To]
	if !ok {
		return
	}

	fx, fy := c.view.toScreen(from.Center())
	tx, ty := c.view.toScreen(to.Center())

	h, v := kindGlyphs(conn.Kind)
	color := connectionColor
	if selected {
		h, v, color = '#', '#', selectedColor
	}

	for x := min(fx, tx); x <= max(fx, tx); x++ {
		g.set(x, fy, h, color)
	}
	for y := min(fy, ty); y <= max(fy, ty); y++ {
		g.set(tx, y, v, color)
	}
	if fx != tx && fy != ty {
		g.set(tx, fy, '+', color)
	}

	bx, by, bw, bh := c.cardRect(to)
	switch {
	case ty > fy:
		g.set(tx, by-1, 'v', color)
	case ty < fy:
		g.set(tx, by+bh, '^', color)
	case tx > fx:
		g.set(bx-1, ty, '>', color)
	case tx < fx:
		g.set(bx+bw, ty, '<', color)
	}

	if conn.Label == "" {
		return
	}
	label := " " + conn.Label + " "
	if abs(tx-fx) >= abs(ty-fy) {
		g.text((fx+tx)/2-len([]rune(label))/2, fy, label, color)
	} else {
		g.text(tx+1, (fy+ty)/2, label, color)
	}
}

func (c *Canvas) drawCard(g *cellGrid, card diagram.Card, selected bool) {
	x, y, w, h := c.cardRect(card)

	corner, horizontal, vertical := '+', '-', '|'
	color := card.Color
	if selected {
		corner, horizontal, vertical = '#', '#', '#'
		color = selectedColor
	}

	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			switch {
			case (row == y || row == y+h-1) && (col == x || col == x+w-1):
				g.set(col, row, corner, color)
			case row == y || row == y+h-1:
				g.set(col, row, horizontal, color)
			case col == x || col == x+w-1:
				g.set(col, row, vertical, color)
			default:
				g.set(col, row, ' ', "")
			}
		}
	}

	inner := w - 2
	for i, line := range cardLines(card, inner) {
		row := y + 1 + i
		if row >= y+h-1 {
			break
		}
		g.text(x+1, row, truncate(line, inner), "")
	}
}

func cardLines(card diagram.Card, width int) []string {
	lines := []string{card.Title}
	if card.SubLabel != "" {
		lines = append(lines, "("+card.SubLabel+")")
	}
	if card.Description != "" {
		lines = append(lines, wrap(card.Description, width)...)
	}
	return lines
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "~"
	}
	return string(r[:width-1]) + "~"
}

// wrap breaks s on spaces into lines of at most width runes. A width of
// zero keeps s on one line.
func wrap(s string, width int) []string {
	if width <= 0 {
		return []string{s}
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		if len(cur) > 0 && len(cur)+1+len(w) > width {
			lines = append(lines, string(cur))
			cur = nil
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, w...)
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
