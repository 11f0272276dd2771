package main

import (
	"math"

	"procflow/internal/diagram"
	"procflow/internal/grid"
)

func (m *model) handleNavigation(key string, speed int) {
	if m.zPanMode {
		m.handlePan(key, speed)
		return
	}
	m.handleCursorMove(key, speed)
}

func (m *model) handlePan(key string, speed int) {
	dx := float64(speed) * m.view.unitsX / m.view.zoom
	dy := float64(speed) * m.view.unitsY / m.view.zoom
	switch key {
	case "h", "left", "H", "shift+left":
		m.view.panX -= dx
	case "l", "right", "L", "shift+right":
		m.view.panX += dx
	case "k", "up", "K", "shift+up":
		m.view.panY -= dy
	case "j", "down", "J", "shift+down":
		m.view.panY += dy
	}
}

func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}

// canvasSize is the area left for the diagram below the header and above
// the status line.
func (m *model) canvasSize() (int, int) {
	return max(m.width, 1), max(m.height-2, 1)
}

func (m *model) ensureCursorInBounds() {
	w, h := m.canvasSize()
	m.cursorX = min(max(m.cursorX, 0), w-1)
	m.cursorY = min(max(m.cursorY, 0), h-1)
}

func (m *model) cursorWorld() grid.Point {
	return m.view.toWorld(m.cursorX, m.cursorY)
}

// zoomBy scales the view while keeping the centre of the screen fixed.
func (m *model) zoomBy(factor float64) {
	w, h := m.canvasSize()
	centre := m.view.toWorld(w/2, h/2)
	m.view.zoom = min(max(m.view.zoom*factor, minZoom), maxZoom)
	m.centreOn(centre)
}

func (m *model) centreOn(p grid.Point) {
	w, h := m.canvasSize()
	m.view.panX = p.X - float64(w/2)*m.view.unitsX/m.view.zoom
	m.view.panY = p.Y - float64(h/2)*m.view.unitsY/m.view.zoom
}

// contentBounds is the world-space box around all cards.
func contentBounds(cards []diagram.Card) (minX, minY, maxX, maxY float64, ok bool) {
	if len(cards) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, c := range cards {
		minX = min(minX, c.X)
		minY = min(minY, c.Y)
		maxX = max(maxX, c.X+c.Width)
		maxY = max(maxY, c.Y+c.Height)
	}
	return minX, minY, maxX, maxY, true
}

// fitToScreen zooms out until every card is visible and centres them. It
// never zooms in past 1.
func (m *model) fitToScreen() bool {
	minX, minY, maxX, maxY, ok := contentBounds(m.store.Cards())
	if !ok {
		return false
	}
	w, h := m.canvasSize()
	zx := float64(w) * m.view.unitsX / (maxX - minX + 2*fitPadding)
	zy := float64(h) * m.view.unitsY / (maxY - minY + 2*fitPadding)
	m.view.zoom = max(min(zx, zy, 1), minZoom)
	m.centreOn(grid.Point{X: (minX + maxX) / 2, Y: (minY + maxY) / 2})
	return true
}

// ensureVisible pans just enough to bring a card fully on screen.
func (m *model) ensureVisible(card diagram.Card) {
	w, h := m.canvasSize()
	x, y := m.view.toScreen(card.Position())
	cw, ch := m.view.cells(card.Width, card.Height)
	if x < 0 || y < 0 || x+cw > w || y+ch > h {
		m.centreOn(card.Center())
	}
}

func (m *model) focusCard(card diagram.Card) {
	m.ensureVisible(card)
	m.cursorX, m.cursorY = m.view.toScreen(card.Center())
	m.ensureCursorInBounds()
}

// cycleCard steps the selection through cards in creation order.
func (m *model) cycleCard(current string, delta int) (diagram.Card, bool) {
	cards := m.store.Cards()
	if len(cards) == 0 {
		return diagram.Card{}, false
	}
	next := 0
	if delta < 0 {
		next = len(cards) - 1
	}
	for i, c := range cards {
		if c.ID == current {
			next = (i + delta + len(cards)) % len(cards)
			break
		}
	}
	return cards[next], true
}

func (m *model) cycleConnection(current string, delta int) (diagram.Connection, bool) {
	conns := m.store.Connections()
	if len(conns) == 0 {
		return diagram.Connection{}, false
	}
	next := 0
	if delta < 0 {
		next = len(conns) - 1
	}
	for i, c := range conns {
		if c.ID == current {
			next = (i + delta + len(conns)) % len(conns)
			break
		}
	}
	return conns[next], true
}

// nearestCard is the card whose centre is closest to p.
func (m *model) nearestCard(p grid.Point) (diagram.Card, bool) {
	var best diagram.Card
	bestDist := math.Inf(1)
	for _, c := range m.store.Cards() {
		if d := grid.Distance(p, c.Center()); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, !math.IsInf(bestDist, 1)
}

func (m *model) cardUnderCursor() (diagram.Card, bool) {
	return m.canvas().CardAt(m.cursorX, m.cursorY)
}

func (m *model) canvas() *Canvas {
	return NewCanvas(m.store.Cards(), m.store.Connections(), m.view)
}
