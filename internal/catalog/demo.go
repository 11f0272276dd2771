package catalog

import (
	"strconv"

	"procflow/internal/diagram"
	"procflow/internal/grid"
)

// demoLayout places built-in templates by index onto grid cells.
var demoLayout = []struct {
	template int
	col, row int
}{
	{0, 0, 0},  // Assembly
	{2, 1, 0},  // Waiting time (Order)
	{3, 2, 0},  // Commissioning
	{4, 3, 0},  // Waiting time (Material)
	{5, 4, 0},  // Waiting time (Product)
	{6, 5, 0},  // Packaging and shipping
	{7, 0, 1},  // New customer in database
	{2, 1, 1},  // Waiting time (Order)
	{8, 2, 1},  // Repeat Order
	{9, 6, 0},  // Packaging for employees
	{10, 6, 1}, // Customer Path
	{11, 7, 1}, // Employee Path
	{12, 6, 2}, // Random Sample Check
	{13, 7, 2}, // Key issues audit
	{14, 8, 2}, // Connection to...
}

var demoLinks = []struct {
	from, to int
	kind     diagram.ConnectionKind
	label    string
}{
	{1, 2, diagram.KindFlow, ""},
	{2, 3, diagram.KindFlow, ""},
	{3, 4, diagram.KindFlow, ""},
	{4, 5, diagram.KindFlow, ""},
	{5, 6, diagram.KindFlow, ""},
	{1, 7, diagram.KindParallel, "parallel to"},
	{7, 8, diagram.KindFlow, ""},
	{8, 9, diagram.KindFlow, ""},
	{6, 10, diagram.KindRoute, "route C"},
	{6, 11, diagram.KindRoute, "route A"},
	{10, 12, diagram.KindRoute, "route C"},
	{11, 13, diagram.KindRoute, "route B"},
	{13, 14, diagram.KindFlow, ""},
	{14, 15, diagram.KindFlow, ""},
}

// Demo builds the sample order-to-dispatch diagram on g. Card ids are
// "1".."15" and connection ids "conn1".."conn14".
func Demo(g grid.Grid) ([]diagram.Card, []diagram.Connection) {
	cards := make([]diagram.Card, len(demoLayout))
	for i, l := range demoLayout {
		t := builtin[l.template]
		pos := g.Cell(l.col, l.row)
		cards[i] = diagram.Card{
			ID:          strconv.Itoa(i + 1),
			Title:       t.Title,
			Description: t.Description,
			Icon:        t.Icon,
			Color:       t.Color,
			SubLabel:    t.SubLabel,
			X:           pos.X,
			Y:           pos.Y,
			Width:       t.Width,
			Height:      t.Height,
		}
	}

	conns := make([]diagram.Connection, len(demoLinks))
	for i, l := range demoLinks {
		conns[i] = diagram.Connection{
			ID:    "conn" + strconv.Itoa(i+1),
			From:  strconv.Itoa(l.from),
			To:    strconv.Itoa(l.to),
			Kind:  l.kind,
			Label: l.label,
		}
	}
	return cards, conns
}
