package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#007BFF"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C757D"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DC3545"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#28A745"))
	paletteStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	pickedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(selectedColor))
)

var helpLines = []string{
	"procflow help",
	"=============",
	"",
	"Navigation:",
	"  h/j/k/l, arrows   Move cursor (Shift = 2x)",
	"  z                 Toggle pan mode (arrows pan the canvas)",
	"  + / -             Zoom in / out",
	"  f                 Fit diagram to screen",
	"  g                 Select the card nearest the cursor",
	"",
	"Selection:",
	"  Enter/Space/click Select card under cursor",
	"  Tab / Shift+Tab   Next / previous card",
	"  ] / [             Next / previous connection",
	"  Esc               Clear selection",
	"",
	"Cards:",
	"  b                 Open template palette",
	"  m                 Move selected card (snaps to grid)",
	"  d                 Delete selected card or connection",
	"  y / p             Copy / paste card via clipboard",
	"",
	"Connections:",
	"  a                 Connect from selected card",
	"                    Tab picks the target, t cycles flow/parallel/route,",
	"                    Enter asks for an optional label",
	"",
	"History:",
	"  u                 Undo",
	"  U / Ctrl+R        Redo",
	"",
	"Diagram:",
	"  v                 Toggle current / target view",
	"  C                 Clear all cards (undoable)",
	"  R                 Clear saved diagram and history",
	"  D                 Load demo diagram",
	"  S / T             Export PNG / text",
	"",
	"  ?                 Toggle this help",
	"  q                 Quit",
}

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	width, height := m.canvasSize()

	var result strings.Builder
	result.WriteString(m.headerView(width))
	result.WriteString("\n")

	if m.mode == ModePalette {
		result.WriteString(m.paletteView(height))
	} else {
		lines := m.canvas().Render(width, height, m.renderOptions())
		result.WriteString(strings.Join(lines, "\n"))
	}

	result.WriteString("\n")
	result.WriteString(m.statusView())
	return result.String()
}

func (m model) renderOptions() renderOptions {
	sel := m.store.Selection()
	opts := renderOptions{
		selectedCard:       sel.CardID,
		selectedConnection: sel.ConnectionID,
		styled:             true,
	}
	switch m.mode {
	case ModeNormal:
		opts.cursor = &point{X: m.cursorX, Y: m.cursorY}
	case ModeMove:
		p := m.movePreview()
		opts.highlightCard = m.moveCardID
		opts.moving = &p
	case ModeConnect, ModeLabel:
		opts.selectedCard = m.connectTo
		opts.highlightCard = m.connectFrom
	}
	return opts
}

func (m model) headerView(width int) string {
	state := "Current State"
	if m.targetView {
		state = "Target State"
	}
	undo, redo := "-", "-"
	if m.store.CanUndo() {
		undo = "u"
	}
	if m.store.CanRedo() {
		redo = "U"
	}
	header := fmt.Sprintf(" Process Flow Designer | %s | Cards: %d | Connections: %d | Auto-saved | zoom %d%% | undo[%s] redo[%s] ",
		state, len(m.store.Cards()), len(m.store.Connections()), int(m.view.zoom*100+0.5), undo, redo)
	return headerStyle.Width(width).MaxWidth(width).Render(header)
}

func (m model) paletteView(height int) string {
	var b strings.Builder
	b.WriteString("Add a process card:\n")
	start := 0
	visible := max(height-3, 1)
	if m.paletteIndex >= visible {
		start = m.paletteIndex - visible + 1
	}
	for i := start; i < len(m.templates) && i < start+visible; i++ {
		t := m.templates[i]
		line := t.Title
		if t.SubLabel != "" {
			line += " (" + t.SubLabel + ")"
		}
		if i == m.paletteIndex {
			b.WriteString(pickedStyle.Render("> " + line))
		} else {
			b.WriteString("  " + line)
		}
		if i < len(m.templates)-1 && i < start+visible-1 {
			b.WriteString("\n")
		}
	}
	return paletteStyle.Height(max(height-2, 1)).Render(b.String())
}

func (m model) statusView() string {
	var status string
	switch m.mode {
	case ModePalette:
		status = "Mode: PALETTE | j/k=choose, Enter=add card, Esc=cancel"
	case ModeConnect:
		status = fmt.Sprintf("Mode: CONNECT | %s -> %s | type: %s | Tab=target, t=type, Enter=label, Esc=cancel",
			m.cardTitle(m.connectFrom), m.cardTitle(m.connectTo), m.connectKind)
	case ModeLabel:
		status = fmt.Sprintf("Mode: LABEL | %s -> %s (%s) | Label: %s█ | Enter=connect, Esc=back",
			m.cardTitle(m.connectFrom), m.cardTitle(m.connectTo), m.connectKind, m.labelText)
	case ModeMove:
		p := m.movePreview()
		status = fmt.Sprintf("Mode: MOVE | %s to (%g,%g) | hjkl/arrows=move, Enter=drop, Esc=cancel", m.cardTitle(m.moveCardID), p.X, p.Y)
	case ModeFileInput:
		op := "Export PNG"
		if m.fileOp == FileOpSaveVisualTXT {
			op = "Export text"
		}
		status = fmt.Sprintf("Mode: FILE | %s filename: %s█ | Enter=confirm, Esc=cancel", op, m.filename)
	case ModeConfirm:
		status = "Mode: CONFIRM | " + m.confirmMessage()
	default:
		mode := "NORMAL"
		if m.zPanMode {
			mode = "PAN"
		}
		status = fmt.Sprintf("Mode: %s | %s", mode, m.selectionSummary())
		if m.successMessage == "" && m.errorMessage == "" {
			status += " | ? for help | q to quit"
		}
	}

	out := statusStyle.Render(status)
	if m.successMessage != "" {
		out += " " + successStyle.Render(m.successMessage)
	}
	if m.errorMessage != "" {
		out += " " + errorStyle.Render("ERROR: "+m.errorMessage)
	}
	return out
}

func (m model) confirmMessage() string {
	switch m.confirmAction {
	case ConfirmDeleteCard:
		return fmt.Sprintf("Delete %s and its connections? (y/n)", m.cardTitle(m.confirmID))
	case ConfirmDeleteConnection:
		return "Delete this connection? (y/n)"
	case ConfirmClearAll:
		return "Clear all cards and connections? (y/n)"
	case ConfirmClearSaved:
		return "Delete the saved diagram and its history? (y/n)"
	case ConfirmLoadDemo:
		return "Replace the canvas with the demo diagram? (y/n)"
	case ConfirmQuit:
		return "Quit procflow? (y/n)"
	case ConfirmOverwriteFile:
		return fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.filename)
	}
	return ""
}

func (m model) selectionSummary() string {
	sel := m.store.Selection()
	if card, ok := m.store.Card(sel.CardID); ok {
		return fmt.Sprintf("Selected: %s at (%g,%g)", card.Title, card.X, card.Y)
	}
	if conn, ok := m.store.Connection(sel.ConnectionID); ok {
		s := fmt.Sprintf("Selected: %s -> %s (%s)", m.cardTitle(conn.From), m.cardTitle(conn.To), conn.Kind)
		if conn.Label != "" {
			s += " \"" + conn.Label + "\""
		}
		return s
	}
	p := m.cursorWorld()
	return fmt.Sprintf("Cursor: (%.0f,%.0f)", p.X, p.Y)
}

func (m model) cardTitle(id string) string {
	if card, ok := m.store.Card(id); ok {
		return card.Title
	}
	if id == "" {
		return "?"
	}
	return id
}

func (m model) helpView() string {
	visible := max(m.height-1, 1)
	start := min(m.helpScroll, max(len(helpLines)-visible, 0))
	end := min(start+visible, len(helpLines))
	return strings.Join(helpLines[start:end], "\n")
}
