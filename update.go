package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"procflow/internal/catalog"
	"procflow/internal/diagram"
	"procflow/internal/grid"
)

func initialModel(a *app) model {
	return model{
		store:     a.store,
		templates: a.templates,
		config:    a.cfg,
		log:       a.log,
		view: viewport{
			zoom:   1,
			unitsX: a.cfg.View.UnitsPerColumn,
			unitsY: a.cfg.View.UnitsPerRow,
		},
		mode:        ModeNormal,
		connectKind: diagram.KindFlow,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		first := m.width == 0
		m.width = msg.Width
		m.height = msg.Height
		if first {
			m.fitToScreen()
		}
		m.ensureCursorInBounds()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if m.help {
			return m.handleHelpKey(msg)
		}
		switch m.mode {
		case ModePalette:
			return m.handlePaletteKey(msg)
		case ModeConnect:
			return m.handleConnectKey(msg)
		case ModeLabel:
			return m.handleLabelKey(msg)
		case ModeMove:
			return m.handleMoveKey(msg)
		case ModeFileInput:
			return m.handleFileInputKey(msg)
		case ModeConfirm:
			return m.handleConfirmKey(msg)
		default:
			return m.handleNormalKey(msg)
		}
	}
	return m, nil
}

func (m model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal || msg.Type != tea.MouseLeft {
		return m, nil
	}
	// Row 0 is the header.
	m.cursorX, m.cursorY = msg.X, msg.Y-1
	m.ensureCursorInBounds()
	m.selectUnderCursor()
	return m, nil
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) selectUnderCursor() {
	if card, ok := m.cardUnderCursor(); ok {
		m.store.SelectCard(card.ID)
		return
	}
	m.store.ClearSelection()
}

func (m model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.clearMessages()

	if msg.Type == tea.KeyEscape {
		m.zPanMode = false
		m.store.ClearSelection()
		return m, nil
	}

	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmQuit
	case "?":
		m.help = true
		m.helpScroll = 0
	case "z":
		m.zPanMode = !m.zPanMode
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))
	case "enter", " ":
		m.selectUnderCursor()
	case "tab", "shift+tab":
		delta := 1
		if key == "shift+tab" {
			delta = -1
		}
		if card, ok := m.cycleCard(m.store.Selection().CardID, delta); ok {
			m.store.SelectCard(card.ID)
			m.focusCard(card)
		}
	case "]", "[":
		delta := 1
		if key == "[" {
			delta = -1
		}
		if conn, ok := m.cycleConnection(m.store.Selection().ConnectionID, delta); ok {
			m.store.SelectConnection(conn.ID)
		} else {
			m.errorMessage = "No connections"
		}
	case "g":
		if card, ok := m.nearestCard(m.cursorWorld()); ok {
			m.store.SelectCard(card.ID)
			m.focusCard(card)
		}
	case "b":
		if len(m.templates) == 0 {
			m.errorMessage = "No templates"
			return m, nil
		}
		m.mode = ModePalette
	case "m":
		card, ok := m.store.Card(m.store.Selection().CardID)
		if !ok {
			m.errorMessage = errNoCardSelected.Error()
			return m, nil
		}
		m.mode = ModeMove
		m.moveCardID = card.ID
		m.moveX, m.moveY = card.X, card.Y
	case "a":
		card, ok := m.store.Card(m.store.Selection().CardID)
		if !ok {
			m.errorMessage = "Select the card to connect from"
			return m, nil
		}
		m.startConnect(card.ID)
	case "d", "delete", "backspace":
		sel := m.store.Selection()
		switch {
		case sel.CardID != "":
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteCard
			m.confirmID = sel.CardID
		case sel.ConnectionID != "":
			m.mode = ModeConfirm
			m.confirmAction = ConfirmDeleteConnection
			m.confirmID = sel.ConnectionID
		default:
			m.errorMessage = "Nothing selected"
		}
	case "u", "ctrl+z":
		m.undo()
	case "U", "ctrl+r", "ctrl+y":
		m.redo()
	case "y":
		if err := m.copyCard(); err != nil {
			m.errorMessage = err.Error()
		} else {
			m.successMessage = "Card copied"
		}
	case "p":
		card, err := m.pasteCard()
		if err != nil {
			m.errorMessage = err.Error()
			return m, nil
		}
		m.store.SelectCard(card.ID)
		m.focusCard(card)
		m.successMessage = "Card pasted"
	case "+", "=":
		m.zoomBy(zoomStep)
	case "-", "_":
		m.zoomBy(1 / zoomStep)
	case "f":
		if !m.fitToScreen() {
			m.errorMessage = "Nothing to fit"
		}
	case "v":
		m.targetView = !m.targetView
	case "C":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmClearAll
	case "R":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmClearSaved
	case "D":
		m.mode = ModeConfirm
		m.confirmAction = ConfirmLoadDemo
	case "S":
		m.mode = ModeFileInput
		m.fileOp = FileOpSavePNG
		m.filename = ""
	case "T":
		m.mode = ModeFileInput
		m.fileOp = FileOpSaveVisualTXT
		m.filename = ""
	}
	return m, nil
}

func (m model) handleHelpKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		maxScroll := len(helpLines) - max(m.height-1, 1)
		if m.helpScroll < maxScroll {
			m.helpScroll++
		}
	case "k", "up":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	default:
		m.help = false
		m.helpScroll = 0
	}
	return m, nil
}

func (m model) handlePaletteKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = ModeNormal
	case "j", "down", "tab":
		m.paletteIndex = (m.paletteIndex + 1) % len(m.templates)
	case "k", "up", "shift+tab":
		m.paletteIndex = (m.paletteIndex - 1 + len(m.templates)) % len(m.templates)
	case "enter", " ":
		card := m.store.AddCard(m.templates[m.paletteIndex])
		m.store.SelectCard(card.ID)
		m.focusCard(card)
		m.mode = ModeNormal
		m.successMessage = fmt.Sprintf("Added %s", card.Title)
	}
	return m, nil
}

func (m *model) startConnect(from string) {
	m.mode = ModeConnect
	m.connectFrom = from
	m.connectTo = ""
	m.labelText = ""
	if card, ok := m.nextTarget(1); ok {
		m.connectTo = card.ID
	}
}

// nextTarget steps through candidate targets, skipping the source.
func (m *model) nextTarget(delta int) (diagram.Card, bool) {
	current := m.connectTo
	for range m.store.Cards() {
		card, ok := m.cycleCard(current, delta)
		if !ok {
			return card, false
		}
		if card.ID != m.connectFrom {
			return card, true
		}
		current = card.ID
	}
	return diagram.Card{}, false
}

func (m model) handleConnectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.errorMessage = ""
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.connectFrom, m.connectTo = "", ""
	case "tab", "j", "l", "down", "right":
		if card, ok := m.nextTarget(1); ok {
			m.connectTo = card.ID
			m.ensureVisible(card)
		}
	case "shift+tab", "k", "h", "up", "left":
		if card, ok := m.nextTarget(-1); ok {
			m.connectTo = card.ID
			m.ensureVisible(card)
		}
	case "t":
		m.connectKind = m.connectKind.Next()
	case "enter":
		if m.connectTo == "" {
			m.errorMessage = "No target card"
			return m, nil
		}
		m.mode = ModeLabel
	}
	return m, nil
}

func (m model) handleLabelKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeConnect
	case tea.KeyEnter:
		conn, err := m.store.CreateConnection(m.connectFrom, m.connectTo, m.connectKind, strings.TrimSpace(m.labelText))
		if err != nil {
			m.errorMessage = connectError(err)
			m.mode = ModeConnect
			return m, nil
		}
		m.store.SelectConnection(conn.ID)
		m.mode = ModeNormal
		m.connectFrom, m.connectTo, m.labelText = "", "", ""
		m.successMessage = fmt.Sprintf("Connected (%s)", conn.Kind)
	case tea.KeyBackspace:
		if r := []rune(m.labelText); len(r) > 0 {
			m.labelText = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.labelText += " "
	case tea.KeyRunes:
		m.labelText += string(msg.Runes)
	}
	return m, nil
}

func connectError(err error) string {
	switch {
	case errors.Is(err, diagram.ErrSelfLoop):
		return "A card cannot connect to itself"
	case errors.Is(err, diagram.ErrMissingEndpoint):
		return "Pick both cards"
	default:
		return err.Error()
	}
}

func (m model) handleMoveKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pitch := m.store.Grid().Pitch()
	key := msg.String()
	switch key {
	case "esc":
		m.mode = ModeNormal
		m.moveCardID = ""
	case "enter":
		p := m.movePreview()
		if err := m.store.MoveCard(m.moveCardID, p.X, p.Y); err != nil {
			m.errorMessage = err.Error()
		}
		m.mode = ModeNormal
		m.moveCardID = ""
	case "h", "left", "H", "shift+left":
		m.moveX -= pitch * float64(m.getMoveSpeed(key))
	case "l", "right", "L", "shift+right":
		m.moveX += pitch * float64(m.getMoveSpeed(key))
	case "k", "up", "K", "shift+up":
		m.moveY -= pitch * float64(m.getMoveSpeed(key))
	case "j", "down", "J", "shift+down":
		m.moveY += pitch * float64(m.getMoveSpeed(key))
	}
	return m, nil
}

// movePreview is where the card under move would land, snapped.
func (m *model) movePreview() grid.Point {
	return m.store.Grid().Snap(grid.Point{X: m.moveX, Y: m.moveY})
}

func (m model) handleFileInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.mode = ModeNormal
		m.filename = ""
		m.errorMessage = ""
	case tea.KeyEnter:
		if strings.TrimSpace(m.filename) == "" {
			m.errorMessage = "Please enter a filename"
			return m, nil
		}
		ext := ".png"
		if m.fileOp == FileOpSaveVisualTXT {
			ext = ".txt"
		}
		filename := m.filename
		if !strings.HasSuffix(strings.ToLower(filename), ext) {
			filename += ext
		}
		m.filename = exportPath(m.config.ExportDir, filename)
		if _, err := os.Stat(m.filename); err == nil {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmOverwriteFile
			return m, nil
		}
		m.export()
	case tea.KeyBackspace:
		if r := []rune(m.filename); len(r) > 0 {
			m.filename = string(r[:len(r)-1])
		}
	case tea.KeyRunes:
		m.filename += string(msg.Runes)
	}
	return m, nil
}

func (m *model) export() {
	var err error
	switch m.fileOp {
	case FileOpSavePNG:
		err = ExportToPNG(m.filename, m.store.Cards(), m.store.Connections(), m.store.Selection())
	case FileOpSaveVisualTXT:
		err = exportVisualTXTFile(m.filename, m.store.Cards(), m.store.Connections(), m.view.unitsX, m.view.unitsY)
	}
	m.mode = ModeNormal
	if err != nil {
		m.log.Error("export failed", "file", m.filename, "error", err)
		m.errorMessage = fmt.Sprintf("Error exporting: %s", err)
		return
	}
	absPath, _ := filepath.Abs(m.filename)
	m.successMessage = fmt.Sprintf("Exported to %s", absPath)
	m.filename = ""
}

func (m model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmDeleteCard:
			if err := m.store.DeleteCard(m.confirmID); err != nil {
				m.errorMessage = err.Error()
			}
		case ConfirmDeleteConnection:
			if err := m.store.DeleteConnection(m.confirmID); err != nil {
				m.errorMessage = err.Error()
			}
		case ConfirmClearAll:
			m.store.ClearAll()
			m.successMessage = "Canvas cleared"
		case ConfirmClearSaved:
			m.store.Reset()
			m.successMessage = "Saved diagram and history cleared"
		case ConfirmLoadDemo:
			cards, conns := catalog.Demo(m.store.Grid())
			m.store.ReplaceAll(cards, conns)
			m.fitToScreen()
			m.successMessage = "Demo diagram loaded"
		case ConfirmOverwriteFile:
			m.export()
		}
		m.confirmID = ""
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			m.filename = ""
		}
		m.mode = ModeNormal
		m.confirmID = ""
	}
	return m, nil
}
