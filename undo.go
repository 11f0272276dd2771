package main

import "fmt"

func (m *model) undo() {
	if !m.store.Undo() {
		m.errorMessage = "Nothing to undo"
		return
	}
	m.successMessage = fmt.Sprintf("Undo (%s)", m.historyPosition())
}

func (m *model) redo() {
	if !m.store.Redo() {
		m.errorMessage = "Nothing to redo"
		return
	}
	m.successMessage = fmt.Sprintf("Redo (%s)", m.historyPosition())
}

// historyPosition is 1-based for display; 0 means the empty diagram.
func (m *model) historyPosition() string {
	return fmt.Sprintf("%d/%d", m.store.HistoryIndex()+1, m.store.HistoryLen())
}
