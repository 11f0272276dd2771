package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"

	"procflow/internal/diagram"
)

var errNoCardSelected = errors.New("no card selected")

// copyCard puts the selected card's template on the system clipboard as
// JSON so it can be pasted into another session.
func (m *model) copyCard() error {
	card, ok := m.store.Card(m.store.Selection().CardID)
	if !ok {
		return errNoCardSelected
	}
	data, err := json.Marshal(card.Template())
	if err != nil {
		return err
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("clipboard unavailable: %w", err)
	}
	return nil
}

// pasteCard stamps a new card from a template on the clipboard.
func (m *model) pasteCard() (diagram.Card, error) {
	text, err := readClipboardText()
	if err != nil {
		return diagram.Card{}, fmt.Errorf("clipboard unavailable: %w", err)
	}
	t, err := parseTemplate(cleanClipboardText(text))
	if err != nil {
		return diagram.Card{}, err
	}
	return m.store.AddCard(t), nil
}

func parseTemplate(text string) (diagram.Template, error) {
	var t diagram.Template
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &t); err != nil {
		return t, fmt.Errorf("clipboard does not hold a card: %w", err)
	}
	if t.Title == "" {
		return t, errors.New("clipboard card has no title")
	}
	if t.Width <= 0 || t.Height <= 0 {
		t.Width, t.Height = 160, 140
	}
	return t, nil
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
		if output, err := exec.Command("pbpaste").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// cleanClipboardText drops control characters and normalises line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\r' || r == '\t' || r >= 32 {
			result.WriteRune(r)
		}
	}
	normalized := strings.ReplaceAll(result.String(), "\r\n", "\n")
	return strings.ReplaceAll(normalized, "\r", "\n")
}
