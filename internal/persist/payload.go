package persist

import (
	"errors"
	"fmt"
	"time"

	"procflow/internal/diagram"
)

// payload is the stored JSON document:
// {cards, connections, history, historyIndex, timestamp}.
// Slices are pointers so a missing key can be told apart from an empty list.
type payload struct {
	Cards        *[]cardJSON       `json:"cards"`
	Connections  *[]connectionJSON `json:"connections"`
	History      *[]snapshotJSON   `json:"history"`
	HistoryIndex int               `json:"historyIndex"`
	Timestamp    int64             `json:"timestamp"`
}

type cardJSON struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Color       string  `json:"color"`
	SubLabel    string  `json:"subLabel,omitempty"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Width       float64 `json:"width"`
	Height      float64 `json:"height"`
}

type connectionJSON struct {
	ID     string `json:"id"`
	FromID string `json:"fromCardId"`
	ToID   string `json:"toCardId"`
	Type   string `json:"type"`
	Label  string `json:"label,omitempty"`
}

type snapshotJSON struct {
	Cards       []cardJSON       `json:"cards"`
	Connections []connectionJSON `json:"connections"`
}

var errMissingField = errors.New("missing field")

func (p payload) validate() error {
	switch {
	case p.Cards == nil:
		return fmt.Errorf("cards: %w", errMissingField)
	case p.Connections == nil:
		return fmt.Errorf("connections: %w", errMissingField)
	case p.History == nil:
		return fmt.Errorf("history: %w", errMissingField)
	}
	if p.HistoryIndex < -1 || p.HistoryIndex >= len(*p.History) {
		return fmt.Errorf("history index %d out of range for %d entries", p.HistoryIndex, len(*p.History))
	}
	return nil
}

func encodeState(s diagram.State) payload {
	cards := encodeCards(s.Cards)
	conns := encodeConnections(s.Connections)
	history := make([]snapshotJSON, len(s.History))
	for i, snap := range s.History {
		history[i] = snapshotJSON{
			Cards:       encodeCards(snap.Cards),
			Connections: encodeConnections(snap.Connections),
		}
	}
	return payload{
		Cards:        &cards,
		Connections:  &conns,
		History:      &history,
		HistoryIndex: s.HistoryIndex,
		Timestamp:    s.Timestamp.UnixMilli(),
	}
}

func (p payload) decode() diagram.State {
	history := make([]diagram.Snapshot, len(*p.History))
	for i, snap := range *p.History {
		history[i] = diagram.Snapshot{
			Cards:       decodeCards(snap.Cards),
			Connections: decodeConnections(snap.Connections),
		}
	}
	return diagram.State{
		Cards:        decodeCards(*p.Cards),
		Connections:  decodeConnections(*p.Connections),
		History:      history,
		HistoryIndex: p.HistoryIndex,
		Timestamp:    time.UnixMilli(p.Timestamp),
	}
}

func encodeCards(in []diagram.Card) []cardJSON {
	out := make([]cardJSON, len(in))
	for i, c := range in {
		out[i] = cardJSON{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Icon:        c.Icon,
			Color:       c.Color,
			SubLabel:    c.SubLabel,
			X:           c.X,
			Y:           c.Y,
			Width:       c.Width,
			Height:      c.Height,
		}
	}
	return out
}

func decodeCards(in []cardJSON) []diagram.Card {
	out := make([]diagram.Card, len(in))
	for i, c := range in {
		out[i] = diagram.Card{
			ID:          c.ID,
			Title:       c.Title,
			Description: c.Description,
			Icon:        c.Icon,
			Color:       c.Color,
			SubLabel:    c.SubLabel,
			X:           c.X,
			Y:           c.Y,
			Width:       c.Width,
			Height:      c.Height,
		}
	}
	return out
}

func encodeConnections(in []diagram.Connection) []connectionJSON {
	out := make([]connectionJSON, len(in))
	for i, c := range in {
		out[i] = connectionJSON{
			ID:     c.ID,
			FromID: c.From,
			ToID:   c.To,
			Type:   string(c.Kind),
			Label:  c.Label,
		}
	}
	return out
}

func decodeConnections(in []connectionJSON) []diagram.Connection {
	out := make([]diagram.Connection, len(in))
	for i, c := range in {
		out[i] = diagram.Connection{
			ID:    c.ID,
			From:  c.FromID,
			To:    c.ToID,
			Kind:  diagram.ConnectionKind(c.Type),
			Label: c.Label,
		}
	}
	return out
}
