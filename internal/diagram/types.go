// Package diagram owns the live process-flow model: cards, connections,
// the current selection and the linear undo history.
package diagram

import (
	"slices"
	"time"

	"procflow/internal/grid"
)

// Card is one positioned process step.
type Card struct {
	ID          string
	Title       string
	Description string
	Icon        string
	Color       string
	SubLabel    string
	X           float64
	Y           float64
	Width       float64
	Height      float64
}

func (c Card) Position() grid.Point {
	return grid.Point{X: c.X, Y: c.Y}
}

// Center is where connections attach.
func (c Card) Center() grid.Point {
	return grid.Point{X: c.X + c.Width/2, Y: c.Y + c.Height/2}
}

// Template is a catalog entry used to stamp out new cards.
type Template struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Icon        string  `json:"icon" yaml:"icon"`
	Color       string  `json:"color" yaml:"color"`
	SubLabel    string  `json:"subLabel,omitempty" yaml:"sub_label,omitempty"`
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
}

// Template strips the identity and placement from a card.
func (c Card) Template() Template {
	return Template{
		Title:       c.Title,
		Description: c.Description,
		Icon:        c.Icon,
		Color:       c.Color,
		SubLabel:    c.SubLabel,
		Width:       c.Width,
		Height:      c.Height,
	}
}

// ConnectionKind only affects how a connection is drawn.
type ConnectionKind string

const (
	KindFlow     ConnectionKind = "flow"
	KindParallel ConnectionKind = "parallel"
	KindRoute    ConnectionKind = "route"
)

var Kinds = []ConnectionKind{KindFlow, KindParallel, KindRoute}

func (k ConnectionKind) Valid() bool {
	return slices.Contains(Kinds, k)
}

// Next cycles through Kinds.
func (k ConnectionKind) Next() ConnectionKind {
	i := slices.Index(Kinds, k)
	return Kinds[(i+1)%len(Kinds)]
}

// Connection is a directed link between two cards. It holds ids only; a
// connection whose endpoint is gone is dangling and must not be drawn.
type Connection struct {
	ID    string
	From  string
	To    string
	Kind  ConnectionKind
	Label string
}

// Snapshot is one recorded state of the whole diagram.
type Snapshot struct {
	Cards       []Card
	Connections []Connection
}

func newSnapshot(cards []Card, connections []Connection) Snapshot {
	return Snapshot{
		Cards:       cloneOrEmpty(cards),
		Connections: cloneOrEmpty(connections),
	}
}

func (s Snapshot) clone() Snapshot {
	return newSnapshot(s.Cards, s.Connections)
}

func cloneOrEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

// Selection holds at most one of CardID and ConnectionID.
type Selection struct {
	CardID       string
	ConnectionID string
}

func (s Selection) Empty() bool {
	return s.CardID == "" && s.ConnectionID == ""
}

// State is everything the store hands to a Persister.
type State struct {
	Cards        []Card
	Connections  []Connection
	History      []Snapshot
	HistoryIndex int
	Timestamp    time.Time
}

// Persister stores and restores State. Implementations are best effort:
// they report failures through their own logging, never to the caller.
type Persister interface {
	Save(State)
	Load() (State, bool)
	Clear()
}

type nopPersister struct{}

func (nopPersister) Save(State)          {}
func (nopPersister) Load() (State, bool) { return State{}, false }
func (nopPersister) Clear()              {}
