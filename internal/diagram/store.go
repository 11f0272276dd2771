package diagram

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/google/uuid"

	"procflow/internal/grid"
)

// Placement bounds the random search AddCard does for a free cell.
type Placement struct {
	Columns  int
	Rows     int
	Attempts int
}

func DefaultPlacement() Placement {
	return Placement{Columns: 10, Rows: 10, Attempts: 100}
}

// Rand is the subset of *rand.Rand the store needs.
type Rand interface {
	IntN(n int) int
}

type Option func(*Store)

func WithPersister(p Persister) Option {
	return func(s *Store) {
		if p != nil {
			s.persister = p
		}
	}
}

func WithGrid(g grid.Grid) Option {
	return func(s *Store) { s.grid = g }
}

func WithPlacement(p Placement) Option {
	return func(s *Store) { s.placement = p }
}

func WithRand(r Rand) Option {
	return func(s *Store) { s.rng = r }
}

func WithIDs(next func() string) Option {
	return func(s *Store) { s.newID = next }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store is the single owner of the diagram for one editing session.
// It is not safe for concurrent use; the UI loop serialises all calls.
type Store struct {
	cards       []Card
	connections []Connection
	selection   Selection
	history     *History

	grid      grid.Grid
	placement Placement
	persister Persister
	rng       Rand
	newID     func() string
	now       func() time.Time
	log       *slog.Logger
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		cards:       []Card{},
		connections: []Connection{},
		history:     NewHistory(),
		grid:        grid.Default(),
		placement:   DefaultPlacement(),
		persister:   nopPersister{},
		rng:         rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		newID:       uuid.NewString,
		now:         time.Now,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Restore adopts the persisted model and history, if any.
func (s *Store) Restore() bool {
	saved, ok := s.persister.Load()
	if !ok {
		s.log.Info("no saved state, starting empty")
		return false
	}
	s.cards = cloneOrEmpty(saved.Cards)
	s.connections = cloneOrEmpty(saved.Connections)
	s.history.Replace(saved.History, saved.HistoryIndex)
	s.selection = Selection{}
	s.log.Info("restored saved state",
		"cards", len(s.cards),
		"connections", len(s.connections),
		"history", s.history.Len(),
		"index", s.history.Index())
	return true
}

// --- Queries ---

func (s *Store) Cards() []Card {
	return slices.Clone(s.cards)
}

func (s *Store) Connections() []Connection {
	return slices.Clone(s.connections)
}

func (s *Store) Card(id string) (Card, bool) {
	i := s.cardIndex(id)
	if i < 0 {
		return Card{}, false
	}
	return s.cards[i], true
}

func (s *Store) Connection(id string) (Connection, bool) {
	i := s.connectionIndex(id)
	if i < 0 {
		return Connection{}, false
	}
	return s.connections[i], true
}

// Endpoints resolves both ends of conn. ok is false when the connection
// is dangling.
func (s *Store) Endpoints(conn Connection) (from, to Card, ok bool) {
	from, okFrom := s.Card(conn.From)
	to, okTo := s.Card(conn.To)
	return from, to, okFrom && okTo
}

func (s *Store) Snapshot() Snapshot {
	return newSnapshot(s.cards, s.connections)
}

func (s *Store) Selection() Selection {
	return s.selection
}

func (s *Store) Grid() grid.Grid {
	return s.grid
}

func (s *Store) CanUndo() bool { return s.history.CanUndo() }

func (s *Store) CanRedo() bool { return s.history.CanRedo() }

func (s *Store) HistoryIndex() int { return s.history.Index() }

func (s *Store) HistoryLen() int { return s.history.Len() }

// --- Cards ---

// AddCard stamps a card from t and drops it on a free cell if one turns up
// within the configured number of random attempts, else at the origin.
func (s *Store) AddCard(t Template) Card {
	pos := s.freeCell()
	card := Card{
		ID:          s.newID(),
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
	s.cards = append(s.cards, card)
	s.log.Debug("card added", "id", card.ID, "title", card.Title, "x", card.X, "y", card.Y)
	s.commit()
	return card
}

func (s *Store) freeCell() grid.Point {
	used := make(map[grid.Point]bool, len(s.cards))
	for _, c := range s.cards {
		used[c.Position()] = true
	}
	if s.placement.Columns > 0 && s.placement.Rows > 0 {
		for attempt := 0; attempt < s.placement.Attempts; attempt++ {
			p := s.grid.Cell(s.rng.IntN(s.placement.Columns), s.rng.IntN(s.placement.Rows))
			if !used[p] {
				return p
			}
		}
	}
	s.log.Warn("no free cell found, placing at origin", "attempts", s.placement.Attempts)
	return grid.Point{}
}

// MoveCard sets the card's position. Callers snap beforehand.
func (s *Store) MoveCard(id string, x, y float64) error {
	i := s.cardIndex(id)
	if i < 0 {
		return fmt.Errorf("move %q: %w", id, ErrCardNotFound)
	}
	if s.cards[i].X == x && s.cards[i].Y == y {
		return nil
	}
	s.cards[i].X, s.cards[i].Y = x, y
	s.commit()
	return nil
}

// DeleteCard removes the card and every connection touching it.
func (s *Store) DeleteCard(id string) error {
	i := s.cardIndex(id)
	if i < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrCardNotFound)
	}
	s.cards = slices.Delete(s.cards, i, i+1)

	before := len(s.connections)
	s.connections = slices.DeleteFunc(s.connections, func(c Connection) bool {
		return c.From == id || c.To == id
	})
	s.dropStaleSelection()
	s.log.Debug("card deleted", "id", id, "connections_removed", before-len(s.connections))
	s.commit()
	return nil
}

// --- Connections ---

// CreateConnection links two distinct live cards. An empty kind means flow.
func (s *Store) CreateConnection(from, to string, kind ConnectionKind, label string) (Connection, error) {
	if from == "" || to == "" {
		return Connection{}, ErrMissingEndpoint
	}
	if from == to {
		return Connection{}, ErrSelfLoop
	}
	if kind == "" {
		kind = KindFlow
	}
	if !kind.Valid() {
		return Connection{}, fmt.Errorf("%q: %w", kind, ErrInvalidKind)
	}
	for _, id := range []string{from, to} {
		if s.cardIndex(id) < 0 {
			return Connection{}, fmt.Errorf("card %q: %w", id, ErrMissingEndpoint)
		}
	}

	conn := Connection{
		ID:    s.newID(),
		From:  from,
		To:    to,
		Kind:  kind,
		Label: label,
	}
	s.connections = append(s.connections, conn)
	s.log.Debug("connection created", "id", conn.ID, "from", from, "to", to, "kind", kind)
	s.commit()
	return conn, nil
}

func (s *Store) DeleteConnection(id string) error {
	i := s.connectionIndex(id)
	if i < 0 {
		return fmt.Errorf("delete %q: %w", id, ErrConnectionNotFound)
	}
	s.connections = slices.Delete(s.connections, i, i+1)
	s.dropStaleSelection()
	s.commit()
	return nil
}

// --- Selection ---

func (s *Store) SelectCard(id string) {
	s.selection = Selection{CardID: id}
}

func (s *Store) SelectConnection(id string) {
	s.selection = Selection{ConnectionID: id}
}

func (s *Store) ClearSelection() {
	s.selection = Selection{}
}

// --- Whole-diagram operations ---

func (s *Store) ClearAll() {
	s.cards = []Card{}
	s.connections = []Connection{}
	s.selection = Selection{}
	s.commit()
}

// ReplaceAll swaps in a new model wholesale, e.g. the demo diagram.
func (s *Store) ReplaceAll(cards []Card, connections []Connection) {
	s.cards = cloneOrEmpty(cards)
	s.connections = cloneOrEmpty(connections)
	s.selection = Selection{}
	s.commit()
}

// Reset forgets the saved entry and the whole history.
func (s *Store) Reset() {
	s.persister.Clear()
	s.cards = []Card{}
	s.connections = []Connection{}
	s.selection = Selection{}
	s.history.Reset()
	s.log.Info("saved state cleared")
}

// --- History ---

func (s *Store) Undo() bool {
	snap, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.apply(snap)
	return true
}

func (s *Store) Redo() bool {
	snap, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.apply(snap)
	return true
}

func (s *Store) apply(snap Snapshot) {
	s.cards = snap.Cards
	s.connections = snap.Connections
	s.dropStaleSelection()
	s.save()
}

// commit records the live model in history and persists it.
func (s *Store) commit() {
	s.history.Record(s.Snapshot())
	s.save()
}

func (s *Store) save() {
	s.persister.Save(State{
		Cards:        s.Cards(),
		Connections:  s.Connections(),
		History:      s.history.Entries(),
		HistoryIndex: s.history.Index(),
		Timestamp:    s.now(),
	})
}

func (s *Store) dropStaleSelection() {
	if s.selection.CardID != "" && s.cardIndex(s.selection.CardID) < 0 {
		s.selection.CardID = ""
	}
	if s.selection.ConnectionID != "" && s.connectionIndex(s.selection.ConnectionID) < 0 {
		s.selection.ConnectionID = ""
	}
}

func (s *Store) cardIndex(id string) int {
	return slices.IndexFunc(s.cards, func(c Card) bool { return c.ID == id })
}

func (s *Store) connectionIndex(id string) int {
	return slices.IndexFunc(s.connections, func(c Connection) bool { return c.ID == id })
}
