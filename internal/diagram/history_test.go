package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snap(ids ...string) Snapshot {
	cards := make([]Card, len(ids))
	for i, id := range ids {
		cards[i] = Card{ID: id}
	}
	return newSnapshot(cards, nil)
}

func TestHistory_Empty(t *testing.T) {
	h := NewHistory()

	assert.Equal(t, -1, h.Index())
	assert.Equal(t, 0, h.Len())
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
	assert.Empty(t, h.Current().Cards)
}

func TestHistory_RecordUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Record(snap("a"))
	h.Record(snap("a", "b"))

	got, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, snap("a"), got)

	got, ok = h.Undo()
	require.True(t, ok)
	assert.Equal(t, snap(), got)
	assert.Equal(t, -1, h.Index())

	got, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, snap("a"), got)
}

func TestHistory_RecordTruncatesRedoTail(t *testing.T) {
	h := NewHistory()
	h.Record(snap("a"))
	h.Record(snap("a", "b"))
	h.Record(snap("a", "b", "c"))
	h.Undo()
	h.Undo()

	h.Record(snap("x"))

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, 1, h.Index())
	assert.False(t, h.CanRedo())
	assert.Equal(t, []Snapshot{snap("a"), snap("x")}, h.Entries())
}

func TestHistory_EntriesAreCopies(t *testing.T) {
	h := NewHistory()
	s := snap("a")
	h.Record(s)
	s.Cards[0].ID = "changed"

	entries := h.Entries()
	entries[0].Cards[0].ID = "also changed"

	assert.Equal(t, "a", h.Current().Cards[0].ID)
}

func TestHistory_Replace(t *testing.T) {
	tests := []struct {
		name      string
		index     int
		wantIndex int
	}{
		{"in range", 0, 0},
		{"before first", -1, -1},
		{"too large", 7, 1},
		{"too small", -5, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHistory()
			h.Replace([]Snapshot{snap("a"), snap("a", "b")}, tt.index)
			assert.Equal(t, tt.wantIndex, h.Index())
			assert.Equal(t, 2, h.Len())
		})
	}

	h := NewHistory()
	h.Replace(nil, 3)
	assert.Equal(t, -1, h.Index())
}
