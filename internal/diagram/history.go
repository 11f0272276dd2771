package diagram

// History is a linear undo log. Index -1 sits before the first entry and
// stands for the empty diagram.
type History struct {
	entries []Snapshot
	index   int
}

func NewHistory() *History {
	return &History{index: -1}
}

// Record drops any redo tail and appends snap as the new current entry.
func (h *History) Record(snap Snapshot) {
	h.entries = append(h.entries[:h.index+1], snap.clone())
	h.index = len(h.entries) - 1
}

func (h *History) CanUndo() bool {
	return h.index >= 0
}

func (h *History) CanRedo() bool {
	return h.index < len(h.entries)-1
}

// Undo steps back one entry and returns the snapshot that is now current.
func (h *History) Undo() (Snapshot, bool) {
	if !h.CanUndo() {
		return Snapshot{}, false
	}
	h.index--
	return h.Current(), true
}

func (h *History) Redo() (Snapshot, bool) {
	if !h.CanRedo() {
		return Snapshot{}, false
	}
	h.index++
	return h.Current(), true
}

// Current returns a copy of the snapshot at the index, or the empty
// diagram at index -1.
func (h *History) Current() Snapshot {
	if h.index < 0 {
		return newSnapshot(nil, nil)
	}
	return h.entries[h.index].clone()
}

func (h *History) Index() int {
	return h.index
}

func (h *History) Len() int {
	return len(h.entries)
}

// Entries returns copies of all recorded snapshots.
func (h *History) Entries() []Snapshot {
	out := make([]Snapshot, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.clone()
	}
	return out
}

// Replace swaps in a full history, as loaded from storage. An index outside
// [-1, len-1] is clamped to the last entry.
func (h *History) Replace(entries []Snapshot, index int) {
	h.entries = make([]Snapshot, len(entries))
	for i, e := range entries {
		h.entries[i] = e.clone()
	}
	if index < -1 || index >= len(h.entries) {
		index = len(h.entries) - 1
	}
	h.index = index
}

func (h *History) Reset() {
	h.entries = nil
	h.index = -1
}
