package cursor

// CursorSet holds the selections of one command invocation.
// The first selection is considered the "primary" selection.
type CursorSet struct {
	selections []Selection
}

// NewCursorSet creates a cursor set from selections, in order. An empty
// set holds a single cursor at offset 0.
func NewCursorSet(selections ...Selection) *CursorSet {
	cs := &CursorSet{}
	cs.SetAll(selections)
	return cs
}

// Primary returns the primary (first) selection.
func (cs *CursorSet) Primary() Selection {
	return cs.selections[0]
}

// All returns a copy of all selections.
func (cs *CursorSet) All() []Selection {
	out := make([]Selection, len(cs.selections))
	copy(out, cs.selections)
	return out
}

// Count returns the number of selections.
func (cs *CursorSet) Count() int {
	return len(cs.selections)
}

// SetAll replaces all selections.
func (cs *CursorSet) SetAll(sels []Selection) {
	if len(sels) == 0 {
		cs.selections = []Selection{NewCursorSelection(0)}
		return
	}
	cs.selections = make([]Selection, len(sels))
	copy(cs.selections, sels)
}

// HasSelection returns true if any selection has extent.
func (cs *CursorSet) HasSelection() bool {
	for _, s := range cs.selections {
		if !s.IsEmpty() {
			return true
		}
	}
	return false
}

// Clamp limits all selections to [0, maxOffset].
func (cs *CursorSet) Clamp(maxOffset ByteOffset) {
	clamp := func(v ByteOffset) ByteOffset {
		return max(0, min(v, maxOffset))
	}
	for i, s := range cs.selections {
		cs.selections[i] = Selection{Anchor: clamp(s.Anchor), Head: clamp(s.Head)}
	}
}
