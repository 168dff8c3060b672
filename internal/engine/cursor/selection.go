package cursor

import (
	"fmt"

	"github.com/dshills/numconv/internal/engine/buffer"
)

// ByteOffset is an alias for buffer.ByteOffset for convenience.
type ByteOffset = buffer.ByteOffset

// Range is an alias for buffer.Range for convenience.
type Range = buffer.Range

// Selection represents a range of selected text.
// Selection is an immutable value type.
type Selection struct {
	Anchor ByteOffset // Where selection started
	Head   ByteOffset // Current cursor position
}

// NewSelection creates a selection from anchor to head.
func NewSelection(anchor, head ByteOffset) Selection {
	return Selection{Anchor: anchor, Head: head}
}

// NewCursorSelection creates a selection representing just a cursor.
func NewCursorSelection(offset ByteOffset) Selection {
	return Selection{Anchor: offset, Head: offset}
}

// NewRangeSelection creates a forward selection covering the given range.
func NewRangeSelection(r Range) Selection {
	return Selection{Anchor: r.Start, Head: r.End}
}

// IsEmpty returns true if the selection has no extent (just a cursor).
func (s Selection) IsEmpty() bool {
	return s.Anchor == s.Head
}

// IsBackward returns true if head is before anchor.
func (s Selection) IsBackward() bool {
	return s.Head < s.Anchor
}

// Range returns the selection as a range (always Start <= End).
func (s Selection) Range() Range {
	if s.Anchor <= s.Head {
		return Range{Start: s.Anchor, End: s.Head}
	}
	return Range{Start: s.Head, End: s.Anchor}
}

// Start returns the lower bound of the selection.
func (s Selection) Start() ByteOffset {
	return s.Range().Start
}

// End returns the upper bound of the selection.
func (s Selection) End() ByteOffset {
	return s.Range().End
}

// Remap returns the selection after edits were applied. A selection that
// was replaced by an edit covers the replacement, keeping its direction;
// a cursor inside a replaced number lands at the end of the new text.
func (s Selection) Remap(edits []buffer.Edit) Selection {
	if !s.IsEmpty() {
		r := s.Range()
		for _, e := range edits {
			if e.Range.Start <= r.Start && r.End <= e.Range.End {
				start := buffer.TransformOffset(e.Range.Start, edits)
				covered := Range{Start: start, End: start + len(e.NewText)}
				if s.IsBackward() {
					return Selection{Anchor: covered.End, Head: covered.Start}
				}
				return NewRangeSelection(covered)
			}
		}
	}
	return Selection{
		Anchor: buffer.TransformOffset(s.Anchor, edits),
		Head:   buffer.TransformOffset(s.Head, edits),
	}
}

// String returns a string representation of the selection.
func (s Selection) String() string {
	if s.IsEmpty() {
		return fmt.Sprintf("Cursor(%d)", s.Head)
	}
	dir := "→"
	if s.IsBackward() {
		dir = "←"
	}
	return fmt.Sprintf("Selection(%d%s%d)", s.Anchor, dir, s.Head)
}
