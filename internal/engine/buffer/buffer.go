package buffer

import (
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
	ErrEditsOverlap     = errors.New("edits overlap")
)

// Buffer holds the text the commands operate on.
// All methods are thread-safe.
type Buffer struct {
	mu         sync.RWMutex
	text       string
	revisionID RevisionID
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{revisionID: NewRevisionID()}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	b := NewBuffer()
	b.text = s
	return b
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// TextRange returns text in the given byte range. Out of range bounds are
// clamped.
func (b *Buffer) TextRange(start, end ByteOffset) string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	start = clamp(start, 0, len(b.text))
	end = clamp(end, start, len(b.text))
	return b.text[start:end]
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.text)
}

// IsEmpty returns true if the buffer is empty.
func (b *Buffer) IsEmpty() bool {
	return b.Len() == 0
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Count(b.text, "\n") + 1
}

// OffsetToPoint converts a byte offset to a line and column.
func (b *Buffer) OffsetToPoint(offset ByteOffset) Point {
	b.mu.RLock()
	defer b.mu.RUnlock()
	offset = clamp(offset, 0, len(b.text))
	before := b.text[:offset]
	line := strings.Count(before, "\n")
	return Point{Line: line, Column: offset - (strings.LastIndexByte(before, '\n') + 1)}
}

// Replace replaces text in the given range with new text.
// Returns the end position of the replacement text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (ByteOffset, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	r := Range{Start: start, End: end}
	if !r.IsValid() || end > len(b.text) {
		return 0, ErrRangeInvalid
	}
	b.text = b.text[:start] + text + b.text[end:]
	b.revisionID = NewRevisionID()
	return start + len(text), nil
}

// ApplyEdits applies multiple edits atomically. Edits may come in any
// order; they are applied from the highest offset down so earlier ranges
// stay valid. Overlapping edits, or two edits starting at the same
// offset, are rejected and nothing is applied.
// The results are in the order of edits.
func (b *Buffer) ApplyEdits(edits []Edit) ([]EditResult, error) {
	if len(edits) == 0 {
		return nil, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	order := make([]int, len(edits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return edits[order[i]].Range.Start > edits[order[j]].Range.Start
	})

	for _, e := range edits {
		if !e.Range.IsValid() || e.Range.End > len(b.text) {
			return nil, ErrRangeInvalid
		}
	}
	for i := 1; i < len(order); i++ {
		hi, lo := edits[order[i-1]].Range, edits[order[i]].Range
		if lo.End > hi.Start || lo.Start == hi.Start {
			return nil, ErrEditsOverlap
		}
	}

	results := make([]EditResult, len(edits))
	text := b.text
	for _, i := range order {
		e := edits[i]
		results[i] = EditResult{OldRange: e.Range, OldText: text[e.Range.Start:e.Range.End]}
		text = text[:e.Range.Start] + e.NewText + text[e.Range.End:]
	}
	for i, e := range edits {
		start := TransformOffset(e.Range.Start, edits)
		results[i].NewRange = Range{Start: start, End: start + len(e.NewText)}
	}

	b.text = text
	b.revisionID = NewRevisionID()
	return results, nil
}

// RevisionID returns the current revision ID.
func (b *Buffer) RevisionID() RevisionID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revisionID
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
