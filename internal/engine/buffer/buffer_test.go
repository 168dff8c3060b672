package buffer

import (
	"errors"
	"strings"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	b := NewBuffer()
	if !b.IsEmpty() {
		t.Error("new buffer should be empty")
	}
	if b.LineCount() != 1 {
		t.Errorf("expected 1 line, got %d", b.LineCount())
	}

	r, err := NewBufferFromReader(strings.NewReader("a\nb"))
	if err != nil {
		t.Fatalf("NewBufferFromReader() error = %v", err)
	}
	if r.Text() != "a\nb" || r.LineCount() != 2 {
		t.Errorf("reader buffer = %q, %d lines", r.Text(), r.LineCount())
	}
}

func TestBufferTextRange(t *testing.T) {
	b := NewBufferFromString("Hello, World!")
	tests := []struct {
		start, end int
		want       string
	}{
		{0, 5, "Hello"},
		{7, 13, "World!"},
		{-3, 2, "He"},
		{10, 99, "ld!"},
		{5, 2, ""},
	}
	for _, tt := range tests {
		if got := b.TextRange(tt.start, tt.end); got != tt.want {
			t.Errorf("TextRange(%d, %d) = %q, want %q", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestBufferReplace(t *testing.T) {
	b := NewBufferFromString("x = 255")
	rev := b.RevisionID()

	end, err := b.Replace(4, 7, "0xff")
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}
	if end != 8 {
		t.Errorf("end = %d, want 8", end)
	}
	if b.Text() != "x = 0xff" {
		t.Errorf("Text() = %q", b.Text())
	}
	if b.RevisionID() == rev {
		t.Error("revision should change after Replace")
	}

	if _, err := b.Replace(5, 4, ""); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("Replace(5, 4) error = %v, want ErrRangeInvalid", err)
	}
	if _, err := b.Replace(0, 100, ""); !errors.Is(err, ErrRangeInvalid) {
		t.Errorf("Replace(0, 100) error = %v, want ErrRangeInvalid", err)
	}
}

func TestBufferApplyEdits(t *testing.T) {
	b := NewBufferFromString("x = 0x1f; y = 0b11")

	results, err := b.ApplyEdits([]Edit{
		NewEdit(NewRange(4, 8), "31"),
		NewEdit(NewRange(14, 18), "3"),
	})
	if err != nil {
		t.Fatalf("ApplyEdits() error = %v", err)
	}
	if b.Text() != "x = 31; y = 3" {
		t.Errorf("Text() = %q", b.Text())
	}

	want := []EditResult{
		{OldRange: NewRange(4, 8), NewRange: NewRange(4, 6), OldText: "0x1f"},
		{OldRange: NewRange(14, 18), NewRange: NewRange(12, 13), OldText: "0b11"},
	}
	for i := range want {
		if results[i] != want[i] {
			t.Errorf("results[%d] = %+v, want %+v", i, results[i], want[i])
		}
	}
}

func TestBufferApplyEditsRejects(t *testing.T) {
	tests := []struct {
		name  string
		edits []Edit
		want  error
	}{
		{"overlap", []Edit{NewEdit(NewRange(0, 4), "a"), NewEdit(NewRange(3, 6), "b")}, ErrEditsOverlap},
		{"same start", []Edit{NewEdit(NewRange(2, 2), "a"), NewEdit(NewRange(2, 4), "b")}, ErrEditsOverlap},
		{"out of range", []Edit{NewEdit(NewRange(0, 40), "a")}, ErrRangeInvalid},
		{"inverted", []Edit{NewEdit(NewRange(4, 2), "a")}, ErrRangeInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBufferFromString("0123456789")
			_, err := b.ApplyEdits(tt.edits)
			if !errors.Is(err, tt.want) {
				t.Errorf("ApplyEdits() error = %v, want %v", err, tt.want)
			}
			if b.Text() != "0123456789" {
				t.Errorf("buffer modified on error: %q", b.Text())
			}
		})
	}
}

func TestBufferApplyEditsAdjacent(t *testing.T) {
	b := NewBufferFromString("aabb")
	if _, err := b.ApplyEdits([]Edit{NewEdit(NewRange(2, 4), "B"), NewEdit(NewRange(0, 2), "A")}); err != nil {
		t.Fatalf("ApplyEdits() error = %v", err)
	}
	if b.Text() != "AB" {
		t.Errorf("Text() = %q, want AB", b.Text())
	}
}

func TestOffsetToPoint(t *testing.T) {
	b := NewBufferFromString("ab\ncd\n\nef")
	tests := []struct {
		offset int
		want   Point
		str    string
	}{
		{0, Point{0, 0}, "1:1"},
		{2, Point{0, 2}, "1:3"},
		{3, Point{1, 0}, "2:1"},
		{7, Point{3, 0}, "4:1"},
		{99, Point{3, 2}, "4:3"},
	}
	for _, tt := range tests {
		got := b.OffsetToPoint(tt.offset)
		if got != tt.want || got.String() != tt.str {
			t.Errorf("OffsetToPoint(%d) = %v (%s), want %v (%s)", tt.offset, got, got, tt.want, tt.str)
		}
	}
}

func TestTransformOffset(t *testing.T) {
	edits := []Edit{
		NewEdit(NewRange(2, 4), "xyz"), // +1
		NewEdit(NewRange(10, 12), ""),  // -2
	}
	tests := []struct {
		offset, want int
	}{
		{0, 0},
		{2, 2},
		{3, 5},
		{4, 5},
		{8, 9},
		{11, 11},
		{12, 11},
		{20, 19},
	}
	for _, tt := range tests {
		if got := TransformOffset(tt.offset, edits); got != tt.want {
			t.Errorf("TransformOffset(%d) = %d, want %d", tt.offset, got, tt.want)
		}
	}
}

func TestRange(t *testing.T) {
	r := NewRange(2, 5)
	if r.Len() != 3 || r.IsEmpty() || !r.IsValid() {
		t.Errorf("range %s: Len=%d IsEmpty=%v IsValid=%v", r, r.Len(), r.IsEmpty(), r.IsValid())
	}
	if !r.Contains(2) || r.Contains(5) {
		t.Error("Contains should be [Start, End)")
	}
	if !r.Overlaps(NewRange(4, 8)) || r.Overlaps(NewRange(5, 8)) {
		t.Error("Overlaps wrong for adjacent ranges")
	}
	if !r.Overlaps(NewRange(3, 3)) || r.Overlaps(NewRange(5, 5)) {
		t.Error("Overlaps wrong for empty ranges")
	}
	if r.String() != "[2:5)" {
		t.Errorf("String() = %q", r.String())
	}
}
