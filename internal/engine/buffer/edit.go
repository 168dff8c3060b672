package buffer

import "fmt"

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewEdit creates a new Edit.
func NewEdit(r Range, newText string) Edit {
	return Edit{Range: r, NewText: newText}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// Delta returns the change in buffer length caused by this edit.
func (e Edit) Delta() ByteOffset {
	return len(e.NewText) - e.Range.Len()
}

// EditResult contains information about an applied edit.
type EditResult struct {
	OldRange Range  // The original range that was modified
	NewRange Range  // The resulting range after all edits of the batch
	OldText  string // The text that was replaced
}

// TransformOffset maps an offset taken before edits were applied to the
// position it has afterwards. Offsets inside a replaced range move to the
// end of its replacement.
func TransformOffset(offset ByteOffset, edits []Edit) ByteOffset {
	shift := 0
	for _, e := range edits {
		switch {
		case e.Range.End <= offset && !(e.Range.IsEmpty() && e.Range.Start == offset):
			shift += e.Delta()
		case e.Range.Start < offset:
			shift += e.Range.Start + len(e.NewText) - offset
		}
	}
	return offset + shift
}
