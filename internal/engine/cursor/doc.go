// Package cursor provides the selections conversion commands act on.
//
// Selections use an anchor/head model where:
//   - Anchor: The position where the selection started
//   - Head: The current cursor position
//
// When Anchor == Head, the selection is a bare cursor. A command then
// converts the number around the cursor; otherwise it converts the
// selected text.
//
// CursorSet keeps selections in the order the host sent them, so results
// can be reported per selection. Remap moves them across applied edits.
package cursor
