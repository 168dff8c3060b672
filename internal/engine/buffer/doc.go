// Package buffer provides the thread-safe text buffer that conversion
// commands edit.
//
// The buffer package provides:
//
//   - Thread-safe read/write access via sync.RWMutex
//   - Atomic multi-edit application with overlap detection
//   - Offset to line/column conversion for diagnostics
//   - Revision tracking for change management
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("x = 0x1f; y = 0b11")
//
//	results, err := buf.ApplyEdits([]buffer.Edit{
//	    buffer.NewEdit(buffer.NewRange(4, 8), "31"),
//	    buffer.NewEdit(buffer.NewRange(14, 18), "3"),
//	})
//	// buf.Text() == "x = 31; y = 3"
//	// results[1].NewRange == [12:13)
//
// All offsets are byte offsets into the UTF-8 text.
package buffer
