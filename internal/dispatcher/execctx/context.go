// Package execctx provides the execution context for action handlers.
package execctx

import (
	"github.com/dshills/numconv/internal/engine/buffer"
	"github.com/dshills/numconv/internal/engine/cursor"
)

// EngineInterface abstracts the text buffer for handlers.
type EngineInterface interface {
	Text() string
	TextRange(start, end buffer.ByteOffset) string
	Len() buffer.ByteOffset
	OffsetToPoint(offset buffer.ByteOffset) buffer.Point
	ApplyEdits(edits []buffer.Edit) ([]buffer.EditResult, error)
	RevisionID() buffer.RevisionID
}

// CursorManagerInterface abstracts selection state for handlers.
type CursorManagerInterface interface {
	Primary() cursor.Selection
	All() []cursor.Selection
	SetAll(sels []cursor.Selection)
	Count() int
	HasSelection() bool
	Clamp(maxOffset cursor.ByteOffset)
}

// ExecutionContext provides context for action execution.
type ExecutionContext struct {
	// Engine provides access to the text buffer.
	Engine EngineInterface

	// Cursors provides access to selection state.
	Cursors CursorManagerInterface

	// Buffer metadata
	FilePath string
	FileType string // syntax used to pick per-language settings
	ReadOnly bool

	// Data holds handler-specific context data.
	Data map[string]any
}

// New creates a new execution context.
func New() *ExecutionContext {
	return &ExecutionContext{
		Data: make(map[string]any),
	}
}

// WithEngine returns the context with the engine set.
func (ctx *ExecutionContext) WithEngine(engine EngineInterface) *ExecutionContext {
	ctx.Engine = engine
	return ctx
}

// WithCursors returns the context with cursors set.
func (ctx *ExecutionContext) WithCursors(cursors CursorManagerInterface) *ExecutionContext {
	ctx.Cursors = cursors
	return ctx
}

// WithFileType returns the context with the file type set.
func (ctx *ExecutionContext) WithFileType(fileType string) *ExecutionContext {
	ctx.FileType = fileType
	return ctx
}

// WithReadOnly returns the context with the read-only flag set.
func (ctx *ExecutionContext) WithReadOnly(readOnly bool) *ExecutionContext {
	ctx.ReadOnly = readOnly
	return ctx
}

// SetData sets a context data value.
func (ctx *ExecutionContext) SetData(key string, value any) {
	if ctx.Data == nil {
		ctx.Data = make(map[string]any)
	}
	ctx.Data[key] = value
}

// GetData retrieves a context data value.
func (ctx *ExecutionContext) GetData(key string) (any, bool) {
	if ctx.Data == nil {
		return nil, false
	}
	v, ok := ctx.Data[key]
	return v, ok
}

// GetDataString retrieves a string value from context data.
func (ctx *ExecutionContext) GetDataString(key string) string {
	if v, ok := ctx.GetData(key); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Validate checks that the context has all required components.
func (ctx *ExecutionContext) Validate() error {
	if ctx.Engine == nil {
		return ErrMissingEngine
	}
	return nil
}

// ValidateForEdit checks that the context is valid for editing operations.
func (ctx *ExecutionContext) ValidateForEdit() error {
	if err := ctx.Validate(); err != nil {
		return err
	}
	if ctx.Cursors == nil {
		return ErrMissingCursors
	}
	if ctx.ReadOnly {
		return ErrReadOnly
	}
	return nil
}
