package execctx

import (
	"testing"

	"github.com/dshills/numconv/internal/engine/buffer"
	"github.com/dshills/numconv/internal/engine/cursor"
)

func TestValidateForEdit(t *testing.T) {
	tests := []struct {
		name string
		ctx  *ExecutionContext
		want error
	}{
		{"empty", New(), ErrMissingEngine},
		{"no cursors", New().WithEngine(buffer.NewBuffer()), ErrMissingCursors},
		{"read only", New().WithEngine(buffer.NewBuffer()).WithCursors(cursor.NewCursorSet()).WithReadOnly(true), ErrReadOnly},
		{"ok", New().WithEngine(buffer.NewBuffer()).WithCursors(cursor.NewCursorSet()), nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ctx.ValidateForEdit(); err != tt.want {
				t.Errorf("ValidateForEdit() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestContextData(t *testing.T) {
	ctx := &ExecutionContext{}
	if _, ok := ctx.GetData("missing"); ok {
		t.Error("GetData on nil map should report missing")
	}
	ctx.SetData("syntax", "vhdl")
	ctx.SetData("count", 3)
	if got := ctx.GetDataString("syntax"); got != "vhdl" {
		t.Errorf("GetDataString(syntax) = %q", got)
	}
	if got := ctx.GetDataString("count"); got != "" {
		t.Errorf("GetDataString(count) = %q, want empty", got)
	}
	if New().WithFileType("go").FileType != "go" {
		t.Error("WithFileType did not set FileType")
	}
}
