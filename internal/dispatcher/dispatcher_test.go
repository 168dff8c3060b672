package dispatcher_test

import (
	"errors"
	"testing"

	"github.com/dshills/numconv/internal/dispatcher"
	"github.com/dshills/numconv/internal/dispatcher/execctx"
	"github.com/dshills/numconv/internal/dispatcher/handler"
	"github.com/dshills/numconv/internal/dispatcher/handlers/convert"
	"github.com/dshills/numconv/internal/engine/buffer"
	"github.com/dshills/numconv/internal/engine/cursor"
)

func TestDispatchConvert(t *testing.T) {
	d := dispatcher.New()
	d.RegisterNamespace(convert.NewHandler(nil))

	buf := buffer.NewBufferFromString("mask = 0xff")
	ctx := execctx.New().
		WithEngine(buf).
		WithCursors(cursor.NewCursorSet(cursor.NewCursorSelection(8)))

	r := d.Dispatch(handler.NewAction(convert.ActionHexToBin), ctx)
	if !r.IsOK() {
		t.Fatalf("status = %v, err = %v", r.Status, r.Error)
	}
	if got := buf.Text(); got != "mask = 11111111" {
		t.Errorf("text = %q", got)
	}
}

func TestDispatchNoHandler(t *testing.T) {
	d := dispatcher.New()
	d.RegisterNamespace(convert.NewHandler(nil))

	tests := []string{"unknown.action", "convert.hexToOct", "noNamespace"}
	for _, name := range tests {
		r := d.Dispatch(handler.NewAction(name), execctx.New())
		if !errors.Is(r.Error, dispatcher.ErrNoHandler) {
			t.Errorf("Dispatch(%q) error = %v, want ErrNoHandler", name, r.Error)
		}
	}
}

func TestDispatchFallback(t *testing.T) {
	d := dispatcher.New()
	d.SetFallback(handler.HandlerFunc(func(a handler.Action, _ *execctx.ExecutionContext) handler.Result {
		return handler.Success().WithMessage("fallback " + a.Name)
	}))

	r := d.Dispatch(handler.NewAction("other.thing"), execctx.New())
	if r.Message != "fallback other.thing" {
		t.Errorf("Message = %q", r.Message)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	d := dispatcher.New()
	d.SetFallback(handler.HandlerFunc(func(handler.Action, *execctx.ExecutionContext) handler.Result {
		panic("boom")
	}))

	r := d.Dispatch(handler.NewAction("x.y"), execctx.New())
	if !errors.Is(r.Error, dispatcher.ErrPanic) {
		t.Errorf("error = %v, want ErrPanic", r.Error)
	}
}

func TestNamespaces(t *testing.T) {
	d := dispatcher.New()
	d.RegisterNamespace(convert.NewHandler(nil))
	if got := d.Namespaces(); len(got) != 1 || got[0] != "convert" {
		t.Errorf("Namespaces() = %v", got)
	}
}

func TestExtractNames(t *testing.T) {
	tests := []struct {
		full, ns, name string
	}{
		{"convert.hexToDec", "convert", "hexToDec"},
		{"a.b.c", "a", "b.c"},
		{"plain", "", "plain"},
	}
	for _, tt := range tests {
		if got := dispatcher.ExtractNamespace(tt.full); got != tt.ns {
			t.Errorf("ExtractNamespace(%q) = %q, want %q", tt.full, got, tt.ns)
		}
		if got := dispatcher.ExtractActionName(tt.full); got != tt.name {
			t.Errorf("ExtractActionName(%q) = %q, want %q", tt.full, got, tt.name)
		}
	}
}
