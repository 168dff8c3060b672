package convert

import (
	"fmt"

	"go.uber.org/zap"

	core "github.com/dshills/numconv/internal/convert"
	"github.com/dshills/numconv/internal/dispatcher/execctx"
	"github.com/dshills/numconv/internal/dispatcher/handler"
	"github.com/dshills/numconv/internal/engine/buffer"
	"github.com/dshills/numconv/internal/engine/cursor"
)

// Action names for conversion commands.
const (
	ActionBinToDec = "convert.binToDec"
	ActionBinToHex = "convert.binToHex"
	ActionDecToBin = "convert.decToBin"
	ActionDecToHex = "convert.decToHex"
	ActionHexToBin = "convert.hexToBin"
	ActionHexToDec = "convert.hexToDec"
	ActionExpToDec = "convert.expToDec"
	ActionDecToExp = "convert.decToExp"
)

// ScopeAll is the "scope" argument value that converts the whole buffer.
const ScopeAll = "all"

// Result data keys.
const (
	DataSkipped   = "skipped"
	DataSaturated = "saturated"
	DataConverted = "converted"
)

type direction struct {
	from, to core.Base
}

var actions = map[string]direction{
	ActionBinToDec: {core.Binary, core.Decimal},
	ActionBinToHex: {core.Binary, core.Hexadecimal},
	ActionDecToBin: {core.Decimal, core.Binary},
	ActionDecToHex: {core.Decimal, core.Hexadecimal},
	ActionHexToBin: {core.Hexadecimal, core.Binary},
	ActionHexToDec: {core.Hexadecimal, core.Decimal},
	ActionExpToDec: {core.Exponential, core.Decimal},
	ActionDecToExp: {core.Decimal, core.Exponential},
}

// Actions returns every action name the handler serves, with its source
// and destination base.
func Actions() map[string][2]core.Base {
	out := make(map[string][2]core.Base, len(actions))
	for name, d := range actions {
		out[name] = [2]core.Base{d.from, d.to}
	}
	return out
}

// ActionFor returns the action converting from one base to another.
func ActionFor(from, to core.Base) (string, bool) {
	for name, d := range actions {
		if d.from == from && d.to == to {
			return name, true
		}
	}
	return "", false
}

// TableSource supplies the compiled table for a syntax.
type TableSource interface {
	Table(syntax string) (*core.Table, error)
}

// TableFunc adapts a function to TableSource.
type TableFunc func(syntax string) (*core.Table, error)

// Table implements TableSource.
func (f TableFunc) Table(syntax string) (*core.Table, error) {
	return f(syntax)
}

// Handler implements namespace-based conversion handling.
type Handler struct {
	tables TableSource
	logger *zap.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler creates a conversion handler. A nil source uses the
// built-in table for every syntax.
func NewHandler(tables TableSource, opts ...Option) *Handler {
	if tables == nil {
		tables = TableFunc(func(string) (*core.Table, error) {
			return core.DefaultTable(), nil
		})
	}
	h := &Handler{tables: tables, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Namespace returns the convert namespace.
func (h *Handler) Namespace() string {
	return "convert"
}

// CanHandle returns true if this handler can process the action.
func (h *Handler) CanHandle(actionName string) bool {
	_, ok := actions[actionName]
	return ok
}

// HandleAction processes a conversion action.
func (h *Handler) HandleAction(action handler.Action, ctx *execctx.ExecutionContext) handler.Result {
	dir, ok := actions[action.Name]
	if !ok {
		return handler.Errorf("unknown convert action: %s", action.Name)
	}
	if err := ctx.ValidateForEdit(); err != nil {
		return handler.Error(err)
	}

	table, err := h.tables.Table(ctx.FileType)
	if table == nil {
		return handler.Errorf("convert: no table for %q: %v", ctx.FileType, err)
	}
	if err != nil {
		h.logger.Debug("using table with invalid settings", zap.String("syntax", ctx.FileType), zap.Error(err))
	}
	conv := core.New(table)

	if action.ArgString("scope") == ScopeAll {
		return h.convertAll(conv, dir, ctx)
	}
	return h.convertSelections(conv, dir, ctx)
}

func (h *Handler) convertSelections(conv *core.Converter, dir direction, ctx *execctx.ExecutionContext) handler.Result {
	text := ctx.Engine.Text()
	ctx.Cursors.Clamp(len(text))
	sels := ctx.Cursors.All()

	targets := make([]core.Span, len(sels))
	for i, sel := range sels {
		if sel.IsEmpty() {
			targets[i] = core.At(sel.Head)
		} else {
			targets[i] = core.Between(sel.Start(), sel.End())
		}
	}

	batch := conv.ConvertAll(text, targets, dir.to, dir.from)
	if batch.Err != nil {
		h.logger.Debug("skipped selections",
			zap.Stringer("from", dir.from),
			zap.Int("skipped", batch.Skipped),
			zap.Error(batch.Err),
		)
	}
	message := skipMessage(batch.Skipped, dir.from)
	if len(batch.Edits) == 0 {
		return handler.NoOpWithMessage(message).WithData(DataSkipped, batch.Skipped)
	}

	edits := make([]buffer.Edit, len(batch.Edits))
	saturated := 0
	for i, e := range batch.Edits {
		edits[i] = buffer.NewEdit(buffer.NewRange(e.Start, e.End), e.NewText)
		if e.Saturated {
			saturated++
		}
	}

	applied, err := ctx.Engine.ApplyEdits(edits)
	if err != nil {
		return handler.Error(fmt.Errorf("convert: applying edits: %w", err))
	}

	remapped := make([]cursor.Selection, len(sels))
	for i, sel := range sels {
		remapped[i] = sel.Remap(edits)
	}
	ctx.Cursors.SetAll(remapped)

	return handler.Success().
		WithMessage(message).
		WithEdits(resultEdits(edits, applied)).
		WithData(DataSkipped, batch.Skipped).
		WithData(DataSaturated, saturated).
		WithData(DataConverted, len(edits))
}

func (h *Handler) convertAll(conv *core.Converter, dir direction, ctx *execctx.ExecutionContext) handler.Result {
	text := ctx.Engine.Text()
	out, n, err := conv.ConvertText(text, dir.from, dir.to)
	if err != nil {
		h.logger.Debug("numbers left unconverted", zap.Stringer("from", dir.from), zap.Error(err))
	}
	if n == 0 {
		if err != nil {
			return handler.Error(err)
		}
		return handler.NoOpWithMessage(fmt.Sprintf("No %s values found", dir.from))
	}

	edits := []buffer.Edit{buffer.NewEdit(buffer.NewRange(0, len(text)), out)}
	applied, applyErr := ctx.Engine.ApplyEdits(edits)
	if applyErr != nil {
		return handler.Error(fmt.Errorf("convert: applying edits: %w", applyErr))
	}
	ctx.Cursors.Clamp(len(out))

	return handler.Success().
		WithMessage(fmt.Sprintf("Converted %d %s value(s)", n, dir.from)).
		WithEdits(resultEdits(edits, applied)).
		WithData(DataConverted, n)
}

// skipMessage is the status line shown when selections held no valid
// number of the source base.
func skipMessage(skipped int, from core.Base) string {
	if skipped == 0 {
		return ""
	}
	return fmt.Sprintf("Skipped %d invalid %s value(s)!", skipped, from)
}

func resultEdits(edits []buffer.Edit, applied []buffer.EditResult) []handler.Edit {
	out := make([]handler.Edit, len(edits))
	for i, e := range edits {
		out[i] = handler.Edit{
			Range:    e.Range,
			NewRange: applied[i].NewRange,
			NewText:  e.NewText,
			OldText:  applied[i].OldText,
		}
	}
	return out
}
