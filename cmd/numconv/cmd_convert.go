package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/numconv/internal/convert"
	"github.com/dshills/numconv/internal/dispatcher"
	"github.com/dshills/numconv/internal/dispatcher/execctx"
	"github.com/dshills/numconv/internal/dispatcher/handler"
	convhandler "github.com/dshills/numconv/internal/dispatcher/handlers/convert"
	"github.com/dshills/numconv/internal/engine/buffer"
	"github.com/dshills/numconv/internal/engine/cursor"
)

// targetFlags selects a cursor offset or a byte range in the input.
type targetFlags struct {
	offset int
	start  int
	end    int
}

func (t *targetFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&t.offset, "offset", "o", -1, "byte offset of the cursor")
	cmd.Flags().IntVar(&t.start, "start", -1, "start byte offset of the selection")
	cmd.Flags().IntVar(&t.end, "end", -1, "end byte offset of the selection (exclusive)")
}

// span returns the requested target; ok is false when none was given.
func (t *targetFlags) span() (span convert.Span, ok bool, err error) {
	hasRange := t.start >= 0 || t.end >= 0
	switch {
	case t.offset >= 0 && hasRange:
		return convert.Span{}, false, errors.New("use either --offset or --start/--end, not both")
	case t.offset >= 0:
		return convert.At(t.offset), true, nil
	case t.start >= 0 && t.end >= 0:
		return convert.Between(t.start, t.end), true, nil
	case hasRange:
		return convert.Span{}, false, errors.New("--start and --end must be given together")
	}
	return convert.Span{}, false, nil
}

func newConvertCmd(opts *globalOptions) *cobra.Command {
	var (
		to     string
		from   []string
		target targetFlags
	)

	cmd := &cobra.Command{
		Use:   "convert [file|-]",
		Short: "Convert the number at an offset or in a range",
		Long: `Convert the number at a cursor offset or inside a byte range and print
the resulting text.

Without --from every configured format is tried. When formats overlap the
narrowest match around the cursor wins. Without --offset or --start/--end
and with a single --from, every number of that base is converted.

Exits with status 2 when no number is found.

Examples:
  echo 'x = 0x1f;' | numconv convert --to dec --offset 6
  numconv convert --to hex --start 4 --end 6 main.go
  numconv convert --from dec --to exp data.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			toBase, err := convert.ParseBase(to)
			if err != nil {
				return err
			}
			var fromBases []convert.Base
			for _, name := range from {
				b, err := convert.ParseBase(name)
				if err != nil {
					return err
				}
				fromBases = append(fromBases, b)
			}
			span, hasTarget, err := target.span()
			if err != nil {
				return err
			}
			if !hasTarget && len(fromBases) != 1 {
				return errors.New("--offset, --start/--end or a single --from is required")
			}

			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			path := argOrEmpty(args)
			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			conv, _ := e.store.Converter(opts.syntaxFor(path))
			out := cmd.OutOrStdout()

			if !hasTarget {
				result, n, err := conv.ConvertText(text, fromBases[0], toBase)
				if n == 0 && err != nil {
					return err
				}
				if err != nil {
					e.logger.Warn("some numbers were not converted", zap.Error(err))
				}
				fmt.Fprint(out, result)
				if n == 0 {
					return &exitStatusError{code: exitNoMatch, msg: fmt.Sprintf("no %s numbers found", fromBases[0])}
				}
				return nil
			}

			edit, err := conv.Convert(text, span, toBase, fromBases...)
			if err != nil {
				if errors.Is(err, convert.ErrInvalidSpan) {
					return err
				}
				pt := buffer.NewBufferFromString(text).OffsetToPoint(span.Start)
				return fmt.Errorf("%s: %w", pt, err)
			}
			if edit.Saturated {
				e.logger.Warn("value saturated", zap.Stringer("edit", edit))
			}
			e.logger.Debug("converted", zap.Stringer("edit", edit))
			fmt.Fprint(out, edit.Apply(text))
			return nil
		},
	}

	cmd.Flags().StringVarP(&to, "to", "t", "", "destination base (bin, dec, hex, exp)")
	cmd.Flags().StringSliceVarP(&from, "from", "f", nil, "source bases to search (default all)")
	target.register(cmd)
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// newShortcutCmds creates one fixed-direction command per conversion
// action, e.g. hex2dec for convert.hexToDec.
func newShortcutCmds(opts *globalOptions) []*cobra.Command {
	actions := convhandler.Actions()
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)

	cmds := make([]*cobra.Command, 0, len(names))
	for _, name := range names {
		dir := actions[name]
		cmds = append(cmds, newShortcutCmd(opts, name, dir[0], dir[1]))
	}
	return cmds
}

func newShortcutCmd(opts *globalOptions, action string, from, to convert.Base) *cobra.Command {
	var target targetFlags

	cmd := &cobra.Command{
		Use:   from.Short() + "2" + to.Short() + " [file|-]",
		Short: fmt.Sprintf("Convert %s numbers to %s", from, to),
		Long: fmt.Sprintf(`Convert %[1]s numbers to %[2]s and print the resulting text.

With --offset the number around the cursor is converted, with --start and
--end the selection must hold exactly one number. Otherwise every %[1]s
number in the input is converted.

Exits with status 2 when nothing was converted.`, from, to),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			span, hasTarget, err := target.span()
			if err != nil {
				return err
			}

			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			path := argOrEmpty(args)
			text, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			if hasTarget {
				if err := span.Check(len(text)); err != nil {
					return err
				}
			}

			buf := buffer.NewBufferFromString(text)
			act := handler.NewAction(action)
			sel := cursor.NewCursorSelection(0)
			switch {
			case !hasTarget:
				act = act.WithArg("scope", convhandler.ScopeAll)
			case span.IsEmpty():
				sel = cursor.NewCursorSelection(span.Start)
			default:
				sel = cursor.NewSelection(span.Start, span.End)
			}

			ectx := execctx.New().
				WithEngine(buf).
				WithCursors(cursor.NewCursorSet(sel)).
				WithFileType(opts.syntaxFor(path))

			d := dispatcher.New(dispatcher.WithLogger(e.logger.Named("dispatcher")))
			d.RegisterNamespace(convhandler.NewHandler(e.store, convhandler.WithLogger(e.logger.Named("convert"))))

			result := d.Dispatch(act, ectx)
			if result.IsError() {
				return result.Error
			}
			if result.Message != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Message)
			}
			fmt.Fprint(cmd.OutOrStdout(), buf.Text())
			if result.Status == handler.StatusNoOp {
				return &exitStatusError{code: exitNoMatch}
			}
			return nil
		},
	}
	target.register(cmd)
	return cmd
}
