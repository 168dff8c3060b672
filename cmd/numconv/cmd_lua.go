package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dshills/numconv/internal/plugin/lua"
)

func newLuaCmd(opts *globalOptions) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "lua script.lua [file|-]",
		Short: "Run a Lua script with the numconv module",
		Long: `Run a sandboxed Lua script. The global input holds the input text, read
from the file argument or from piped stdin. If the script sets the global
output, it is printed.

The numconv module offers convert, convert_range, convert_all and format;
offsets are 1-based like string.sub.

Example:
  -- upper.lua: rewrite every hex number as uppercase
  output = numconv.convert_all(input, "hex", "hex")

  numconv lua upper.lua main.c`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			var path, text string
			if len(args) == 2 {
				path = args[1]
			}
			if path != "" || !stdinIsTerminal(cmd) {
				if text, err = readInput(cmd, path); err != nil {
					return err
				}
			}

			state, err := lua.NewState(
				lua.WithTables(e.store),
				lua.WithSyntax(opts.syntaxFor(path)),
				lua.WithOutput(cmd.OutOrStdout()),
				lua.WithExecutionTimeout(timeout),
				lua.WithLogger(e.logger.Named("lua")),
			)
			if err != nil {
				return err
			}
			defer state.Close()

			state.SetString("input", text)
			if err := state.DoFile(commandContext(cmd), args[0]); err != nil {
				return err
			}
			if out, ok := state.GetString("output"); ok {
				fmt.Fprint(cmd.OutOrStdout(), out)
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", lua.DefaultExecutionTimeout, "abort the script after this long (0 disables)")

	return cmd
}

func stdinIsTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.InOrStdin().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
