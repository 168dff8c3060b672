// Package main is the entry point for the numconv command.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/numconv/internal/convert"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK      = 0
	exitError   = 1
	exitNoMatch = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitOK
	}
	if msg := err.Error(); msg != "" {
		fmt.Fprintf(stderr, "Error: %s\n", msg)
	}
	return exitCode(err)
}

// exitCode maps an error to the process exit status: 2 when no number was
// found, 1 for everything else.
func exitCode(err error) int {
	var ee *exitStatusError
	if errors.As(err, &ee) {
		return ee.code
	}
	if errors.Is(err, convert.ErrNoMatch) {
		return exitNoMatch
	}
	return exitError
}

// exitStatusError carries an explicit exit status. An empty msg exits
// without printing an error.
type exitStatusError struct {
	code int
	msg  string
}

func (e *exitStatusError) Error() string {
	return e.msg
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "numconv",
		Short: "Convert numbers between binary, decimal, hexadecimal and exponential notation",
		Long: `numconv rewrites number literals in text between binary, decimal,
hexadecimal and exponential notation. Which text counts as a number and how
results are written is configured per language with regular expressions
and format templates.

Settings are read from ~/.config/numconv/settings.toml, from .numconv.toml
in the workspace and from NUMCONV_* environment variables.

Examples:
  # Convert the number at byte offset 6
  echo 'x = 0x1f;' | numconv convert --to dec --offset 6

  # Convert every hexadecimal number in a file
  numconv hex2dec main.c

  # Serve editor requests as JSON lines, reloading settings on change
  numconv serve --watch`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.register(rootCmd)

	rootCmd.AddCommand(
		newConvertCmd(opts),
		newServeCmd(opts),
		newLuaCmd(opts),
		newSettingsCmd(opts),
	)
	rootCmd.AddCommand(newShortcutCmds(opts)...)

	return rootCmd
}
