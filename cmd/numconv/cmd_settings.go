package main

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

func newSettingsCmd(opts *globalOptions) *cobra.Command {
	var files bool

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Print the effective settings",
		Long: `Print the settings in effect for --syntax as TOML, after merging the
built-in defaults, the user file, the workspace file and the environment.

With --files, list the layers and the files they were read from instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := opts.setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()

			out := cmd.OutOrStdout()
			if files {
				for _, l := range e.store.Layers() {
					if l.Path != "" {
						fmt.Fprintf(out, "%-8s %s\n", l.Source, l.Path)
					} else {
						fmt.Fprintf(out, "%s\n", l.Source)
					}
				}
				return nil
			}

			settings := e.store.Settings(opts.syntax)
			if _, err := e.store.Table(opts.syntax); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			data, err := toml.Marshal(map[string]any(settings))
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&files, "files", false, "list settings layers and files")

	return cmd
}
