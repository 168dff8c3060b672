package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/numconv/internal/config"
	"github.com/dshills/numconv/internal/logging"
)

// globalOptions holds the flags shared by every command.
type globalOptions struct {
	configPath string
	workspace  string
	syntax     string
	logLevel   string
	logFormat  string
}

func (o *globalOptions) register(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "", "user settings file (default ~/.config/numconv/settings.toml)")
	flags.StringVarP(&o.workspace, "workspace", "w", "", "workspace directory holding "+config.ProjectFileName+" (default current directory)")
	flags.StringVarP(&o.syntax, "syntax", "s", "", "language whose settings apply (default from the input file extension)")
	flags.StringVar(&o.logLevel, "log-level", "warn", "log level (debug, info, warn, error, off)")
	flags.StringVar(&o.logFormat, "log-format", "console", "log format (console, json)")
}

// env is what a command needs to run: a logger and loaded settings.
type env struct {
	logger *zap.Logger
	store  *config.Store
}

// setup builds the logger and loads the settings layers.
func (o *globalOptions) setup(cmd *cobra.Command) (*env, error) {
	level, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", o.logLevel, err)
	}
	cfg := logging.DefaultConfig()
	cfg.Level = level
	cfg.Format = o.logFormat
	cfg.Output = cmd.ErrOrStderr()
	logger, err := logging.New(cfg)
	if err != nil {
		return nil, err
	}

	userFile := o.configPath
	if userFile != "" {
		if _, err := os.Stat(userFile); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
	} else {
		userFile = config.DefaultUserFile()
	}

	workspace := o.workspace
	if workspace == "" {
		if workspace, err = os.Getwd(); err != nil {
			return nil, err
		}
	}

	store := config.New(
		config.WithUserFile(userFile),
		config.WithProjectDir(workspace),
		config.WithLogger(logger.Named("config")),
	)
	if err := store.Load(commandContext(cmd)); err != nil {
		return nil, err
	}
	logger.Debug("settings loaded",
		zap.Strings("files", store.Files()),
		zap.Uint64("revision", store.Revision()),
	)
	return &env{logger: logger, store: store}, nil
}

func (e *env) close() {
	_ = logging.Sync(e.logger)
}

// syntaxFor returns the --syntax flag, or the extension of the input file.
func (o *globalOptions) syntaxFor(path string) string {
	if o.syntax != "" || path == "" || path == "-" {
		return o.syntax
	}
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// readInput reads the named file, or standard input for "" and "-".
// Reading from an interactive terminal is refused.
func readInput(cmd *cobra.Command, path string) (string, error) {
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file %s: %w", path, err)
		}
		return string(data), nil
	}

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return "", fmt.Errorf("no input: pass a file or pipe text on stdin")
	}
	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("failed to read from stdin: %w", err)
	}
	return string(data), nil
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
