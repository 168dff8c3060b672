package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/numconv/internal/config/loader"
	"github.com/dshills/numconv/internal/convert"
)

// ProjectFileName is the settings file looked up in a workspace.
const ProjectFileName = ".numconv.toml"

// Change describes a settings reload delivered to OnChange observers.
type Change struct {
	// Revision is the store revision after the change.
	Revision uint64
	// Source identifies what triggered the change, e.g. a file path.
	Source string
}

// Observer is called after the settings changed.
type Observer func(Change)

// Store holds the settings layers and the compiled tables derived from
// them.
type Store struct {
	mu sync.RWMutex

	fs        loader.FileSystem
	userFile  string
	project   string
	envPrefix string
	environ   []string
	overrides map[string]any
	logger    *zap.Logger

	layers   []Layer
	merged   map[string]any
	revision uint64
	tables   map[string]*compiled

	obsMu     sync.Mutex
	observers map[uint64]Observer
	nextObs   uint64
}

type compiled struct {
	table *convert.Table
	err   error
}

// Option configures a Store.
type Option func(*Store)

// WithUserFile sets the user settings file.
func WithUserFile(path string) Option {
	return func(s *Store) {
		s.userFile = path
	}
}

// WithProjectFile sets the project settings file.
func WithProjectFile(path string) Option {
	return func(s *Store) {
		s.project = path
	}
}

// WithProjectDir looks for ProjectFileName in dir.
func WithProjectDir(dir string) Option {
	return func(s *Store) {
		if dir != "" {
			s.project = filepath.Join(dir, ProjectFileName)
		}
	}
}

// WithEnvPrefix sets the environment variable prefix. An empty prefix
// disables the environment layer.
func WithEnvPrefix(prefix string) Option {
	return func(s *Store) {
		s.envPrefix = prefix
	}
}

// WithEnviron replaces os.Environ for the environment layer.
func WithEnviron(env []string) Option {
	return func(s *Store) {
		s.environ = env
	}
}

// WithOverrides sets the highest priority layer.
func WithOverrides(values map[string]any) Option {
	return func(s *Store) {
		s.overrides = loader.DeepMerge(nil, values)
	}
}

// WithFS sets the file system used to read settings files.
func WithFS(fsys loader.FileSystem) Option {
	return func(s *Store) {
		s.fs = fsys
	}
}

// WithLogger sets the logger used for reload and pattern diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a store. Until Load is called it serves the built-in
// defaults.
func New(opts ...Option) *Store {
	s := &Store{
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
		logger:    zap.NewNop(),
		observers: make(map[uint64]Observer),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.layers = []Layer{{Source: SourceBuiltin, Data: Defaults()}}
	if s.overrides != nil {
		s.layers = append(s.layers, Layer{Source: SourceOverride, Data: s.overrides})
	}
	s.merged = mergeLayers(s.layers)
	s.tables = make(map[string]*compiled)
	return s
}

// DefaultUserFile returns $XDG_CONFIG_HOME/numconv/settings.toml, falling
// back to ~/.config.
func DefaultUserFile() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "numconv", "settings.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "numconv", "settings.toml")
}

// Load reads every layer. On failure the previously loaded settings stay
// in effect and the error names the failing layer.
func (s *Store) Load(_ context.Context) error {
	layers, err := s.readLayers()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.layers = layers
	s.merged = mergeLayers(layers)
	s.revision++
	s.tables = make(map[string]*compiled)
	rev := s.revision
	s.mu.Unlock()

	s.logger.Debug("settings loaded",
		zap.Uint64("revision", rev),
		zap.Int("layers", len(layers)),
	)
	return nil
}

// Reload re-reads every layer and notifies observers on success.
func (s *Store) Reload(ctx context.Context, source string) error {
	if err := s.Load(ctx); err != nil {
		s.logger.Warn("settings reload failed", zap.String("source", source), zap.Error(err))
		return err
	}
	s.notify(Change{Revision: s.Revision(), Source: source})
	return nil
}

func (s *Store) readLayers() ([]Layer, error) {
	layers := []Layer{{Source: SourceBuiltin, Data: Defaults()}}

	files := []struct {
		source Source
		path   string
	}{
		{SourceUser, s.userFile},
		{SourceProject, s.project},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		data, err := loader.NewTOMLLoaderWithFS(s.fs, f.path).Load()
		if err != nil {
			return nil, &LoadError{Layer: f.source.String(), Path: f.path, Err: err}
		}
		if data != nil {
			layers = append(layers, Layer{Source: f.source, Path: f.path, Data: data})
		}
	}

	if s.envPrefix != "" {
		env := loader.NewEnvLoader(s.envPrefix)
		if s.environ != nil {
			env = loader.NewEnvLoaderFrom(s.envPrefix, s.environ)
		}
		data, err := env.Load()
		if err != nil {
			return nil, &LoadError{Layer: SourceEnv.String(), Err: err}
		}
		if data != nil {
			layers = append(layers, Layer{Source: SourceEnv, Data: data})
		}
	}

	if s.overrides != nil {
		layers = append(layers, Layer{Source: SourceOverride, Data: s.overrides})
	}
	return layers, nil
}

// Revision increases every time the settings are loaded.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Layers returns a snapshot of the loaded layers in priority order.
func (s *Store) Layers() []Layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Layer, len(s.layers))
	for i, l := range s.layers {
		out[i] = Layer{Source: l.Source, Path: l.Path, Data: loader.DeepMerge(nil, l.Data)}
	}
	return out
}

// Files returns every settings file the store reads, includes too, so a
// watcher can follow them. Files that do not exist yet are listed.
func (s *Store) Files() []string {
	var out []string
	for _, path := range []string{s.userFile, s.project} {
		if path == "" {
			continue
		}
		files, err := loader.NewTOMLLoaderWithFS(s.fs, path).Includes()
		if err != nil {
			s.logger.Debug("listing settings includes", zap.String("path", path), zap.Error(err))
			out = append(out, path)
			continue
		}
		out = append(out, files...)
	}
	return out
}

// Settings returns the effective settings for syntax. An empty syntax
// gives the global settings.
func (s *Store) Settings(syntax string) Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return resolve(s.merged, syntax)
}

// Table returns the compiled table for syntax. The table is always usable;
// the error joins every pattern and policy problem found, and those
// are logged once per syntax and revision.
func (s *Store) Table(syntax string) (*convert.Table, error) {
	key := normalizeSyntax(syntax)

	s.mu.RLock()
	c, ok := s.tables[key]
	s.mu.RUnlock()
	if ok {
		return c.table, c.err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.tables[key]; ok {
		return c.table, c.err
	}

	spec, errs := SpecFrom(resolve(s.merged, key), key)
	table, err := convert.Compile(spec)
	if err != nil {
		errs = append(errs, err)
	}
	c = &compiled{table: table, err: errors.Join(errs...)}
	s.tables[key] = c

	if c.err != nil {
		s.logger.Warn("invalid number settings",
			zap.String("syntax", key),
			zap.Uint64("revision", s.revision),
			zap.Error(c.err),
		)
	}
	return c.table, c.err
}

// Converter returns a converter over Table(syntax).
func (s *Store) Converter(syntax string) (*convert.Converter, error) {
	table, err := s.Table(syntax)
	return convert.New(table), err
}

// OnChange registers an observer for reloads. The returned function
// removes it.
func (s *Store) OnChange(fn Observer) (unsubscribe func()) {
	s.obsMu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.obsMu.Unlock()

	return func() {
		s.obsMu.Lock()
		delete(s.observers, id)
		s.obsMu.Unlock()
	}
}

func (s *Store) notify(change Change) {
	s.obsMu.Lock()
	observers := make([]Observer, 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.obsMu.Unlock()

	for _, fn := range observers {
		fn(change)
	}
}
