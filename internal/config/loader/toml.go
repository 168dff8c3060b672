package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// IncludeKey names the settings key listing files merged beneath a file.
const IncludeKey = "@include"

// DefaultMaxIncludeDepth bounds nested includes.
const DefaultMaxIncludeDepth = 8

// ErrIncludeDepthExceeded indicates includes nested deeper than allowed.
var ErrIncludeDepthExceeded = errors.New("include depth exceeded")

// ErrIncludeCycle indicates a file includes itself, directly or not.
var ErrIncludeCycle = errors.New("include cycle")

// TOMLLoader loads a settings file and the files it includes.
type TOMLLoader struct {
	fs       FileSystem
	path     string
	maxDepth int
}

// NewTOMLLoader creates a loader for path on the OS file system.
func NewTOMLLoader(path string) *TOMLLoader {
	return NewTOMLLoaderWithFS(DefaultFS(), path)
}

// NewTOMLLoaderWithFS creates a loader for path on fsys.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fsys, path: path, maxDepth: DefaultMaxIncludeDepth}
}

// Path returns the file the loader reads.
func (l *TOMLLoader) Path() string {
	return l.path
}

// Load reads the configured file and resolves its includes. A missing
// file is not an error.
func (l *TOMLLoader) Load() (map[string]any, error) {
	if l.path == "" {
		return nil, nil
	}
	return l.load(l.path, l.maxDepth, map[string]bool{})
}

// Includes returns every file the configured file pulls in, including
// itself, so a watcher can follow them all. Missing files are listed too.
func (l *TOMLLoader) Includes() ([]string, error) {
	var out []string
	err := l.walk(l.path, l.maxDepth, map[string]bool{}, func(path string) {
		out = append(out, path)
	})
	return out, err
}

func (l *TOMLLoader) walk(path string, depth int, seen map[string]bool, visit func(string)) error {
	if path == "" || seen[path] {
		return nil
	}
	if depth <= 0 {
		return fmt.Errorf("%s: %w", path, ErrIncludeDepthExceeded)
	}
	seen[path] = true
	visit(path)

	settings, err := l.readFile(path)
	if err != nil || settings == nil {
		return err
	}
	includes, err := includeList(settings)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, inc := range includes {
		if err := l.walk(resolve(path, inc), depth-1, seen, visit); err != nil {
			return err
		}
	}
	return nil
}

func (l *TOMLLoader) load(path string, depth int, active map[string]bool) (map[string]any, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrIncludeDepthExceeded)
	}
	if active[path] {
		return nil, fmt.Errorf("%s: %w", path, ErrIncludeCycle)
	}

	settings, err := l.readFile(path)
	if err != nil || settings == nil {
		return settings, err
	}

	includes, err := includeList(settings)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	delete(settings, IncludeKey)
	if len(includes) == 0 {
		return settings, nil
	}

	active[path] = true
	defer delete(active, path)

	// Included files sit beneath the including file.
	merged := map[string]any{}
	for _, inc := range includes {
		incPath := resolve(path, inc)
		sub, err := l.load(incPath, depth-1, active)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		merged = DeepMerge(merged, sub)
	}
	return DeepMerge(merged, settings), nil
}

func (l *TOMLLoader) readFile(path string) (map[string]any, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}
	return Parse(path, data)
}

// LoadFromReader parses settings from r. Includes are not resolved.
func LoadFromReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	return Parse("<reader>", data)
}

// Parse decodes TOML settings. source names the input in errors.
func Parse(source string, data []byte) (map[string]any, error) {
	settings := map[string]any{}
	if err := toml.Unmarshal(data, &settings); err != nil {
		pe := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			pe.Line, pe.Column = derr.Position()
		}
		return nil, pe
	}
	return settings, nil
}

func includeList(settings map[string]any) ([]string, error) {
	raw, ok := settings[IncludeKey]
	if !ok {
		return nil, nil
	}
	switch v := raw.(type) {
	case string:
		return []string{v}, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s entries must be strings, got %T", IncludeKey, item)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("%s must be a string or array of strings, got %T", IncludeKey, raw)
}

func resolve(from, inc string) string {
	if filepath.IsAbs(inc) {
		return inc
	}
	return filepath.Join(filepath.Dir(from), inc)
}

// ParseError reports a malformed settings file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DeepMerge merges src into dst and returns dst. Nested tables merge
// key by key; any other src value replaces the dst value.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, sv := range src {
		sm, srcIsMap := sv.(map[string]any)
		dm, dstIsMap := dst[key].(map[string]any)
		if srcIsMap && dstIsMap {
			dst[key] = DeepMerge(dm, sm)
			continue
		}
		if srcIsMap {
			dst[key] = DeepMerge(nil, sm)
			continue
		}
		dst[key] = sv
	}
	return dst
}
