package config

import (
	"github.com/dshills/numconv/internal/config/loader"
	"github.com/dshills/numconv/internal/convert"
)

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin represents the built-in default patterns and policy.
	SourceBuiltin Source = iota
	// SourceUser represents the user settings file.
	SourceUser
	// SourceProject represents the workspace settings file.
	SourceProject
	// SourceEnv represents environment variable overrides.
	SourceEnv
	// SourceOverride represents values set programmatically, e.g. CLI flags.
	SourceOverride
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceUser:
		return "user"
	case SourceProject:
		return "project"
	case SourceEnv:
		return "env"
	case SourceOverride:
		return "override"
	default:
		return "unknown"
	}
}

// Layer represents a single configuration layer. Layers are merged in
// Source order, later sources overriding earlier ones.
type Layer struct {
	Source Source
	// Path is the file path, if the layer came from a file.
	Path string
	// Data holds the settings as a nested map.
	Data map[string]any
}

// mergeLayers deep-merges layers in order into a fresh map.
func mergeLayers(layers []Layer) map[string]any {
	out := map[string]any{}
	for _, l := range layers {
		if l.Data != nil {
			loader.DeepMerge(out, l.Data)
		}
	}
	return out
}

// Defaults returns the built-in settings layer.
func Defaults() map[string]any {
	policy := convert.DefaultPolicy()
	data := map[string]any{
		KeyOverflow: policy.Overflow.String(),
		KeyNegative: policy.Negative.String(),
		KeyWidth:    int64(policy.Width),
	}
	for _, b := range convert.Bases() {
		p := convert.DefaultPatterns(b)
		data[convert.SourceKey(b)] = p.Source
		data[convert.DestKey(b)] = p.Dest
	}
	return data
}
