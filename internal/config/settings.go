package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/dshills/numconv/internal/config/loader"
	"github.com/dshills/numconv/internal/convert"
)

// Policy setting keys.
const (
	KeyOverflow = "overflow"
	KeyNegative = "negative"
	KeyWidth    = "width"

	// KeySyntax holds the per-syntax override tables.
	KeySyntax = "syntax"
)

// Settings is the flat, effective key/value view for one syntax.
type Settings map[string]any

// String returns a string setting. Numbers are formatted so env values
// such as NUMCONV_CONVERT_DST_DEC=0 still read as patterns.
func (s Settings) String(key string) (string, bool) {
	switch v := s[key].(type) {
	case string:
		return v, true
	case int64:
		return strconv.FormatInt(v, 10), true
	case nil:
		return "", false
	default:
		return fmt.Sprint(v), true
	}
}

// Int returns an integer setting.
func (s Settings) Int(key string) (int, bool, error) {
	switch v := s[key].(type) {
	case nil:
		return 0, false, nil
	case int64:
		return int(v), true, nil
	case int:
		return v, true, nil
	case float64:
		if v != float64(int(v)) {
			return 0, true, fmt.Errorf("%w: %v is not an integer", ErrTypeMismatch, v)
		}
		return int(v), true, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, true, fmt.Errorf("%w: %q is not an integer", ErrTypeMismatch, v)
		}
		return i, true, nil
	default:
		return 0, true, fmt.Errorf("%w: %T is not an integer", ErrTypeMismatch, v)
	}
}

// Keys returns the setting names in sorted order.
func (s Settings) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// resolve flattens merged settings for a syntax: global keys first, then
// the syntax table on top.
func resolve(merged map[string]any, syntax string) Settings {
	out := Settings{}
	for k, v := range merged {
		if k == KeySyntax || k == loader.IncludeKey {
			continue
		}
		if _, table := v.(map[string]any); table {
			continue
		}
		out[k] = v
	}
	if scope := syntaxTable(merged, syntax); scope != nil {
		for k, v := range scope {
			if _, table := v.(map[string]any); table {
				continue
			}
			out[k] = v
		}
	}
	return out
}

// syntaxTable finds the override table for syntax. Names are matched
// case-insensitively; a scope name like "source.vhdl" falls back to its
// last component.
func syntaxTable(merged map[string]any, syntax string) map[string]any {
	syntax = normalizeSyntax(syntax)
	if syntax == "" {
		return nil
	}
	tables, _ := merged[KeySyntax].(map[string]any)
	if tables == nil {
		return nil
	}
	lookup := func(name string) map[string]any {
		for k, v := range tables {
			if strings.EqualFold(k, name) {
				m, _ := v.(map[string]any)
				return m
			}
		}
		return nil
	}
	if m := lookup(syntax); m != nil {
		return m
	}
	if i := strings.LastIndexByte(syntax, '.'); i >= 0 && i < len(syntax)-1 {
		return lookup(syntax[i+1:])
	}
	return nil
}

func normalizeSyntax(syntax string) string {
	return strings.ToLower(strings.TrimSpace(syntax))
}

// SpecFrom builds a converter spec from effective settings. Invalid policy
// values are reported as *ValidationError and left at their defaults.
func SpecFrom(s Settings, syntax string) (convert.Spec, []error) {
	spec := convert.DefaultSpec()
	var errs []error
	invalid := func(key string, err error) {
		errs = append(errs, &ValidationError{Syntax: syntax, Key: key, Value: s[key], Err: err})
	}

	for _, b := range convert.Bases() {
		var p convert.Patterns
		if v, ok := s.String(convert.SourceKey(b)); ok {
			p.Source = v
		}
		if v, ok := s.String(convert.DestKey(b)); ok {
			p.Dest = v
		}
		spec.Formats[b] = p
	}

	if v, ok := s.String(KeyOverflow); ok {
		p, err := convert.ParseOverflowPolicy(v)
		if err != nil {
			invalid(KeyOverflow, err)
		} else {
			spec.Policy.Overflow = p
		}
	}
	if v, ok := s.String(KeyNegative); ok {
		p, err := convert.ParseNegativePolicy(v)
		if err != nil {
			invalid(KeyNegative, err)
		} else {
			spec.Policy.Negative = p
		}
	}
	if w, ok, err := s.Int(KeyWidth); err != nil {
		invalid(KeyWidth, err)
	} else if ok {
		probe := spec.Policy
		probe.Width = w
		if err := probe.Validate(); err != nil {
			invalid(KeyWidth, err)
		} else {
			spec.Policy.Width = w
		}
	}
	return spec, errs
}
