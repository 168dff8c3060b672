package convert

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Default source patterns and destination templates.
const (
	DefaultSourceBin = `\b(?:0b)?([01]+)\b`
	DefaultSourceDec = `(-?\b\d+(?:\.\d+)?)\b`
	DefaultSourceHex = `\b(?:0[xX])?([0-9a-fA-F]+)[hH]?\b`
	DefaultSourceExp = `\b(\d+\.\d+)[eE]([-+]?\d+)\b`

	DefaultDestBin = "{0:b}"
	DefaultDestDec = "{0}"
	DefaultDestHex = "{0:#x}"
	DefaultDestExp = "e"
)

// Patterns holds the raw source and destination pattern of one base.
// Empty strings select the defaults.
type Patterns struct {
	Source string
	Dest   string
}

// Spec is the uncompiled configuration of a Table.
type Spec struct {
	Formats map[Base]Patterns
	Policy  Policy
}

// DefaultSpec returns a Spec with every base at its default patterns.
func DefaultSpec() Spec {
	return Spec{
		Formats: map[Base]Patterns{},
		Policy:  DefaultPolicy(),
	}
}

// DefaultPatterns returns the built-in patterns for a base.
func DefaultPatterns(b Base) Patterns {
	switch b {
	case Binary:
		return Patterns{Source: DefaultSourceBin, Dest: DefaultDestBin}
	case Decimal:
		return Patterns{Source: DefaultSourceDec, Dest: DefaultDestDec}
	case Hexadecimal:
		return Patterns{Source: DefaultSourceHex, Dest: DefaultDestHex}
	case Exponential:
		return Patterns{Source: DefaultSourceExp, Dest: DefaultDestExp}
	}
	return Patterns{}
}

// Format is the compiled source and destination of one base.
type Format struct {
	base Base

	source *regexp.Regexp
	exact  *regexp.Regexp

	// dest renders values for integer bases and templated exponentials.
	dest *Template
	// sep joins mantissa and exponent when the exponential destination is
	// not a template.
	sep string
}

// Base returns the base of the format.
func (f *Format) Base() Base {
	return f.base
}

// Source returns the compiled source pattern, or nil if it failed to load.
func (f *Format) Source() *regexp.Regexp {
	return f.source
}

// Dest returns the destination pattern text.
func (f *Format) Dest() string {
	if f.dest != nil {
		return f.dest.String()
	}
	return f.sep
}

// CanMatch reports whether the source pattern loaded.
func (f *Format) CanMatch() bool {
	return f.source != nil
}

// CanRender reports whether the destination pattern loaded.
func (f *Format) CanRender() bool {
	return f.dest != nil || (f.base == Exponential && f.sep != "")
}

// Table is an immutable set of compiled formats and a numeric policy.
type Table struct {
	formats [numBases]Format
	policy  Policy
}

// Compile builds a Table from spec. It always returns a usable table;
// bases whose patterns fail to compile are disabled and every failure is
// reported as a *PatternError joined into err.
func Compile(spec Spec) (*Table, error) {
	t := &Table{policy: spec.Policy}
	var errs []error

	if t.policy.Width == 0 {
		t.policy.Width = 64
	}
	if err := t.policy.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("policy: %w", err))
		t.policy = DefaultPolicy()
	}

	for _, b := range Bases() {
		def := DefaultPatterns(b)
		p := spec.Formats[b]
		if p.Source == "" {
			p.Source = def.Source
		}
		if p.Dest == "" {
			p.Dest = def.Dest
		}

		f := &t.formats[b]
		f.base = b
		if err := f.compileSource(p.Source); err != nil {
			errs = append(errs, err)
		}
		if err := f.compileDest(p.Dest); err != nil {
			errs = append(errs, err)
		}
	}

	return t, errors.Join(errs...)
}

// MustCompile is like Compile but panics on error.
func MustCompile(spec Spec) *Table {
	t, err := Compile(spec)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTable returns a table with the built-in patterns.
func DefaultTable() *Table {
	return MustCompile(DefaultSpec())
}

func (f *Format) compileSource(pattern string) error {
	key := SourceKey(f.base)
	re, err := regexp.Compile(pattern)
	if err != nil {
		return &PatternError{Key: key, Pattern: pattern, Message: err.Error(), Err: err}
	}
	if want := f.base.groups(); re.NumSubexp() != want {
		return &PatternError{
			Key:     key,
			Pattern: pattern,
			Message: fmt.Sprintf("want %d capturing group(s), have %d", want, re.NumSubexp()),
		}
	}
	exact, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return &PatternError{Key: key, Pattern: pattern, Message: err.Error(), Err: err}
	}
	f.source = re
	f.exact = exact
	return nil
}

func (f *Format) compileDest(pattern string) error {
	key := DestKey(f.base)
	if f.base == Exponential && !strings.ContainsAny(pattern, "{}") {
		f.sep = pattern
		return nil
	}

	t, err := ParseTemplate(pattern, f.base.groups())
	if err != nil {
		return &PatternError{Key: key, Pattern: pattern, Message: err.Error(), Err: err}
	}
	if t.Fields() == 0 {
		return &PatternError{Key: key, Pattern: pattern, Message: "template has no replacement field"}
	}
	if f.base == Exponential {
		for _, seg := range t.segments {
			if seg.field && seg.spec.Verb != 'd' {
				return &PatternError{Key: key, Pattern: pattern, Message: "exponential fields take no format specifier"}
			}
		}
	}
	f.dest = t
	return nil
}

// Format returns the format for a base.
func (t *Table) Format(b Base) *Format {
	if !b.Valid() {
		return nil
	}
	return &t.formats[b]
}

// Policy returns the table's numeric policy.
func (t *Table) Policy() Policy {
	return t.policy
}

// sources returns the formats to search, in configuration order.
func (t *Table) sources(from []Base) ([]*Format, error) {
	var out []*Format
	if len(from) == 0 {
		for i := range t.formats {
			if t.formats[i].CanMatch() {
				out = append(out, &t.formats[i])
			}
		}
		if len(out) == 0 {
			return nil, ErrBaseUnavailable
		}
		return out, nil
	}

	for _, b := range Bases() {
		for _, want := range from {
			if want != b {
				continue
			}
			f := &t.formats[b]
			if !f.CanMatch() {
				return nil, fmt.Errorf("%s source: %w", b, ErrBaseUnavailable)
			}
			out = append(out, f)
			break
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no valid source base in %v: %w", from, ErrBaseUnavailable)
	}
	return out, nil
}
