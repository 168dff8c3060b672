package convert

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Edit describes a replacement the host applies to its buffer.
type Edit struct {
	// Span is the replaced range in the original text.
	Span
	// OldText is the matched text being replaced.
	OldText string
	// NewText is the rendered replacement.
	NewText string
	// From is the base the number was read in.
	From Base
	// To is the base it was written in.
	To Base
	// Saturated reports that the value was clamped to fit.
	Saturated bool
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	return fmt.Sprintf("Replace%s %q with %q (%s -> %s)", e.Span, e.OldText, e.NewText, e.From, e.To)
}

// Apply returns text with the edit applied.
func (e Edit) Apply(text string) string {
	return text[:e.Start] + e.NewText + text[e.End:]
}

// Delta returns the change in text length caused by the edit.
func (e Edit) Delta() int {
	return len(e.NewText) - e.Len()
}

// Converter converts numbers using a compiled Table.
type Converter struct {
	table *Table
}

// New creates a converter. A nil table selects DefaultTable.
func New(table *Table) *Converter {
	if table == nil {
		table = DefaultTable()
	}
	return &Converter{table: table}
}

// Table returns the converter's table.
func (c *Converter) Table() *Table {
	return c.table
}

// Convert finds the number targeted by span in text and renders it in base
// to. from optionally restricts which source formats are searched.
//
// It returns ErrNoMatch when nothing matches, an *OverflowError when the
// value does not fit, and wraps ErrBaseUnavailable when a needed format
// failed to load.
func (c *Converter) Convert(text string, target Span, to Base, from ...Base) (Edit, error) {
	m, err := c.table.Find(text, target, from...)
	if err != nil {
		return Edit{}, err
	}
	out, saturated, err := c.table.Render(m.Value, to)
	if err != nil {
		return Edit{}, err
	}
	return Edit{
		Span:      m.Span,
		OldText:   m.Text,
		NewText:   out,
		From:      m.Base,
		To:        to,
		Saturated: m.Saturated || saturated,
	}, nil
}

// Batch is the result of converting several targets in one text.
type Batch struct {
	// Edits are sorted by descending start so they can be applied in order
	// without shifting later offsets.
	Edits []Edit
	// Skipped counts targets that produced no edit.
	Skipped int
	// Err joins the reason for every skipped target.
	Err error
}

// ConvertAll converts each target independently. Targets resolving to the
// same number produce one edit; targets whose edits would overlap an
// earlier one are skipped.
func (c *Converter) ConvertAll(text string, targets []Span, to Base, from ...Base) Batch {
	var (
		b    Batch
		errs []error
	)
	for _, target := range targets {
		e, err := c.Convert(text, target, to, from...)
		if err != nil {
			b.Skipped++
			errs = append(errs, fmt.Errorf("%s: %w", target, err))
			continue
		}
		if dup, clash := overlapping(b.Edits, e.Span); dup {
			continue
		} else if clash {
			b.Skipped++
			errs = append(errs, fmt.Errorf("%s: %w", target, ErrOverlap))
			continue
		}
		b.Edits = append(b.Edits, e)
	}
	sort.SliceStable(b.Edits, func(i, j int) bool {
		return b.Edits[i].Start > b.Edits[j].Start
	})
	b.Err = errors.Join(errs...)
	return b
}

// overlapping reports whether span equals (dup) or overlaps (clash) the
// span of an accepted edit.
func overlapping(edits []Edit, span Span) (dup, clash bool) {
	for _, e := range edits {
		if e.Span == span {
			return true, false
		}
		if e.Span.Overlaps(span) {
			return false, true
		}
	}
	return false, false
}

// ApplyEdits applies edits sorted by descending start, as returned in a
// Batch.
func ApplyEdits(text string, edits []Edit) string {
	for _, e := range edits {
		text = e.Apply(text)
	}
	return text
}

// ConvertText rewrites every number matched by the source pattern of from
// into base to. It returns the new text and how many numbers were
// converted; numbers that fail to parse are left alone, and overflow
// failures are joined into err.
//
// Binary and hexadecimal matches without a prefix or suffix around their
// digits are only converted when they could not be read otherwise: plain
// decimal digits such as 10 stay decimal, and words starting with a letter
// such as add are identifiers.
func (c *Converter) ConvertText(text string, from, to Base) (string, int, error) {
	formats, err := c.table.sources([]Base{from})
	if err != nil {
		return text, 0, err
	}
	f := formats[0]

	var (
		out  strings.Builder
		last int
		n    int
		errs []error
	)
	for _, loc := range f.source.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] == loc[1] || ambiguous(f.base, text, loc) {
			continue
		}
		m, err := c.table.parseMatch(f, text, loc)
		if err != nil {
			if errors.Is(err, ErrOverflow) {
				errs = append(errs, err)
			}
			continue
		}
		rendered, _, err := c.table.Render(m.Value, to)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out.WriteString(text[last:loc[0]])
		out.WriteString(rendered)
		last = loc[1]
		n++
	}
	out.WriteString(text[last:])
	return out.String(), n, errors.Join(errs...)
}

// ambiguous reports whether a bare binary or hexadecimal match is more
// likely a decimal number or an identifier.
func ambiguous(base Base, text string, loc []int) bool {
	if base != Binary && base != Hexadecimal {
		return false
	}
	if loc[2] != loc[0] || loc[3] != loc[1] {
		return false
	}
	digits := text[loc[2]:loc[3]]
	if digits == "" || digits[0] < '0' || digits[0] > '9' {
		return true
	}
	return strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) < 0
}
