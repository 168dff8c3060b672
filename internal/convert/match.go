package convert

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Span is a half-open byte range [Start, End) within a text. An empty span
// is a cursor position.
type Span struct {
	Start int
	End   int
}

// At returns an empty span (a cursor) at offset.
func At(offset int) Span {
	return Span{Start: offset, End: offset}
}

// Between returns the span [start, end).
func Between(start, end int) Span {
	return Span{Start: start, End: end}
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}

// Len returns the length of the span in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsEmpty reports whether the span is a cursor.
func (s Span) IsEmpty() bool {
	return s.Start == s.End
}

// Encloses reports whether a cursor at offset touches the span. A cursor
// directly after the last character still counts.
func (s Span) Encloses(offset int) bool {
	return offset >= s.Start && offset <= s.End
}

// Overlaps reports whether two spans share at least one byte.
func (s Span) Overlaps(other Span) bool {
	return s.Start < other.End && other.Start < s.End
}

// Check returns an error wrapping ErrInvalidSpan unless the span lies
// within a text of length n.
func (s Span) Check(n int) error {
	if s.Start < 0 || s.Start > s.End || s.End > n {
		return fmt.Errorf("%s in text of length %d: %w", s, n, ErrInvalidSpan)
	}
	return nil
}

// Match is a number found in a text.
type Match struct {
	// Base is the base of the format whose source pattern matched.
	Base Base
	// Span is where the whole pattern matched.
	Span Span
	// Text is the matched substring.
	Text string
	// Groups holds the captured digit group(s): one for integer bases,
	// mantissa and exponent for Exponential.
	Groups []string
	// Value is the parsed number.
	Value Value
	// Saturated reports that Value was clamped under OverflowSaturate.
	Saturated bool
}

var errGroupMissing = errors.New("capturing group did not participate in match")

// Find locates the number targeted by span. An empty span selects the
// narrowest match enclosing the cursor; a non-empty span must be matched in
// full after trimming surrounding whitespace. from restricts the source
// formats searched; with no from, every loaded format is searched.
func (t *Table) Find(text string, target Span, from ...Base) (Match, error) {
	if err := target.Check(len(text)); err != nil {
		return Match{}, err
	}
	formats, err := t.sources(from)
	if err != nil {
		return Match{}, err
	}
	if target.IsEmpty() {
		return t.findAt(text, target.Start, formats)
	}
	return t.findExact(text, target, formats)
}

func (t *Table) findAt(text string, offset int, formats []*Format) (Match, error) {
	var (
		best      Match
		bestWidth int
		found     bool
		overErr   error
	)
	for _, f := range formats {
		for _, loc := range f.source.FindAllStringSubmatchIndex(text, -1) {
			if loc[0] == loc[1] || loc[0] > offset || loc[1] < offset {
				continue
			}
			// Strictly narrower only: earlier formats and earlier matches
			// keep ties.
			w := width(text, loc)
			if found && w >= bestWidth {
				continue
			}
			m, err := t.parseMatch(f, text, loc)
			if err != nil {
				if overErr == nil && errors.Is(err, ErrOverflow) {
					overErr = err
				}
				continue
			}
			best, bestWidth, found = m, w, true
		}
	}
	if found {
		return best, nil
	}
	if overErr != nil {
		return Match{}, overErr
	}
	return Match{}, ErrNoMatch
}

// width is the length of a match without a leading sign, so "-255" read
// as a decimal ties with "255" read as hexadecimal.
func width(text string, loc []int) int {
	n := loc[1] - loc[0]
	if n > 1 && (text[loc[0]] == '-' || text[loc[0]] == '+') {
		n--
	}
	return n
}

func (t *Table) findExact(text string, target Span, formats []*Format) (Match, error) {
	sub := text[target.Start:target.End]
	lead := len(sub) - len(strings.TrimLeftFunc(sub, unicode.IsSpace))
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return Match{}, ErrNoMatch
	}
	base := target.Start + lead

	var overErr error
	for _, f := range formats {
		loc := f.exact.FindStringSubmatchIndex(sub)
		if loc == nil {
			continue
		}
		for i := range loc {
			if loc[i] >= 0 {
				loc[i] += base
			}
		}
		m, err := t.parseMatch(f, text, loc)
		if err != nil {
			if overErr == nil && errors.Is(err, ErrOverflow) {
				overErr = err
			}
			continue
		}
		return m, nil
	}
	if overErr != nil {
		return Match{}, overErr
	}
	return Match{}, ErrNoMatch
}

// parseMatch extracts and parses the digit groups of a submatch index.
func (t *Table) parseMatch(f *Format, text string, loc []int) (Match, error) {
	m := Match{
		Base: f.base,
		Span: Span{Start: loc[0], End: loc[1]},
		Text: text[loc[0]:loc[1]],
	}
	for g := 1; g <= f.base.groups(); g++ {
		s, e := loc[2*g], loc[2*g+1]
		if s < 0 {
			return m, errGroupMissing
		}
		m.Groups = append(m.Groups, text[s:e])
	}

	var err error
	switch {
	case f.base == Exponential:
		var fl float64
		fl, m.Saturated, err = t.policy.ParseFloat(m.Groups[0]+"e"+m.Groups[1], f.base)
		m.Value = FloatValue(fl)
	case f.base == Decimal && strings.ContainsRune(m.Groups[0], '.'):
		var fl float64
		fl, m.Saturated, err = t.policy.ParseFloat(m.Groups[0], f.base)
		m.Value = FloatValue(fl)
	default:
		var n int64
		n, m.Saturated, err = t.policy.ParseInt(m.Groups[0], f.base)
		m.Value = IntValue(n)
	}
	if err != nil {
		return m, err
	}
	return m, nil
}
