package convert

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldSpec is the presentation specifier of a replacement field, the part
// after the colon in {0:#08x}.
type FieldSpec struct {
	// Alt adds the 0b, 0o, 0x or 0X prefix.
	Alt bool
	// Zero pads with zeros after sign and prefix instead of spaces.
	Zero bool
	// Width is the minimum field width.
	Width int
	// Verb is one of 'b', 'o', 'd', 'x', 'X'.
	Verb byte
}

// Radix returns the radix the verb renders in.
func (s FieldSpec) Radix() int {
	switch s.Verb {
	case 'b':
		return 2
	case 'o':
		return 8
	case 'x', 'X':
		return 16
	default:
		return 10
	}
}

func (s FieldSpec) prefix() string {
	if !s.Alt {
		return ""
	}
	switch s.Verb {
	case 'b':
		return "0b"
	case 'o':
		return "0o"
	case 'x':
		return "0x"
	case 'X':
		return "0X"
	}
	return ""
}

// namedSpecs maps spelled-out presentation types to verbs.
var namedSpecs = map[string]byte{
	"binary":      'b',
	"bin":         'b',
	"octal":       'o',
	"decimal":     'd',
	"dec":         'd',
	"hex":         'x',
	"hexadecimal": 'x',
	"HEX":         'X',
}

func parseFieldSpec(s string) (FieldSpec, error) {
	var fs FieldSpec
	if v, ok := namedSpecs[s]; ok {
		fs.Verb = v
		return fs, nil
	}

	i := 0
	if i < len(s) && s[i] == '#' {
		fs.Alt = true
		i++
	}
	if i < len(s) && s[i] == '0' {
		fs.Zero = true
		i++
	}
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > start {
		w, err := strconv.Atoi(s[start:i])
		if err != nil || w > 256 {
			return fs, fmt.Errorf("bad width %q", s[start:i])
		}
		fs.Width = w
	}

	switch rest := s[i:]; rest {
	case "", "d", "n":
		fs.Verb = 'd'
	case "b", "o", "x", "X":
		fs.Verb = rest[0]
	default:
		return fs, fmt.Errorf("unknown format specifier %q", s)
	}
	return fs, nil
}

// segment is a literal run or a replacement field of a Template.
type segment struct {
	literal string
	field   bool
	arg     int
	spec    FieldSpec
}

// Template is a compiled destination pattern.
type Template struct {
	raw      string
	segments []segment
	args     int
}

// ParseTemplate compiles a destination template. maxArgs bounds the
// positional argument index; fields without an index take the next one.
func ParseTemplate(s string, maxArgs int) (*Template, error) {
	t := &Template{raw: s}
	var lit strings.Builder
	next := 0

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i+1:], '}')
			if end < 0 {
				return nil, fmt.Errorf("unclosed replacement field at offset %d", i)
			}
			body := s[i+1 : i+1+end]
			i += end + 1

			name, specText, _ := strings.Cut(body, ":")
			arg := next
			if name != "" {
				n, err := strconv.Atoi(name)
				if err != nil || n < 0 {
					return nil, fmt.Errorf("replacement field %q: index must be a number", body)
				}
				arg = n
			}
			if arg >= maxArgs {
				return nil, fmt.Errorf("replacement field %q: index %d out of range", body, arg)
			}
			next = arg + 1
			spec, err := parseFieldSpec(specText)
			if err != nil {
				return nil, fmt.Errorf("replacement field %q: %w", body, err)
			}
			flush()
			t.segments = append(t.segments, segment{field: true, arg: arg, spec: spec})
			if arg+1 > t.args {
				t.args = arg + 1
			}
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, fmt.Errorf("single '}' at offset %d", i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t, nil
}

// String returns the raw template text.
func (t *Template) String() string {
	return t.raw
}

// Fields returns the number of distinct argument slots the template uses.
func (t *Template) Fields() int {
	return t.args
}

// Verb returns the verb of the first replacement field, or 'd' when the
// template has none.
func (t *Template) Verb() byte {
	for _, seg := range t.segments {
		if seg.field {
			return seg.spec.Verb
		}
	}
	return 'd'
}

// Execute renders the template, calling field for each replacement field.
func (t *Template) Execute(field func(arg int, spec FieldSpec) (string, error)) (string, error) {
	var b strings.Builder
	for _, seg := range t.segments {
		if !seg.field {
			b.WriteString(seg.literal)
			continue
		}
		s, err := field(seg.arg, seg.spec)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

// pad applies width and zero padding to a sign, prefix and digit run.
func pad(sign, prefix, digits string, spec FieldSpec) string {
	n := len(sign) + len(prefix) + len(digits)
	if spec.Width <= n {
		return sign + prefix + digits
	}
	fill := spec.Width - n
	if spec.Zero {
		return sign + prefix + strings.Repeat("0", fill) + digits
	}
	return strings.Repeat(" ", fill) + sign + prefix + digits
}

// FormatInt renders n according to spec under policy p.
func (p Policy) FormatInt(n int64, spec FieldSpec) string {
	radix := spec.Radix()
	sign := ""
	var u uint64
	switch {
	case n < 0 && p.twos(radix):
		u = uint64(n) & p.mask()
	case n < 0:
		sign = "-"
		u = uint64(-(n + 1)) + 1
	default:
		u = uint64(n)
	}
	digits := strconv.FormatUint(u, radix)
	if spec.Verb == 'X' {
		digits = strings.ToUpper(digits)
	}
	return pad(sign, spec.prefix(), digits, spec)
}

// formatFloat renders f in plain decimal notation.
func formatFloat(f float64, spec FieldSpec) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	return pad(sign, "", s, spec)
}
