package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Render formats v with the destination pattern of base to. It reports
// whether the value had to be saturated.
func (t *Table) Render(v Value, to Base) (string, bool, error) {
	f := t.Format(to)
	if f == nil || !f.CanRender() {
		return "", false, fmt.Errorf("%s destination: %w", to, ErrBaseUnavailable)
	}
	if to == Exponential {
		s, err := f.renderExp(v)
		return s, false, err
	}

	saturated := false
	out, err := f.dest.Execute(func(_ int, spec FieldSpec) (string, error) {
		radix := spec.Radix()
		if radix == 10 && v.IsFloat() {
			return formatFloat(v.Float(), spec), nil
		}
		n, sat, err := t.policy.toInt(v, radix, to)
		if err != nil {
			return "", err
		}
		saturated = saturated || sat
		return t.policy.FormatInt(n, spec), nil
	})
	if err != nil {
		return "", false, err
	}
	return out, saturated, nil
}

// renderExp writes a value as mantissa and power-of-ten exponent, e.g.
// 1420 as 1.42e3.
func (f *Format) renderExp(v Value) (string, error) {
	fl := v.Float()
	if math.IsNaN(fl) || math.IsInf(fl, 0) {
		return "", &OverflowError{Text: v.String(), Base: Exponential, Bits: 64}
	}
	mant, exp := expParts(fl)
	if f.dest == nil {
		return mant + f.sep + exp, nil
	}
	return f.dest.Execute(func(arg int, spec FieldSpec) (string, error) {
		if arg == 0 {
			return pad("", "", mant, spec), nil
		}
		return pad("", "", exp, spec), nil
	})
}

// expParts splits f into a normalised mantissa in [1, 10) and an exponent.
func expParts(f float64) (mantissa, exponent string) {
	if f == 0 {
		return "0", "0"
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	i := strings.IndexByte(s, 'e')
	e, err := strconv.Atoi(s[i+1:])
	if err != nil {
		return s, "0"
	}
	return s[:i], strconv.Itoa(e)
}
