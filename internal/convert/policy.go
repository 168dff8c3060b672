package convert

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OverflowPolicy selects what happens when a value does not fit.
type OverflowPolicy uint8

const (
	// OverflowFail reports an *OverflowError and performs no edit.
	OverflowFail OverflowPolicy = iota
	// OverflowSaturate clamps to the nearest representable value and marks
	// the edit as saturated.
	OverflowSaturate
)

// String returns the settings name of the policy.
func (p OverflowPolicy) String() string {
	if p == OverflowSaturate {
		return "saturate"
	}
	return "error"
}

// ParseOverflowPolicy parses "error" or "saturate".
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch strings.ToLower(s) {
	case "", "error":
		return OverflowFail, nil
	case "saturate", "clamp":
		return OverflowSaturate, nil
	}
	return 0, fmt.Errorf("unknown overflow policy %q", s)
}

// NegativePolicy selects how negative values are written in binary and
// hexadecimal.
type NegativePolicy uint8

const (
	// NegativeSign writes a leading minus sign followed by the magnitude.
	NegativeSign NegativePolicy = iota
	// NegativeTwosComplement writes the fixed-width two's-complement pattern.
	NegativeTwosComplement
)

// String returns the settings name of the policy.
func (p NegativePolicy) String() string {
	if p == NegativeTwosComplement {
		return "twos-complement"
	}
	return "sign"
}

// ParseNegativePolicy parses "sign" or "twos-complement".
func ParseNegativePolicy(s string) (NegativePolicy, error) {
	switch strings.ToLower(s) {
	case "", "sign":
		return NegativeSign, nil
	case "twos-complement", "twos_complement", "twoscomplement", "twos":
		return NegativeTwosComplement, nil
	}
	return 0, fmt.Errorf("unknown negative policy %q", s)
}

// Policy controls overflow and sign handling for a Table.
type Policy struct {
	Overflow OverflowPolicy
	Negative NegativePolicy
	// Width is the two's-complement width in bits: 8, 16, 32 or 64.
	Width int
}

// DefaultPolicy reports overflow as an error and keeps signs literal.
func DefaultPolicy() Policy {
	return Policy{Overflow: OverflowFail, Negative: NegativeSign, Width: 64}
}

// Validate checks the policy fields.
func (p Policy) Validate() error {
	switch p.Width {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("width must be 8, 16, 32 or 64, got %d", p.Width)
	}
	if p.Overflow > OverflowSaturate {
		return fmt.Errorf("unknown overflow policy %d", p.Overflow)
	}
	if p.Negative > NegativeTwosComplement {
		return fmt.Errorf("unknown negative policy %d", p.Negative)
	}
	return nil
}

// twos reports whether radix is written as a two's-complement pattern.
func (p Policy) twos(radix int) bool {
	return p.Negative == NegativeTwosComplement && radix != 10
}

// signedRange returns the representable range for two's-complement output.
func (p Policy) signedRange() (lo, hi int64) {
	if p.Width >= 64 {
		return math.MinInt64, math.MaxInt64
	}
	hi = int64(1)<<(p.Width-1) - 1
	return -hi - 1, hi
}

// mask returns a mask of Width low bits.
func (p Policy) mask() uint64 {
	if p.Width >= 64 {
		return math.MaxUint64
	}
	return uint64(1)<<p.Width - 1
}

// ParseInt parses a digit string in radix. Digit strings that are not valid
// in the radix return a *strconv.NumError; values that do not fit return an
// *OverflowError unless the policy saturates.
func (p Policy) ParseInt(digits string, base Base) (v int64, saturated bool, err error) {
	radix := base.Radix()
	signed := strings.HasPrefix(digits, "-") || strings.HasPrefix(digits, "+")

	if p.twos(radix) && !signed {
		u, err := strconv.ParseUint(digits, radix, p.Width)
		if err != nil {
			if !isRange(err) {
				return 0, false, err
			}
			if p.Overflow == OverflowFail {
				return 0, false, &OverflowError{Text: strconv.Quote(digits), Base: base, Bits: p.Width}
			}
			_, hi := p.signedRange()
			return hi, true, nil
		}
		return signExtend(u, p.Width), false, nil
	}

	bits := 64
	if p.twos(radix) {
		bits = p.Width
	}
	n, err := strconv.ParseInt(digits, radix, bits)
	if err != nil {
		if !isRange(err) {
			return 0, false, err
		}
		if p.Overflow == OverflowFail {
			return 0, false, &OverflowError{Text: strconv.Quote(digits), Base: base, Bits: bits}
		}
		// ParseInt already clamps to the bit size on range errors.
		return n, true, nil
	}
	return n, false, nil
}

// ToInt converts a value to an integer for rendering in base, applying the
// policy's range rules.
func (p Policy) ToInt(v Value, base Base) (n int64, saturated bool, err error) {
	return p.toInt(v, base.Radix(), base)
}

func (p Policy) toInt(v Value, radix int, base Base) (n int64, saturated bool, err error) {
	lo, hi := int64(math.MinInt64), int64(math.MaxInt64)
	bits := 64
	if p.twos(radix) {
		lo, hi = p.signedRange()
		bits = p.Width
	}

	if v.float {
		f := math.Trunc(v.f)
		switch {
		case math.IsNaN(f):
			return 0, false, &OverflowError{Text: v.String(), Base: base, Bits: bits}
		case f >= math.Ldexp(1, 63):
			n, saturated = math.MaxInt64, true
		case f < -math.Ldexp(1, 63):
			n, saturated = math.MinInt64, true
		default:
			n = int64(f)
		}
	} else {
		n = v.i
	}

	if n > hi {
		n, saturated = hi, true
	} else if n < lo {
		n, saturated = lo, true
	}
	if saturated && p.Overflow == OverflowFail {
		return 0, false, &OverflowError{Text: v.String(), Base: base, Bits: bits}
	}
	return n, saturated, nil
}

// ParseFloat parses a float literal, applying the overflow policy to
// out-of-range exponents.
func (p Policy) ParseFloat(s string, base Base) (f float64, saturated bool, err error) {
	f, err = strconv.ParseFloat(s, 64)
	if err == nil {
		return f, false, nil
	}
	if !isRange(err) {
		return 0, false, err
	}
	if math.IsInf(f, 0) {
		if p.Overflow == OverflowFail {
			return 0, false, &OverflowError{Text: strconv.Quote(s), Base: base, Bits: 64}
		}
		return math.Copysign(math.MaxFloat64, f), true, nil
	}
	// Underflow rounds to zero, which loses nothing an integer base can show.
	return f, false, nil
}

func isRange(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}

func signExtend(u uint64, width int) int64 {
	if width >= 64 {
		return int64(u)
	}
	shift := 64 - width
	return int64(u<<shift) >> shift
}
