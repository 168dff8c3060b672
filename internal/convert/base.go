package convert

import (
	"fmt"
	"strings"
)

// Base identifies a numeral system a number can be written in.
type Base uint8

// Supported bases, in configuration order.
const (
	Binary Base = iota
	Decimal
	Hexadecimal
	Exponential

	numBases = int(Exponential) + 1
)

// Bases returns all bases in configuration order.
func Bases() []Base {
	return []Base{Binary, Decimal, Hexadecimal, Exponential}
}

// String returns the long name of the base.
func (b Base) String() string {
	switch b {
	case Binary:
		return "binary"
	case Decimal:
		return "decimal"
	case Hexadecimal:
		return "hexadecimal"
	case Exponential:
		return "exponential"
	default:
		return fmt.Sprintf("base(%d)", uint8(b))
	}
}

// Short returns the settings key suffix for the base ("bin", "dec", ...).
func (b Base) Short() string {
	switch b {
	case Binary:
		return "bin"
	case Decimal:
		return "dec"
	case Hexadecimal:
		return "hex"
	case Exponential:
		return "exp"
	default:
		return ""
	}
}

// Radix returns the integer radix of the base, or 0 for Exponential.
func (b Base) Radix() int {
	switch b {
	case Binary:
		return 2
	case Decimal:
		return 10
	case Hexadecimal:
		return 16
	default:
		return 0
	}
}

// Valid reports whether b is a known base.
func (b Base) Valid() bool {
	return int(b) < numBases
}

// groups returns the number of capturing groups a source pattern needs.
func (b Base) groups() int {
	if b == Exponential {
		return 2
	}
	return 1
}

// ParseBase parses a base name. It accepts long names, settings short names
// and radix numbers.
func ParseBase(s string) (Base, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bin", "binary", "b", "2":
		return Binary, nil
	case "dec", "decimal", "d", "10":
		return Decimal, nil
	case "hex", "hexadecimal", "h", "x", "16":
		return Hexadecimal, nil
	case "exp", "exponential", "e", "sci":
		return Exponential, nil
	}
	return 0, fmt.Errorf("unknown base %q", s)
}

// SourceKey returns the settings key for the base's source pattern.
func SourceKey(b Base) string {
	return "convert_src_" + b.Short()
}

// DestKey returns the settings key for the base's destination pattern.
func DestKey(b Base) string {
	return "convert_dst_" + b.Short()
}
