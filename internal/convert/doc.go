// Package convert finds numeric literals in editor text and rewrites them in
// another base.
//
// A Table holds one Format per Base. Each Format pairs a source pattern, a
// regular expression whose capturing group holds the digits, with a
// destination template that renders a converted value back into text:
//
//	table, err := convert.Compile(convert.DefaultSpec())
//	if err != nil {
//	    // err lists every pattern that failed to compile; the table is
//	    // still usable for the remaining bases.
//	}
//	conv := convert.New(table)
//	edit, err := conv.Convert("x = 0x1f;", convert.At(6), convert.Decimal)
//	// edit.Start == 4, edit.End == 8, edit.NewText == "31"
//
// # Matching
//
// An empty Span is a cursor. Every enabled source pattern is run over the
// text and the narrowest match that contains the cursor wins; ties go to the
// format that comes first in configuration order (binary, decimal,
// hexadecimal, exponential). A leading sign does not count towards the
// width, so -255 reads as a negative decimal rather than the hexadecimal
// 255. A non-empty Span must be matched in full, ignoring surrounding
// whitespace.
//
// Narrowest wins even inside a longer literal. With the default patterns a
// cursor inside 1.42e3 finds a shorter fragment such as the binary 1, the
// decimal 1.42 or the hexadecimal 42e3 rather than the exponential. Pass
// Exponential as the only source base to convert the whole literal.
//
// ConvertText rewrites every match of one base. Binary and hexadecimal
// matches without a prefix or suffix are skipped there when they are plain
// decimal digits or start with a letter.
//
// # Destination templates
//
// Templates use replacement fields such as {0}, {0:b}, {0:#x}, {0:08X} or
// named types such as {0:decimal} and {0:HEX}. Literal braces are written
// {{ and }}. The exponential destination is either a separator placed
// between mantissa and exponent ("e" by default) or a template where {0} is
// the mantissa and {1} the exponent.
//
// # Numeric policy
//
// Integers are int64. A digit group that does not fit is reported as an
// *OverflowError unless the table's Policy saturates. Negative numbers keep
// a leading minus sign in every base unless two's complement is configured,
// in which case binary and hexadecimal use a fixed-width bit pattern.
//
// Tables are immutable after Compile and safe for concurrent use.
package convert
