package convert

import (
	"errors"
	"fmt"
)

// Errors returned by conversion operations.
var (
	// ErrNoMatch indicates no configured source pattern matched at the target.
	ErrNoMatch = errors.New("no number found")

	// ErrInvalidPattern indicates a source pattern or destination template
	// could not be compiled.
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrOverflow indicates a value does not fit the numeric representation.
	ErrOverflow = errors.New("number out of range")

	// ErrBaseUnavailable indicates the format for a base failed to load.
	ErrBaseUnavailable = errors.New("number format unavailable")

	// ErrInvalidSpan indicates a span outside the text or with Start > End.
	ErrInvalidSpan = errors.New("invalid span")

	// ErrOverlap indicates two edits in a batch touch the same text.
	ErrOverlap = errors.New("overlapping conversion")
)

// PatternError describes a configured pattern that failed to load.
type PatternError struct {
	// Key is the settings key the pattern came from (e.g. "convert_src_hex").
	Key string
	// Pattern is the raw pattern text.
	Pattern string
	// Message describes the problem.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: invalid pattern %q: %s", e.Key, e.Pattern, e.Message)
}

// Unwrap returns the underlying error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidPattern.
func (e *PatternError) Is(target error) bool {
	return target == ErrInvalidPattern
}

// OverflowError describes a value that does not fit the target representation.
type OverflowError struct {
	// Text is the offending digit string or a rendering of the value.
	Text string
	// Base is the base the text was read in or rendered to.
	Base Base
	// Bits is the width that was exceeded.
	Bits int
}

// Error implements the error interface.
func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s value %s does not fit in %d bits", e.Base, e.Text, e.Bits)
}

// Is reports whether target is ErrOverflow.
func (e *OverflowError) Is(target error) bool {
	return target == ErrOverflow
}
