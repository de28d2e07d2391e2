// Package hexcolor validates and decodes hexadecimal color codes.
package hexcolor

import (
	"errors"
	"fmt"
)

// Sentinel errors describing which grammar rule rejected an input.
var (
	// ErrEmpty indicates there are no digits at all ("" or "#").
	ErrEmpty = errors.New("no hex digits")

	// ErrRepeatedPrefix indicates more than one leading '#'.
	ErrRepeatedPrefix = errors.New("repeated '#' prefix")

	// ErrInvalidDigit indicates a character outside 0-9, a-f, A-F.
	ErrInvalidDigit = errors.New("invalid hex digit")

	// ErrInvalidLength indicates a digit count other than 3 or 6.
	ErrInvalidLength = errors.New("digit count must be 3 or 6")
)

// maxQuoted bounds how much of the input is echoed in error messages.
const maxQuoted = 32

// FormatError reports why an input is not a color code.
type FormatError struct {
	Input  string // Input as given by the caller
	Offset int    // Byte offset where the grammar failed
	Err    error  // One of the sentinel errors
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if errors.Is(e.Err, ErrInvalidDigit) && e.Offset < len(e.Input) {
		return fmt.Sprintf("hexcolor: invalid color %q: %v %q at offset %d",
			clip(e.Input), e.Err, e.Input[e.Offset], e.Offset)
	}
	return fmt.Sprintf("hexcolor: invalid color %q: %v", clip(e.Input), e.Err)
}

// Unwrap returns the sentinel error for errors.Is support.
func (e *FormatError) Unwrap() error {
	return e.Err
}

func clip(s string) string {
	if len(s) <= maxQuoted {
		return s
	}
	return s[:maxQuoted] + "..."
}
