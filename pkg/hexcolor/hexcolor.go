// Package hexcolor validates and decodes hexadecimal color codes.
package hexcolor

// Pattern is the regular expression equivalent to IsValid.
// It must be compiled with PatternFlags (case-insensitive).
const Pattern = `^#?([a-f0-9]{3}|[a-f0-9]{6})$`

// PatternFlags are the flags Pattern is written for.
const PatternFlags = "i"

// Prefix is the optional leading character of a color code.
const Prefix = '#'

// Digit counts accepted after the optional prefix.
const (
	ShortLength = 3
	LongLength  = 6
)

// IsValid reports whether input is a 3- or 6-digit hex color code,
// optionally prefixed with a single '#'. Matching is case-insensitive
// and anchored at both ends.
func IsValid(input string) bool {
	digits := input
	if len(digits) > 0 && digits[0] == Prefix {
		digits = digits[1:]
	}

	if len(digits) != ShortLength && len(digits) != LongLength {
		return false
	}

	for i := 0; i < len(digits); i++ {
		if !isHexDigit(digits[i]) {
			return false
		}
	}
	return true
}

// Check validates input and returns a *FormatError describing the
// first violated rule, or nil if IsValid(input) is true.
//
// Rules are checked in order: presence of digits, single prefix,
// hex alphabet (first offending byte), digit count.
func Check(input string) error {
	offset, err := scan(input)
	if err != nil {
		return &FormatError{Input: input, Offset: offset, Err: err}
	}
	return nil
}

// scan returns the start offset of the digits on success, or the
// failure offset and sentinel error.
func scan(input string) (int, error) {
	start := 0
	if len(input) > 0 && input[0] == Prefix {
		start = 1
	}

	if start == len(input) {
		return start, ErrEmpty
	}
	if start == 1 && input[1] == Prefix {
		return 1, ErrRepeatedPrefix
	}

	for i := start; i < len(input); i++ {
		if !isHexDigit(input[i]) {
			return i, ErrInvalidDigit
		}
	}

	if n := len(input) - start; n != ShortLength && n != LongLength {
		return len(input), ErrInvalidLength
	}
	return start, nil
}

// isHexDigit works on bytes, so no multi-byte UTF-8 sequence can match.
func isHexDigit(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'f':
		return true
	case c >= 'A' && c <= 'F':
		return true
	default:
		return false
	}
}

func nibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
