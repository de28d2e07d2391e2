// Package hexcolor validates and decodes hexadecimal color codes.
package hexcolor

import "fmt"

const hexDigits = "0123456789abcdef"

// Color is a decoded 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Parse decodes a color code. The 3-digit form expands each digit,
// so "#abc" decodes to the same Color as "#aabbcc".
func Parse(input string) (Color, error) {
	start, err := scan(input)
	if err != nil {
		return Color{}, &FormatError{Input: input, Offset: start, Err: err}
	}

	d := input[start:]
	if len(d) == ShortLength {
		return Color{
			R: nibble(d[0]) * 0x11,
			G: nibble(d[1]) * 0x11,
			B: nibble(d[2]) * 0x11,
		}, nil
	}

	return Color{
		R: nibble(d[0])<<4 | nibble(d[1]),
		G: nibble(d[2])<<4 | nibble(d[3]),
		B: nibble(d[4])<<4 | nibble(d[5]),
	}, nil
}

// MustParse is like Parse but panics on invalid input.
// Intended for constants and tests.
func MustParse(input string) Color {
	c, err := Parse(input)
	if err != nil {
		panic(fmt.Sprintf("hexcolor: MustParse(%q): %v", clip(input), err))
	}
	return c
}

// Normalize returns the canonical form of a color code:
// '#' followed by 6 lowercase digits.
func Normalize(input string) (string, error) {
	c, err := Parse(input)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Hex returns the canonical "#rrggbb" form.
func (c Color) Hex() string {
	b := [7]byte{
		Prefix,
		hexDigits[c.R>>4], hexDigits[c.R&0x0f],
		hexDigits[c.G>>4], hexDigits[c.G&0x0f],
		hexDigits[c.B>>4], hexDigits[c.B&0x0f],
	}
	return string(b[:])
}

// Short returns the "#rgb" form when every channel is a repeated
// digit. ok is false otherwise.
func (c Color) Short() (short string, ok bool) {
	for _, v := range [3]uint8{c.R, c.G, c.B} {
		if v>>4 != v&0x0f {
			return "", false
		}
	}
	b := [4]byte{Prefix, hexDigits[c.R&0x0f], hexDigits[c.G&0x0f], hexDigits[c.B&0x0f]}
	return string(b[:]), true
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}
