// Package hexcolor validates and decodes hexadecimal color codes.
//
// A color code is an optional single leading '#' followed by exactly
// 3 or exactly 6 hex digits, matched case-insensitively against the
// whole input. This is the grammar of the expression
//
//	/^#?([a-f0-9]{3}|[a-f0-9]{6})$/i
//
// The package implements it as an explicit byte scan:
//
//   - IsValid: boolean classification, no allocation
//   - Check: the same classification with the offending offset and rule
//   - Parse / Normalize: decoding into RGB channels and canonical form
//
// All functions are pure and safe for concurrent use.
package hexcolor
