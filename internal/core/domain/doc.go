// Package domain defines the core domain models for hexmatch.
//
// Domain models are plain values without IO dependencies:
//
//   - Verdict: the outcome of classifying one input
//   - Reason: which grammar rule rejected an input
//   - Errors: request-level errors with structured codes
//
// An input that is not a color code is a Verdict with Valid=false,
// never an error. Errors are reserved for malformed requests and
// system conditions.
package domain
