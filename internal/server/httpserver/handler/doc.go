// Package handler provides HTTP request handlers for hexmatch.
//
//   - validate.go: single and batch color validation
//   - engines.go: matching engine discovery
//   - health.go: health and readiness checks
//
// All handlers follow a consistent pattern:
//
//   - Decode and check the request
//   - Call the validation service
//   - Write the standard JSON envelope
//   - Map domain error codes to HTTP statuses
//
// An input that is not a hex color is a successful classification
// (200 with valid=false), never an error.
package handler
