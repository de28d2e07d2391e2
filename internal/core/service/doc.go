// Package service provides domain services for hexmatch.
//
// Domain services orchestrate operations on domain models and keep
// infrastructure (metrics, caching) behind small interfaces so they
// can be replaced in tests.
//
// This package contains:
//
//   - ValidationService: single and batch classification of inputs,
//     with a bounded verdict cache and a bounded worker pool
//
// Services are safe for concurrent use.
package service
