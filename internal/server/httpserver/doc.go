// Package httpserver provides the HTTP/HTTPS server for hexmatch.
//
// This package exposes the validation API using stdlib net/http:
//
//   - Validation endpoints: /v1/colors/validate, /v1/colors/validate/batch
//   - Discovery: /v1/engines
//   - Operations: /health, /ready, /metrics
//
// API routes run behind the middleware chain
// Recover, RequestID, CORS, RateLimit, Audit.
package httpserver
