// Package connection is the CLI's HTTP client for a hexmatch server.
//
// Responses arrive in the server's JSON envelope; ParseResponse unwraps
// the data field on success and turns error envelopes into *APIError.
package connection
