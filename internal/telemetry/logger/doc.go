// Package logger configures log/slog for hexmatch.
//
// Every logger built by New shares one process-wide level, which the
// server changes when log.level is edited in its configuration file.
// Records logged with a request context carry that request's ID, and
// caller-supplied inputs are clipped before they reach the output.
package logger
