// Package command defines the hexmatch CLI using urfave/cli/v2:
//
//   - root.go: App, global flags, shared rendering helpers
//   - check.go: local check and explain
//   - engines.go: local engine listing
//   - remote.go: remote check and engines against a running server
//   - system.go: server health and readiness
//   - config.go: server configuration file checks
//
// Commands write to c.App.Writer and report invalid inputs with exit
// status 1.
package command
