// Package config defines the hexmatch-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Semantic validation
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// and HEXMATCH_* environment variables on top of Default().
package config
