// Package config holds the CLI's own defaults file (cli.yaml).
//
// The file supplies values for global flags that were not given on the
// command line or through the environment.
package config
