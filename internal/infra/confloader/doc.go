// Package confloader loads layered configuration for hexmatch binaries.
//
// Sources are merged with koanf, later sources overriding earlier ones:
//
//  1. Defaults (the pre-filled target struct)
//  2. YAML configuration file
//  3. HEXMATCH_* environment variables
//
// A Watcher built on fsnotify reports writes to the configuration file so
// the server can apply runtime-adjustable settings without a restart.
package confloader
