package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Output formats accepted by New.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// level is shared by all handlers built by New.
var level = new(slog.LevelVar)

// ParseLevel maps a level name to its slog.Level. "warning" is accepted
// as an alias of "warn".
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q: want debug, info, warn or error", s)
}

// ParseFormat normalizes a format name. "console" is an alias of text
// and the empty string selects json.
func ParseFormat(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatText, "console":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown log format %q: want json or text", s)
}

// SetLevel changes the level of every logger built by New. Unknown
// names are ignored.
func SetLevel(s string) {
	if l, err := ParseLevel(s); err == nil {
		level.Set(l)
	}
}

// GetLevel returns the current level name.
func GetLevel() string {
	return strings.ToLower(level.Level().String())
}
