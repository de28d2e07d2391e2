package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// MaxValueLen is the longest input value written to the log, in bytes.
const MaxValueLen = 64

// clippedKeys are attribute keys carrying caller-supplied inputs.
var clippedKeys = map[string]bool{
	"input":  true,
	"inputs": true,
	"color":  true,
}

// clipAttr truncates string values of input-bearing keys.
func clipAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString && clippedKeys[strings.ToLower(a.Key)] {
		return slog.String(a.Key, Clip(a.Value.String()))
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		clipped := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			clipped[i] = clipAttr(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clipped...)}
	}

	return a
}

// Clip shortens s to MaxValueLen bytes, noting how much was dropped.
// The cut never splits a UTF-8 sequence.
func Clip(s string) string {
	if len(s) <= MaxValueLen {
		return s
	}
	cut := MaxValueLen
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return fmt.Sprintf("%s...(+%d bytes)", s[:cut], len(s)-cut)
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
