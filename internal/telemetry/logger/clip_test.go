package logger

import (
	"log/slog"
	"strings"
	"testing"
)

func TestClip(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"short", "#fff", "#fff"},
		{"exact", strings.Repeat("a", MaxValueLen), strings.Repeat("a", MaxValueLen)},
		{"one over", strings.Repeat("a", MaxValueLen+1), strings.Repeat("a", MaxValueLen) + "...(+1 bytes)"},
		// "é" is two bytes; the cut backs off to the rune boundary.
		{"rune boundary", strings.Repeat("a", MaxValueLen-1) + "éé", strings.Repeat("a", MaxValueLen-1) + "...(+4 bytes)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clip(tt.input); got != tt.want {
				t.Errorf("Clip() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClipAttr(t *testing.T) {
	long := strings.Repeat("0", 100)

	tests := []struct {
		name    string
		attr    slog.Attr
		clipped bool
	}{
		{"input key", slog.String("input", long), true},
		{"color key", slog.String("color", long), true},
		{"case insensitive", slog.String("Input", long), true},
		{"other key", slog.String("path", long), false},
		{"non string", slog.Int("input", 7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := clipAttr(tt.attr)
			isClipped := got.Value.String() != tt.attr.Value.String()
			if isClipped != tt.clipped {
				t.Errorf("clipAttr(%s) clipped = %v, want %v", tt.attr.Key, isClipped, tt.clipped)
			}
		})
	}
}

func TestClipAttr_Group(t *testing.T) {
	long := strings.Repeat("0", 100)
	attr := slog.Group("request", slog.String("input", long), slog.String("method", "POST"))

	got := clipAttr(attr).Value.Group()
	if len(got) != 2 {
		t.Fatalf("group has %d attrs, want 2", len(got))
	}
	if got[0].Value.String() != Clip(long) {
		t.Errorf("nested input = %q, want clipped", got[0].Value.String())
	}
	if got[1].Value.String() != "POST" {
		t.Errorf("nested method = %q, want %q", got[1].Value.String(), "POST")
	}
}
