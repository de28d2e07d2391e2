package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	info := Get()

	if info.Version == "" || info.Commit == "" || info.BuildTime == "" {
		t.Errorf("Get() = %+v, want no empty fields", info)
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if info.Platform != runtime.GOOS+"/"+runtime.GOARCH {
		t.Errorf("Platform = %q", info.Platform)
	}
}

func TestGet_InjectedCommit(t *testing.T) {
	prev := Commit
	defer func() { Commit = prev }()

	Commit = "0123456789abcdef0123"
	if got := Get().Commit; got != Commit {
		t.Errorf("Commit = %q, want injected %q", got, Commit)
	}
	if s := String(); !strings.Contains(s, "(0123456789ab)") {
		t.Errorf("String() = %q, want 12-char commit", s)
	}
}

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{Version, runtime.Version()} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
