// Package buildinfo exposes version information for hexmatch binaries.
//
// Values are injected at build time via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/hexmatch-go/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/hexmatch-go/internal/infra/buildinfo.Commit=abc123"
//
// When Commit is not injected the VCS revision recorded by the Go
// toolchain is used, if any.
package buildinfo
