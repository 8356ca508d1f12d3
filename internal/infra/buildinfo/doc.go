// Package buildinfo reports the redline version.
//
// Release builds inject the values with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/redline/internal/infra/buildinfo.Version=v0.3.0"
//
// Development builds fall back to the VCS stamp the Go toolchain embeds.
package buildinfo
