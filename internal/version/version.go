// Package version provides build-time version information.
//
// Set at build time via:
//
//	go build -ldflags "-X github.com/docseekhq/docseek/internal/version.Version=$(git describe --tags)"
package version

// Version is the release version, set at build time via ldflags.
var Version = "dev"
