// Package version reports the revision a binary was built from.
//
// Values are injected at link time, typically with the output of
// `stamp ldflags`:
//
//	go build -ldflags "$(stamp ldflags)" ./cmd/app
package version

import (
	"runtime/debug"

	"github.com/raitses/stamp/internal/provenance"
)

var (
	// Version is the application version. Set by ldflags at build time.
	Version = "dev"

	// Commit is the commit hash. Set by ldflags at build time.
	Commit = ""
)

// readBuildInfo is replaced in tests
var readBuildInfo = debug.ReadBuildInfo

// CommitHash returns the normalized commit the binary was built from.
// Falls back to the vcs.revision the Go toolchain embeds, then to "unknown".
func CommitHash() string {
	if h, ok := provenance.Normalize(Commit); ok {
		return h.String()
	}
	if info, ok := readBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key != "vcs.revision" {
				continue
			}
			if h, ok := provenance.Normalize(setting.Value); ok {
				return h.String()
			}
		}
	}
	return provenance.Unknown.String()
}

// String returns "<version> (<commit>)"
func String() string {
	return Version + " (" + CommitHash() + ")"
}
