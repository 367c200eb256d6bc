// Package build provides version and build information for cambi.
// This package intentionally has no dependencies on other internal packages
// to avoid import cycles.
package build

import (
	"fmt"
	"runtime/debug"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// IsDevBuild returns true if running a development build (not a release).
func IsDevBuild() bool {
	return Version == "dev"
}

// ResolvedVersion returns Version, falling back to the module version
// recorded by `go install` for dev builds.
func ResolvedVersion() string {
	if !IsDevBuild() {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}

// Summary is the one-line text printed by `cambi --version`.
func Summary() string {
	return fmt.Sprintf("%s (commit %s, built %s)", ResolvedVersion(), Commit, BuildDate)
}
