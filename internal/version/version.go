// Package version holds the newsbuilder version information.
// It has no dependencies and can be imported from any package.
package version

import "fmt"

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

// String returns the version line printed by --version.
func String() string {
	if IsDevBuild() {
		return fmt.Sprintf("newsbuilder %s (commit %s)", Version, Commit)
	}
	return fmt.Sprintf("newsbuilder %s (commit %s, built %s)", Version, Commit, BuildDate)
}
