// Package version exposes the build metadata stamped in via ldflags, e.g.
//
//	go build -ldflags "-X github.com/jmgilman/runx/internal/version.Version=v1.0.0"
//
// Commit and Date follow the same pattern. Unstamped builds report the
// zero values below.
package version

var (
	// Version is the semantic version of the build.
	Version = "dev"

	// Commit is the git commit SHA of the build.
	Commit = "none"

	// Date is the build date in ISO 8601 format.
	Date = "unknown"
)
