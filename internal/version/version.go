// Package version holds build metadata injected via ldflags:
//
//	-ldflags "-X github.com/kailas-cloud/nlquery/internal/version.Version=v1.2.0"
package version

//nolint:revive // Set via ldflags at build time.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String renders the build metadata on one line.
func String() string {
	return Version + " (commit " + Commit + ", built " + Date + ")"
}
