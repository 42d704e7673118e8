// Package build exposes build-time metadata injected via ldflags.
package build

// Version, Commit, and Branch are set at build time by:
//
//	-ldflags "-X github.com/joestump/bookmarks/internal/build.Version=... ..."
var (
	Version = "dev"
	Commit  = "unknown"
	Branch  = "unknown"
)

// String returns a one-line description used by the version command and logs.
func String() string {
	return Version + " (commit " + Commit + ", branch " + Branch + ")"
}
