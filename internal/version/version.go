// Package version holds build information stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X smooth-edges/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

var (
	// Version is the release of the smooth-edges tools
	Version = "0.1.0"

	// BuildTime is the UTC time when the binary was built
	BuildTime = "unknown"

	// GitCommit is the commit the binary was built from
	GitCommit = "unknown"
)
