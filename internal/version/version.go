// Package version exposes build-time metadata stamped into the binary via ldflags.
package version

import (
	"strings"

	semver "github.com/blang/semver/v4"
)

const (
	defaultVersion   = "dev"
	defaultCommit    = "none"
	defaultBuildDate = "unknown"
)

var (
	// Version is the semantic version associated with this build.
	Version = defaultVersion
	// Commit is the revision the binary was built from.
	Commit = defaultCommit
	// BuildDate is the UTC timestamp when the binary was built.
	BuildDate = defaultBuildDate
)

// Semantic parses Version, tolerating a leading "v".
func Semantic() (semver.Version, bool) {
	v, err := semver.ParseTolerant(strings.TrimSpace(Version))
	if err != nil {
		return semver.Version{}, false
	}
	return v, true
}

// Summary returns a human-readable description of the build metadata.
func Summary() string {
	label := Version
	if v, ok := Semantic(); ok {
		label = "v" + v.String()
	} else {
		label += " (development build)"
	}
	return label + " commit " + Commit + " (built " + BuildDate + ")"
}
