// Package record holds the build-identity record and renders it as a header.
package record

import (
	"fmt"
	"strings"
)

// Branches that produce a stable build.
const (
	PrimaryBranch = "master"
	StableBranch  = "stable"
)

// Record is the build-identity metadata rendered into the header.
type Record struct {
	Revision    string
	Count       string
	Description string
	Branch      string
	Fingerprint string
	Stable      bool
}

// IsStable reports whether branch is one of the stable branch names. The
// match is exact and case-sensitive.
func IsStable(branch string) bool {
	return branch == PrimaryBranch || branch == StableBranch
}

// DisplayDescription is the value of SCM_DESC_STR: "<count>(<description>)".
func (r Record) DisplayDescription() string {
	return r.Count + "(" + r.Description + ")"
}

// Render returns the five-line header for r.
func Render(r Record) []byte {
	var b strings.Builder
	define(&b, "SCM_REV_STR", quote(r.Revision))
	define(&b, "SCM_DESC_STR", quote(r.DisplayDescription()))
	define(&b, "SCM_BRANCH_STR", quote(r.Branch))
	define(&b, "SCM_CACHE_STR", quote(r.Fingerprint))
	define(&b, "SCM_IS_MASTER", flag(r.Stable))
	return []byte(b.String())
}

func define(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "#define %s %s\n", name, value)
}

// Values are emitted verbatim between quotes.
func quote(value string) string {
	return `"` + value + `"`
}

func flag(v bool) string {
	if v {
		return "1"
	}
	return "0"
}
