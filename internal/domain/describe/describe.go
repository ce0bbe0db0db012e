// Package describe canonicalizes describe-style revision strings.
package describe

import "strings"

// DirtySuffix marks a working tree with uncommitted changes.
const DirtySuffix = "-dirty"

// Normalize strips the volatile "-<distance>-<hash>" tail from a string of the
// form <tag>-<distance>-<hash>[-dirty], keeping the tag and the dirty marker.
//
// The trailing dash-free token is treated as the hash. The token before it is
// dropped as well when it is an all-digit distance, which covers the "-0"
// marker of a build sitting exactly on a tag. Strings without a dash (before
// an optional dirty marker) are returned unchanged.
func Normalize(value string) string {
	// git appends at most one dirty marker.
	body, suffix := value, ""
	if strings.HasSuffix(body, DirtySuffix) {
		body = strings.TrimSuffix(body, DirtySuffix)
		suffix = DirtySuffix
	}

	head, hash, ok := cutLast(body)
	if !ok || hash == "" {
		return value
	}

	if rest, distance, ok := cutLast(head); ok && isDigits(distance) {
		head = rest
	}

	return head + suffix
}

func cutLast(s string) (before, after string, found bool) {
	i := strings.LastIndexByte(s, '-')
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
