package header

import (
	"bytes"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const noNewlineMarker = "\\ No newline at end of file\n"

// Diff renders a unified diff between the previous and the new header.
// It returns an empty string for identical content or when the diff cannot
// be produced.
func Diff(path string, before, after []byte) string {
	if bytes.Equal(before, after) {
		return ""
	}
	ud := difflib.UnifiedDiff{
		A:        splitLines(string(before)),
		B:        splitLines(string(after)),
		FromFile: path + " (before)",
		ToFile:   path + " (after)",
		Context:  1,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return ""
	}
	return text
}

// splitLines keeps line terminators. A missing final newline is reported as
// its own marker line so it shows up in the diff.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	last := len(lines) - 1
	if lines[last] == "" {
		return lines[:last]
	}
	lines[last] += "\n"
	return append(lines, noNewlineMarker)
}
