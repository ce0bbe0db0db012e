// Package fingerprint derives a bounded cache key from the commit history of
// a fixed list of tracked files.
package fingerprint

import (
	"strings"
	"unicode/utf8"
)

// MaxLength is the fingerprint budget in characters.
const MaxLength = 40

// Files whose history invalidates generated shader caches. Order matters.
var trackedFiles = []string{
	"Source/Core/VideoCommon/PixelShaderGen.cpp",
	"Source/Core/VideoCommon/VertexShaderGen.cpp",
	"Source/Core/VideoCommon/LightingShaderGen.h",
	"Source/Core/VideoCommon/PixelShaderGen.h",
	"Source/Core/VideoCommon/ShaderGenCommon.h",
	"Source/Core/VideoCommon/VertexShaderGen.h",
	"Source/Core/VideoCommon/GeometryShaderGen.cpp",
	"Source/Core/VideoCommon/GeometryShaderGen.h",
	"Source/Core/VideoCommon/TessellationShaderGen.cpp",
	"Source/Core/VideoCommon/TessellationShaderGen.h",
}

// TrackedFiles returns a copy of the built-in tracked file list.
func TrackedFiles() []string {
	return append([]string(nil), trackedFiles...)
}

// FragmentLength returns how many characters each of n files contributes so
// that n fragments cover MaxLength. It is zero when n is not positive.
func FragmentLength(n int) int {
	if n <= 0 {
		return 0
	}
	length := (MaxLength + n - 1) / n
	if length < 1 {
		length = 1
	}
	for length*n < MaxLength {
		length++
	}
	return length
}

// Fragment is the outcome of looking up one tracked file: either the summary
// line of its latest commit or the error that prevented it.
type Fragment struct {
	Path string
	Line string
	Err  error
}

// Degraded reports whether the lookup failed.
func (f Fragment) Degraded() bool {
	return f.Err != nil
}

// Result is a computed fingerprint. A degraded result carries the failure
// text in Value instead of commit fragments.
type Result struct {
	Value    string
	Degraded bool
	Cause    error
	// Path is the tracked file whose lookup failed.
	Path string
}

// LookupFunc returns the latest commit summary line for path.
type LookupFunc func(path string) (string, error)

// Compute looks up each path in order and assembles the fingerprint. The walk
// stops at the first failed lookup.
func Compute(paths []string, lookup LookupFunc) Result {
	fragments := make([]Fragment, 0, len(paths))
	for _, path := range paths {
		line, err := lookup(path)
		fragments = append(fragments, Fragment{Path: path, Line: line, Err: err})
		if err != nil {
			break
		}
	}
	return Assemble(fragments, len(paths))
}

// Assemble concatenates fragment prefixes in order and truncates the result
// to MaxLength. total is the size of the tracked list the fragments came from.
func Assemble(fragments []Fragment, total int) Result {
	length := FragmentLength(total)

	var b strings.Builder
	for _, f := range fragments {
		if f.Degraded() {
			return degraded(f)
		}
		b.WriteString(prefix(f.Line, length))
	}

	return Result{Value: prefix(b.String(), MaxLength)}
}

func degraded(f Fragment) Result {
	return Result{
		Value:    truncateRunes(f.Err.Error(), MaxLength),
		Degraded: true,
		Cause:    f.Err,
		Path:     f.Path,
	}
}

func prefix(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
