// Package header persists generated header content only when it changed, so
// an unchanged header keeps its timestamp and does not trigger rebuilds.
package header

import (
	"bytes"
	"fmt"
	"os"
)

// DefaultPath is where the header is written when no output is configured.
const DefaultPath = "scmrev.h"

const filePerm os.FileMode = 0o644

// Outcome describes what Write did.
type Outcome string

const (
	// OutcomeUnchanged means the existing file already held the content.
	OutcomeUnchanged Outcome = "unchanged"
	// OutcomeUpdated means the content differed and was (or would be) written.
	OutcomeUpdated Outcome = "updated"
)

// Result captures a write attempt.
type Result struct {
	Path     string
	Outcome  Outcome
	Previous []byte
	// Written is false for unchanged content and for dry runs.
	Written bool
}

// Writer compares rendered content with the file on disk and overwrites it on
// mismatch.
type Writer struct {
	dryRun bool
}

// NewWriter creates a Writer. A dry-run Writer reports outcomes without
// touching the file.
func NewWriter(dryRun bool) Writer {
	return Writer{dryRun: dryRun}
}

// Write stores content at path unless the file already holds exactly that content.
func (w Writer) Write(path string, content []byte) (Result, error) {
	if path == "" {
		path = DefaultPath
	}

	previous := ReadExisting(path)
	result := Result{Path: path, Previous: previous}

	if bytes.Equal(previous, content) {
		result.Outcome = OutcomeUnchanged
		return result, nil
	}

	result.Outcome = OutcomeUpdated
	if w.dryRun {
		return result, nil
	}

	if err := os.WriteFile(path, content, filePerm); err != nil {
		return Result{}, fmt.Errorf("header: writing %s: %w", path, err)
	}
	result.Written = true
	return result, nil
}

// ReadExisting returns the current file content. A missing or unreadable file
// reads as empty.
func ReadExisting(path string) []byte {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	return data
}
