package header

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sample = "#define SCM_REV_STR \"abc123\"\n" +
	"#define SCM_DESC_STR \"42(v1.2)\"\n" +
	"#define SCM_BRANCH_STR \"master\"\n" +
	"#define SCM_CACHE_STR \"0123456789abcdef0123456789abcdef01234567\"\n" +
	"#define SCM_IS_MASTER 1\n"

func TestWriteMissingThenUnchanged(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scmrev.h")
	w := NewWriter(false)

	first, err := w.Write(path, []byte(sample))
	if err != nil {
		t.Fatalf("first write: %v", err)
	}
	if first.Outcome != OutcomeUpdated || !first.Written {
		t.Fatalf("expected first write to update, got %+v", first)
	}
	if len(first.Previous) != 0 {
		t.Fatalf("expected empty previous content, got %q", first.Previous)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != sample {
		t.Fatalf("unexpected content %q", data)
	}

	second, err := w.Write(path, []byte(sample))
	if err != nil {
		t.Fatalf("second write: %v", err)
	}
	if second.Outcome != OutcomeUnchanged || second.Written {
		t.Fatalf("expected second write to be unchanged, got %+v", second)
	}
}

func TestWriteUnchangedKeepsTimestamp(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scmrev.h")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	old := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	result, err := NewWriter(false).Write(path, []byte(sample))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if result.Outcome != OutcomeUnchanged {
		t.Fatalf("expected unchanged, got %s", result.Outcome)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.ModTime().Equal(old) {
		t.Fatalf("expected mtime %v to be preserved, got %v", old, info.ModTime())
	}
}

func TestWriteOverwritesDifferentContent(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scmrev.h")
	stale := strings.Replace(sample, "abc123", "fff000", 1)
	if err := os.WriteFile(path, []byte(stale+"#define EXTRA 1\n"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	result, err := NewWriter(false).Write(path, []byte(sample))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if result.Outcome != OutcomeUpdated || !result.Written {
		t.Fatalf("expected update, got %+v", result)
	}
	if !strings.Contains(string(result.Previous), "fff000") {
		t.Fatalf("expected previous content to be captured, got %q", result.Previous)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(data) != sample {
		t.Fatalf("expected full overwrite, got %q", data)
	}
}

func TestWriteDryRunLeavesFileAlone(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "scmrev.h")

	result, err := NewWriter(true).Write(path, []byte(sample))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if result.Outcome != OutcomeUpdated || result.Written {
		t.Fatalf("expected unwritten update, got %+v", result)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file to be absent, stat err %v", err)
	}
}

func TestWriteUnreadableTreatedAsEmpty(t *testing.T) {
	t.Parallel()

	// A directory cannot be read as a file, nor overwritten by one.
	path := t.TempDir()

	if got := ReadExisting(path); got != nil {
		t.Fatalf("expected nil content, got %q", got)
	}

	result, err := NewWriter(true).Write(path, []byte(sample))
	if err != nil {
		t.Fatalf("dry-run write: %v", err)
	}
	if result.Outcome != OutcomeUpdated {
		t.Fatalf("expected updated, got %s", result.Outcome)
	}

	if _, err := NewWriter(false).Write(path, []byte(sample)); err == nil {
		t.Fatal("expected write into a directory to fail")
	}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	before := strings.Replace(sample, "42(v1.2)", "41(v1.2)", 1)
	text := Diff("scmrev.h", []byte(before), []byte(sample))

	for _, want := range []string{
		"--- scmrev.h (before)",
		"+++ scmrev.h (after)",
		"-#define SCM_DESC_STR \"41(v1.2)\"",
		"+#define SCM_DESC_STR \"42(v1.2)\"",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("diff missing %q:\n%s", want, text)
		}
	}

	if Diff("scmrev.h", []byte(sample), []byte(sample)) != "" {
		t.Fatal("expected empty diff for identical content")
	}
}

func TestDiffFromEmpty(t *testing.T) {
	t.Parallel()

	text := Diff("scmrev.h", nil, []byte("#define A 1\n"))

	if !strings.Contains(text, "\n+#define A 1\n") {
		t.Fatalf("expected the new line as an addition:\n%s", text)
	}
	if strings.Contains(text, "\n-") || strings.Contains(text, "\n \n") || strings.Contains(text, "\n+\n") {
		t.Fatalf("expected no blank context or removals:\n%s", text)
	}
}

func TestDiffTrailingNewlineOnly(t *testing.T) {
	t.Parallel()

	trimmed := strings.TrimSuffix(sample, "\n")
	text := Diff("scmrev.h", []byte(trimmed), []byte(sample))

	if text == "" {
		t.Fatal("expected a diff when only the final newline differs")
	}
	if !strings.Contains(text, "-"+noNewlineMarker) {
		t.Fatalf("expected the missing newline to be reported:\n%s", text)
	}
}

func TestSplitLines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "terminated", input: "a\nb\n", want: []string{"a\n", "b\n"}},
		{name: "unterminated", input: "a\nb", want: []string{"a\n", "b\n", noNewlineMarker}},
	}

	for _, testCase := range tests {
		tc := testCase
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := splitLines(tc.input)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %q got %q", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %q got %q", tc.want, got)
				}
			}
		})
	}
}
