package record

import "testing"

func TestIsStable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		branch string
		want   bool
	}{
		{branch: "master", want: true},
		{branch: "stable", want: true},
		{branch: "", want: false},
		{branch: "Master", want: false},
		{branch: "STABLE", want: false},
		{branch: "master ", want: false},
		{branch: "main", want: false},
		{branch: "feature/stable", want: false},
		{branch: "HEAD", want: false},
	}

	for _, testCase := range tests {
		tc := testCase
		t.Run("branch="+tc.branch, func(t *testing.T) {
			t.Parallel()

			if got := IsStable(tc.branch); got != tc.want {
				t.Fatalf("IsStable(%q): expected %v got %v", tc.branch, tc.want, got)
			}
		})
	}
}

func TestRender(t *testing.T) {
	t.Parallel()

	fp := "0123456789abcdef0123456789abcdef01234567"
	r := Record{
		Revision:    "abc123",
		Count:       "42",
		Description: "v1.2",
		Branch:      "master",
		Fingerprint: fp,
		Stable:      true,
	}

	want := "#define SCM_REV_STR \"abc123\"\n" +
		"#define SCM_DESC_STR \"42(v1.2)\"\n" +
		"#define SCM_BRANCH_STR \"master\"\n" +
		"#define SCM_CACHE_STR \"" + fp + "\"\n" +
		"#define SCM_IS_MASTER 1\n"

	if got := string(Render(r)); got != want {
		t.Fatalf("unexpected render:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderUnstableFlag(t *testing.T) {
	t.Parallel()

	got := string(Render(Record{Branch: "feature/x"}))
	want := "#define SCM_REV_STR \"\"\n" +
		"#define SCM_DESC_STR \"()\"\n" +
		"#define SCM_BRANCH_STR \"feature/x\"\n" +
		"#define SCM_CACHE_STR \"\"\n" +
		"#define SCM_IS_MASTER 0\n"
	if got != want {
		t.Fatalf("unexpected render:\n%s", got)
	}
}
