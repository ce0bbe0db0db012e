package scm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	shellwords "github.com/mattn/go-shellwords"
)

// DefaultBaseline is the ancestor commit the revision count is measured from.
const DefaultBaseline = "e1656af8191700f32c18b06d18b9a099d281b95b"

var defaultCandidates = []string{"git.cmd", "git", "git.bat"}

// topPathspec anchors a pathspec at the top of the working tree.
const topPathspec = ":(top)"

// Config controls how the git-backed client locates and runs git.
type Config struct {
	// Dir is the working directory git runs in. Empty means the current directory.
	Dir string
	// Command overrides executable discovery. It may carry leading arguments,
	// e.g. "git -c core.quotepath=off".
	Command string
	// Baseline defaults to DefaultBaseline.
	Baseline string
	// LookPath defaults to exec.LookPath.
	LookPath func(file string) (string, error)
}

// NewGitClient locates a git executable and returns a Client backed by it.
func NewGitClient(cfg Config) (Client, error) {
	lookPath := cfg.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	baseline := strings.TrimSpace(cfg.Baseline)
	if baseline == "" {
		baseline = DefaultBaseline
	}

	exe, args, err := locate(strings.TrimSpace(cfg.Command), lookPath)
	if err != nil {
		return nil, err
	}

	return &gitClient{
		exe:      exe,
		args:     args,
		dir:      strings.TrimSpace(cfg.Dir),
		baseline: baseline,
	}, nil
}

func locate(command string, lookPath func(string) (string, error)) (string, []string, error) {
	if command != "" {
		words, err := shellwords.Parse(command)
		if err != nil {
			return "", nil, fmt.Errorf("parse git command %q: %w", command, err)
		}
		if len(words) == 0 {
			return "", nil, fmt.Errorf("%w: git command %q is empty", ErrUnavailable, command)
		}
		exe, err := lookPath(words[0])
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, words[0], err)
		}
		return exe, words[1:], nil
	}

	for _, candidate := range defaultCandidates {
		if exe, err := lookPath(candidate); err == nil {
			return exe, nil, nil
		}
	}
	return "", nil, fmt.Errorf("%w: check your PATH: %s", ErrUnavailable, os.Getenv("PATH"))
}

type gitClient struct {
	exe      string
	args     []string
	dir      string
	baseline string
}

func (c *gitClient) Revision(ctx context.Context) (string, error) {
	return c.run(ctx, QueryRevision, "", "rev-parse", "HEAD")
}

func (c *gitClient) CommitCount(ctx context.Context) (string, error) {
	return c.run(ctx, QueryCommitCount, "", "rev-list", "--count", "HEAD", "^"+c.baseline)
}

func (c *gitClient) Describe(ctx context.Context) (string, error) {
	return c.run(ctx, QueryDescribe, "", "describe", "--always", "--long", "--dirty")
}

func (c *gitClient) Branch(ctx context.Context) (string, error) {
	return c.run(ctx, QueryBranch, "", "rev-parse", "--abbrev-ref", "HEAD")
}

// LastCommit resolves path from the repository root, whatever directory git
// runs in.
func (c *gitClient) LastCommit(ctx context.Context, path string) (string, error) {
	line, err := c.run(ctx, QueryLastCommit, path, "log", "--pretty=oneline", "-n", "1", "--", topPathspec+path)
	if err != nil {
		return "", err
	}
	if line == "" {
		return "", &QueryError{Query: QueryLastCommit, Path: path, Err: ErrNoHistory}
	}
	return line, nil
}

// run executes git and returns the first line of stdout, trimmed.
func (c *gitClient) run(ctx context.Context, query, path string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	argv := make([]string, 0, len(c.args)+len(args))
	argv = append(argv, c.args...)
	argv = append(argv, args...)

	cmd := exec.CommandContext(ctx, c.exe, argv...)
	cmd.Dir = c.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%w: %s", err, msg)
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return "", &QueryError{Query: query, Path: path, Err: err}
	}

	return firstLine(stdout.String()), nil
}

func firstLine(out string) string {
	line, _, _ := strings.Cut(out, "\n")
	return strings.TrimSpace(line)
}
