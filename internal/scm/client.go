package scm

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnavailable indicates no usable version-control executable was found.
	ErrUnavailable = errors.New("scm: no usable git executable found")
	// ErrNoHistory indicates a path has no commit touching it.
	ErrNoHistory = errors.New("scm: no commit history")
)

// Query names used in QueryError.
const (
	QueryRevision    = "revision"
	QueryCommitCount = "commit count"
	QueryDescribe    = "describe"
	QueryBranch      = "branch"
	QueryLastCommit  = "last commit"
)

// QueryError reports a failed oracle query.
type QueryError struct {
	Query string
	Path  string
	Err   error
}

func (e *QueryError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("scm: %s for %s: %v", e.Query, e.Path, e.Err)
	}
	return fmt.Sprintf("scm: %s: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Facts are the four repository facts every run needs.
type Facts struct {
	Revision string
	Count    string
	Describe string
	Branch   string
}

// Client describes the repository queries required by the build services.
type Client interface {
	// Revision returns the current commit id.
	Revision(ctx context.Context) (string, error)

	// CommitCount returns the number of commits since the baseline ancestor, as text.
	CommitCount(ctx context.Context) (string, error)

	// Describe returns a describe-style string: <tag>-<distance>-<hash>[-dirty].
	Describe(ctx context.Context) (string, error)

	// Branch returns the current branch name.
	Branch(ctx context.Context) (string, error)

	// LastCommit returns the one-line summary of the most recent commit touching path.
	LastCommit(ctx context.Context, path string) (string, error)
}

// Gather queries the mandatory facts in order and stops at the first failure.
func Gather(ctx context.Context, client Client) (Facts, error) {
	var facts Facts
	steps := []struct {
		dst *string
		fn  func(context.Context) (string, error)
	}{
		{&facts.Revision, client.Revision},
		{&facts.Count, client.CommitCount},
		{&facts.Describe, client.Describe},
		{&facts.Branch, client.Branch},
	}
	for _, step := range steps {
		value, err := step.fn(ctx)
		if err != nil {
			return Facts{}, err
		}
		*step.dst = value
	}
	return facts, nil
}
