package build

import (
	"context"
	"errors"
	"fmt"

	"github.com/launchbynttdata/launch-scmrev/internal/domain/describe"
	"github.com/launchbynttdata/launch-scmrev/internal/domain/fingerprint"
	"github.com/launchbynttdata/launch-scmrev/internal/domain/record"
	"github.com/launchbynttdata/launch-scmrev/internal/scm"
)

// ErrNilClient is returned when the service has no repository client.
var ErrNilClient = errors.New("build service: nil scm client")

// Result is the built record together with the inputs it was derived from.
type Result struct {
	Record      record.Record
	Facts       scm.Facts
	Fingerprint fingerprint.Result
}

// Service assembles version records from repository queries.
type Service struct {
	client scm.Client
	files  []string
}

// NewService constructs a Service fingerprinting the given tracked files.
func NewService(client scm.Client, trackedFiles []string) Service {
	return Service{client: client, files: append([]string(nil), trackedFiles...)}
}

// Build queries the mandatory repository facts and the tracked-file history.
// Failing to obtain any mandatory fact is an error; a failed history lookup
// only degrades the fingerprint. Cancellation is always an error.
func (s Service) Build(ctx context.Context) (Result, error) {
	if s.client == nil {
		return Result{}, ErrNilClient
	}

	facts, err := scm.Gather(ctx, s.client)
	if err != nil {
		return Result{}, fmt.Errorf("querying repository: %w", err)
	}

	fp := s.Fingerprint(ctx)
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("querying repository: %w", err)
	}

	return Result{
		Record: record.Record{
			Revision:    facts.Revision,
			Count:       facts.Count,
			Description: describe.Normalize(facts.Describe),
			Branch:      facts.Branch,
			Fingerprint: fp.Value,
			Stable:      record.IsStable(facts.Branch),
		},
		Facts:       facts,
		Fingerprint: fp,
	}, nil
}

// Fingerprint computes the cache key for the tracked files.
func (s Service) Fingerprint(ctx context.Context) fingerprint.Result {
	if s.client == nil {
		return fingerprint.Assemble([]fingerprint.Fragment{{Err: ErrNilClient}}, len(s.files))
	}
	return fingerprint.Compute(s.files, func(path string) (string, error) {
		return s.client.LastCommit(ctx, path)
	})
}
