package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/launchbynttdata/launch-scmrev/internal/config"
	"github.com/launchbynttdata/launch-scmrev/internal/domain/fingerprint"
	"github.com/launchbynttdata/launch-scmrev/internal/domain/record"
	"github.com/launchbynttdata/launch-scmrev/internal/header"
	"github.com/launchbynttdata/launch-scmrev/internal/logging"
	"github.com/launchbynttdata/launch-scmrev/internal/scm"
	"github.com/launchbynttdata/launch-scmrev/internal/services/build"
	"github.com/launchbynttdata/launch-scmrev/internal/version"
)

const (
	envOutput   = "SCMREV_OUTPUT"
	envRepoDir  = "SCMREV_REPO_DIR"
	envGit      = "SCMREV_GIT"
	envBaseline = "SCMREV_BASELINE"
	envLogLevel = "SCMREV_LOG_LEVEL"
	envDryRun   = "SCMREV_DRY_RUN"
)

// Run executes the CLI with explicit arguments and output streams.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := newRootCommand(defaultDeps())
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// deps are the collaborators the commands construct at run time.
type deps struct {
	newLogger func(level string, w io.Writer) (*zap.Logger, error)
	newClient func(cfg scm.Config) (scm.Client, error)
	lookupEnv config.LookupFunc
	files     []string
}

func defaultDeps() deps {
	return deps{
		newLogger: logging.New,
		newClient: scm.NewGitClient,
		lookupEnv: os.LookupEnv,
		files:     fingerprint.TrackedFiles(),
	}
}

type rootFlagSet struct {
	output   *stringFlag
	repoDir  *stringFlag
	git      *stringFlag
	baseline *stringFlag
	logLevel *stringFlag
	dryRun   *boolFlag
}

type runtimeConfig struct {
	logger *zap.Logger
	client scm.Client
	output string
	dryRun bool
}

func newRootCommand(d deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scmrev",
		Short:         "Generate the SCM revision header, leaving it untouched when current",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.Version = version.Version
	cmd.SetVersionTemplate("scmrev {{.Version}}\n")

	flags := bindRootFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		runtime, cleanup, err := buildRuntime(flags, d, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer cleanup()

		return runGenerate(ctx, cmd.OutOrStdout(), runtime, d.files)
	}

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "scmrev %s\n", version.Summary()); err != nil {
				return fmt.Errorf("writing version info: %w", err)
			}
			return nil
		},
	}
}

func bindRootFlags(cmd *cobra.Command) *rootFlagSet {
	fs := cmd.Flags()
	return &rootFlagSet{
		output:   bindStringFlag(fs, "output", "o", envOutput, header.DefaultPath, "Header file to generate"),
		repoDir:  bindStringFlag(fs, "repo-dir", "C", envRepoDir, ".", "Directory git runs in; any directory inside the repository works"),
		git:      bindStringFlag(fs, "git", "", envGit, "", "Git command to use instead of searching PATH for git.cmd, git, git.bat"),
		baseline: bindStringFlag(fs, "baseline", "", envBaseline, scm.DefaultBaseline, "Ancestor commit the revision count is measured from"),
		logLevel: bindStringFlag(fs, "log-level", "", envLogLevel, logging.LevelTerse, "Log verbosity (terse or verbose)"),
		dryRun:   bindBoolFlag(fs, "dry-run", "n", envDryRun, false, "Report whether the header would change without writing it"),
	}
}

func buildRuntime(flags *rootFlagSet, d deps, logOut io.Writer) (runtimeConfig, func(), error) {
	nopResolver := config.NewResolver(zap.NewNop()).WithLookup(d.lookupEnv)
	logLevel := flags.logLevel.Value(nopResolver)

	logger, err := d.newLogger(logLevel, logOut)
	if err != nil {
		return runtimeConfig{}, nil, fmt.Errorf("configuring logger: %w", err)
	}
	cleanup := func() {
		_ = logger.Sync()
	}

	resolver := config.NewResolver(logger).WithLookup(d.lookupEnv)
	_ = flags.logLevel.Value(resolver)

	dryRun, err := flags.dryRun.Value(resolver)
	if err != nil {
		cleanup()
		return runtimeConfig{}, nil, err
	}

	output := flags.output.Value(resolver)
	if output == "" {
		output = header.DefaultPath
	}

	client, err := d.newClient(scm.Config{
		Dir:      flags.repoDir.Value(resolver),
		Command:  flags.git.Value(resolver),
		Baseline: flags.baseline.Value(resolver),
	})
	if err != nil {
		cleanup()
		return runtimeConfig{}, nil, err
	}

	return runtimeConfig{
		logger: logger,
		client: client,
		output: output,
		dryRun: dryRun,
	}, cleanup, nil
}

func runGenerate(ctx context.Context, out io.Writer, runtime runtimeConfig, files []string) error {
	service := build.NewService(runtime.client, files)
	result, err := service.Build(ctx)
	if err != nil {
		return err
	}

	rec := result.Record
	log := runtime.logger.With(zap.String("output", runtime.output))
	log.Debug("repository queried",
		zap.String("revision", rec.Revision),
		zap.String("count", rec.Count),
		zap.String("describe", result.Facts.Describe),
		zap.String("description", rec.Description),
		zap.String("branch", rec.Branch),
		zap.Bool("stable", rec.Stable),
	)

	fp := result.Fingerprint
	if fp.Degraded {
		log.Warn("fingerprint degraded",
			zap.String("path", fp.Path),
			zap.String("fingerprint", fp.Value),
			zap.Error(fp.Cause),
		)
	} else {
		log.Debug("fingerprint computed",
			zap.String("fingerprint", fp.Value),
			zap.Int("trackedFiles", len(files)),
			zap.Int("fragmentLength", fingerprint.FragmentLength(len(files))),
		)
	}

	content := record.Render(rec)
	writer := header.NewWriter(runtime.dryRun)
	written, err := writer.Write(runtime.output, content)
	if err != nil {
		return err
	}

	if written.Outcome == header.OutcomeUpdated {
		log.Debug("header changed", zap.String("diff", header.Diff(written.Path, written.Previous, content)))
	}

	if _, err := fmt.Fprintln(out, statusLine(written, rec.Description, runtime.dryRun)); err != nil {
		return fmt.Errorf("writing status: %w", err)
	}
	return nil
}

func statusLine(result header.Result, description string, dryRun bool) string {
	switch {
	case result.Outcome == header.OutcomeUnchanged:
		return fmt.Sprintf("%s current at %s", result.Path, description)
	case dryRun:
		return fmt.Sprintf("%s would be updated to %s", result.Path, description)
	default:
		return fmt.Sprintf("%s updated to %s", result.Path, description)
	}
}
