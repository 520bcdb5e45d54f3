// Package vcs isolates the version-control collaborator behind a narrow
// surface: resolve the repository root, verify a ref, produce a no-context
// diff, and shallow-fetch a ref. Diff text parsing lives beside it so hunk
// and ref handling stay unit-testable against literal fixtures without git
// present.
package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/actions-marketplace-validations/stewartjarod-guardrails/pkg/common/logger"
)

// runGitFunc executes one git invocation and returns stdout, stderr, and an
// error. Errors that are not exec.ExitError mean the binary could not be
// run at all.
type runGitFunc func(ctx context.Context, args ...string) (stdout, stderr string, err error)

// GitClient invokes the local git binary for diff acquisition. It holds no
// state between calls; every operation is a fresh subprocess.
type GitClient struct {
	log    *logger.Logger
	tracer trace.Tracer
	remote string

	run runGitFunc
}

// NewGitClient constructs a GitClient using the "origin" upstream remote.
func NewGitClient(log *logger.Logger, tracer trace.Tracer) *GitClient {
	return &GitClient{
		log:    log,
		tracer: tracer,
		remote: "origin",
		run:    runGit,
	}
}

func runGit(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// startFailed reports whether the error came from failing to launch git at
// all, as opposed to git running and exiting non-zero.
func startFailed(err error) bool {
	var exitErr *exec.ExitError
	return err != nil && !errors.As(err, &exitErr)
}

// RepoRoot resolves the repository's top-level directory. It fails with
// ErrGitNotFound when git cannot be invoked and ErrNotARepo when the working
// directory is not inside a repository.
func (c *GitClient) RepoRoot(ctx context.Context) (string, error) {
	stdout, _, err := c.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		if startFailed(err) {
			return "", ErrGitNotFound
		}
		return "", ErrNotARepo
	}
	return strings.TrimSpace(stdout), nil
}

// RefExists reports whether the ref resolves. Any failure reads as false.
func (c *GitClient) RefExists(ctx context.Context, ref string) bool {
	_, _, err := c.run(ctx, "rev-parse", "--verify", ref)
	return err == nil
}

// FetchRef shallow-fetches one ref from the upstream remote. Failures are
// ignored; the caller re-checks ref existence afterwards.
func (c *GitClient) FetchRef(ctx context.Context, ref string) {
	_, stderr, err := c.run(ctx, "fetch", "--depth=1", c.remote, ref)
	if err != nil {
		c.log.Debug(ctx, "shallow fetch failed", "ref", ref, "stderr", strings.TrimSpace(stderr))
	}
}

// ResolveBaseRef resolves a base ref trying, in order: the ref as given,
// the remote-qualified form, the qualified form again after a shallow
// fetch, and finally the raw ref again. It fails with BaseRefNotFoundError
// only when all four miss.
func (c *GitClient) ResolveBaseRef(ctx context.Context, ref string) (string, error) {
	if c.RefExists(ctx, ref) {
		return ref, nil
	}

	qualified := c.remote + "/" + ref
	if c.RefExists(ctx, qualified) {
		return qualified, nil
	}

	c.FetchRef(ctx, ref)

	if c.RefExists(ctx, qualified) {
		return qualified, nil
	}
	if c.RefExists(ctx, ref) {
		return ref, nil
	}

	return "", &BaseRefNotFoundError{Ref: ref}
}

// DiffIndex produces the changed-line index for a merge-base-relative
// comparison between the resolved base and HEAD, filtered to added, copied,
// modified, and renamed files with zero context lines.
func (c *GitClient) DiffIndex(ctx context.Context, baseRef string) (*DiffInfo, error) {
	ctx, span := c.tracer.Start(ctx, "vcs.diff_index",
		trace.WithAttributes(attribute.String("base_ref", baseRef)))
	defer span.End()

	if _, err := c.RepoRoot(ctx); err != nil {
		span.RecordError(err)
		return nil, err
	}

	base, err := c.ResolveBaseRef(ctx, baseRef)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	stdout, stderr, err := c.run(ctx, "diff", "-U0", "--diff-filter=ACMR", fmt.Sprintf("%s...HEAD", base))
	if err != nil {
		if startFailed(err) {
			span.RecordError(ErrGitNotFound)
			return nil, ErrGitNotFound
		}
		cmdErr := &CommandError{Output: strings.TrimSpace(stderr)}
		span.RecordError(cmdErr)
		return nil, cmdErr
	}

	info, err := ParseDiff(stdout)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("files.changed", info.Files()))
	c.log.Debug(ctx, "diff index built", "base", base, "files_changed", info.Files())
	return info, nil
}
