package vcs

import (
	"errors"
	"fmt"
)

// ErrGitNotFound indicates the git binary is not installed or not in PATH.
var ErrGitNotFound = errors.New("git is not installed or not in PATH")

// ErrNotARepo indicates the working directory is not inside a git repository.
var ErrNotARepo = errors.New("not inside a git repository")

// BaseRefNotFoundError indicates the base ref could not be resolved directly,
// with the upstream remote prefix, or after a shallow fetch.
type BaseRefNotFoundError struct {
	Ref string
}

func (e *BaseRefNotFoundError) Error() string {
	return fmt.Sprintf("base ref %q not found (try fetching it first)", e.Ref)
}

// CommandError carries the diagnostic output of a failed git invocation.
type CommandError struct {
	Output string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("git command failed: %s", e.Output)
}
