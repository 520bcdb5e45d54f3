package vcs

import "os"

// baseRefEnvVars are checked in fixed priority order: GitHub Actions,
// GitLab CI, Bitbucket Pipelines.
var baseRefEnvVars = []string{
	"GITHUB_BASE_REF",
	"CI_MERGE_REQUEST_TARGET_BRANCH_NAME",
	"BITBUCKET_PR_DESTINATION_BRANCH",
}

// DefaultBaseRef is used when no recognized CI environment variable is set.
const DefaultBaseRef = "main"

// DetectBaseRef returns the diff base ref from recognized CI environment
// variables, falling back to DefaultBaseRef. It is a pure function of the
// environment with no side effects.
func DetectBaseRef() string {
	return detectBaseRef(os.LookupEnv)
}

func detectBaseRef(lookup func(string) (string, bool)) string {
	for _, key := range baseRefEnvVars {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
	}
	return DefaultBaseRef
}
