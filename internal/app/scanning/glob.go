package scanning

import (
	"fmt"

	"github.com/gobwas/glob"
)

// globSet matches a path against a compiled set of glob patterns. All
// patterns compile with '/' as the separator so '*' never crosses a path
// boundary while '**' does.
type globSet struct {
	globs []glob.Glob
}

func compileGlobSet(patterns []string) (*globSet, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return &globSet{globs: globs}, nil
}

func (s *globSet) Match(path string) bool {
	for _, g := range s.globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}

func compileRuleGlob(ruleID, pattern string) (glob.Glob, error) {
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return nil, fmt.Errorf("rule %q: invalid glob pattern %q: %w", ruleID, pattern, err)
	}
	return g, nil
}
