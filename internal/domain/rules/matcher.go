package rules

import (
	"strings"

	regexp "github.com/wasilibs/go-re2"
)

// patternMatcher holds the compiled matching state shared by the pattern
// rule kinds. A matcher is exclusively literal or exclusively regex for its
// lifetime.
type patternMatcher struct {
	literal string
	re      *regexp.Regexp
}

// newPatternMatcher validates and compiles a rule's pattern. An absent or
// empty pattern is rejected so literal matching never has to define
// zero-length match semantics.
func newPatternMatcher(ruleID, pattern string, isRegex bool) (patternMatcher, error) {
	if pattern == "" {
		return patternMatcher{}, &MissingFieldError{RuleID: ruleID, Field: "pattern"}
	}

	if !isRegex {
		return patternMatcher{literal: pattern}, nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return patternMatcher{}, &InvalidRegexError{RuleID: ruleID, Err: err}
	}
	return patternMatcher{re: re}, nil
}

// findAll returns the byte offsets at which the pattern matches within one
// line, left to right. Regex matches are non-overlapping per the regexp
// contract; literal matches advance the cursor past each match's last byte,
// so repeats of the same literal never double-count ("aa" in "aaa" is one
// match).
func (m patternMatcher) findAll(line string) []int {
	if m.re != nil {
		locs := m.re.FindAllStringIndex(line, -1)
		if len(locs) == 0 {
			return nil
		}
		offsets := make([]int, 0, len(locs))
		for _, loc := range locs {
			offsets = append(offsets, loc[0])
		}
		return offsets
	}

	var offsets []int
	start := 0
	for {
		pos := strings.Index(line[start:], m.literal)
		if pos < 0 {
			return offsets
		}
		offsets = append(offsets, start+pos)
		start += pos + len(m.literal)
	}
}
