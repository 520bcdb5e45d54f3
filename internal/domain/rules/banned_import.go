package rules

import (
	"strings"

	regexp "github.com/wasilibs/go-re2"
)

// BannedImportRule flags JavaScript/TypeScript imports of banned packages.
// It matches ES `import ... from 'pkg'`, bare `import 'pkg'`, and CommonJS
// `require('pkg')` forms, including subpath imports of the package.
type BannedImportRule struct {
	id       string
	severity Severity
	message  string
	suggest  string
	glob     string
	re       *regexp.Regexp
}

// NewBannedImportRule builds a banned-import rule from config. At least one
// package name is required.
func NewBannedImportRule(cfg *RuleConfig) (*BannedImportRule, error) {
	if len(cfg.Packages) == 0 {
		return nil, &MissingFieldError{RuleID: cfg.ID, Field: "packages"}
	}

	quoted := make([]string, 0, len(cfg.Packages))
	for _, pkg := range cfg.Packages {
		quoted = append(quoted, regexp.QuoteMeta(pkg))
	}

	// The capture starts at the package name so violation columns point at
	// the import target, not the keyword.
	pattern := `(?:import\s*\(?\s*|from\s+|require\s*\(\s*)['"](` +
		strings.Join(quoted, "|") + `)(?:/[^'"]*)?['"]`
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &InvalidRegexError{RuleID: cfg.ID, Err: err}
	}

	return &BannedImportRule{
		id:       cfg.ID,
		severity: cfg.Severity,
		message:  cfg.Message,
		suggest:  cfg.Suggest,
		glob:     cfg.Glob,
		re:       re,
	}, nil
}

// ID returns the rule's unique identifier.
func (r *BannedImportRule) ID() string { return r.id }

// Severity returns the severity attached to the rule's violations.
func (r *BannedImportRule) Severity() Severity { return r.severity }

// FileGlob returns the rule's file glob, or empty if it applies everywhere.
func (r *BannedImportRule) FileGlob() string { return r.glob }

// CheckFile reports one violation per banned import statement, positioned
// at the imported package name.
func (r *BannedImportRule) CheckFile(sc *ScanContext) []Violation {
	var violations []Violation

	for i, line := range splitLines(sc.Content) {
		for _, loc := range r.re.FindAllStringSubmatchIndex(line, -1) {
			col := loc[2] // start of the package-name capture
			violations = append(violations, Violation{
				RuleID:     r.id,
				Severity:   r.severity,
				File:       sc.FilePath,
				Line:       i + 1,
				Column:     col + 1,
				Message:    r.message,
				Suggest:    r.suggest,
				SourceLine: line,
			})
		}
	}

	return violations
}
