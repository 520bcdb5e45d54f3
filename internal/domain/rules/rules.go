// Package rules provides the domain types for guardrail rules: the rule
// contract every rule kind implements, the configuration record rules are
// built from, and the violations they produce.
package rules

import "strings"

// Severity indicates how a reported violation should be treated.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// ParseSeverity maps a config-file severity string to a Severity.
// Unknown values degrade to SeverityWarning.
func ParseSeverity(s string) Severity {
	if strings.EqualFold(s, string(SeverityError)) {
		return SeverityError
	}
	return SeverityWarning
}

// RuleConfig carries the parameters for a single rule as declared in the
// configuration file. It is immutable once constructed; rules copy what they
// need at build time.
type RuleConfig struct {
	// ID uniquely identifies the rule within one scan.
	ID string

	Severity Severity
	Message  string

	// Suggest is optional remediation text attached to every violation.
	Suggest string

	// Glob restricts the rule to matching file paths. Empty means the rule
	// runs on every file.
	Glob string

	// Pattern is the literal or regex text searched for by pattern rules.
	Pattern string

	// MaxCount is the ratchet budget. A nil pointer means the field was not
	// provided; zero is a valid zero-tolerance budget.
	MaxCount *int

	// Regex controls whether Pattern is compiled as a regular expression
	// instead of searched as a literal.
	Regex bool

	// Packages lists banned package names for import/dependency rules.
	Packages []string

	// Manifest is the manifest filename checked by dependency rules.
	// Defaults to package.json when empty.
	Manifest string

	// AllowedClasses and TokenMap parameterize class-enforcement rule kinds.
	AllowedClasses []string
	TokenMap       []string
}

// ScanContext is a borrowed view of one file handed to a rule for a single
// check. Rules must not retain it past the CheckFile call.
type ScanContext struct {
	FilePath string
	Content  string
}

// Violation is one reported instance of a rule's condition at a specific
// location. Line and Column are 1-indexed; zero means not applicable.
// Column is a byte offset into the line plus one.
type Violation struct {
	RuleID     string
	Severity   Severity
	File       string
	Line       int
	Column     int
	Message    string
	Suggest    string
	SourceLine string
	Fix        string
}

// Rule is the contract every rule kind implements. CheckFile must be a pure
// function of the rule's compiled config and the given content so rules can
// be evaluated concurrently across files.
type Rule interface {
	// ID returns the rule's unique identifier.
	ID() string

	// Severity returns the severity attached to the rule's violations.
	Severity() Severity

	// FileGlob returns the rule's file glob, or empty if the rule applies
	// to every file.
	FileGlob() string

	// CheckFile evaluates the rule against one file's content and returns
	// the violations found, in line-then-column order.
	CheckFile(sc *ScanContext) []Violation
}

// Budgeted is implemented by rule kinds whose violations are gated by an
// allowed-occurrence budget. The scan layer resolves the budget after all
// files are checked.
type Budgeted interface {
	// MaxCount returns the allowed number of occurrences before violations
	// are surfaced.
	MaxCount() int
}

// splitLines breaks content into lines the way rules count them: split on
// '\n', strip one trailing '\r', and no phantom empty line when the content
// ends with a newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}

	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
