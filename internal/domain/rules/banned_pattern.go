package rules

// BannedPatternRule flags every occurrence of a literal or regex pattern.
// Unlike RatchetRule there is no budget; matches are always surfaced.
type BannedPatternRule struct {
	id       string
	severity Severity
	message  string
	suggest  string
	glob     string
	matcher  patternMatcher
}

// NewBannedPatternRule builds a banned-pattern rule from config. A non-empty
// pattern is required.
func NewBannedPatternRule(cfg *RuleConfig) (*BannedPatternRule, error) {
	matcher, err := newPatternMatcher(cfg.ID, cfg.Pattern, cfg.Regex)
	if err != nil {
		return nil, err
	}

	return &BannedPatternRule{
		id:       cfg.ID,
		severity: cfg.Severity,
		message:  cfg.Message,
		suggest:  cfg.Suggest,
		glob:     cfg.Glob,
		matcher:  matcher,
	}, nil
}

// ID returns the rule's unique identifier.
func (r *BannedPatternRule) ID() string { return r.id }

// Severity returns the severity attached to the rule's violations.
func (r *BannedPatternRule) Severity() Severity { return r.severity }

// FileGlob returns the rule's file glob, or empty if it applies everywhere.
func (r *BannedPatternRule) FileGlob() string { return r.glob }

// CheckFile reports one violation per pattern occurrence.
func (r *BannedPatternRule) CheckFile(sc *ScanContext) []Violation {
	var violations []Violation

	for i, line := range splitLines(sc.Content) {
		for _, col := range r.matcher.findAll(line) {
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
