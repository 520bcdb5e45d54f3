package rules

// RatchetRule counts literal or regex pattern occurrences against an
// allowed-occurrence budget. Every match is reported as a violation; the
// scan layer post-processes the total in Budgeted resolution: at or under
// MaxCount all of the rule's violations are suppressed, over it all are
// kept. The gate is all-or-nothing per rule, never per violation.
type RatchetRule struct {
	id       string
	severity Severity
	message  string
	suggest  string
	glob     string
	pattern  string
	maxCount int
	matcher  patternMatcher
}

// NewRatchetRule builds a ratchet rule from config. A non-empty pattern and
// a max_count are required; regex mode compiles the pattern once here.
func NewRatchetRule(cfg *RuleConfig) (*RatchetRule, error) {
	matcher, err := newPatternMatcher(cfg.ID, cfg.Pattern, cfg.Regex)
	if err != nil {
		return nil, err
	}

	if cfg.MaxCount == nil {
		return nil, &MissingFieldError{RuleID: cfg.ID, Field: "max_count"}
	}

	return &RatchetRule{
		id:       cfg.ID,
		severity: cfg.Severity,
		message:  cfg.Message,
		suggest:  cfg.Suggest,
		glob:     cfg.Glob,
		pattern:  cfg.Pattern,
		maxCount: *cfg.MaxCount,
		matcher:  matcher,
	}, nil
}

// ID returns the rule's unique identifier.
func (r *RatchetRule) ID() string { return r.id }

// Severity returns the severity attached to the rule's violations.
func (r *RatchetRule) Severity() Severity { return r.severity }

// FileGlob returns the rule's file glob, or empty if it applies everywhere.
func (r *RatchetRule) FileGlob() string { return r.glob }

// Pattern returns the configured pattern text.
func (r *RatchetRule) Pattern() string { return r.pattern }

// MaxCount returns the allowed number of occurrences before the scan layer
// surfaces the rule's violations.
func (r *RatchetRule) MaxCount() int { return r.maxCount }

// CheckFile reports one violation per pattern occurrence, carrying the
// rule's static message, suggestion, and the untrimmed source line.
func (r *RatchetRule) CheckFile(sc *ScanContext) []Violation {
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
