package scanning

import (
	"github.com/google/uuid"

	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/domain/rules"
)

// RatchetCount is the resolved budget state for one ratchet rule: how many
// occurrences the scan found against the allowed maximum.
type RatchetCount struct {
	Found int
	Max   int
}

// Pass reports whether the rule stayed at or under its budget.
func (c RatchetCount) Pass() bool { return c.Found <= c.Max }

// ScanResult is the terminal artifact of one scan. Violations are ordered by
// file-discovery order, then per-file rule order. RatchetCounts has exactly
// one entry per loaded ratchet rule, including zero counts.
type ScanResult struct {
	ScanID        uuid.UUID
	Violations    []rules.Violation
	FilesScanned  int
	RulesLoaded   int
	RatchetCounts map[string]RatchetCount
}

// HasErrors reports whether any violation carries error severity.
func (r *ScanResult) HasErrors() bool {
	for _, v := range r.Violations {
		if v.Severity == rules.SeverityError {
			return true
		}
	}
	return false
}

// Counts returns the number of error- and warning-severity violations.
func (r *ScanResult) Counts() (errs, warnings int) {
	for _, v := range r.Violations {
		if v.Severity == rules.SeverityError {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}
