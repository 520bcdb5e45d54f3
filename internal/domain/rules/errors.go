package rules

import "fmt"

// MissingFieldError indicates a rule declaration omitted (or left empty) a
// field its rule kind requires.
type MissingFieldError struct {
	RuleID string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("rule %q: missing required field %q", e.RuleID, e.Field)
}

// InvalidRegexError indicates a rule's pattern failed to compile in regex
// mode. The compile error is preserved as the cause.
type InvalidRegexError struct {
	RuleID string
	Err    error
}

func (e *InvalidRegexError) Error() string {
	return fmt.Sprintf("rule %q: invalid regex: %v", e.RuleID, e.Err)
}

func (e *InvalidRegexError) Unwrap() error { return e.Err }

// UnknownRuleTypeError indicates a rule declaration named a type the factory
// has no builder for.
type UnknownRuleTypeError struct {
	RuleType string
}

func (e *UnknownRuleTypeError) Error() string {
	return fmt.Sprintf("unknown rule type: %q", e.RuleType)
}
