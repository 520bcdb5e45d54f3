package rules

import "fmt"

// BuilderFunc constructs a rule from its validated config.
type BuilderFunc func(cfg *RuleConfig) (Rule, error)

// builders maps a rule-type tag from the config file to its constructor.
// The set is closed; registering new kinds means adding an entry here.
var builders = map[string]BuilderFunc{
	"ratchet":           func(cfg *RuleConfig) (Rule, error) { return NewRatchetRule(cfg) },
	"banned-pattern":    func(cfg *RuleConfig) (Rule, error) { return NewBannedPatternRule(cfg) },
	"banned-import":     func(cfg *RuleConfig) (Rule, error) { return NewBannedImportRule(cfg) },
	"banned-dependency": func(cfg *RuleConfig) (Rule, error) { return NewBannedDependencyRule(cfg) },
}

// Build constructs a rule instance for the given type tag. Unknown tags fail
// with UnknownRuleTypeError; construction failures are wrapped with the rule
// id, preserving the typed cause for errors.As.
func Build(ruleType string, cfg *RuleConfig) (Rule, error) {
	builder, ok := builders[ruleType]
	if !ok {
		return nil, &UnknownRuleTypeError{RuleType: ruleType}
	}

	rule, err := builder(cfg)
	if err != nil {
		return nil, fmt.Errorf("building rule %q: %w", cfg.ID, err)
	}
	return rule, nil
}

// KnownTypes returns the registered rule-type tags. Useful for diagnostics.
func KnownTypes() []string {
	types := make([]string, 0, len(builders))
	for t := range builders {
		types = append(types, t)
	}
	return types
}
