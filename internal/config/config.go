// Package config defines the guardrails configuration file schema and its
// mapping onto the rule domain's config records.
package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/domain/rules"
)

// Config is the top-level structure of a guardrails config file
// (guardrails.toml or guardrails.yaml).
type Config struct {
	Guardrails GuardrailsSection `mapstructure:"guardrails" yaml:"guardrails"`
	Rules      []RuleSpec        `mapstructure:"rule" yaml:"rule" validate:"dive"`
}

// GuardrailsSection is the [guardrails] section. Include patterns are
// advisory for project-wide scanning; CLI-provided targets override them.
// Exclude patterns feed the scan's exclude glob set.
type GuardrailsSection struct {
	Name    string   `mapstructure:"name" yaml:"name"`
	Include []string `mapstructure:"include" yaml:"include"`
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`
}

// RuleSpec is one [[rule]] entry as written in the config file. Severity is
// kept as raw text here; unknown values degrade to warning during mapping.
type RuleSpec struct {
	ID       string `mapstructure:"id" yaml:"id" validate:"required"`
	Type     string `mapstructure:"type" yaml:"type" validate:"required"`
	Severity string `mapstructure:"severity" yaml:"severity"`
	Glob     string `mapstructure:"glob" yaml:"glob"`
	Message  string `mapstructure:"message" yaml:"message"`
	Suggest  string `mapstructure:"suggest" yaml:"suggest"`

	// Pattern-rule parameters.
	Pattern  string `mapstructure:"pattern" yaml:"pattern"`
	MaxCount *int   `mapstructure:"max_count" yaml:"max_count"`
	Regex    bool   `mapstructure:"regex" yaml:"regex"`

	// Import/dependency-rule parameters.
	Packages []string `mapstructure:"packages" yaml:"packages"`
	Manifest string   `mapstructure:"manifest" yaml:"manifest"`

	// Class-enforcement rule parameters.
	AllowedClasses []string `mapstructure:"allowed_classes" yaml:"allowed_classes"`
	TokenMap       []string `mapstructure:"token_map" yaml:"token_map"`
}

// ToRuleConfig maps the file-level spec onto the domain's RuleConfig record.
func (s *RuleSpec) ToRuleConfig() *rules.RuleConfig {
	return &rules.RuleConfig{
		ID:             s.ID,
		Severity:       rules.ParseSeverity(s.Severity),
		Message:        s.Message,
		Suggest:        s.Suggest,
		Glob:           s.Glob,
		Pattern:        s.Pattern,
		MaxCount:       s.MaxCount,
		Regex:          s.Regex,
		Packages:       s.Packages,
		Manifest:       s.Manifest,
		AllowedClasses: s.AllowedClasses,
		TokenMap:       s.TokenMap,
	}
}

var validate = validator.New()

// Validate checks the decoded config for structural problems (missing rule
// ids or types). Rule-kind-specific requirements are enforced by the rule
// constructors themselves.
func (c *Config) Validate() error {
	return validate.Struct(c)
}
