package rules

import (
	"encoding/json"
	"strings"
)

const defaultManifest = "package.json"

// BannedDependencyRule flags banned packages declared in a dependency
// manifest. The manifest defaults to package.json; its dependencies and
// devDependencies sections are both checked.
type BannedDependencyRule struct {
	id       string
	severity Severity
	message  string
	suggest  string
	manifest string
	packages []string
}

// NewBannedDependencyRule builds a banned-dependency rule from config. At
// least one package name is required.
func NewBannedDependencyRule(cfg *RuleConfig) (*BannedDependencyRule, error) {
	if len(cfg.Packages) == 0 {
		return nil, &MissingFieldError{RuleID: cfg.ID, Field: "packages"}
	}

	manifest := cfg.Manifest
	if manifest == "" {
		manifest = defaultManifest
	}

	return &BannedDependencyRule{
		id:       cfg.ID,
		severity: cfg.Severity,
		message:  cfg.Message,
		suggest:  cfg.Suggest,
		manifest: manifest,
		packages: cfg.Packages,
	}, nil
}

// ID returns the rule's unique identifier.
func (r *BannedDependencyRule) ID() string { return r.id }

// Severity returns the severity attached to the rule's violations.
func (r *BannedDependencyRule) Severity() Severity { return r.severity }

// FileGlob scopes the rule to its manifest filename so the scan layer only
// dispatches manifest files to it.
func (r *BannedDependencyRule) FileGlob() string { return r.manifest }

// Manifest returns the manifest filename the rule inspects.
func (r *BannedDependencyRule) Manifest() string { return r.manifest }

// CheckFile parses the manifest and reports one violation per banned package
// found in dependencies or devDependencies, located at its declaration line.
// Content that does not parse as a manifest produces no violations.
func (r *BannedDependencyRule) CheckFile(sc *ScanContext) []Violation {
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal([]byte(sc.Content), &manifest); err != nil {
		return nil
	}

	lines := splitLines(sc.Content)

	var violations []Violation
	for _, pkg := range r.packages {
		_, inDeps := manifest.Dependencies[pkg]
		_, inDev := manifest.DevDependencies[pkg]
		if !inDeps && !inDev {
			continue
		}

		line, col := locateKey(lines, pkg)
		violations = append(violations, Violation{
			RuleID:     r.id,
			Severity:   r.severity,
			File:       sc.FilePath,
			Line:       line,
			Column:     col,
			Message:    r.message,
			Suggest:    r.suggest,
			SourceLine: sourceLineAt(lines, line),
		})
	}

	return violations
}

// locateKey finds the first line declaring the quoted key and returns its
// 1-indexed line and column. Both are zero when the key is not found in the
// raw text (the manifest parsed, so this only happens with exotic escaping).
func locateKey(lines []string, key string) (int, int) {
	needle := `"` + key + `"`
	for i, line := range lines {
		if col := strings.Index(line, needle); col >= 0 {
			return i + 1, col + 1
		}
	}
	return 0, 0
}

func sourceLineAt(lines []string, line int) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}
