package report

import (
	"encoding/json"
	"io"

	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/app/scanning"
)

type jsonViolation struct {
	RuleID     string `json:"rule_id"`
	Severity   string `json:"severity"`
	File       string `json:"file"`
	Line       *int   `json:"line"`
	Column     *int   `json:"column"`
	Message    string `json:"message"`
	Suggest    string `json:"suggest,omitempty"`
	SourceLine string `json:"source_line,omitempty"`
}

type jsonSummary struct {
	Total        int `json:"total"`
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	FilesScanned int `json:"files_scanned"`
	RulesLoaded  int `json:"rules_loaded"`
}

type jsonRatchet struct {
	Found int  `json:"found"`
	Max   int  `json:"max"`
	Pass  bool `json:"pass"`
}

type jsonReport struct {
	Violations []jsonViolation        `json:"violations"`
	Summary    jsonSummary            `json:"summary"`
	Ratchet    map[string]jsonRatchet `json:"ratchet"`
}

// WriteJSON renders the result as indented JSON. Absent line/column values
// render as null.
func WriteJSON(w io.Writer, result *scanning.ScanResult) error {
	violations := make([]jsonViolation, 0, len(result.Violations))
	for _, v := range result.Violations {
		violations = append(violations, jsonViolation{
			RuleID:     v.RuleID,
			Severity:   string(v.Severity),
			File:       v.File,
			Line:       optional(v.Line),
			Column:     optional(v.Column),
			Message:    v.Message,
			Suggest:    v.Suggest,
			SourceLine: v.SourceLine,
		})
	}

	ratchet := make(map[string]jsonRatchet, len(result.RatchetCounts))
	for id, c := range result.RatchetCounts {
		ratchet[id] = jsonRatchet{Found: c.Found, Max: c.Max, Pass: c.Pass()}
	}

	errs, warnings := result.Counts()
	out := jsonReport{
		Violations: violations,
		Summary: jsonSummary{
			Total:        len(result.Violations),
			Errors:       errs,
			Warnings:     warnings,
			FilesScanned: result.FilesScanned,
			RulesLoaded:  result.RulesLoaded,
		},
		Ratchet: ratchet,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func optional(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
