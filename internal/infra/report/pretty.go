// Package report renders a ScanResult for humans (ANSI-styled, grouped by
// file) or machines (JSON).
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/app/scanning"
	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/domain/rules"
)

var (
	styleFile    = lipgloss.NewStyle().Underline(true)
	styleBold    = lipgloss.NewStyle().Bold(true)
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	stylePass    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleSuggest = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

// WritePretty renders violations grouped by file with a summary line and the
// ratchet budget table.
func WritePretty(w io.Writer, result *scanning.ScanResult) {
	if len(result.Violations) == 0 {
		fmt.Fprintf(w, "%s No violations found (%d files scanned, %d rules loaded)\n",
			stylePass.Render("✓"), result.FilesScanned, result.RulesLoaded)
		writeRatchetSummary(w, result.RatchetCounts)
		return
	}

	byFile := make(map[string][]rules.Violation)
	for _, v := range result.Violations {
		byFile[v.File] = append(byFile[v.File], v)
	}
	files := make([]string, 0, len(byFile))
	for file := range byFile {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		fmt.Fprintf(w, "\n%s\n", styleFile.Render(file))
		for _, v := range byFile[file] {
			severity := styleWarn.Render("warn ")
			if v.Severity == rules.SeverityError {
				severity = styleErr.Render("error")
			}

			line, col := v.Line, v.Column
			if line == 0 {
				line = 1
			}
			if col == 0 {
				col = 1
			}

			fmt.Fprintf(w, "  %s %s %s %s\n",
				styleDim.Render(fmt.Sprintf("%-8s", fmt.Sprintf("%d:%d", line, col))),
				severity,
				styleDim.Render(fmt.Sprintf("%-25s", v.RuleID)),
				v.Message,
			)

			if v.SourceLine != "" {
				fmt.Fprintf(w, "           %s %s\n", styleDim.Render("│"), strings.TrimSpace(v.SourceLine))
			}
			if v.Suggest != "" {
				fmt.Fprintf(w, "           %s %s\n", styleDim.Render("└─"), styleSuggest.Render(v.Suggest))
			}
		}
	}

	errs, warnings := result.Counts()

	var parts []string
	if errs > 0 {
		parts = append(parts, styleErr.Render(fmt.Sprintf("%d %s", errs, plural("error", errs))))
	}
	if warnings > 0 {
		parts = append(parts, styleWarn.Render(fmt.Sprintf("%d %s", warnings, plural("warning", warnings))))
	}

	fmt.Fprintf(w, "\n%s %s\n",
		styleBold.Render(strings.Join(parts, ", ")),
		styleBold.Render(fmt.Sprintf("(%d files scanned, %d rules loaded)", result.FilesScanned, result.RulesLoaded)),
	)

	writeRatchetSummary(w, result.RatchetCounts)
}

func writeRatchetSummary(w io.Writer, counts map[string]scanning.RatchetCount) {
	if len(counts) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s\n", styleBold.Render("Ratchet rules:"))

	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := counts[id]
		status := fmt.Sprintf("%s (%d/%d)", stylePass.Render("✓ pass"), c.Found, c.Max)
		if !c.Pass() {
			status = fmt.Sprintf("%s (%d/%d)", styleErr.Render("✗ OVER"), c.Found, c.Max)
		}
		fmt.Fprintf(w, "  %-30s %s\n", id, status)
	}
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
