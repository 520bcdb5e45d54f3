package vcs

import (
	"fmt"
	"strings"

	"github.com/gitleaks/go-gitdiff/gitdiff"
)

// LineRange is an inclusive range of 1-indexed new-side line numbers.
type LineRange struct {
	Start int
	End   int
}

// Contains reports whether the line lies within the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line <= r.End
}

// DiffInfo maps relative file paths to the ordered list of new-side line
// ranges changed in one diff invocation. Read-only after construction.
type DiffInfo struct {
	changedLines map[string][]LineRange
}

// ParseDiff parses unified diff text into a DiffInfo. Each hunk contributes
// its new-side span; a hunk with zero new-side lines is a pure deletion and
// contributes no range. Multiple hunks for one file accumulate in file
// order, never merged. Files are registered even when all their hunks are
// pure deletions. Malformed diff text is a terminal error, never a partial
// index.
func ParseDiff(diffText string) (*DiffInfo, error) {
	filesCh, err := gitdiff.Parse(strings.NewReader(diffText))
	if err != nil {
		return nil, &CommandError{Output: err.Error()}
	}

	changed := make(map[string][]LineRange)
	parsed := 0
	for file := range filesCh {
		parsed += len(file.TextFragments)

		if file.IsDelete {
			continue
		}

		path := file.NewName
		if path == "" {
			continue
		}
		if _, ok := changed[path]; !ok {
			changed[path] = nil
		}

		for _, frag := range file.TextFragments {
			if frag.NewLines == 0 {
				continue
			}
			start := int(frag.NewPosition)
			changed[path] = append(changed[path], LineRange{
				Start: start,
				End:   start + int(frag.NewLines) - 1,
			})
		}
	}

	// The streaming parser closes its channel on a mid-stream parse failure
	// without surfacing the error. Cross-check the consumed hunks against
	// the headers in the raw text so malformed input fails instead of
	// producing a truncated index.
	if want := countHunkHeaders(diffText); parsed != want {
		return nil, &CommandError{
			Output: fmt.Sprintf("malformed diff: parsed %d of %d hunks", parsed, want),
		}
	}

	return &DiffInfo{changedLines: changed}, nil
}

// countHunkHeaders counts hunk header lines in raw diff text. The diff is
// produced with zero context, so body lines always start with '+', '-',
// or '\' and never shadow a header.
func countHunkHeaders(diffText string) int {
	n := 0
	for _, line := range strings.Split(diffText, "\n") {
		if strings.HasPrefix(line, "@@ -") {
			n++
		}
	}
	return n
}

// HasFile reports whether the file appears in the diff at all, including
// files registered with zero ranges.
func (d *DiffInfo) HasFile(path string) bool {
	_, ok := d.changedLines[path]
	return ok
}

// HasLine reports whether any recorded range for the file contains the
// line. An absent file is false, never an error.
func (d *DiffInfo) HasLine(path string, line int) bool {
	for _, r := range d.changedLines[path] {
		if r.Contains(line) {
			return true
		}
	}
	return false
}

// Ranges returns the recorded ranges for a file in hunk order.
func (d *DiffInfo) Ranges(path string) []LineRange {
	return d.changedLines[path]
}

// Files returns the number of files recorded in the diff.
func (d *DiffInfo) Files() int {
	return len(d.changedLines)
}
