// Package scanning orchestrates a scan: file discovery, exclude filtering,
// per-rule glob dispatch, violation aggregation, and ratchet resolution.
package scanning

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"time"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/config"
	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/domain/rules"
	"github.com/actions-marketplace-validations/stewartjarod-guardrails/pkg/common/logger"
)

// binarySniffLen bounds how much of a file is inspected for NUL bytes when
// deciding whether it is scannable text.
const binarySniffLen = 8192

// ScanEngine runs rule sets over target paths. Rules hold no shared mutable
// state, so files are sharded across a bounded worker pool and per-file
// results are concatenated in discovery order to keep output deterministic.
type ScanEngine struct {
	log     *logger.Logger
	tracer  trace.Tracer
	workers int
}

// NewScanEngine constructs a ScanEngine. workers bounds the per-file worker
// pool; zero or negative means GOMAXPROCS.
func NewScanEngine(log *logger.Logger, tracer trace.Tracer, workers int) *ScanEngine {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &ScanEngine{log: log, tracer: tracer, workers: workers}
}

// ruleEntry pairs a built rule with its compiled file glob, if any.
type ruleEntry struct {
	rule rules.Rule
	glob glob.Glob
}

// Scan executes one full scan of the targets using the loaded configuration.
// Each setup failure (exclude glob compile, rule construction, per-rule glob
// compile) is terminal with the cause preserved; per-file read problems are
// recovered locally by skipping the file.
func (e *ScanEngine) Scan(ctx context.Context, cfg *config.Config, targets []string) (*ScanResult, error) {
	scanID := uuid.New()
	started := time.Now()

	ctx, span := e.tracer.Start(ctx, "scanning.scan",
		trace.WithAttributes(
			attribute.String("scan.id", scanID.String()),
			attribute.Int("scan.targets", len(targets)),
		))
	defer span.End()

	excludes, err := compileGlobSet(cfg.Guardrails.Exclude)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	entries, err := buildRules(cfg.Rules)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	files := discoverFiles(targets, excludes)
	e.log.Debug(ctx, "scan files discovered", "scan_id", scanID, "files", len(files), "rules", len(entries))

	type fileResult struct {
		scanned    bool
		violations []rules.Violation
	}
	results := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			content, ok := readTextFile(path)
			if !ok {
				return nil
			}

			sc := rules.ScanContext{FilePath: path, Content: content}
			var violations []rules.Violation
			for _, entry := range entries {
				if !ruleApplies(entry, path) {
					continue
				}
				violations = append(violations, entry.rule.CheckFile(&sc)...)
			}

			results[i] = fileResult{scanned: true, violations: violations}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		return nil, err
	}

	var violations []rules.Violation
	filesScanned := 0
	for _, fr := range results {
		if fr.scanned {
			filesScanned++
		}
		violations = append(violations, fr.violations...)
	}

	violations, ratchetCounts := resolveRatchets(entries, violations)

	result := &ScanResult{
		ScanID:        scanID,
		Violations:    violations,
		FilesScanned:  filesScanned,
		RulesLoaded:   len(entries),
		RatchetCounts: ratchetCounts,
	}

	span.SetAttributes(
		attribute.Int("scan.files_scanned", filesScanned),
		attribute.Int("scan.violations", len(violations)),
	)
	e.log.Info(ctx, "scan complete",
		"scan_id", scanID,
		"files_scanned", filesScanned,
		"rules_loaded", len(entries),
		"violations", len(violations),
		"duration_ms", time.Since(started).Milliseconds(),
	)

	return result, nil
}

// buildRules constructs every declared rule via the factory, short-circuiting
// on the first failure so no partial rule set ever runs. Per-rule globs are
// compiled once here.
func buildRules(specs []config.RuleSpec) ([]ruleEntry, error) {
	entries := make([]ruleEntry, 0, len(specs))
	for i := range specs {
		spec := &specs[i]

		rule, err := rules.Build(spec.Type, spec.ToRuleConfig())
		if err != nil {
			return nil, err
		}

		entry := ruleEntry{rule: rule}
		if pattern := rule.FileGlob(); pattern != "" {
			g, err := compileRuleGlob(rule.ID(), pattern)
			if err != nil {
				return nil, err
			}
			entry.glob = g
		}

		entries = append(entries, entry)
	}
	return entries, nil
}

// discoverFiles enumerates scan candidates in deterministic order. A target
// that is a single file is included unconditionally: explicit selection
// overrides excludes. Directory targets are walked recursively and each
// file's path relative to that target is tested against the exclude set;
// files under an excluded subpath drop out through the same relative-path
// test.
func discoverFiles(targets []string, excludes *globSet) []string {
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			continue
		}

		if !info.IsDir() {
			files = append(files, target)
			continue
		}

		_ = filepath.WalkDir(target, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil || d.IsDir() || !d.Type().IsRegular() {
				return nil
			}

			rel, relErr := filepath.Rel(target, path)
			if relErr != nil {
				rel = path
			}
			if excludes.Match(filepath.ToSlash(rel)) {
				return nil
			}

			files = append(files, path)
			return nil
		})
	}
	return files
}

// ruleApplies reports whether a rule's glob admits the file. The glob is
// tested against the full path and the bare filename; a globless rule runs
// on every file.
func ruleApplies(entry ruleEntry, path string) bool {
	if entry.glob == nil {
		return true
	}
	return entry.glob.Match(filepath.ToSlash(path)) || entry.glob.Match(filepath.Base(path))
}

// readTextFile reads a file's content for scanning. Unreadable content
// (read errors, NUL bytes in the leading window, invalid UTF-8) reads as
// not-ok and the file is skipped without being counted.
func readTextFile(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}

	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return "", false
	}
	if !utf8.Valid(data) {
		return "", false
	}

	return string(data), true
}

// resolveRatchets applies the all-or-nothing ratchet gate: for each budgeted
// rule the total violation count across the scan is recorded, and when the
// count stays at or under the budget every violation for that rule is
// dropped from the reported list. The (found, max) pair is recorded either
// way, so every loaded ratchet rule has exactly one entry.
func resolveRatchets(entries []ruleEntry, violations []rules.Violation) ([]rules.Violation, map[string]RatchetCount) {
	counts := make(map[string]RatchetCount)

	found := make(map[string]int)
	for _, v := range violations {
		found[v.RuleID]++
	}

	suppress := make(map[string]bool)
	for _, entry := range entries {
		budgeted, ok := entry.rule.(rules.Budgeted)
		if !ok {
			continue
		}

		id := entry.rule.ID()
		count := RatchetCount{Found: found[id], Max: budgeted.MaxCount()}
		counts[id] = count
		if count.Pass() {
			suppress[id] = true
		}
	}

	if len(suppress) == 0 {
		return violations, counts
	}

	kept := violations[:0]
	for _, v := range violations {
		if !suppress[v.RuleID] {
			kept = append(kept, v)
		}
	}
	return kept, counts
}
