// Command guardrails scans a source tree for configured pattern violations
// and reports them, gating ratchet rules on their allowed-occurrence budgets.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/app/scanning"
	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/config/fileloader"
	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/infra/report"
	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/infra/vcs"
	"github.com/actions-marketplace-validations/stewartjarod-guardrails/pkg/common/logger"
)

// Exit codes: 0 clean, 1 error-severity violations found, 2 scan failed.
const (
	exitOK         = 0
	exitViolations = 1
	exitFailed     = 2
)

type scanOptions struct {
	configPath  string
	format      string
	changedOnly bool
	baseRef     string
	workers     int
	verbose     bool
}

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	os.Exit(run())
}

func run() int {
	var opts scanOptions

	rootCmd := &cobra.Command{
		Use:           "guardrails",
		Short:         "Rule-driven guardrails scanner for codebase conventions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	exitCode := exitOK
	scanCmd := &cobra.Command{
		Use:   "scan [paths...]",
		Short: "Scan paths for rule violations",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exitCode = runScan(cmd.Context(), opts, args)
			return nil
		},
	}

	scanCmd.Flags().StringVarP(&opts.configPath, "config", "c", "guardrails.toml", "path to the guardrails config file")
	scanCmd.Flags().StringVarP(&opts.format, "format", "f", "pretty", "output format: pretty or json")
	scanCmd.Flags().BoolVar(&opts.changedOnly, "changed-only", false, "only report violations on lines changed since the base ref")
	scanCmd.Flags().StringVar(&opts.baseRef, "base", "", "base ref for --changed-only (default: detected from CI env, then 'main')")
	scanCmd.Flags().IntVar(&opts.workers, "workers", 0, "file scan workers (default: GOMAXPROCS)")
	scanCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(scanCmd)

	if err := rootCmd.Execute(); err != nil {
		fail(err)
		return exitFailed
	}
	return exitCode
}

func runScan(ctx context.Context, opts scanOptions, paths []string) int {
	minLevel := logger.LevelError
	if opts.verbose {
		minLevel = logger.LevelDebug
	}
	log := logger.New(os.Stderr, minLevel, "guardrails", nil)
	tracer := noop.NewTracerProvider().Tracer("guardrails")

	if len(paths) == 0 {
		paths = []string{"."}
	}

	cfg, err := fileloader.NewFileLoader(opts.configPath).Load(ctx)
	if err != nil {
		fail(err)
		return exitFailed
	}

	engine := scanning.NewScanEngine(log, tracer, opts.workers)
	result, err := engine.Scan(ctx, cfg, paths)
	if err != nil {
		fail(err)
		return exitFailed
	}

	if opts.changedOnly {
		git := vcs.NewGitClient(log, tracer)
		if err := filterToChangedLines(ctx, git, opts.baseRef, result); err != nil {
			fail(err)
			return exitFailed
		}
	}

	switch strings.ToLower(opts.format) {
	case "json":
		if err := report.WriteJSON(os.Stdout, result); err != nil {
			fail(err)
			return exitFailed
		}
	default:
		report.WritePretty(os.Stdout, result)
	}

	if result.HasErrors() {
		return exitViolations
	}
	return exitOK
}

// filterToChangedLines narrows the result's violations to lines touched
// since the base ref. Violation paths are compared to the diff's paths
// relative to the repository root.
func filterToChangedLines(ctx context.Context, git *vcs.GitClient, baseRef string, result *scanning.ScanResult) error {
	if baseRef == "" {
		baseRef = vcs.DetectBaseRef()
	}

	root, err := git.RepoRoot(ctx)
	if err != nil {
		return err
	}

	diff, err := git.DiffIndex(ctx, baseRef)
	if err != nil {
		return err
	}

	kept := result.Violations[:0]
	for _, v := range result.Violations {
		rel := repoRelative(root, v.File)
		if v.Line > 0 {
			if diff.HasLine(rel, v.Line) {
				kept = append(kept, v)
			}
			continue
		}
		if diff.HasFile(rel) {
			kept = append(kept, v)
		}
	}
	result.Violations = kept
	return nil
}

func repoRelative(root, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
