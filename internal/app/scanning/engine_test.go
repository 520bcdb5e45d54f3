package scanning

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/config"
	"github.com/actions-marketplace-validations/stewartjarod-guardrails/internal/domain/rules"
	"github.com/actions-marketplace-validations/stewartjarod-guardrails/pkg/common/logger"
)

func newTestEngine() *ScanEngine {
	log := logger.NewWithHandler(slog.NewJSONHandler(io.Discard, nil))
	return NewScanEngine(log, noop.NewTracerProvider().Tracer("test"), 2)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func intPtr(n int) *int { return &n }

func ratchetSpec(id, pattern string, maxCount int) config.RuleSpec {
	return config.RuleSpec{
		ID:       id,
		Type:     "ratchet",
		Severity: "error",
		Pattern:  pattern,
		MaxCount: intPtr(maxCount),
		Message:  pattern + " found",
	}
}

func TestScanRatchetUnderBudgetSuppressesViolations(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "TODO one\nTODO two\n")
	writeFile(t, dir, "b.ts", "TODO three\n")

	cfg := &config.Config{Rules: []config.RuleSpec{ratchetSpec("todo-budget", "TODO", 5)}}

	result, err := newTestEngine().Scan(context.Background(), cfg, []string{dir})
	require.NoError(t, err)

	assert.Empty(t, result.Violations)
	assert.Equal(t, 2, result.FilesScanned)
	assert.Equal(t, 1, result.RulesLoaded)
	require.Contains(t, result.RatchetCounts, "todo-budget")
	assert.Equal(t, RatchetCount{Found: 3, Max: 5}, result.RatchetCounts["todo-budget"])
	assert.True(t, result.RatchetCounts["todo-budget"].Pass())
}

func TestScanRatchetOverBudgetReportsEveryViolation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "TODO one\nTODO two\nTODO three\n")

	cfg := &config.Config{Rules: []config.RuleSpec{ratchetSpec("todo-budget", "TODO", 2)}}

	result, err := newTestEngine().Scan(context.Background(), cfg, []string{dir})
	require.NoError(t, err)

	assert.Len(t, result.Violations, 3)
	assert.Equal(t, RatchetCount{Found: 3, Max: 2}, result.RatchetCounts["todo-budget"])
	assert.False(t, result.RatchetCounts["todo-budget"].Pass())
	assert.True(t, result.HasErrors())
}

func TestScanRatchetCountRecordedWithZeroFindings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "all clean\n")

	cfg := &config.Config{Rules: []config.RuleSpec{ratchetSpec("todo-budget", "TODO", 4)}}

	result, err := newTestEngine().Scan(context.Background(), cfg, []string{dir})
	require.NoError(t, err)

	assert.Equal(t, RatchetCount{Found: 0, Max: 4}, result.RatchetCounts["todo-budget"])
}

func TestScanExcludeGlobs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "src/app.ts", "TODO\n")
	writeFile(t, dir, "vendor/lib.ts", "TODO\n")
	writeFile(t, dir, "app.min.js", "TODO\n")

	cfg := &config.Config{
		Guardrails: config.GuardrailsSection{Exclude: []string{"vendor/**", "*.min.js"}},
		Rules:      []config.RuleSpec{ratchetSpec("todo-budget", "TODO", 0)},
	}

	result, err := newTestEngine().Scan(context.Background(), cfg, []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesScanned)
	require.Len(t, result.Violations, 1)
	assert.Equal(t, filepath.Join(dir, "src", "app.ts"), result.Violations[0].File)
}

func TestScanExplicitFileTargetBypassesExcludes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	excluded := writeFile(t, dir, "vendor/lib.ts", "TODO\n")

	cfg := &config.Config{
		Guardrails: config.GuardrailsSection{Exclude: []string{"vendor/**"}},
		Rules:      []config.RuleSpec{ratchetSpec("todo-budget", "TODO", 0)},
	}

	result, err := newTestEngine().Scan(context.Background(), cfg, []string{excluded})
	require.NoError(t, err)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, excluded, result.Violations[0].File)
}

func TestScanRuleGlobDispatch(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "src/app.ts", "TODO\n")
	writeFile(t, dir, "src/app.go", "TODO\n")

	spec := ratchetSpec("todo-ts", "TODO", 0)
	spec.Glob = "**/*.ts"
	cfg := &config.Config{Rules: []config.RuleSpec{spec}}

	result, err := newTestEngine().Scan(context.Background(), cfg, []string{dir})
	require.NoError(t, err)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, filepath.Join(dir, "src", "app.ts"), result.Violations[0].File)
}

func TestScanRuleGlobMatchesBareFilename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "nested/deep/package.json", `{"dependencies": {"request": "1.0.0"}}`)

	cfg := &config.Config{Rules: []config.RuleSpec{{
		ID:       "no-request",
		Type:     "banned-dependency",
		Severity: "error",
		Packages: []string{"request"},
	}}}

	result, err := newTestEngine().Scan(context.Background(), cfg, []string{dir})
	require.NoError(t, err)

	require.Len(t, result.Violations, 1)
	assert.Equal(t, "no-request", result.Violations[0].RuleID)
}

func TestScanSkipsBinaryAndInvalidUTF8(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "TODO\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte("TODO\x00TODO"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "latin1.txt"), []byte("TODO \xff\xfe"), 0o600))

	cfg := &config.Config{Rules: []config.RuleSpec{ratchetSpec("todo-budget", "TODO", 0)}}

	result, err := newTestEngine().Scan(context.Background(), cfg, []string{dir})
	require.NoError(t, err)

	assert.Equal(t, 1, result.FilesScanned)
	assert.Len(t, result.Violations, 1)
}

func TestScanDeterministicViolationOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "TODO\n")
	writeFile(t, dir, "b.ts", "TODO\n")
	writeFile(t, dir, "c.ts", "TODO\n")

	cfg := &config.Config{Rules: []config.RuleSpec{ratchetSpec("todo-budget", "TODO", 0)}}

	for i := 0; i < 5; i++ {
		result, err := newTestEngine().Scan(context.Background(), cfg, []string{dir})
		require.NoError(t, err)
		require.Len(t, result.Violations, 3)
		assert.Equal(t, filepath.Join(dir, "a.ts"), result.Violations[0].File)
		assert.Equal(t, filepath.Join(dir, "b.ts"), result.Violations[1].File)
		assert.Equal(t, filepath.Join(dir, "c.ts"), result.Violations[2].File)
	}
}

func TestScanUnknownRuleTypeFails(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Rules: []config.RuleSpec{{ID: "x", Type: "banned-color"}}}

	_, err := newTestEngine().Scan(context.Background(), cfg, []string{t.TempDir()})
	var unknown *rules.UnknownRuleTypeError
	require.ErrorAs(t, err, &unknown)
}

func TestScanInvalidExcludeGlobFails(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Guardrails: config.GuardrailsSection{Exclude: []string{"[unclosed"}}}

	_, err := newTestEngine().Scan(context.Background(), cfg, []string{t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid glob pattern")
}

func TestScanMixedSeverityCounts(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "console.log(1)\ndebugger\n")

	warn := config.RuleSpec{ID: "no-console", Type: "banned-pattern", Severity: "warning", Pattern: "console.log("}
	errRule := config.RuleSpec{ID: "no-debugger", Type: "banned-pattern", Severity: "error", Pattern: "debugger"}
	cfg := &config.Config{Rules: []config.RuleSpec{warn, errRule}}

	result, err := newTestEngine().Scan(context.Background(), cfg, []string{dir})
	require.NoError(t, err)

	errs, warnings := result.Counts()
	assert.Equal(t, 1, errs)
	assert.Equal(t, 1, warnings)
	assert.True(t, result.HasErrors())
}
