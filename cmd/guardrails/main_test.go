package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRunScanExitCodes(t *testing.T) {
	const config = `
[[rule]]
id = "no-debugger"
type = "banned-pattern"
severity = "error"
pattern = "debugger"

[[rule]]
id = "no-console"
type = "banned-pattern"
severity = "warning"
pattern = "console.log("
`

	t.Run("clean scan", func(t *testing.T) {
		cfgPath := writeFile(t, t.TempDir(), "guardrails.toml", config)
		dir := t.TempDir()
		writeFile(t, dir, "app.ts", "run();\n")

		code := runScan(context.Background(), scanOptions{configPath: cfgPath, format: "json"}, []string{dir})
		assert.Equal(t, exitOK, code)
	})

	t.Run("error violations", func(t *testing.T) {
		cfgPath := writeFile(t, t.TempDir(), "guardrails.toml", config)
		dir := t.TempDir()
		writeFile(t, dir, "app.ts", "debugger\n")

		code := runScan(context.Background(), scanOptions{configPath: cfgPath, format: "json"}, []string{dir})
		assert.Equal(t, exitViolations, code)
	})

	t.Run("warnings only", func(t *testing.T) {
		cfgPath := writeFile(t, t.TempDir(), "guardrails.toml", config)
		dir := t.TempDir()
		writeFile(t, dir, "app.ts", "console.log(1)\n")

		code := runScan(context.Background(), scanOptions{configPath: cfgPath, format: "json"}, []string{dir})
		assert.Equal(t, exitOK, code)
	})

	t.Run("missing config", func(t *testing.T) {
		dir := t.TempDir()
		code := runScan(context.Background(), scanOptions{configPath: filepath.Join(dir, "absent.toml")}, []string{dir})
		assert.Equal(t, exitFailed, code)
	})

	t.Run("bad rule config", func(t *testing.T) {
		cfgPath := writeFile(t, t.TempDir(), "guardrails.toml", `
[[rule]]
id = "broken"
type = "ratchet"
pattern = "TODO"
`)
		dir := t.TempDir()
		code := runScan(context.Background(), scanOptions{configPath: cfgPath}, []string{dir})
		assert.Equal(t, exitFailed, code)
	})
}
