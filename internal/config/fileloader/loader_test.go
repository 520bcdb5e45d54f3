package fileloader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadTOML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "guardrails.toml", `
[guardrails]
name = "web-app"
exclude = ["node_modules/**", "dist/**"]

[[rule]]
id = "no-legacy-fetch"
type = "ratchet"
severity = "error"
glob = "**/*.ts"
pattern = "legacyFetch("
max_count = 12
message = "legacyFetch is deprecated"
suggest = "use apiClient.fetch"

[[rule]]
id = "no-console"
type = "banned-pattern"
pattern = "console.log("
`)

	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "web-app", cfg.Guardrails.Name)
	assert.Equal(t, []string{"node_modules/**", "dist/**"}, cfg.Guardrails.Exclude)
	require.Len(t, cfg.Rules, 2)

	ratchet := cfg.Rules[0]
	assert.Equal(t, "no-legacy-fetch", ratchet.ID)
	assert.Equal(t, "ratchet", ratchet.Type)
	require.NotNil(t, ratchet.MaxCount)
	assert.Equal(t, 12, *ratchet.MaxCount)

	rc := ratchet.ToRuleConfig()
	assert.Equal(t, "legacyFetch(", rc.Pattern)
	assert.Equal(t, "use apiClient.fetch", rc.Suggest)

	assert.Nil(t, cfg.Rules[1].MaxCount)
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "guardrails.yaml", `
guardrails:
  name: web-app
  exclude:
    - vendor/**
rule:
  - id: no-todo
    type: ratchet
    pattern: "TODO"
    max_count: 0
    severity: warning
`)

	cfg, err := NewFileLoader(path).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, cfg.Rules, 1)
	require.NotNil(t, cfg.Rules[0].MaxCount)
	assert.Equal(t, 0, *cfg.Rules[0].MaxCount)
	assert.Equal(t, "warning", cfg.Rules[0].Severity)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := NewFileLoader(filepath.Join(t.TempDir(), "absent.toml")).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadMalformedTOML(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "guardrails.toml", `[[rule]`)
	_, err := NewFileLoader(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestLoadRejectsRuleWithoutID(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "guardrails.toml", `
[[rule]]
type = "ratchet"
pattern = "TODO"
max_count = 1
`)

	_, err := NewFileLoader(path).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
