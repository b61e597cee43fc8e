package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KnoooW/spf-wca/internal/host"
	"github.com/KnoooW/spf-wca/internal/wcerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfigRequiresTargetSourceAndFunction(t *testing.T) {
	path := writeYAML(t, `
policy:
  inputSize: 2
input:
  max: 5
outputDir: /tmp/out
`)
	_, _, err := loadConfig(path)
	require.Error(t, err)

	werr, ok := err.(*wcerr.Error)
	require.True(t, ok)
	assert.Equal(t, wcerr.Configuration, werr.Kind)
}

func TestLoadConfigReadsTargetAlongsideCoreConfig(t *testing.T) {
	path := writeYAML(t, `
policy:
  inputSize: 2
input:
  max: 5
outputDir: /tmp/out
target:
  source: prog.go
  function: Compute
  maxSteps: 1000
  pathSelector: bfs
`)
	cfg, tgt, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Policy.InputSize)
	assert.Equal(t, "prog.go", tgt.Source)
	assert.Equal(t, "Compute", tgt.Function)
	assert.Equal(t, 1000, tgt.MaxSteps)
}

func TestResolveSelectorDefaultsToDfs(t *testing.T) {
	_, ok := resolveSelector("").(*host.DfsPathSelector)
	assert.True(t, ok)
}

func TestResolveSelectorBfs(t *testing.T) {
	_, ok := resolveSelector("bfs").(*host.BfsPathSelector)
	assert.True(t, ok)
}

func TestExitCodeForWcerr(t *testing.T) {
	err := wcerr.New(wcerr.PolicyIO, "phase", nil)
	assert.Equal(t, 3, exitCodeFor(err))
}

func TestExitCodeForPlainError(t *testing.T) {
	assert.Equal(t, 1, exitCodeFor(assertPlainErr{}))
}

type assertPlainErr struct{}

func (assertPlainErr) Error() string { return "boom" }
