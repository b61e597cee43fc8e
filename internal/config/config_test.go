package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `
policy:
  inputSize: 3
input:
  max: 10
outputDir: /tmp/out
heuristic:
  noSolver: true
reusePolicy: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Policy.InputSize)
	assert.Equal(t, 10, cfg.Input.Max)
	assert.Equal(t, "/tmp/out", cfg.OutputDir)
	assert.True(t, cfg.Heuristic.NoSolver)
	assert.True(t, cfg.ReusePolicy)
}

func TestLoadMissingOutputDirIsConfigurationError(t *testing.T) {
	path := writeConfig(t, `
policy:
  inputSize: 0
input:
  max: 5
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadNegativeInputMaxIsConfigurationError(t *testing.T) {
	path := writeConfig(t, `
policy:
  inputSize: 0
input:
  max: -1
outputDir: /tmp/out
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestPredictionHorizonDefault(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, 15, cfg.PredictionHorizon(10))
}

func TestPredictionHorizonConfigured(t *testing.T) {
	cfg := &Config{PredictionModel: PredictionModelConfig{Size: 42}}
	assert.Equal(t, 42, cfg.PredictionHorizon(10))
}
