package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeKDL(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".swa.kdl"), []byte(content), 0o644))
}

func TestLoadKDLMissingFileReturnsNil(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDLOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	writeKDL(t, dir, `
clone {
    algorithm "suffixArray"
    min_tokens 40
    min_similarity 0.75
}
unused {
    mode "off"
    root_policy {
        treat_public_as_root #false
        test_path_globs "**/*Tests.swift" "**/*Spec.swift"
    }
}
concurrency {
    parallel_mode "maximum"
    workers 4
}
`)

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, AlgorithmSuffixArray, cfg.Clone.Algorithm)
	assert.Equal(t, 40, cfg.Clone.MinTokens)
	assert.InDelta(t, 0.75, cfg.Clone.MinSimilarity, 1e-9)
	assert.Equal(t, "off", cfg.Unused.Mode)
	assert.False(t, cfg.Unused.RootPolicy.TreatPublicAsRoot)
	assert.Equal(t, []string{"**/*Tests.swift", "**/*Spec.swift"}, cfg.Unused.RootPolicy.TestPathGlobs)
	assert.Equal(t, ParallelModeMaximum, cfg.Concurrency.ParallelMode)
	assert.Equal(t, 4, cfg.Concurrency.Workers)

	// Fields not present in the file keep Default()'s values.
	assert.Equal(t, 5, cfg.Clone.ShingleSize)
}

func TestLoadResolvesRelativeProjectRoot(t *testing.T) {
	dir := t.TempDir()
	writeKDL(t, dir, `project {
    root "."
}`)

	cfg, err := Load(dir)
	require.NoError(t, err)
	absDir, err := filepath.Abs(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Clean(absDir), cfg.ProjectRoot)
}

func TestLoadFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, AlgorithmRollingHash, cfg.Clone.Algorithm)
}
