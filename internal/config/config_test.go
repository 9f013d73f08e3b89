package config

import (
	"testing"

	swaerrors "github.com/standardbeagle/swa/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Greater(t, cfg.Concurrency.Workers, 0, "smart defaults fill in workers from NumCPU")
}

func TestValidateUnknownAlgorithm(t *testing.T) {
	cfg := Default()
	cfg.Clone.Algorithm = "bogus"

	err := cfg.Validate()
	require.Error(t, err)
	var cerr *swaerrors.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "clone.algorithm", cerr.Field)
}

func TestValidateNegativeMinTokens(t *testing.T) {
	cfg := Default()
	cfg.Clone.MinTokens = -1

	err := cfg.Validate()
	require.Error(t, err)
	var cerr *swaerrors.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "clone.minTokens", cerr.Field)
}

func TestValidateSimilarityOutOfRange(t *testing.T) {
	cfg := Default()
	cfg.Clone.MinSimilarity = 1.5

	err := cfg.Validate()
	require.Error(t, err)
	var cerr *swaerrors.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "clone.minSimilarity", cerr.Field)
}

func TestValidateBandsMustDivideWidth(t *testing.T) {
	cfg := Default()
	cfg.Clone.Algorithm = AlgorithmMinHashLSH
	cfg.Clone.MinHashWidth = 128
	cfg.Clone.Bands = 5 // does not divide 128

	err := cfg.Validate()
	require.Error(t, err)
	var cerr *swaerrors.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "clone.bands", cerr.Field)
}

func TestValidateUnknownParallelMode(t *testing.T) {
	cfg := Default()
	cfg.Concurrency.ParallelMode = "turbo"

	err := cfg.Validate()
	require.Error(t, err)
	var cerr *swaerrors.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "concurrency.parallelMode", cerr.Field)
}

func TestValidateNegativeWorkers(t *testing.T) {
	cfg := Default()
	cfg.Concurrency.Workers = -1

	err := cfg.Validate()
	require.Error(t, err)
	var cerr *swaerrors.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "concurrency.workers", cerr.Field)
}

func TestValidateUnknownUnusedMode(t *testing.T) {
	cfg := Default()
	cfg.Unused.Mode = "verbose"

	err := cfg.Validate()
	require.Error(t, err)
	var cerr *swaerrors.ConfigurationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "unused.mode", cerr.Field)
}
