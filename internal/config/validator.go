package config

import (
	"fmt"

	swaerrors "github.com/standardbeagle/swa/internal/errors"
)

// Validate checks every field-by-field constraint spec §4.4-§4.9 and §7
// imply, applying smart defaults for auto-detect fields first. Returns a
// *errors.ConfigurationError naming the first invalid field.
func (c *Config) Validate() error {
	c.applySmartDefaults()

	if err := c.validateClone(); err != nil {
		return err
	}
	if err := c.validateUnused(); err != nil {
		return err
	}
	if err := c.validateConcurrency(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateClone() error {
	switch c.Clone.Algorithm {
	case AlgorithmRollingHash, AlgorithmSuffixArray, AlgorithmMinHashLSH:
	default:
		return swaerrors.NewConfigurationError("clone.algorithm", string(c.Clone.Algorithm),
			fmt.Errorf("must be one of rollingHash, suffixArray, minHashLSH"))
	}

	if c.Clone.MinTokens <= 0 {
		return swaerrors.NewConfigurationError("clone.minTokens", fmt.Sprint(c.Clone.MinTokens),
			fmt.Errorf("must be positive"))
	}

	if c.Clone.MinSimilarity < 0 || c.Clone.MinSimilarity > 1 {
		return swaerrors.NewConfigurationError("clone.minSimilarity", fmt.Sprint(c.Clone.MinSimilarity),
			fmt.Errorf("must be within [0,1]"))
	}

	if c.Clone.Algorithm == AlgorithmMinHashLSH {
		if c.Clone.ShingleSize <= 0 {
			return swaerrors.NewConfigurationError("clone.shingleSize", fmt.Sprint(c.Clone.ShingleSize),
				fmt.Errorf("must be positive"))
		}
		if c.Clone.MinHashWidth <= 0 {
			return swaerrors.NewConfigurationError("clone.minHashWidth", fmt.Sprint(c.Clone.MinHashWidth),
				fmt.Errorf("must be positive"))
		}
		if c.Clone.Bands <= 0 || c.Clone.MinHashWidth%c.Clone.Bands != 0 {
			return swaerrors.NewConfigurationError("clone.bands", fmt.Sprint(c.Clone.Bands),
				fmt.Errorf("must divide minHashWidth (%d) evenly", c.Clone.MinHashWidth))
		}
	}

	return nil
}

func (c *Config) validateUnused() error {
	switch c.Unused.Mode {
	case "report", "off":
	default:
		return swaerrors.NewConfigurationError("unused.mode", c.Unused.Mode,
			fmt.Errorf("must be one of report, off"))
	}
	return nil
}

func (c *Config) validateConcurrency() error {
	switch c.Concurrency.ParallelMode {
	case ParallelModeSequential, ParallelModeSafe, ParallelModeMaximum:
	default:
		return swaerrors.NewConfigurationError("concurrency.parallelMode", string(c.Concurrency.ParallelMode),
			fmt.Errorf("must be one of sequential, safe, maximum"))
	}

	if c.Concurrency.Workers < 0 {
		return swaerrors.NewConfigurationError("concurrency.workers", fmt.Sprint(c.Concurrency.Workers),
			fmt.Errorf("must not be negative"))
	}

	return nil
}
