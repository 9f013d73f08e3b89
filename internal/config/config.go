package config

import (
	"os"
	"runtime"
)

// Algorithm selects which clone-detection strategy runs over the token
// stream (spec §4.4-§4.6).
type Algorithm string

const (
	AlgorithmRollingHash Algorithm = "rollingHash"
	AlgorithmSuffixArray Algorithm = "suffixArray"
	AlgorithmMinHashLSH  Algorithm = "minHashLSH"
)

// ParallelMode controls how much concurrency the reachability engine's BFS
// is allowed to use (spec §4.8).
type ParallelMode string

const (
	ParallelModeSequential ParallelMode = "sequential"
	ParallelModeSafe       ParallelMode = "safe"
	ParallelModeMaximum    ParallelMode = "maximum"
)

// Clone configures the clone-detection engine (C5).
type Clone struct {
	Algorithm     Algorithm
	MinTokens     int
	MinSimilarity float64 // Jaccard threshold for minHashLSH, spec §4.6
	ShingleSize   int     // k-gram width, default 5 (spec §4.6 step 1)
	MinHashWidth  int     // H, default 128 (spec §4.6 step 2)
	Bands         int     // b, must divide MinHashWidth (spec §4.6 step 3)
}

// RootPolicy configures which declarations seed the reachability BFS
// (spec §4.7's "Root selection policy" table).
type RootPolicy struct {
	TreatPublicAsRoot       bool
	TreatObjcAsRoot         bool
	TreatTestsAsRoot        bool
	TreatSwiftUIViewsAsRoot bool
	TestPathGlobs           []string // doublestar patterns identifying test-root files
	ViewProtocols           []string // "view-like" protocol names for TreatSwiftUIViewsAsRoot
}

// Unused configures the dead-declaration classifier (C8).
type Unused struct {
	Mode         string // "report" or "off"
	RootPolicy   RootPolicy
	EnabledKinds []string // declaration kinds to classify; empty means all
}

// Cache configures the on-disk analysis cache (spec §6).
type Cache struct {
	Enabled bool
	Path    string
}

// Concurrency configures the reachability engine's BFS concurrency
// (spec §4.8, §5).
type Concurrency struct {
	ParallelMode ParallelMode
	Workers      int // 0 = auto-detect (NumCPU-1, at least 1)
}

// Config is the validated, in-memory configuration value every component
// in this module receives. CLI flag parsing and config-file discovery
// (merging a project file over a global one) stay in cmd/swa; Config is
// the surface they produce.
type Config struct {
	ProjectRoot string
	Clone       Clone
	Unused      Unused
	Cache       Cache
	Concurrency Concurrency
}

// Default returns a Config populated with the module's defaults, mirroring
// the threshold choices named throughout spec §4.4-§4.9.
func Default() *Config {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	return &Config{
		ProjectRoot: cwd,
		Clone: Clone{
			Algorithm:     AlgorithmRollingHash,
			MinTokens:     50,
			MinSimilarity: 0.8,
			ShingleSize:   5,
			MinHashWidth:  128,
			Bands:         32,
		},
		Unused: Unused{
			Mode: "report",
			RootPolicy: RootPolicy{
				TreatPublicAsRoot: true,
				TreatObjcAsRoot:   true,
				TreatTestsAsRoot:  true,
				TestPathGlobs: []string{
					"**/*Tests.swift",
					"**/*Test.swift",
					"**/Tests/**",
				},
				ViewProtocols: []string{"View", "UIViewController", "NSViewController"},
			},
		},
		Cache: Cache{
			Enabled: true,
			Path:    ".swa-cache",
		},
		Concurrency: Concurrency{
			ParallelMode: ParallelModeSafe,
			Workers:      0,
		},
	}
}

// Load reads a .swa.kdl file from path (a directory) and validates the
// result, falling back to Default() when no file is present.
func Load(path string) (*Config, error) {
	cfg, err := LoadKDL(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
		cfg.ProjectRoot = path
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applySmartDefaults fills in auto-detect fields left at their zero value,
// mirroring the teacher's runtime.NumCPU()-based worker defaulting.
func (c *Config) applySmartDefaults() {
	if c.Concurrency.Workers == 0 {
		c.Concurrency.Workers = max(1, runtime.NumCPU()-1)
	}
}
