// Command swa is the analytical core's thin CLI front end: it discovers
// source files under a project root, runs one internal/engine.Run pass,
// and prints the clone groups, unused-declaration findings, and symbol
// matches it produced. Output formatting and project-wide file discovery
// are outside spec.md's in-scope core (§1); this command exists only so
// the module is runnable end to end. Grounded on cmd/lci/main.go's
// urfave/cli/v2 App shape and loadConfigWithOverrides flag-merging
// pattern.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/swa/internal/cache"
	"github.com/standardbeagle/swa/internal/compilerindex"
	"github.com/standardbeagle/swa/internal/config"
	"github.com/standardbeagle/swa/internal/engine"
	"github.com/standardbeagle/swa/internal/symbols"
	"github.com/standardbeagle/swa/internal/version"
)

// loadConfigWithOverrides loads the project's .swa.kdl (falling back to
// config.Default()) and applies CLI flag overrides, mirroring the
// teacher's loadConfigWithOverrides.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root path %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, fmt.Errorf("load config from %s: %w", absRoot, err)
	}
	cfg.ProjectRoot = absRoot

	if workers := c.Int("workers"); workers > 0 {
		cfg.Concurrency.Workers = workers
	}
	if mode := c.String("parallel-mode"); mode != "" {
		cfg.Concurrency.ParallelMode = config.ParallelMode(mode)
	}
	if c.Bool("no-cache") {
		cfg.Cache.Enabled = false
	}
	if cachePath := c.String("cache-path"); cachePath != "" {
		cfg.Cache.Path = cachePath
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// discoverSwiftFiles walks root for *.swift files, skipping anything
// matched by cfg's unused-detection test globs' sibling concept: here we
// only skip ".git" and ".build" directories, since include/exclude filtering beyond
// "is it Swift source" is a project-layout concern outside this module's
// analytical core.
func discoverSwiftFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == ".git" || info.Name() == ".build" {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".swift") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func loadInputs(cfg *config.Config, files []string) ([]engine.Input, error) {
	inputs := make([]engine.Input, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		rel, err := filepath.Rel(cfg.ProjectRoot, f)
		if err != nil {
			rel = f
		}
		inputs = append(inputs, engine.Input{Path: rel, Content: content})
	}
	return inputs, nil
}

func runAnalyze(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	files, err := discoverSwiftFiles(cfg.ProjectRoot)
	if err != nil {
		return fmt.Errorf("discover source files: %w", err)
	}
	inputs, err := loadInputs(cfg, files)
	if err != nil {
		return err
	}

	out, err := engine.Run(c.Context, inputs, cfg, compilerindex.NullIndex{})
	if err != nil {
		return err
	}

	for _, n := range out.Notices {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", n.File, n.Message)
	}

	fmt.Printf("parsed %d files, %d declarations\n", len(inputs), len(out.Result.Declarations.All()))

	if len(out.Clones) > 0 {
		fmt.Println("\nclone groups:")
		for i, g := range out.Clones {
			fmt.Printf("  [%d] %s, %d occurrences, similarity %.2f\n", i, g.Type, len(g.Occurrences), g.Similarity)
			for _, occ := range g.Occurrences {
				fmt.Printf("        %s:%d-%d\n", occ.File, occ.StartLine, occ.EndLine)
			}
		}
	}

	if cfg.Unused.Mode != "off" && len(out.Unused) > 0 {
		fmt.Println("\nunused declarations:")
		for _, f := range out.Unused {
			fmt.Printf("  %s:%d:%d  %s (%s, %s): %s\n",
				f.Declaration.File, f.Declaration.Location.Line, f.Declaration.Location.Column,
				f.Declaration.Name, f.Reason, f.Confidence, f.Suggestion)
		}
	}

	if cfg.Cache.Enabled {
		diskCache := cache.Open(filepath.Join(cfg.ProjectRoot, cfg.Cache.Path))
		contents := make(map[string][]byte, len(inputs))
		for _, in := range inputs {
			contents[in.Path] = in.Content
		}
		manifest := cache.BuildManifest(contents, nil)
		payload := cache.Payload{
			Declarations: out.Result.Declarations.All(),
			References:   out.Result.References.All(),
			Scopes:       out.Result.Scopes.All(),
			Imports:      out.Result.Imports,
			Graph:        *out.Graph,
		}
		if err := diskCache.Save(manifest, payload); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to write analysis cache: %v\n", err)
		}
	}

	return nil
}

func runSymbol(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	files, err := discoverSwiftFiles(cfg.ProjectRoot)
	if err != nil {
		return err
	}
	inputs, err := loadInputs(cfg, files)
	if err != nil {
		return err
	}
	out, err := engine.Run(c.Context, inputs, cfg, compilerindex.NullIndex{})
	if err != nil {
		return err
	}

	name := c.Args().First()
	if name == "" {
		return cli.Exit("symbol: a name or regex pattern is required", 1)
	}

	pattern := symbols.Pattern{Kind: symbols.PatternSimpleName, Name: name}
	if c.Bool("regex") {
		pattern = symbols.Pattern{Kind: symbols.PatternRegex, Regex: name}
	}
	if qualified := c.String("qualified"); qualified != "" {
		pattern = symbols.Pattern{Kind: symbols.PatternQualifiedName, Path: strings.Split(qualified, ".")}
	}

	matches, err := out.Resolver.Resolve(pattern, symbols.Filters{Limit: c.Int("limit")})
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, m := range matches {
		fmt.Printf("%s:%d:%d  %s %s\n",
			m.Declaration.File, m.Declaration.Location.Line, m.Declaration.Location.Column,
			m.Declaration.Kind, m.Declaration.Name)
		if len(m.Suggestions) > 0 {
			fmt.Printf("    did you mean: %s\n", strings.Join(m.Suggestions, ", "))
		}
	}
	return nil
}

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "root", Usage: "project root to analyze", Value: "."},
		&cli.IntFlag{Name: "workers", Usage: "override concurrency worker count (0 = config default)"},
		&cli.StringFlag{Name: "parallel-mode", Usage: "sequential, safe, or maximum"},
		&cli.BoolFlag{Name: "no-cache", Usage: "disable the on-disk analysis cache for this run"},
		&cli.StringFlag{Name: "cache-path", Usage: "override the analysis cache directory"},
	}
}

func main() {
	app := &cli.App{
		Name:                 "swa",
		Usage:                "static analysis core: clone detection, unused declarations, symbol lookup",
		Version:              version.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "run clone detection and unused-declaration analysis over a project",
				Flags:  rootFlags(),
				Action: runAnalyze,
			},
			{
				Name:  "version",
				Usage: "print build version information",
				Action: func(c *cli.Context) error {
					fmt.Println(version.FullInfo())
					return nil
				},
			},
			{
				Name:  "symbol",
				Usage: "resolve a symbol by name, qualified path, or regex",
				Flags: append(rootFlags(),
					&cli.BoolFlag{Name: "regex", Usage: "treat the argument as a regular expression"},
					&cli.StringFlag{Name: "qualified", Usage: "dotted qualified path, e.g. Widget.render"},
					&cli.IntFlag{Name: "limit", Usage: "maximum matches to return"},
				),
				Action: runSymbol,
			},
		},
		Action: func(c *cli.Context) error {
			return cli.ShowAppHelp(c)
		},
	}

	ctx := context.Background()
	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "swa: %v\n", err)
		os.Exit(1)
	}
}
