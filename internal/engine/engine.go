// Package engine orchestrates one full analysis run: parse-and-walk every
// file concurrently, merge into an AnalysisResult, then fan out into the
// clone, dependency/reachability/unused, and symbol-resolution pipelines
// (spec §2, §5). Grounded on internal/indexing/pipeline.go's scan-then-
// fan-out shape and internal/indexing/concurrent_operations.go's
// bounded-worker pattern, upgraded to golang.org/x/sync/errgroup per this
// module's DOMAIN STACK.
package engine

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/swa/internal/analysis"
	"github.com/standardbeagle/swa/internal/clone"
	"github.com/standardbeagle/swa/internal/compilerindex"
	"github.com/standardbeagle/swa/internal/config"
	"github.com/standardbeagle/swa/internal/depgraph"
	swaerrors "github.com/standardbeagle/swa/internal/errors"
	"github.com/standardbeagle/swa/internal/reachability"
	"github.com/standardbeagle/swa/internal/swiftsyntax"
	"github.com/standardbeagle/swa/internal/symbols"
	"github.com/standardbeagle/swa/internal/tokens"
	"github.com/standardbeagle/swa/internal/types"
	"github.com/standardbeagle/swa/internal/unused"
	"github.com/standardbeagle/swa/internal/walker"
)

// Input is one file to ingest.
type Input struct {
	Path    string
	Content []byte
}

// Notice is a non-fatal record surfaced alongside a run's output (spec
// §7: recoverable I/O and parse errors, external-index downgrades).
type Notice struct {
	Kind    swaerrors.ErrorKind
	Message string
	File    string
	Err     error
}

// Output is everything one Run produces.
type Output struct {
	Result   *types.AnalysisResult
	Graph    *types.DependencyGraph
	IDs      *depgraph.IDs
	Clones   []types.CloneGroup
	Unused   []types.UnusedFinding
	Resolver *symbols.Resolver
	Notices  []Notice
}

// Run executes one full analysis pass over inputs under cfg. index may be
// nil (no external compiler index configured).
func Run(ctx context.Context, inputs []Input, cfg *config.Config, index compilerindex.Index) (*Output, error) {
	parsed, notices, err := parseAll(ctx, inputs, cfg.Concurrency, cfg.Unused.RootPolicy.ViewProtocols)
	if err != nil {
		return nil, err
	}
	defer func() {
		for _, p := range parsed {
			p.tree.Close()
		}
	}()

	acc := make([]*types.FileAccumulator, 0, len(parsed))
	trees := make([]*swiftsyntax.Tree, 0, len(parsed))
	files := make([]string, 0, len(parsed))
	for _, p := range parsed {
		acc = append(acc, p.acc)
		trees = append(trees, p.tree)
		files = append(files, p.path)
	}
	sort.Strings(files)

	result := analysis.Aggregate(acc)
	result.Files = files

	stream := tokens.Build(trees)
	clones, err := clone.Detect(stream, cfg.Clone)
	if err != nil {
		return nil, err
	}

	ids := depgraph.AssignIDs(result)
	graph := depgraph.Extract(result, ids)
	roots := depgraph.SelectRoots(result, ids, cfg.Unused.RootPolicy)
	reached := reachability.Run(graph, roots, cfg.Concurrency)

	findings := unused.Classify(result, reached, ids.IDOf, cfg.Unused)
	for _, p := range parsed {
		findings = append(findings, unused.DeadBranches(p.tree, p.acc.Declarations)...)
	}
	sortFindings(findings)

	resolver := symbols.New(result, compilerindex.NewLocked(index), true)

	return &Output{
		Result:   result,
		Graph:    graph,
		IDs:      ids,
		Clones:   clones,
		Unused:   findings,
		Resolver: resolver,
		Notices:  notices,
	}, nil
}

func sortFindings(findings []types.UnusedFinding) {
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Confidence != findings[j].Confidence {
			return findings[i].Confidence > findings[j].Confidence
		}
		return findings[i].Declaration.Location.Less(findings[j].Declaration.Location)
	})
}

type parsedFile struct {
	path string
	tree *swiftsyntax.Tree
	acc  *types.FileAccumulator
}

// parseAll parses and walks every input concurrently, bounded by
// cfg.Workers goroutines (spec §5: "ingestion is embarrassingly parallel
// per file; the tree walker must hold no process-wide mutable state").
// An empty file or a file the parser rejects is recorded as a Notice and
// dropped from the result, rather than aborting the run (spec §7); errors
// the walker recovers from are recorded as Notices and the file is kept.
func parseAll(ctx context.Context, inputs []Input, cc config.Concurrency, viewProtocols []string) ([]parsedFile, []Notice, error) {
	workers := cc.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make([]*parsedFile, len(inputs))
	noticeCh := make(chan Notice, len(inputs))

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return swaerrors.NewCancellationError("ingestion")
			default:
			}
			if len(in.Content) == 0 {
				noticeCh <- Notice{Kind: swaerrors.KindIO, Message: "empty file", File: in.Path}
				return nil
			}

			tree, err := swiftsyntax.Parse(types.FileID(i+1), in.Path, in.Content)
			if err != nil {
				noticeCh <- Notice{Kind: swaerrors.KindParse, Message: err.Error(), File: in.Path, Err: err}
				return nil
			}

			fileAcc, _, walkErrs := walker.New(tree, viewProtocols).Walk()
			for _, werr := range walkErrs {
				noticeCh <- Notice{Kind: swaerrors.KindParse, Message: werr.Error(), File: in.Path, Err: werr}
			}

			results[i] = &parsedFile{path: in.Path, tree: tree, acc: fileAcc}
			return nil
		})
	}

	err := g.Wait()
	close(noticeCh)

	var notices []Notice
	for n := range noticeCh {
		notices = append(notices, n)
	}

	if err != nil {
		for _, r := range results {
			if r != nil {
				r.tree.Close()
			}
		}
		return nil, notices, err
	}

	parsed := make([]parsedFile, 0, len(inputs))
	for _, r := range results {
		if r != nil {
			parsed = append(parsed, *r)
		}
	}
	return parsed, notices, nil
}
