// Package analysis implements the index aggregator (C3): the barrier step
// that merges every file's walker output into one project-wide
// AnalysisResult. No cross-file resolution happens here (spec §4.2) — that
// is the dependency extractor's job (internal/depgraph). Grounded on the
// barrier-then-merge shape of internal/indexing/pipeline_integrator.go,
// reduced to the single additive operation spec.md names.
package analysis

import "github.com/standardbeagle/swa/internal/types"

// Aggregate merges a set of per-file accumulators into one AnalysisResult.
// Declarations, references, and imports are appended in accumulator order;
// scopes from every file are merged into a single lookup keyed by the
// (file, ScopeID) pair each file's walker already assigned uniquely within
// itself — callers needing a stable global order call AnalysisResult's
// All()/ByFile() accessors, which sort at read time.
func Aggregate(accumulators []*types.FileAccumulator) *types.AnalysisResult {
	result := types.NewAnalysisResult()

	for _, acc := range accumulators {
		if acc == nil {
			continue
		}
		result.Files = append(result.Files, acc.File)
		for _, d := range acc.Declarations {
			result.Declarations.Add(d)
		}
		for _, r := range acc.References {
			result.References.Add(r)
		}
		result.Imports = append(result.Imports, acc.Imports...)
	}

	return result
}

// AggregateScopes merges every file's ScopeTree into a single tree keyed
// by a FileScopeID so the dependency extractor (C6) can walk a scope chain
// that spans the whole project without per-file id collisions. The merge
// assigns fresh, globally unique ids while preserving each scope's
// original per-file structure (Parent/HasParent/Kind/Name/Range).
func AggregateScopes(perFile map[string]*types.ScopeTree) (*types.ScopeTree, map[FileScopeKey]types.ScopeID) {
	merged := types.NewScopeTree()
	remap := make(map[FileScopeKey]types.ScopeID, len(perFile))
	var next types.ScopeID = types.GlobalScope + 1

	// First pass: assign every non-global scope in every file a fresh id.
	for file, tree := range perFile {
		for _, s := range tree.All() {
			if s.ID == types.GlobalScope {
				remap[FileScopeKey{File: file, ID: s.ID}] = types.GlobalScope
				continue
			}
			remap[FileScopeKey{File: file, ID: s.ID}] = next
			next++
		}
	}

	// Second pass: insert with remapped parent pointers.
	for file, tree := range perFile {
		for _, s := range tree.All() {
			newID := remap[FileScopeKey{File: file, ID: s.ID}]
			if newID == types.GlobalScope {
				continue
			}
			newParent := types.GlobalScope
			if s.HasParent {
				newParent = remap[FileScopeKey{File: file, ID: s.Parent}]
			}
			merged.Insert(types.Scope{
				ID: newID, Kind: s.Kind, Name: s.Name, Parent: newParent,
				HasParent: true, Range: s.Range, File: s.File,
			})
		}
	}

	return merged, remap
}

// FileScopeKey identifies a scope before the project-wide merge assigns it
// a globally unique id.
type FileScopeKey struct {
	File string
	ID   types.ScopeID
}
