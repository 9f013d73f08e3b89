package reachability

import (
	"github.com/standardbeagle/swa/internal/config"
	"github.com/standardbeagle/swa/internal/types"
)

// Set is the declaration-level view of a reachability Result: it answers
// "is this DeclID reachable" without callers needing to know about dense
// ids (spec §4.8's interface boundary with C8).
type Set struct {
	result *Result
}

// Run builds the dense graph from graph, seeds the BFS from roots, and
// returns a Set that downstream unused-declaration classification (C8)
// queries by DeclID.
func Run(graph *types.DependencyGraph, roots []types.Root, cfg config.Concurrency) Set {
	dense := Build(graph)
	denseRoots := make([]int32, 0, len(roots))
	for _, r := range roots {
		if id, ok := dense.DenseID(r.Decl); ok {
			denseRoots = append(denseRoots, id)
		}
	}
	return Set{result: Compute(dense, denseRoots, cfg)}
}

// IsReachable reports whether id was reached from the root set. An id not
// present in the graph at all (never assigned a dense id) is reported
// unreachable.
func (s Set) IsReachable(id types.DeclID) bool {
	dense, ok := s.result.Dense.DenseID(id)
	if !ok {
		return false
	}
	return s.result.Reachable[dense]
}

// Unreachable returns every DeclID in the graph that was not reached,
// in ascending (FileID, LocalID) order.
func (s Set) Unreachable() []types.DeclID {
	var out []types.DeclID
	for i := 0; i < s.result.Dense.N; i++ {
		if !s.result.Reachable[i] {
			out = append(out, s.result.Dense.DeclID(int32(i)))
		}
	}
	return out
}
