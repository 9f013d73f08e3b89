// Package reachability implements the reachability engine (C7): compacts
// the declaration-level dependency graph into a dense-indexed
// representation and runs a direction-optimizing, optionally parallel BFS
// from the configured root set (spec §4.8). Grounded on
// internal/core/dense_object_id.go's contiguous-integer-id assignment and
// internal/core/symbol_store.go's parallel-array storage in place of
// maps, reused directly as the forward/reverse adjacency here.
package reachability

import (
	"sort"

	"github.com/standardbeagle/swa/internal/types"
)

// Dense is the compacted graph C7's BFS runs over: every declaration gets
// a contiguous int32 id, and forward/reverse adjacency are flat slices of
// slices for cache locality, mirroring the teacher's SymbolStore shape.
type Dense struct {
	N         int
	Forward   [][]int32
	Reverse   [][]int32
	OutDegree []int32
	InDegree  []int32
	toDense   map[types.DeclID]int32
	toDeclID  []types.DeclID
}

// Build compacts graph into a Dense representation. Node order follows
// ids.All()'s (FileID, LocalID) order, so dense ids are deterministic
// across runs given the same input (spec §3 invariant).
func Build(graph *types.DependencyGraph) *Dense {
	toDense := make(map[types.DeclID]int32, len(graph.Nodes))
	toDeclID := make([]types.DeclID, len(graph.Nodes))
	for i, id := range graph.Nodes {
		toDense[id] = int32(i)
		toDeclID[i] = id
	}

	n := len(graph.Nodes)
	d := &Dense{
		N: n, toDense: toDense, toDeclID: toDeclID,
		Forward: make([][]int32, n), Reverse: make([][]int32, n),
		OutDegree: make([]int32, n), InDegree: make([]int32, n),
	}

	for _, e := range graph.Edges {
		from, ok1 := toDense[e.From]
		to, ok2 := toDense[e.To]
		if !ok1 || !ok2 || from == to {
			continue
		}
		d.Forward[from] = append(d.Forward[from], to)
		d.Reverse[to] = append(d.Reverse[to], from)
		d.OutDegree[from]++
		d.InDegree[to]++
	}

	for i := range d.Forward {
		sort.Slice(d.Forward[i], func(a, b int) bool { return d.Forward[i][a] < d.Forward[i][b] })
	}
	for i := range d.Reverse {
		sort.Slice(d.Reverse[i], func(a, b int) bool { return d.Reverse[i][a] < d.Reverse[i][b] })
	}

	return d
}

// DenseID returns the dense id for a DeclID, if present.
func (d *Dense) DenseID(id types.DeclID) (int32, bool) {
	v, ok := d.toDense[id]
	return v, ok
}

// DeclID returns the DeclID for a dense id.
func (d *Dense) DeclID(dense int32) types.DeclID { return d.toDeclID[dense] }

// TotalOutEdges sums out-degree over a set of dense ids, used by the
// direction-optimizing switch condition (spec §4.8).
func (d *Dense) TotalOutEdges(frontier []int32) int64 {
	var sum int64
	for _, f := range frontier {
		sum += int64(d.OutDegree[f])
	}
	return sum
}
