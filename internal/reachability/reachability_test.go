package reachability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/swa/internal/config"
	"github.com/standardbeagle/swa/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mkID(file, local uint32) types.DeclID { return types.NewDeclID(types.FileID(file), local) }

// chainGraph builds a graph of n nodes, each pointing at the next, so
// reachability from node 0 is exactly the whole chain.
func chainGraph(n int) *types.DependencyGraph {
	g := &types.DependencyGraph{}
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, mkID(1, uint32(i)))
	}
	for i := 0; i < n-1; i++ {
		g.Edges = append(g.Edges, types.DependencyEdge{From: mkID(1, uint32(i)), To: mkID(1, uint32(i + 1)), Reason: types.EdgeReference})
	}
	return g
}

func TestComputeReachesWholeChainFromHead(t *testing.T) {
	g := chainGraph(50)
	roots := []types.Root{{Decl: mkID(1, 0), Reason: types.RootEntryPointAttribute}}

	set := Run(g, roots, config.Concurrency{ParallelMode: config.ParallelModeSequential, Workers: 1})
	for i := 0; i < 50; i++ {
		assert.True(t, set.IsReachable(mkID(1, uint32(i))), "node %d should be reachable", i)
	}
}

func TestComputeLeavesDisconnectedNodesUnreached(t *testing.T) {
	g := chainGraph(10)
	g.Nodes = append(g.Nodes, mkID(1, 100))
	roots := []types.Root{{Decl: mkID(1, 0), Reason: types.RootEntryPointAttribute}}

	set := Run(g, roots, config.Concurrency{ParallelMode: config.ParallelModeSequential, Workers: 1})
	assert.False(t, set.IsReachable(mkID(1, 100)))

	unreached := set.Unreachable()
	require.Len(t, unreached, 1)
	assert.Equal(t, mkID(1, 100), unreached[0])
}

// TestSequentialAndParallelAgree exercises spec testable property 7:
// sequential and parallel BFS over the same graph must produce bitwise
// identical reachable sets.
func TestSequentialAndParallelAgree(t *testing.T) {
	g := &types.DependencyGraph{}
	const n = 400
	for i := 0; i < n; i++ {
		g.Nodes = append(g.Nodes, mkID(1, uint32(i)))
	}
	// A dense fan pattern: every node i links to (2i+1) and (2i+2) mod n,
	// giving the direction-optimizing switch something to react to.
	for i := 0; i < n; i++ {
		a := (2*i + 1) % n
		b := (2*i + 2) % n
		g.Edges = append(g.Edges,
			types.DependencyEdge{From: mkID(1, uint32(i)), To: mkID(1, uint32(a)), Reason: types.EdgeReference},
			types.DependencyEdge{From: mkID(1, uint32(i)), To: mkID(1, uint32(b)), Reason: types.EdgeReference},
		)
	}
	roots := []types.Root{{Decl: mkID(1, 0), Reason: types.RootEntryPointAttribute}}

	seq := Run(g, roots, config.Concurrency{ParallelMode: config.ParallelModeSequential, Workers: 1})
	par := Run(g, roots, config.Concurrency{ParallelMode: config.ParallelModeMaximum, Workers: 8})

	require.Equal(t, len(seq.result.Reachable), len(par.result.Reachable))
	for i := range seq.result.Reachable {
		assert.Equal(t, seq.result.Reachable[i], par.result.Reachable[i], "mismatch at dense id %d", i)
	}
}

func TestBitmapTestAndSetClaimsOnce(t *testing.T) {
	b := newBitmap(8)
	assert.True(t, b.TestAndSet(3))
	assert.False(t, b.TestAndSet(3))
	assert.True(t, b.Test(3))
	assert.False(t, b.Test(4))
}
