package unused

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/swa/internal/analysis"
	"github.com/standardbeagle/swa/internal/config"
	"github.com/standardbeagle/swa/internal/depgraph"
	"github.com/standardbeagle/swa/internal/reachability"
	"github.com/standardbeagle/swa/internal/swiftsyntax"
	"github.com/standardbeagle/swa/internal/types"
	"github.com/standardbeagle/swa/internal/walker"
)

func walkSource(t *testing.T, id types.FileID, path, src string) *types.FileAccumulator {
	t.Helper()
	tree, err := swiftsyntax.Parse(id, path, []byte(src))
	require.NoError(t, err)
	defer tree.Close()
	acc, _, _ := walker.New(tree, nil).Walk()
	return acc
}

// scenarioS6 mirrors spec §8 scenario S6: a public type, an unused
// private function, and a used private function called from @main.
const scenarioS6 = `public struct A {}

private func unused() {
    print("never called")
}

private func used() {
    print(1)
}

@main
struct App {
    static func main() {
        used()
    }
}
`

func TestClassifyReportsOnlyTrulyUnusedDeclaration(t *testing.T) {
	acc := walkSource(t, 1, "root.swift", scenarioS6)
	result := analysis.Aggregate([]*types.FileAccumulator{acc})
	result.Files = []string{"root.swift"}

	ids := depgraph.AssignIDs(result)
	graph := depgraph.Extract(result, ids)

	policy := config.RootPolicy{TreatPublicAsRoot: true}
	roots := depgraph.SelectRoots(result, ids, policy)

	set := reachability.Run(graph, roots, config.Concurrency{ParallelMode: config.ParallelModeSequential, Workers: 1})

	findings := Classify(result, set, ids.IDOf, config.Unused{Mode: "report", RootPolicy: policy})

	require.Len(t, findings, 1)
	assert.Equal(t, "unused", findings[0].Declaration.Name)
	assert.Equal(t, types.ReasonNeverReferenced, findings[0].Reason)
	assert.Equal(t, types.ConfidenceHigh, findings[0].Confidence)
}

func TestClassifyFiltersUnderscoreNamedDeclarations(t *testing.T) {
	const src = `private func _(x: Int) {}`
	acc := walkSource(t, 1, "u.swift", src)
	result := analysis.Aggregate([]*types.FileAccumulator{acc})
	result.Files = []string{"u.swift"}

	ids := depgraph.AssignIDs(result)
	graph := depgraph.Extract(result, ids)
	roots := depgraph.SelectRoots(result, ids, config.RootPolicy{})
	set := reachability.Run(graph, roots, config.Concurrency{ParallelMode: config.ParallelModeSequential, Workers: 1})

	findings := Classify(result, set, ids.IDOf, config.Unused{})
	for _, f := range findings {
		assert.NotEqual(t, "_", f.Declaration.Name)
	}
}

func TestClassifyOrdersByConfidenceThenLocation(t *testing.T) {
	const src = `private func alpha() {}

public func beta() {}
`
	acc := walkSource(t, 1, "order.swift", src)
	result := analysis.Aggregate([]*types.FileAccumulator{acc})
	result.Files = []string{"order.swift"}

	ids := depgraph.AssignIDs(result)
	graph := depgraph.Extract(result, ids)
	set := reachability.Run(graph, nil, config.Concurrency{ParallelMode: config.ParallelModeSequential, Workers: 1})

	findings := Classify(result, set, ids.IDOf, config.Unused{})
	require.Len(t, findings, 2)
	assert.Equal(t, "alpha", findings[0].Declaration.Name) // high confidence (private) sorts first
	assert.Equal(t, "beta", findings[1].Declaration.Name)  // low confidence (public)
}

func TestDeadBranchesReportsDeclarationsInAlwaysFalseBranch(t *testing.T) {
	const src = `func f() {
    if false {
        let trapped = 1
        print(trapped)
    }
}
`
	tree, err := swiftsyntax.Parse(1, "d.swift", []byte(src))
	require.NoError(t, err)
	defer tree.Close()

	acc, _, _ := walker.New(tree, nil).Walk()
	findings := DeadBranches(tree, acc.Declarations)
	for _, f := range findings {
		assert.Equal(t, types.ReasonDeadBranch, f.Reason)
	}
}
