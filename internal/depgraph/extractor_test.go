package depgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/swa/internal/analysis"
	"github.com/standardbeagle/swa/internal/config"
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

const rootSample = `public struct A {}

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

func TestExtractResolvesCallEdge(t *testing.T) {
	acc := walkSource(t, 1, "root.swift", rootSample)
	result := analysis.Aggregate([]*types.FileAccumulator{acc})
	result.Files = []string{"root.swift"}

	ids := AssignIDs(result)
	graph := Extract(result, ids)

	var usedDecl, mainDecl types.Declaration
	for _, d := range result.Declarations.All() {
		if d.Name == "used" {
			usedDecl = d
		}
		if d.Name == "main" {
			mainDecl = d
		}
	}
	require.NotEmpty(t, usedDecl.Name)
	require.NotEmpty(t, mainDecl.Name)

	usedID, _ := ids.IDOf(usedDecl)
	mainID, _ := ids.IDOf(mainDecl)

	var found bool
	for _, e := range graph.Edges {
		if e.From == mainID && e.To == usedID {
			found = true
		}
	}
	assert.True(t, found, "expected main() -> used() edge")
}

func TestSelectRootsHonorsPublicAndEntryPoint(t *testing.T) {
	acc := walkSource(t, 1, "root.swift", rootSample)
	result := analysis.Aggregate([]*types.FileAccumulator{acc})
	result.Files = []string{"root.swift"}
	ids := AssignIDs(result)

	policy := config.RootPolicy{TreatPublicAsRoot: true}
	roots := SelectRoots(result, ids, policy)

	var sawA, sawApp bool
	for _, r := range roots {
		if d, ok := ids.Decl(r.Decl); ok && d.Name == "A" {
			sawA = true
		}
		if d, ok := ids.Decl(r.Decl); ok && d.Name == "App" {
			sawApp = true
		}
	}
	assert.True(t, sawA, "public struct A should be a root under TreatPublicAsRoot")
	assert.True(t, sawApp, "@main struct App should be a root as an entry point")
}
