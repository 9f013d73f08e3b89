package analysis

import (
	"testing"

	"github.com/standardbeagle/swa/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateMergesDeclarationsAndReferences(t *testing.T) {
	a1 := types.NewFileAccumulator("A.swift")
	a1.AddDeclaration(types.Declaration{Name: "Foo", Kind: types.DeclClass, File: "A.swift"})
	a1.AddReference(types.Reference{Identifier: "Foo", File: "A.swift"})

	a2 := types.NewFileAccumulator("B.swift")
	a2.AddDeclaration(types.Declaration{Name: "Bar", Kind: types.DeclStruct, File: "B.swift"})

	result := Aggregate([]*types.FileAccumulator{a1, a2})

	assert.ElementsMatch(t, []string{"A.swift", "B.swift"}, result.Files)
	assert.Len(t, result.Declarations.ByName("Foo"), 1)
	assert.Len(t, result.Declarations.ByName("Bar"), 1)
	assert.Len(t, result.References.ByIdentifier("Foo"), 1)
}

func TestAggregateIgnoresNilAccumulators(t *testing.T) {
	a1 := types.NewFileAccumulator("A.swift")
	result := Aggregate([]*types.FileAccumulator{a1, nil})
	assert.Len(t, result.Files, 1)
}

func TestAggregateScopesAssignsUniqueIDsAcrossFiles(t *testing.T) {
	t1 := types.NewScopeTree()
	t1.Insert(types.Scope{ID: 1, Kind: types.ScopeClass, Name: "Foo", Parent: types.GlobalScope, HasParent: true, File: "A.swift"})

	t2 := types.NewScopeTree()
	t2.Insert(types.Scope{ID: 1, Kind: types.ScopeStruct, Name: "Bar", Parent: types.GlobalScope, HasParent: true, File: "B.swift"})

	merged, remap := AggregateScopes(map[string]*types.ScopeTree{"A.swift": t1, "B.swift": t2})

	idA := remap[FileScopeKey{File: "A.swift", ID: 1}]
	idB := remap[FileScopeKey{File: "B.swift", ID: 1}]
	require.NotEqual(t, idA, idB, "scopes from different files must not collide after merge")

	scopeA, ok := merged.Lookup(idA)
	require.True(t, ok)
	assert.Equal(t, "Foo", scopeA.Name)

	scopeB, ok := merged.Lookup(idB)
	require.True(t, ok)
	assert.Equal(t, "Bar", scopeB.Name)
}
