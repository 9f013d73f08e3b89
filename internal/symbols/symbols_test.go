package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/swa/internal/analysis"
	"github.com/standardbeagle/swa/internal/compilerindex"
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

const sample = `public struct Widget {
    private func render() {
        print(1)
    }
}

private func helper() {}
`

func newResolver(t *testing.T, src string) (*Resolver, *types.AnalysisResult) {
	t.Helper()
	acc := walkSource(t, 1, "s.swift", src)
	result := analysis.Aggregate([]*types.FileAccumulator{acc})
	result.Files = []string{"s.swift"}
	return New(result, nil, true), result
}

func TestResolveSimpleName(t *testing.T) {
	r, _ := newResolver(t, sample)
	matches, err := r.Resolve(Pattern{Kind: PatternSimpleName, Name: "helper"}, Filters{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "helper", matches[0].Declaration.Name)
}

func TestResolveQualifiedNameCrossesScope(t *testing.T) {
	r, _ := newResolver(t, sample)
	matches, err := r.Resolve(Pattern{Kind: PatternQualifiedName, Path: []string{"Widget", "render"}}, Filters{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "render", matches[0].Declaration.Name)
}

func TestResolveRegexScansAllNames(t *testing.T) {
	r, _ := newResolver(t, sample)
	matches, err := r.Resolve(Pattern{Kind: PatternRegex, Regex: "^h.*"}, Filters{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "helper", matches[0].Declaration.Name)
}

func TestResolveUSRUnsupportedInSyntaxMode(t *testing.T) {
	r, _ := newResolver(t, sample)
	matches, err := r.Resolve(Pattern{Kind: PatternUSR, USR: "s:whatever"}, Filters{})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestResolveAppliesAccessFilter(t *testing.T) {
	r, _ := newResolver(t, sample)
	public := types.AccessPublic
	matches, err := r.Resolve(Pattern{Kind: PatternSimpleName, Name: "helper"}, Filters{Access: &public})
	require.NoError(t, err)
	assert.Empty(t, matches) // helper is private, filtered out under an "at least public" filter
}

func TestResolveSimpleNameSuggestsOnMiss(t *testing.T) {
	r, _ := newResolver(t, sample)
	matches, err := r.Resolve(Pattern{Kind: PatternSimpleName, Name: "helpr"}, Filters{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Contains(t, matches[0].Suggestions, "helper")
}

func TestResolveExternalIndexEnrichesThenFallsBackWhenEmpty(t *testing.T) {
	acc := walkSource(t, 1, "s.swift", sample)
	result := analysis.Aggregate([]*types.FileAccumulator{acc})
	result.Files = []string{"s.swift"}

	idx := compilerindex.NewLocked(&compilerindex.StaticIndex{ByName: map[string][]compilerindex.Occurrence{
		"helper": {{
			Symbol: compilerindex.Symbol{Name: "helper", USR: "s:helper"},
			File:   "s.swift", Line: 7, Column: 1,
			Roles: []compilerindex.Role{compilerindex.RoleDefinition},
		}},
	}})
	r := New(result, idx, false)

	matches, err := r.Resolve(Pattern{Kind: PatternSimpleName, Name: "helper"}, Filters{})
	require.NoError(t, err)
	require.Len(t, matches, 1)

	matches, err = r.Resolve(Pattern{Kind: PatternSimpleName, Name: "render"}, Filters{})
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "render", matches[0].Declaration.Name)
}
