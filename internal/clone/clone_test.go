package clone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/swa/internal/swiftsyntax"
	"github.com/standardbeagle/swa/internal/tokens"
	"github.com/standardbeagle/swa/internal/types"
)

func parseFile(t *testing.T, id types.FileID, path, src string) *swiftsyntax.Tree {
	t.Helper()
	tree, err := swiftsyntax.Parse(id, path, []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

const cloneBody = `func computeTotal(items: [Int]) -> Int {
    var total = 0
    var index = 0
    while index < items.count {
        total = total + items[index]
        index = index + 1
    }
    if total > 1000 {
        total = 1000
    }
    return total
}
`

// TestRollingHashFindsExactClone implements scenario S3: two files sharing
// one identical function body yield a single exact clone group with two
// occurrences.
func TestRollingHashFindsExactClone(t *testing.T) {
	a := parseFile(t, 1, "a.swift", cloneBody)
	b := parseFile(t, 2, "b.swift", cloneBody)
	s := tokens.Build([]*swiftsyntax.Tree{a, b})

	groups := RollingHash{}.Detect(s, 20)
	require.NotEmpty(t, groups)

	found := groups[0]
	assert.Equal(t, types.CloneExact, found.Type)
	assert.Equal(t, 1.0, found.Similarity)
	require.Len(t, found.Occurrences, 2)
	assert.NotEqual(t, found.Occurrences[0].File, found.Occurrences[1].File)
	assert.Equal(t, found.Occurrences[0].EndToken-found.Occurrences[0].StartToken,
		found.Occurrences[1].EndToken-found.Occurrences[1].StartToken)
}

func TestRollingHashNeverCrossesBoundary(t *testing.T) {
	a := parseFile(t, 1, "a.swift", "let x = 1\n")
	b := parseFile(t, 2, "b.swift", "let y = 2\n")
	s := tokens.Build([]*swiftsyntax.Tree{a, b})

	groups := RollingHash{}.Detect(s, 3)
	for _, g := range groups {
		for _, occ := range g.Occurrences {
			assert.False(t, s.CrossesBoundary(occ.StartToken, occ.EndToken))
		}
	}
}

func TestSuffixArrayFindsSameExactClone(t *testing.T) {
	a := parseFile(t, 1, "a.swift", cloneBody)
	b := parseFile(t, 2, "b.swift", cloneBody)
	s := tokens.Build([]*swiftsyntax.Tree{a, b})

	groups := SuffixArray{}.Detect(s, 20)
	require.NotEmpty(t, groups)
	assert.Equal(t, types.CloneExact, groups[0].Type)
	assert.Len(t, groups[0].Occurrences, 2)
}

const nearA = `func sum(values: [Int]) -> Int {
    var acc = 0
    var i = 0
    while i < values.count {
        acc = acc + values[i]
        i = i + 1
    }
    if acc > 100 {
        acc = 100
    }
    return acc
}
`

const nearB = `func total(numbers: [Int]) -> Int {
    var result = 0
    var idx = 0
    while idx < numbers.count {
        result = result + numbers[idx]
        idx = idx + 1
    }
    if result > 500 {
        result = 500
    }
    return result
}
`

// TestMinHashFindsNearClone implements scenario S4: two functions renamed
// but structurally identical (with a changed literal) should be reported
// as a near clone with Jaccard similarity above the configured threshold.
func TestMinHashFindsNearClone(t *testing.T) {
	a := parseFile(t, 1, "a.swift", nearA)
	b := parseFile(t, 2, "b.swift", nearB)
	s := tokens.Build([]*swiftsyntax.Tree{a, b})

	detector := MinHashLSH{ShingleSize: 5, SpanLength: 25, SignatureLen: 128, Bands: 32}
	groups := detector.Detect(s, 0.5)
	require.NotEmpty(t, groups)
	assert.Equal(t, types.CloneNear, groups[0].Type)
	assert.GreaterOrEqual(t, groups[0].Similarity, 0.5)
}

func TestJaccardThresholdEnforced(t *testing.T) {
	a := parseFile(t, 1, "a.swift", "let x = 1\nlet y = 2\nlet z = 3\n")
	b := parseFile(t, 2, "b.swift", "class Foo { func bar() { print(\"hi\") } }\n")
	s := tokens.Build([]*swiftsyntax.Tree{a, b})

	detector := MinHashLSH{ShingleSize: 3, SpanLength: 5, SignatureLen: 64, Bands: 16}
	groups := detector.Detect(s, 0.95)
	for _, g := range groups {
		assert.GreaterOrEqual(t, g.Similarity, 0.95)
	}
}

// TestSplitCompleteRejectsTransitiveChain covers a 3-span single-linkage
// chain (0-1 and 1-2 individually over threshold, 0-2 under it) per spec
// §8 Testable Property #6: every pair in a reported near-clone group must
// clear minSimilarity, so the transitive link alone must not be enough to
// keep the whole chain in one group.
func TestSplitCompleteRejectsTransitiveChain(t *testing.T) {
	sim := func(a, b int) float64 {
		pairs := map[[2]int]float64{
			{0, 1}: 0.9,
			{1, 2}: 0.9,
			{0, 2}: 0.3,
		}
		if a > b {
			a, b = b, a
		}
		return pairs[[2]int{a, b}]
	}

	groups := splitComplete([]int{0, 1, 2}, sim, 0.5)

	total := 0
	for _, g := range groups {
		total += len(g)
		for i := 0; i < len(g); i++ {
			for j := i + 1; j < len(g); j++ {
				assert.GreaterOrEqual(t, sim(g[i], g[j]), 0.5,
					"every pair within a reported group must clear the threshold")
			}
		}
	}
	assert.Less(t, 0, total, "the qualifying pair must still be reported, just not as a 3-way group")
}
