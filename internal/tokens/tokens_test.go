package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/swa/internal/swiftsyntax"
	"github.com/standardbeagle/swa/internal/types"
)

func parse(t *testing.T, id types.FileID, path, src string) *swiftsyntax.Tree {
	t.Helper()
	tree, err := swiftsyntax.Parse(id, path, []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func TestBuildInsertsBoundaryBetweenFiles(t *testing.T) {
	a := parse(t, 1, "a.swift", "let x = 1\n")
	b := parse(t, 2, "b.swift", "let y = 2\n")

	s := Build([]*swiftsyntax.Tree{a, b})

	var sawBoundary bool
	for i := 0; i < s.Count(); i++ {
		if s.Kind(i) == FileBoundary {
			sawBoundary = true
		}
	}
	assert.True(t, sawBoundary)
}

func TestHashRangeAndRangesEqualAgree(t *testing.T) {
	a := parse(t, 1, "a.swift", "let x = 1\n")
	b := parse(t, 2, "b.swift", "let x = 1\n")
	s := Build([]*swiftsyntax.Tree{a, b})

	boundary := -1
	for i := 0; i < s.Count(); i++ {
		if s.Kind(i) == FileBoundary {
			boundary = i
			break
		}
	}
	require.NotEqual(t, -1, boundary)

	firstLen := boundary
	secondStart := boundary + 1
	secondLen := s.Count() - secondStart

	require.Equal(t, firstLen, secondLen, "identical sources should tokenize to the same length")
	assert.Equal(t, s.HashRange(0, firstLen), s.HashRange(secondStart, secondStart+secondLen))
	assert.True(t, s.RangesEqual(0, firstLen, secondStart, secondStart+secondLen))
}

func TestRangesEqualDetectsLengthMismatch(t *testing.T) {
	a := parse(t, 1, "a.swift", "let x = 1\n")
	s := Build([]*swiftsyntax.Tree{a})
	assert.False(t, s.RangesEqual(0, 2, 0, 3))
}

func TestCrossesBoundary(t *testing.T) {
	a := parse(t, 1, "a.swift", "let x = 1\n")
	b := parse(t, 2, "b.swift", "let y = 2\n")
	s := Build([]*swiftsyntax.Tree{a, b})

	boundary := -1
	for i := 0; i < s.Count(); i++ {
		if s.Kind(i) == FileBoundary {
			boundary = i
			break
		}
	}
	require.NotEqual(t, -1, boundary)
	assert.True(t, s.CrossesBoundary(boundary-1, boundary+2))
	assert.False(t, s.CrossesBoundary(0, boundary))
}
