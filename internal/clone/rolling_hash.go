// Package clone implements the clone-detection engine (C5): three
// pluggable detectors over internal/tokens' normalized stream — exact
// rolling-hash, exact suffix-array/LCP, and near MinHash+LSH. Grounded on
// internal/analysis/duplicate_detector.go's hash-bucket-then-verify shape
// and internal/core/trigram_bucketing.go's bucket-by-hash pattern; the
// three algorithms themselves are hand-rolled per spec §4.4-§4.6 since no
// example repo ships a Rabin-Karp/SA-IS/MinHash library (see DESIGN.md).
package clone

import (
	"math/bits"
	"sort"

	"github.com/standardbeagle/swa/internal/tokens"
	"github.com/standardbeagle/swa/internal/types"
)

// rhModulus and rhBase define the 64-bit modular polynomial the rolling
// hash rolls over (spec §4.4: "64-bit modular polynomial over token
// byte-hashes, with per-position rolling update in O(1)").
const (
	rhModulus uint64 = 18446744073709551557 // largest prime below 2^64
	rhBase    uint64 = 1099511628211        // FNV prime, reused as the roll base
)

func mulmod(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi == 0 {
		return lo % rhModulus
	}
	_, rem := bits.Div64(hi%rhModulus, lo, rhModulus)
	return rem
}

func addmod(a, b uint64) uint64 {
	a %= rhModulus
	b %= rhModulus
	s := a + b
	if s < a || s >= rhModulus {
		s -= rhModulus
	}
	return s
}

func submod(a, b uint64) uint64 {
	a %= rhModulus
	b %= rhModulus
	if a >= b {
		return a - b
	}
	return rhModulus - (b - a)
}

func powmod(base uint64, exp int) uint64 {
	result := uint64(1) % rhModulus
	b := base % rhModulus
	for exp > 0 {
		if exp&1 == 1 {
			result = mulmod(result, b)
		}
		b = mulmod(b, b)
		exp >>= 1
	}
	return result
}

// RollingHash implements the exact clone detector (spec §4.4).
type RollingHash struct{}

// matchPair is a verified-equal pair of windows before extension.
type matchPair struct {
	a, b int // window start indices, a < b
}

// Detect finds every maximal cluster of identical token runs of length >=
// minTokens, using a Rabin-Karp rolling fingerprint to propose candidates
// and RangesEqual to verify them (spec §4.4, testable property 5).
func (RollingHash) Detect(s *tokens.Stream, minTokens int) []types.CloneGroup {
	n := s.Count()
	if minTokens <= 0 || n < minTokens {
		return nil
	}

	th := make([]uint64, n)
	for i := 0; i < n; i++ {
		if s.Kind(i) == tokens.FileBoundary {
			continue
		}
		th[i] = s.HashRange(i, i+1)
	}

	power := powmod(rhBase, minTokens-1)

	fp := make([]uint64, n-minTokens+1)
	var cur uint64
	for k := 0; k < minTokens; k++ {
		cur = addmod(mulmod(cur, rhBase), th[k])
	}
	fp[0] = cur
	for i := 1; i <= n-minTokens; i++ {
		leading := mulmod(th[i-1], power)
		cur = submod(cur, leading)
		cur = addmod(mulmod(cur, rhBase), th[i+minTokens-1])
		fp[i] = cur
	}

	buckets := make(map[uint64][]int)
	for i := 0; i <= n-minTokens; i++ {
		if s.CrossesBoundary(i, i+minTokens) {
			continue
		}
		buckets[fp[i]] = append(buckets[fp[i]], i)
	}

	var groups []types.CloneGroup
	for _, starts := range buckets {
		if len(starts) < 2 {
			continue
		}
		for _, class := range partitionByEquality(s, starts, minTokens) {
			if len(class) < 2 {
				continue
			}
			groups = append(groups, buildExactGroup(s, class, minTokens))
		}
	}

	return pruneNested(dedupeGroups(groups))
}

// partitionByEquality splits a fingerprint-collision bucket into classes
// of windows that are actually byte-equal, filtering out hash collisions
// (spec §4.4: "verify candidates with ranges_equal to eliminate
// collisions").
func partitionByEquality(s *tokens.Stream, starts []int, w int) [][]int {
	var classes [][]int
	used := make([]bool, len(starts))
	for i := range starts {
		if used[i] {
			continue
		}
		class := []int{starts[i]}
		used[i] = true
		for j := i + 1; j < len(starts); j++ {
			if used[j] {
				continue
			}
			if s.RangesEqual(starts[i], starts[i]+w, starts[j], starts[j]+w) {
				class = append(class, starts[j])
				used[j] = true
			}
		}
		classes = append(classes, class)
	}
	return classes
}

// buildExactGroup extends a verified-equal class of window starts as far
// left and right as every member stays equal and none crosses a file
// boundary (spec §4.4: "extend matches left and right greedily ... merge
// overlapping extensions"), then emits the resulting clone group.
func buildExactGroup(s *tokens.Stream, starts []int, w int) types.CloneGroup {
	sort.Ints(starts)
	ends := make([]int, len(starts))
	for i, st := range starts {
		ends[i] = st + w
	}

	for canExtendRight(s, starts, ends) {
		for i := range ends {
			ends[i]++
		}
	}
	for canExtendLeft(s, starts) {
		for i := range starts {
			starts[i]--
		}
	}

	occ := make([]types.CloneOccurrence, 0, len(starts))
	for i, st := range starts {
		occ = append(occ, occurrenceFor(s, st, ends[i]))
	}
	sort.Slice(occ, func(i, j int) bool {
		if occ[i].File != occ[j].File {
			return occ[i].File < occ[j].File
		}
		return occ[i].StartToken < occ[j].StartToken
	})

	return types.CloneGroup{
		Type:        types.CloneExact,
		Fingerprint: s.HashRange(starts[0], ends[0]),
		Similarity:  1.0,
		Occurrences: occ,
	}
}

func canExtendRight(s *tokens.Stream, starts, ends []int) bool {
	n := s.Count()
	for _, e := range ends {
		if e >= n || s.Kind(e) == tokens.FileBoundary {
			return false
		}
	}
	ref := ends[0]
	for i := 1; i < len(ends); i++ {
		if !s.RangesEqual(ref, ref+1, ends[i], ends[i]+1) {
			return false
		}
	}
	return true
}

func canExtendLeft(s *tokens.Stream, starts []int) bool {
	for _, st := range starts {
		if st-1 < 0 || s.Kind(st-1) == tokens.FileBoundary {
			return false
		}
	}
	ref := starts[0] - 1
	for i := 1; i < len(starts); i++ {
		if !s.RangesEqual(ref, ref+1, starts[i]-1, starts[i]) {
			return false
		}
	}
	return true
}

func occurrenceFor(s *tokens.Stream, start, end int) types.CloneOccurrence {
	startLoc := s.Location(start)
	endLoc := s.Location(end - 1)
	return types.CloneOccurrence{
		File:       startLoc.File,
		StartLine:  startLoc.Line,
		EndLine:    endLoc.Line,
		StartToken: start,
		EndToken:   end,
	}
}

// pruneNested drops any group every one of whose occurrences is a subrange
// of the matching occurrence (same file) in some strictly longer group —
// spec §4.4: "occurrences that nest within a longer match of the same
// cluster are pruned".
func pruneNested(groups []types.CloneGroup) []types.CloneGroup {
	sort.Slice(groups, func(i, j int) bool {
		return occLen(groups[i]) > occLen(groups[j])
	})
	var out []types.CloneGroup
	for _, g := range groups {
		if isNestedInAny(g, out) {
			continue
		}
		out = append(out, g)
	}
	return out
}

func occLen(g types.CloneGroup) int {
	if len(g.Occurrences) == 0 {
		return 0
	}
	o := g.Occurrences[0]
	return o.EndToken - o.StartToken
}

func isNestedInAny(g types.CloneGroup, existing []types.CloneGroup) bool {
	for _, other := range existing {
		if occLen(other) <= occLen(g) {
			continue
		}
		if allNested(g, other) {
			return true
		}
	}
	return false
}

func allNested(inner, outer types.CloneGroup) bool {
	for _, io := range inner.Occurrences {
		contained := false
		for _, oo := range outer.Occurrences {
			if io.File == oo.File && io.StartToken >= oo.StartToken && io.EndToken <= oo.EndToken {
				contained = true
				break
			}
		}
		if !contained {
			return false
		}
	}
	return true
}
