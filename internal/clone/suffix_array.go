package clone

import (
	"sort"

	"github.com/standardbeagle/swa/internal/tokens"
	"github.com/standardbeagle/swa/internal/types"
)

// SuffixArray implements the alternative exact detector used when
// config.Clone.Algorithm is suffixArray (spec §4.5) — built for projects
// large enough that rolling-hash bucket sizes explode.
//
// The suffix array here is built by prefix doubling with comparison sorts
// (O(n log^2 n)); it is not SA-IS and construction is not linear. The LCP
// array is computed with Kasai's linear-time algorithm.
type SuffixArray struct{}

// buildSymbols maps every token position to an alphabet symbol (spec
// §4.5: "treating each token as a symbol from an alphabet of
// token-kind + text-hash pairs"). Every file boundary maps to the same
// reserved symbol 0; common prefixes that run across a boundary are not
// prevented here, and windows spanning a boundary are discarded later
// when groups are built.
func buildSymbols(s *tokens.Stream) []uint64 {
	n := s.Count()
	raw := make([]uint64, n)
	for i := 0; i < n; i++ {
		if s.Kind(i) == tokens.FileBoundary {
			raw[i] = 0 // reserved boundary symbol
			continue
		}
		raw[i] = s.HashRange(i, i+1)>>1 + 1 // keep room above 0 for boundary
	}
	return raw
}

// buildSuffixArray returns the suffix array (as a permutation of
// [0,n)) and the LCP array (Kasai's algorithm), over the given symbol
// sequence.
func buildSuffixArray(sym []uint64) (sa []int, lcp []int) {
	n := len(sym)
	sa = make([]int, n)
	rank := make([]int, n)
	tmp := make([]int, n)

	for i := range sa {
		sa[i] = i
	}
	sort.Slice(sa, func(i, j int) bool { return sym[sa[i]] < sym[sa[j]] })
	rank[sa[0]] = 0
	for i := 1; i < n; i++ {
		rank[sa[i]] = rank[sa[i-1]]
		if sym[sa[i]] != sym[sa[i-1]] {
			rank[sa[i]]++
		}
	}

	for k := 1; k < n && rank[sa[n-1]] < n-1; k *= 2 {
		key := func(i int) (int, int) {
			r1 := rank[i]
			r2 := -1
			if i+k < n {
				r2 = rank[i+k]
			}
			return r1, r2
		}
		sort.Slice(sa, func(i, j int) bool {
			a1, a2 := key(sa[i])
			b1, b2 := key(sa[j])
			if a1 != b1 {
				return a1 < b1
			}
			return a2 < b2
		})
		tmp[sa[0]] = 0
		for i := 1; i < n; i++ {
			tmp[sa[i]] = tmp[sa[i-1]]
			a1, a2 := key(sa[i-1])
			b1, b2 := key(sa[i])
			if a1 != b1 || a2 != b2 {
				tmp[sa[i]]++
			}
		}
		copy(rank, tmp)
	}

	lcp = kasaiLCP(sym, sa, rank)
	return sa, lcp
}

// kasaiLCP computes the LCP array in O(n) given the suffix array and its
// inverse (rank), spec §4.5.
func kasaiLCP(sym []uint64, sa, rank []int) []int {
	n := len(sym)
	lcp := make([]int, n)
	h := 0
	for i := 0; i < n; i++ {
		if rank[i] == 0 {
			h = 0
			continue
		}
		j := sa[rank[i]-1]
		for i+h < n && j+h < n && sym[i+h] == sym[j+h] {
			h++
		}
		lcp[rank[i]] = h
		if h > 0 {
			h--
		}
	}
	return lcp
}

// Detect finds maximal repeated token runs of length >= minTokens via
// suffix-array + LCP (spec §4.5).
func (SuffixArray) Detect(s *tokens.Stream, minTokens int) []types.CloneGroup {
	n := s.Count()
	if minTokens <= 0 || n < minTokens {
		return nil
	}

	sym := buildSymbols(s)
	sa, lcp := buildSuffixArray(sym)

	var groups []types.CloneGroup
	i := 1
	for i < n {
		if lcp[i] < minTokens {
			i++
			continue
		}
		// Extend the run of consecutive SA positions sharing a common LCP
		// floor of at least minTokens; the run's minimum LCP is the
		// maximal common prefix length shared by every suffix in it
		// (spec §4.5: "group adjacent suffixes sharing that LCP using a
		// stack to identify maximal intervals").
		runStart := i - 1
		minLCP := lcp[i]
		j := i
		for j+1 < n && lcp[j+1] >= minTokens {
			j++
			if lcp[j] < minLCP {
				minLCP = lcp[j]
			}
		}
		starts := make([]int, 0, j-runStart+1)
		for k := runStart; k <= j; k++ {
			starts = append(starts, sa[k])
		}
		if group, ok := groupFromStarts(s, starts, minLCP); ok {
			groups = append(groups, group)
		}
		i = j + 1
	}

	return pruneNested(dedupeGroups(groups))
}

// groupFromStarts verifies that every window [start, start+length) in
// starts is byte-equal (filtering symbol-hash collisions, spec §4.3's
// ranges_equal) and none crosses a file boundary, then emits a clone
// group. Windows straddling a boundary are dropped from the class rather
// than failing the whole group.
func groupFromStarts(s *tokens.Stream, starts []int, length int) (types.CloneGroup, bool) {
	var valid []int
	for _, st := range starts {
		if st+length <= s.Count() && !s.CrossesBoundary(st, st+length) {
			valid = append(valid, st)
		}
	}
	if len(valid) < 2 {
		return types.CloneGroup{}, false
	}
	for _, class := range partitionByEquality(s, valid, length) {
		if len(class) >= 2 {
			return buildExactGroup(s, class, length), true
		}
	}
	return types.CloneGroup{}, false
}

// dedupeGroups collapses groups that report the exact same occurrence set
// (can happen when two LCP runs extend to the same maximal match).
func dedupeGroups(groups []types.CloneGroup) []types.CloneGroup {
	seen := make(map[string]bool)
	var out []types.CloneGroup
	for _, g := range groups {
		key := groupKey(g)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}

func groupKey(g types.CloneGroup) string {
	var b []byte
	for _, o := range g.Occurrences {
		b = append(b, []byte(o.File)...)
		b = append(b, byte(o.StartToken), byte(o.StartToken>>8), byte(o.EndToken), byte(o.EndToken>>8))
	}
	return string(b)
}
