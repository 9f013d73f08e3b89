package clone

import (
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/swa/internal/tokens"
	"github.com/standardbeagle/swa/internal/types"
)

// MinHashLSH implements the near-clone detector (spec §4.6): identifier and
// literal normalization, k-gram shingling, a fixed MinHash family, and
// LSH banding to keep candidate generation sub-quadratic.
type MinHashLSH struct {
	ShingleSize  int // k, default 5
	SpanLength   int // S, default == minTokens
	SignatureLen int // H, default 128
	Bands        int // b, must divide SignatureLen
}

// splitmix64 generates a deterministic, well-distributed constant stream —
// "a fixed hash family" per spec §4.6 step 2 — without reaching for a
// randomness package the spec explicitly disallows at runtime (the family
// is baked in at package init, not reseeded per run).
func splitmix64(seed uint64) func() uint64 {
	state := seed
	return func() uint64 {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
}

var minhashCoeffA, minhashCoeffB [128]uint64

func init() {
	gen := splitmix64(0xC0FFEEC0FFEE)
	for i := range minhashCoeffA {
		a := gen()
		if a%2 == 0 {
			a++ // keep coefficients odd so the affine map stays a bijection mod 2^64
		}
		minhashCoeffA[i] = a
		minhashCoeffB[i] = gen()
	}
}

func normalizedToken(s *tokens.Stream, i int) string {
	switch s.Kind(i) {
	case tokens.Identifier:
		return "IDENT"
	case tokens.Literal:
		return "LIT"
	default:
		return s.Text(i)
	}
}

// window is one candidate span under consideration for near-clone
// membership.
type window struct {
	start, end int // token indices [start, end)
	shingles   map[uint64]bool
	sig        []uint64
	bandKeys   []uint64
}

func shingleHashes(s *tokens.Stream, start, end, k int) map[uint64]bool {
	out := make(map[uint64]bool)
	if end-start < k {
		return out
	}
	norm := make([]string, end-start)
	for i := start; i < end; i++ {
		norm[i-start] = normalizedToken(s, i)
	}
	for i := 0; i+k <= len(norm); i++ {
		var buf []byte
		for j := 0; j < k; j++ {
			buf = append(buf, norm[i+j]...)
			buf = append(buf, 0)
		}
		out[xxhash.Sum64(buf)] = true
	}
	return out
}

func minhashSignature(shingles map[uint64]bool, h int) []uint64 {
	sig := make([]uint64, h)
	for j := range sig {
		sig[j] = ^uint64(0)
	}
	for shingle := range shingles {
		for j := 0; j < h; j++ {
			v := minhashCoeffA[j%len(minhashCoeffA)]*shingle + minhashCoeffB[j%len(minhashCoeffB)]
			if v < sig[j] {
				sig[j] = v
			}
		}
	}
	return sig
}

func bandKeys(sig []uint64, bands int) []uint64 {
	rows := len(sig) / bands
	keys := make([]uint64, bands)
	for b := 0; b < bands; b++ {
		var buf []byte
		for r := 0; r < rows; r++ {
			v := sig[b*rows+r]
			buf = append(buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
				byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
		}
		keys[b] = xxhash.Sum64(buf)
	}
	return keys
}

func jaccard(a, b map[uint64]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	small, big := a, b
	if len(big) < len(small) {
		small, big = big, small
	}
	for k := range small {
		if big[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

type unionFind struct{ parent []int }

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[ra] = rb
	}
}

// splitComplete partitions a single-linkage component into subsets that
// each satisfy the all-pairs invariant (spec §8 Testable Property #6:
// every pair in a near-clone group must clear minSimilarity) — a chain
// like A-B, B-C both over threshold but A-C under it would otherwise be
// reported as one group with a Similarity below the configured floor.
// Greedily drops whichever member has the most sub-threshold pairs until
// the remainder is clean, then recurses on the dropped members so a
// qualifying subgroup among them is not silently lost.
func splitComplete(members []int, sim func(a, b int) float64, minSimilarity float64) [][]int {
	if len(members) < 2 {
		return nil
	}
	cur := append([]int(nil), members...)
	var dropped []int
	for len(cur) >= 2 {
		worst, worstBad := -1, 0
		for i, a := range cur {
			bad := 0
			for j, b := range cur {
				if i != j && sim(a, b) < minSimilarity {
					bad++
				}
			}
			if bad > worstBad {
				worstBad, worst = bad, i
			}
		}
		if worstBad == 0 {
			break
		}
		dropped = append(dropped, cur[worst])
		cur = append(cur[:worst], cur[worst+1:]...)
	}

	var groups [][]int
	if len(cur) >= 2 {
		groups = append(groups, cur)
	}
	groups = append(groups, splitComplete(dropped, sim, minSimilarity)...)
	return groups
}

// Detect finds near-clone groups: spans of length SpanLength whose
// normalized-shingle Jaccard similarity is >= minSimilarity, found via
// LSH candidate generation and verified exactly (spec §4.6).
func (m MinHashLSH) Detect(s *tokens.Stream, minSimilarity float64) []types.CloneGroup {
	k := m.ShingleSize
	if k <= 0 {
		k = 5
	}
	span := m.SpanLength
	if span <= 0 {
		span = k
	}
	h := m.SignatureLen
	if h <= 0 {
		h = 128
	}
	bands := m.Bands
	if bands <= 0 || h%bands != 0 {
		bands = 32
	}

	n := s.Count()
	var windows []window
	for start := 0; start+span <= n; start++ {
		if s.CrossesBoundary(start, start+span) {
			continue
		}
		sh := shingleHashes(s, start, start+span, k)
		if len(sh) == 0 {
			continue
		}
		sig := minhashSignature(sh, h)
		windows = append(windows, window{
			start: start, end: start + span, shingles: sh, sig: sig, bandKeys: bandKeys(sig, bands),
		})
	}
	if len(windows) < 2 {
		return nil
	}

	lshBuckets := make(map[uint64][]int)
	for i, w := range windows {
		for _, key := range w.bandKeys {
			lshBuckets[key] = append(lshBuckets[key], i)
		}
	}

	uf := newUnionFind(len(windows))
	pairSim := make(map[[2]int]float64)
	seenPair := make(map[[2]int]bool)
	for _, members := range lshBuckets {
		if len(members) < 2 {
			continue
		}
		for i := 0; i < len(members); i++ {
			for j := i + 1; j < len(members); j++ {
				a, b := members[i], members[j]
				if a > b {
					a, b = b, a
				}
				key := [2]int{a, b}
				if seenPair[key] {
					continue
				}
				seenPair[key] = true
				sim := jaccard(windows[a].shingles, windows[b].shingles)
				if sim >= minSimilarity {
					pairSim[key] = sim
					uf.union(a, b)
				}
			}
		}
	}

	components := make(map[int][]int)
	for i := range windows {
		root := uf.find(i)
		components[root] = append(components[root], i)
	}

	// pairwiseSim resolves a pair's Jaccard similarity, falling back to a
	// direct computation when the pair was never directly linked by an
	// LSH band collision (it can still share a component transitively).
	pairwiseSim := func(a, b int) float64 {
		if a > b {
			a, b = b, a
		}
		if sim, ok := pairSim[[2]int{a, b}]; ok {
			return sim
		}
		return jaccard(windows[a].shingles, windows[b].shingles)
	}

	var groups []types.CloneGroup
	for _, members := range components {
		if len(members) < 2 {
			continue
		}
		for _, subset := range splitComplete(members, pairwiseSim, minSimilarity) {
			minSim := 1.0
			for i := 0; i < len(subset); i++ {
				for j := i + 1; j < len(subset); j++ {
					if sim := pairwiseSim(subset[i], subset[j]); sim < minSim {
						minSim = sim
					}
				}
			}

			occ := make([]types.CloneOccurrence, 0, len(subset))
			for _, idx := range subset {
				occ = append(occ, occurrenceFor(s, windows[idx].start, windows[idx].end))
			}
			sort.Slice(occ, func(i, j int) bool {
				if occ[i].File != occ[j].File {
					return occ[i].File < occ[j].File
				}
				return occ[i].StartToken < occ[j].StartToken
			})

			groups = append(groups, types.CloneGroup{
				Type:        types.CloneNear,
				Fingerprint: s.HashRange(windows[subset[0]].start, windows[subset[0]].end),
				Similarity:  minSim,
				Occurrences: occ,
			})
		}
	}

	return groups
}
