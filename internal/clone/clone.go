package clone

import (
	"fmt"

	"github.com/standardbeagle/swa/internal/config"
	"github.com/standardbeagle/swa/internal/tokens"
	"github.com/standardbeagle/swa/internal/types"
)

// Detect runs the clone detector named by cfg.Algorithm over s and returns
// its clone groups, sorted for deterministic output (spec §3 invariant:
// "clone groups are deterministic functions of their input token stream
// and configuration").
func Detect(s *tokens.Stream, cfg config.Clone) ([]types.CloneGroup, error) {
	var groups []types.CloneGroup
	switch cfg.Algorithm {
	case config.AlgorithmRollingHash:
		groups = RollingHash{}.Detect(s, cfg.MinTokens)
	case config.AlgorithmSuffixArray:
		groups = SuffixArray{}.Detect(s, cfg.MinTokens)
	case config.AlgorithmMinHashLSH:
		groups = MinHashLSH{
			ShingleSize:  cfg.ShingleSize,
			SpanLength:   cfg.MinTokens,
			SignatureLen: cfg.MinHashWidth,
			Bands:        cfg.Bands,
		}.Detect(s, cfg.MinSimilarity)
	default:
		return nil, fmt.Errorf("clone: unknown algorithm %q", cfg.Algorithm)
	}
	sortGroups(groups)
	return groups, nil
}

func sortGroups(groups []types.CloneGroup) {
	for i := 1; i < len(groups); i++ {
		for j := i; j > 0 && lessGroup(groups[j], groups[j-1]); j-- {
			groups[j], groups[j-1] = groups[j-1], groups[j]
		}
	}
}

func lessGroup(a, b types.CloneGroup) bool {
	if len(a.Occurrences) == 0 || len(b.Occurrences) == 0 {
		return len(a.Occurrences) < len(b.Occurrences)
	}
	oa, ob := a.Occurrences[0], b.Occurrences[0]
	if oa.File != ob.File {
		return oa.File < ob.File
	}
	if oa.StartLine != ob.StartLine {
		return oa.StartLine < ob.StartLine
	}
	return oa.StartToken < ob.StartToken
}
