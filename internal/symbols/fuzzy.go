package symbols

import (
	"sort"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

// suggestionThreshold is the minimum Jaro-Winkler similarity a candidate
// name needs to surface as a "did you mean" suggestion.
const suggestionThreshold = 0.75

// maxSuggestions bounds how many candidates suggest() returns.
const maxSuggestions = 5

// suggest returns up to maxSuggestions declaration names similar to name,
// ranked by Jaro-Winkler similarity over the Porter2-stemmed forms
// (SPEC_FULL.md's supplemented fuzzy-suggestion feature, grounded on
// internal/semantic/fuzzy_matcher.go and internal/semantic/stemmer.go).
func (r *Resolver) suggest(name string) []string {
	stemmedTarget := porter2.Stem(name)

	type scored struct {
		name  string
		score float64
	}
	var candidates []scored
	seen := make(map[string]bool)
	for _, d := range r.result.Declarations.All() {
		if d.Name == name || d.Name == "" || seen[d.Name] {
			continue
		}
		seen[d.Name] = true

		score, err := edlib.StringsSimilarity(stemmedTarget, porter2.Stem(d.Name), edlib.JaroWinkler)
		if err != nil {
			continue
		}
		if float64(score) >= suggestionThreshold {
			candidates = append(candidates, scored{name: d.Name, score: float64(score)})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].name < candidates[j].name
	})

	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}
