package symbols

import (
	"sort"

	"github.com/standardbeagle/swa/internal/compilerindex"
	"github.com/standardbeagle/swa/internal/types"
)

// Match is one resolved symbol result. Suggestions is populated only for
// a simpleName query that resolved to nothing (the supplemented fuzzy
// "did you mean" feature).
type Match struct {
	Declaration types.Declaration
	Suggestions []string
}

// Resolver answers symbol queries against an AnalysisResult, optionally
// enriched by an external compiler index (spec §4.10).
type Resolver struct {
	result  *types.AnalysisResult
	index   *compilerindex.Locked
	regexes *regexCache
	fuzzy   bool // enables the supplemented "did you mean" suggestions
}

// New builds a Resolver. index may be nil (no external index configured).
func New(result *types.AnalysisResult, index *compilerindex.Locked, fuzzySuggestions bool) *Resolver {
	return &Resolver{result: result, index: index, regexes: newRegexCache(), fuzzy: fuzzySuggestions}
}

// Resolve dispatches p through the §4.10 precedence: external index first
// (if configured and it returns a non-empty result without error), else
// syntax fallback against the AnalysisResult; then applies filters, dedups
// by (file, line, column), applies the limit, and sorts by (file, line,
// column).
func (r *Resolver) Resolve(p Pattern, f Filters) ([]Match, error) {
	var matches []Match

	if r.index != nil {
		if external, err := r.resolveExternal(p); err == nil {
			matches = external
		}
	}

	if len(matches) == 0 {
		syntax, err := r.resolveSyntax(p)
		if err != nil {
			return nil, err
		}
		matches = syntax
	}

	matches = applyFilters(r.result, matches, f)
	matches = dedup(matches)

	if f.Limit > 0 && len(matches) > f.Limit {
		matches = matches[:f.Limit]
	}

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Declaration.Location.Less(matches[j].Declaration.Location)
	})

	if len(matches) == 0 && p.Kind == PatternSimpleName && r.fuzzy {
		if suggestions := r.suggest(p.Name); len(suggestions) > 0 {
			matches = append(matches, Match{Suggestions: suggestions})
		}
	}

	return matches, nil
}

// resolveExternal enriches external-index hits with access level extracted
// from source, matched by (file, line, column) (spec §4.10 step 2). A hit
// with no matching source declaration is still returned, with its access
// level left at the zero value (AccessPrivate): the index is authoritative
// for existence, source is only consulted for enrichment.
func (r *Resolver) resolveExternal(p Pattern) ([]Match, error) {
	var occurrences []compilerindex.Occurrence
	var err error
	switch p.Kind {
	case PatternUSR:
		occurrences, err = r.index.FindOccurrencesByUSR(p.USR)
	case PatternSimpleName, PatternSelector:
		occurrences, err = r.index.FindOccurrencesByName(p.Name)
	case PatternQualifiedName, PatternQualifiedSelector:
		if len(p.Path) > 0 {
			occurrences, err = r.index.FindOccurrencesByName(p.Path[len(p.Path)-1])
		}
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	type site struct {
		file         string
		line, column int
	}
	bySite := make(map[site]types.Declaration)
	for _, d := range r.result.Declarations.All() {
		bySite[site{d.Location.File, d.Location.Line, d.Location.Column}] = d
	}

	var matches []Match
	for _, occ := range occurrences {
		if !occ.HasRole(compilerindex.RoleDefinition) && !occ.HasRole(compilerindex.RoleDeclaration) {
			continue
		}
		loc := types.Location{File: occ.File, Line: occ.Line, Column: occ.Column}
		if d, ok := bySite[site{occ.File, occ.Line, occ.Column}]; ok {
			matches = append(matches, Match{Declaration: d})
			continue
		}
		matches = append(matches, Match{Declaration: types.Declaration{
			Name: occ.Symbol.Name, Location: loc, File: occ.File,
		}})
	}
	return matches, nil
}

// resolveSyntax implements spec §4.10 step 3's syntax-only fallback.
func (r *Resolver) resolveSyntax(p Pattern) ([]Match, error) {
	switch p.Kind {
	case PatternSimpleName:
		return toMatches(r.result.Declarations.ByName(p.Name)), nil
	case PatternQualifiedName:
		return r.resolveQualifiedName(p.Path), nil
	case PatternSelector:
		return r.resolveSelector(p.Name, p.Labels), nil
	case PatternQualifiedSelector:
		qualified := r.resolveQualifiedName(append(append([]string(nil), p.Path...), p.Name))
		return filterBySelector(qualified, p.Labels, r.result), nil
	case PatternUSR:
		return nil, nil // syntax mode never supports usr lookups (spec §4.10 step 3)
	case PatternRegex:
		return r.resolveRegex(p.Regex)
	default:
		return nil, nil
	}
}

// resolveQualifiedName finds declarations named path's last component
// whose scope-chain walk passes through a scope named path's
// second-to-last component (spec §4.10 step 3).
func (r *Resolver) resolveQualifiedName(path []string) []Match {
	if len(path) == 0 {
		return nil
	}
	member := path[len(path)-1]
	if len(path) == 1 {
		return toMatches(r.result.Declarations.ByName(member))
	}
	enclosing := path[len(path)-2]

	var out []Match
	for _, d := range r.result.Declarations.ByName(member) {
		for _, s := range r.result.Scopes.Chain(d.Scope) {
			if s.Name == enclosing {
				out = append(out, Match{Declaration: d})
				break
			}
		}
	}
	return out
}

// resolveSelector filters name-matching function/method/initializer
// declarations by parameter label sequence (spec §4.10: "filter by
// parameter labels exactly; unlabeled matches only unlabeled"). Parameter
// labels are approximated by each parameter declaration's own Name, since
// this module's walker does not distinguish an external label from an
// internal parameter name.
func (r *Resolver) resolveSelector(name string, labels []string) []Match {
	return filterBySelector(toMatches(r.result.Declarations.ByName(name)), labels, r.result)
}

func filterBySelector(candidates []Match, labels []string, result *types.AnalysisResult) []Match {
	if len(labels) == 0 {
		return candidates
	}
	var out []Match
	for _, m := range candidates {
		if !m.Declaration.Kind.IsType() && selectorMatches(result, m.Declaration, labels) {
			out = append(out, m)
		}
	}
	return out
}

func selectorMatches(result *types.AnalysisResult, d types.Declaration, labels []string) bool {
	var params []types.Declaration
	for _, candidate := range result.Declarations.ByKind(types.DeclParameter) {
		if candidate.Scope == d.Scope {
			params = append(params, candidate)
		}
	}
	if len(params) != len(labels) {
		return false
	}
	for i, label := range params {
		want := labels[i]
		got := label.Name
		if want == "" || want == "_" {
			if got != "_" && got != "" {
				return false
			}
			continue
		}
		if got != want {
			return false
		}
	}
	return true
}

func (r *Resolver) resolveRegex(pattern string) ([]Match, error) {
	re, err := r.regexes.compile(pattern)
	if err != nil {
		return nil, err
	}
	var out []Match
	for _, d := range r.result.Declarations.All() {
		if re.MatchString(d.Name) {
			out = append(out, Match{Declaration: d})
		}
	}
	return out, nil
}

func toMatches(decls []types.Declaration) []Match {
	out := make([]Match, 0, len(decls))
	for _, d := range decls {
		out = append(out, Match{Declaration: d})
	}
	return out
}

func applyFilters(result *types.AnalysisResult, matches []Match, f Filters) []Match {
	var out []Match
	for _, m := range matches {
		d := m.Declaration
		if !f.kindAllowed(d.Kind) || !f.accessAllowed(d.Access) || !f.scopeAllowed(result, d.Scope) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func dedup(matches []Match) []Match {
	seen := make(map[types.Location]bool, len(matches))
	var out []Match
	for _, m := range matches {
		loc := m.Declaration.Location
		if seen[loc] {
			continue
		}
		seen[loc] = true
		out = append(out, m)
	}
	return out
}
