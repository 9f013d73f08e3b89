// Package symbols implements the symbol resolver (C9): dispatches one of
// six query pattern variants against an optional external compiler index
// first, falling back to syntax-only resolution over an AnalysisResult
// (spec §4.10). Grounded on internal/search/engine.go's query-dispatch
// shape and internal/regex_analyzer/cache.go's per-filter regex cache.
package symbols

import (
	"regexp"

	"github.com/standardbeagle/swa/internal/types"
)

// PatternKind is the closed set of query variants spec §4.10 names.
type PatternKind uint8

const (
	PatternSimpleName PatternKind = iota
	PatternQualifiedName
	PatternSelector
	PatternQualifiedSelector
	PatternUSR
	PatternRegex
)

// Pattern is one symbol-lookup query. Only the fields relevant to Kind
// are populated; the rest are zero values.
type Pattern struct {
	Kind   PatternKind
	Name   string   // simpleName, selector
	Path   []string // qualifiedName: [t1, ..., tn, member]; qualifiedSelector: leading type path
	Labels []string // selector/qualifiedSelector parameter labels, "" for unlabeled
	USR    string
	Regex  string
}

// Filters narrows a resolved candidate set (spec §4.10 step 4).
type Filters struct {
	Kinds  []types.DeclarationKind // empty means no kind filter
	Access *types.AccessLevel      // nil means no access filter; set means "at least this level"
	Scope  types.ScopeID           // 0 (GlobalScope) means no scope filter
	Limit  int                     // 0 means unlimited
}

func (f Filters) kindAllowed(k types.DeclarationKind) bool {
	if len(f.Kinds) == 0 {
		return true
	}
	for _, allowed := range f.Kinds {
		if allowed == k {
			return true
		}
	}
	return false
}

func (f Filters) accessAllowed(a types.AccessLevel) bool {
	if f.Access == nil {
		return true
	}
	return a.AtLeast(*f.Access)
}

func (f Filters) scopeAllowed(result *types.AnalysisResult, scope types.ScopeID) bool {
	if f.Scope == types.GlobalScope {
		return true
	}
	for _, s := range result.Scopes.Chain(scope) {
		if s.ID == f.Scope {
			return true
		}
	}
	return false
}

// regexCache memoizes compiled regular expressions per pattern string, so
// a caller resolving the same regex query repeatedly (e.g. across many
// files in one run) doesn't recompile it every time. Grounded on
// internal/regex_analyzer/cache.go's "one cache per filter kind" design.
type regexCache struct {
	compiled map[string]*regexp.Regexp
}

func newRegexCache() *regexCache {
	return &regexCache{compiled: make(map[string]*regexp.Regexp)}
}

func (c *regexCache) compile(pattern string) (*regexp.Regexp, error) {
	if re, ok := c.compiled[pattern]; ok {
		return re, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	c.compiled[pattern] = re
	return re, nil
}
