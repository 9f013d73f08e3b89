package depgraph

import (
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/swa/internal/config"
	"github.com/standardbeagle/swa/internal/types"
)

// SelectRoots computes the reachability root set per spec §4.7's policy
// table plus §6's "always roots" entry-point/ignore-directive rule. Every
// flag is independent and additive (the root set is their union).
func SelectRoots(result *types.AnalysisResult, ids *IDs, policy config.RootPolicy) []types.Root {
	var roots []types.Root
	seen := make(map[types.DeclID]bool)
	add := func(d types.Declaration, reason types.RootReason) {
		id, ok := ids.IDOf(d)
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		roots = append(roots, types.Root{Decl: id, Reason: reason})
	}

	viewProtocols := make(map[string]bool, len(policy.ViewProtocols))
	for _, v := range policy.ViewProtocols {
		viewProtocols[v] = true
	}

	for _, d := range result.Declarations.All() {
		if d.IsEntryPoint() {
			add(d, types.RootEntryPointAttribute)
		}
		if d.Ignore.Has(types.IgnoreAll) || d.Ignore.Has(types.IgnoreUnused) {
			add(d, types.RootIgnoreDirective)
		}
		if policy.TreatPublicAsRoot && d.Access.AtLeast(types.AccessPublic) {
			add(d, types.RootPublicAccess)
		}
		if policy.TreatObjcAsRoot && d.HasAttribute("objc") {
			add(d, types.RootObjcAttribute)
		}
		if policy.TreatTestsAsRoot && isTestDeclaration(d, policy.TestPathGlobs) {
			add(d, types.RootTest)
		}
		if policy.TreatSwiftUIViewsAsRoot && d.Kind.IsType() && isViewLike(d, viewProtocols) {
			add(d, types.RootViewLikeType)
		}
	}

	// Members declared directly in an entry-point type's body (such as the
	// static main() of an @main struct) are invoked by the runtime, so they
	// are roots too.
	for _, d := range result.Declarations.All() {
		if !d.IsEntryPoint() || !d.Kind.IsType() {
			continue
		}
		for _, s := range result.Scopes.All() {
			if s.File != d.File || s.Name != d.Name || s.Range != d.Range {
				continue
			}
			for _, m := range result.Declarations.ByFile(d.File) {
				if m.Scope == s.ID {
					add(m, types.RootEntryPointAttribute)
				}
			}
		}
	}

	return roots
}

func isViewLike(d types.Declaration, viewProtocols map[string]bool) bool {
	if d.IsViewLike {
		return true
	}
	for _, c := range d.Conformances {
		if viewProtocols[c] {
			return true
		}
	}
	return false
}

// isTestDeclaration implements §4.7's "declarations in files matching
// test-path rules, plus names with Tests/Test suffix" rule.
func isTestDeclaration(d types.Declaration, globs []string) bool {
	if strings.HasSuffix(d.Name, "Tests") || strings.HasSuffix(d.Name, "Test") {
		return true
	}
	for _, pattern := range globs {
		if ok, err := doublestar.Match(pattern, d.File); err == nil && ok {
			return true
		}
	}
	return false
}
