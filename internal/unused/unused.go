// Package unused implements the unused-declaration classifier (C8): turns
// the reachability engine's unreachable-set output into ranked findings,
// applying the filter/reason/confidence/suggestion pipeline of spec §4.9.
// Grounded on internal/core/dead_code_detector.go's filter-then-classify
// shape, generalized from "unused Go symbol" to this module's typed
// Swift-like declaration model.
package unused

import (
	"fmt"
	"sort"
	"strings"

	"github.com/standardbeagle/swa/internal/config"
	"github.com/standardbeagle/swa/internal/reachability"
	"github.com/standardbeagle/swa/internal/types"
)

// previewProviderSuffix is the SwiftUI convention for preview types, which
// are excluded even though nothing else in the project calls them (spec
// §4.9's "preview-provider type" exclusion).
const previewProviderSuffix = "_Previews"

// Classify converts every declaration unreachable under reachable into
// UnusedFindings, applying filters, then sorts the result by confidence
// descending, then (file, line, column) ascending (spec §4.9).
func Classify(result *types.AnalysisResult, reachable reachability.Set, idOf func(types.Declaration) (types.DeclID, bool), cfg config.Unused) []types.UnusedFinding {
	enabled := enabledKindSet(cfg.EnabledKinds)
	byScope := make(map[types.ScopeID][]types.Declaration)
	for _, d := range result.Declarations.All() {
		byScope[d.Scope] = append(byScope[d.Scope], d)
	}

	var findings []types.UnusedFinding
	for _, d := range result.Declarations.All() {
		id, ok := idOf(d)
		if !ok || reachable.IsReachable(id) {
			continue
		}
		if shouldFilter(d, enabled, cfg.RootPolicy) {
			continue
		}

		reason := classifyReason(d, result)
		confidence := types.ConfidenceForAccess(d.Access)
		if d.Kind == types.DeclImport {
			confidence = types.ConfidenceLow
		}
		findings = append(findings, types.UnusedFinding{
			Declaration: d,
			Reason:      reason,
			Confidence:  confidence,
			Suggestion:  suggestion(d, reason),
		})
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Confidence != findings[j].Confidence {
			return findings[i].Confidence > findings[j].Confidence
		}
		return findings[i].Declaration.Location.Less(findings[j].Declaration.Location)
	})
	return findings
}

func enabledKindSet(kinds []string) map[string]bool {
	if len(kinds) == 0 {
		return nil // nil means "all enabled"
	}
	set := make(map[string]bool, len(kinds))
	for _, k := range kinds {
		set[k] = true
	}
	return set
}

// shouldFilter implements spec §4.9 step 1's drop conditions.
func shouldFilter(d types.Declaration, enabled map[string]bool, policy config.RootPolicy) bool {
	if d.Name == "_" {
		return true
	}
	if d.Ignore.Has(types.IgnoreAll) || d.Ignore.Has(types.IgnoreUnused) {
		return true
	}
	if d.Kind == types.DeclEnumCase && d.Ignore.Has(types.IgnoreUnusedCases) {
		return true
	}
	if enabled != nil && !enabled[d.Kind.String()] {
		return true
	}
	if d.IsEntryPoint() {
		return true
	}
	if isSwiftUIExcluded(d, policy) {
		return true
	}
	return false
}

// isSwiftUIExcluded implements the SwiftUI-specific exclusions named in
// spec §4.9: a property-wrapper attribute implies usage on its own, a
// member named `body` (property, function or method) is treated as
// framework-invoked whichever type declares it, preview-provider
// types exist only for Xcode canvas rendering, and a view-like type that
// is itself treated as a root should not also surface as an unused
// "type" finding.
func isSwiftUIExcluded(d types.Declaration, policy config.RootPolicy) bool {
	for _, w := range d.PropertyWrappers {
		if w.Kind.ImpliesUsage() {
			return true
		}
	}
	if d.Name == "body" && (d.Kind == types.DeclVariable || d.Kind == types.DeclFunction || d.Kind == types.DeclMethod) {
		return true
	}
	if d.Kind.IsType() && strings.HasSuffix(d.Name, previewProviderSuffix) {
		return true
	}
	if policy.TreatSwiftUIViewsAsRoot && d.Kind.IsType() && d.IsViewLike {
		return true
	}
	return false
}

// classifyReason implements spec §4.9 step 2.
func classifyReason(d types.Declaration, result *types.AnalysisResult) types.UnusedReason {
	switch d.Kind {
	case types.DeclImport:
		return types.ReasonImportNotUsed
	case types.DeclParameter:
		return types.ReasonParameterUnused
	case types.DeclVariable, types.DeclConstant:
		refs := result.References.ByIdentifier(d.Name)
		if len(refs) == 0 {
			return types.ReasonNeverReferenced
		}
		if allSelfReferenced(d, refs) {
			return types.ReasonOnlySelfReferenced
		}
		if onlyWrites(refs) {
			return types.ReasonOnlyAssigned
		}
		return types.ReasonNeverReferenced
	default:
		return types.ReasonNeverReferenced
	}
}

func onlyWrites(refs []types.Reference) bool {
	sawWrite := false
	for _, r := range refs {
		switch r.Context {
		case types.RefWrite:
			sawWrite = true
		default:
			return false
		}
	}
	return sawWrite
}

func allSelfReferenced(d types.Declaration, refs []types.Reference) bool {
	for _, r := range refs {
		if !withinRange(d.Range, r.Location) {
			return false
		}
	}
	return len(refs) > 0
}

func withinRange(r types.Range, loc types.Location) bool {
	if loc.File != r.Start.File {
		return false
	}
	if loc.Line < r.Start.Line || loc.Line > r.End.Line {
		return false
	}
	if loc.Line == r.Start.Line && loc.Column < r.Start.Column {
		return false
	}
	if loc.Line == r.End.Line && loc.Column > r.End.Column {
		return false
	}
	return true
}

// suggestion generates a deterministic message keyed off (kind, reason,
// name), per spec §4.9 step 4.
func suggestion(d types.Declaration, reason types.UnusedReason) string {
	switch reason {
	case types.ReasonNeverReferenced:
		return fmt.Sprintf("%s %q is never referenced; consider removing it.", d.Kind, d.Name)
	case types.ReasonOnlyAssigned:
		return fmt.Sprintf("%s %q is only ever assigned, never read; consider removing it.", d.Kind, d.Name)
	case types.ReasonOnlySelfReferenced:
		return fmt.Sprintf("%s %q is only referenced within its own declaration; consider removing it.", d.Kind, d.Name)
	case types.ReasonImportNotUsed:
		return fmt.Sprintf("import %q is unused; consider removing it.", d.Name)
	case types.ReasonParameterUnused:
		return fmt.Sprintf("parameter %q is unused; consider renaming it to %q or removing it.", d.Name, "_")
	case types.ReasonDeadBranch:
		return fmt.Sprintf("%s %q is unreachable because its guarding condition is always false.", d.Kind, d.Name)
	default:
		return fmt.Sprintf("%s %q appears unused.", d.Kind, d.Name)
	}
}
