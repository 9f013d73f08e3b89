// Package depgraph implements the dependency extractor (C6): turns an
// AnalysisResult into a typed declaration graph of "uses" edges — scope
// resolution, protocol witnesses, and closure captures — plus the root
// selection policy reachability (C7) seeds from (spec §4.7). Grounded on
// internal/core/reference_tracker.go's scope-chain identifier resolution
// and internal/core/universal_graph.go's read-only-after-build
// node/edge storage.
package depgraph

import (
	"sort"

	"github.com/standardbeagle/swa/internal/types"
)

// IDs maps every declaration to a dense DeclID and back, assigned
// deterministically: files sorted lexicographically, declarations within
// a file sorted by location (spec §3's total order).
type IDs struct {
	fileIDs  map[string]types.FileID
	declID   map[types.Location]types.DeclID
	byID     map[types.DeclID]types.Declaration
	scopeKey map[scopeKey]types.ScopeID // (file,location) -> scope owning that declaration's body, if any
}

type scopeKey struct {
	file string
	loc  types.Location
}

// AssignIDs builds the dense id mapping used by every downstream stage
// (C6 edges, C7's dense graph, C9's compact ids).
func AssignIDs(result *types.AnalysisResult) *IDs {
	files := append([]string(nil), result.Files...)
	sort.Strings(files)

	ids := &IDs{
		fileIDs: make(map[string]types.FileID, len(files)),
		declID:  make(map[types.Location]types.DeclID),
		byID:    make(map[types.DeclID]types.Declaration),
	}
	for i, f := range files {
		ids.fileIDs[f] = types.FileID(i + 1)
	}

	for _, f := range files {
		decls := append([]types.Declaration(nil), result.Declarations.ByFile(f)...)
		sort.Slice(decls, func(i, j int) bool { return decls[i].Location.Less(decls[j].Location) })
		fid := ids.fileIDs[f]
		for i, d := range decls {
			id := types.NewDeclID(fid, uint32(i))
			ids.declID[d.Location] = id
			ids.byID[id] = d
		}
	}
	return ids
}

// IDOf returns the DeclID assigned to d, via its location.
func (ids *IDs) IDOf(d types.Declaration) (types.DeclID, bool) {
	id, ok := ids.declID[d.Location]
	return id, ok
}

// Decl returns the declaration for an id.
func (ids *IDs) Decl(id types.DeclID) (types.Declaration, bool) {
	d, ok := ids.byID[id]
	return d, ok
}

// All returns every assigned DeclID in ascending (FileID, LocalID) order.
func (ids *IDs) All() []types.DeclID {
	out := make([]types.DeclID, 0, len(ids.byID))
	for id := range ids.byID {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FileID != out[j].FileID {
			return out[i].FileID < out[j].FileID
		}
		return out[i].LocalID < out[j].LocalID
	})
	return out
}

// Len reports the number of assigned ids.
func (ids *IDs) Len() int { return len(ids.byID) }

// ownerByScope maps a lexical scope to the declaration whose body that
// scope is (spec §4.1: the walker pushes a scope with the same Name/Range
// as the declaration it belongs to), used to resolve "enclosing_decl(r)".
func ownerByScope(result *types.AnalysisResult, ids *IDs) map[types.ScopeID]types.DeclID {
	owners := make(map[types.ScopeID]types.DeclID)
	for _, s := range result.Scopes.All() {
		if s.ID == types.GlobalScope || s.Name == "" {
			continue
		}
		for _, d := range result.Declarations.ByFile(s.File) {
			if d.Name == s.Name && d.Range == s.Range {
				if id, ok := ids.IDOf(d); ok {
					owners[s.ID] = id
				}
				break
			}
		}
	}
	return owners
}

// declsByScope indexes declarations by the scope they were declared
// directly in, for scope-chain name resolution.
func declsByScope(result *types.AnalysisResult) map[types.ScopeID][]types.Declaration {
	out := make(map[types.ScopeID][]types.Declaration)
	for _, d := range result.Declarations.All() {
		out[d.Scope] = append(out[d.Scope], d)
	}
	return out
}

func kindCompatible(ctx types.ReferenceContext, kind types.DeclarationKind) bool {
	switch ctx {
	case types.RefCall:
		return kind == types.DeclFunction || kind == types.DeclMethod || kind == types.DeclInitializer
	case types.RefTypeAnnotation, types.RefInheritance:
		return kind.IsType() || kind == types.DeclTypeAlias
	default:
		return true
	}
}

// resolveInChain walks scope's ancestor chain (innermost first) looking
// for a declaration named identifier visible at that point, honoring
// Swift's shadowing rule (spec §4.7: "resolve x by walking from s up the
// scope tree").
func resolveInChain(result *types.AnalysisResult, byScope map[types.ScopeID][]types.Declaration,
	scope types.ScopeID, identifier string, ctx types.ReferenceContext) (types.Declaration, bool) {
	for _, s := range result.Scopes.Chain(scope) {
		for _, d := range byScope[s.ID] {
			if d.Name == identifier && kindCompatible(ctx, d.Kind) {
				return d, true
			}
		}
	}
	return types.Declaration{}, false
}

// resolveQualifiedMember resolves `Q.x`: first finds a type declaration
// named qualifier, then looks up x among declarations scoped to that
// type's body (spec §4.7).
func resolveQualifiedMember(result *types.AnalysisResult, byScope map[types.ScopeID][]types.Declaration,
	qualifier, member string) (types.Declaration, bool) {
	var typeDecl *types.Declaration
	for _, d := range result.Declarations.ByName(qualifier) {
		if d.Kind.IsType() {
			dd := d
			typeDecl = &dd
			break
		}
	}
	if typeDecl == nil {
		return types.Declaration{}, false
	}
	for _, s := range result.Scopes.All() {
		if s.Name == typeDecl.Name && s.Range == typeDecl.Range && s.File == typeDecl.File {
			for _, d := range byScope[s.ID] {
				if d.Name == member {
					return d, true
				}
			}
		}
	}
	return types.Declaration{}, false
}

// crossesClosure reports whether scope's chain up to (but not including)
// stopAt passes through a closure scope — used to tag closure-capture
// edges distinctly from plain reference edges (spec §9 "Closures").
func crossesClosure(result *types.AnalysisResult, scope, stopAt types.ScopeID) bool {
	for _, s := range result.Scopes.Chain(scope) {
		if s.ID == stopAt {
			return false
		}
		if s.Kind == types.ScopeClosure {
			return true
		}
	}
	return false
}

// Extract builds the declaration-level dependency graph from an
// AnalysisResult (spec §4.7).
func Extract(result *types.AnalysisResult, ids *IDs) *types.DependencyGraph {
	owners := ownerByScope(result, ids)
	byScope := declsByScope(result)

	g := &types.DependencyGraph{Nodes: ids.All()}

	for _, r := range result.References.All() {
		enclosing, ok := enclosingDeclID(result, owners, r.Scope)
		if !ok {
			continue
		}

		var target types.Declaration
		var resolved bool
		if r.Qualified && r.Qualifier != "" {
			target, resolved = resolveQualifiedMember(result, byScope, r.Qualifier, r.Identifier)
		}
		if !resolved {
			target, resolved = resolveInChain(result, byScope, r.Scope, r.Identifier, r.Context)
		}
		if !resolved {
			continue
		}
		targetID, ok := ids.IDOf(target)
		if !ok || targetID == enclosing {
			continue
		}

		reason := types.EdgeReference
		if owner, ok := ownerScopeOf(result, owners, r.Scope, enclosing); ok && crossesClosure(result, r.Scope, owner) {
			reason = types.EdgeClosureCapture
		}

		ref := r
		g.Edges = append(g.Edges, types.DependencyEdge{From: enclosing, To: targetID, Reason: reason, Origin: &ref})
	}

	g.Edges = append(g.Edges, protocolWitnessEdges(result, ids)...)

	return g
}

// enclosingDeclID finds the nearest ancestor scope (inclusive) with a
// known owning declaration, per spec §4.7's "enclosing_decl(r)".
func enclosingDeclID(result *types.AnalysisResult, owners map[types.ScopeID]types.DeclID, scope types.ScopeID) (types.DeclID, bool) {
	for _, s := range result.Scopes.Chain(scope) {
		if id, ok := owners[s.ID]; ok {
			return id, true
		}
	}
	return types.DeclID{}, false
}

// ownerScopeOf returns the scope id owned by enclosing, used only to know
// where to stop the closure-crossing check.
func ownerScopeOf(result *types.AnalysisResult, owners map[types.ScopeID]types.DeclID, from types.ScopeID, enclosing types.DeclID) (types.ScopeID, bool) {
	for _, s := range result.Scopes.Chain(from) {
		if id, ok := owners[s.ID]; ok && id == enclosing {
			return s.ID, true
		}
	}
	return 0, false
}
