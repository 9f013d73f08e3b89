package depgraph

import "github.com/standardbeagle/swa/internal/types"

// protocolWitnessEdges emits T.m_impl -> P.m for every (T : P) conformance
// where T declares a method matching P's requirement by name (spec §4.7,
// §9: "Protocol witnesses without name collision" — resolved as
// (type_scope, method_name) pairs since this module does not model
// selector-label overload resolution beyond the name match).
func protocolWitnessEdges(result *types.AnalysisResult, ids *IDs) []types.DependencyEdge {
	protocols := make(map[string]types.Declaration)
	for _, d := range result.Declarations.ByKind(types.DeclProtocol) {
		protocols[d.Name] = d
	}

	methodsByTypeScope := make(map[types.ScopeID][]types.Declaration)
	typeScopeFor := make(map[string]types.ScopeID) // "file|name|range" -> scope id, built below
	for _, s := range result.Scopes.All() {
		if s.Kind == types.ScopeClass || s.Kind == types.ScopeStruct || s.Kind == types.ScopeEnum ||
			s.Kind == types.ScopeProtocol || s.Kind == types.ScopeExtension {
			typeScopeFor[s.File+"|"+s.Name+"|"+s.Range.Start.String()] = s.ID
		}
	}
	for _, d := range result.Declarations.All() {
		if d.Kind == types.DeclFunction || d.Kind == types.DeclMethod || d.Kind == types.DeclInitializer {
			methodsByTypeScope[d.Scope] = append(methodsByTypeScope[d.Scope], d)
		}
	}

	// Default-implementation extensions: `extension P { func m() {...} }`
	// where P is a protocol name (spec §9: "A protocol with default
	// implementations yields an extra edge from each witness to the
	// default").
	defaultImpls := make(map[string]map[string]types.Declaration) // protocol name -> method name -> decl
	for _, ext := range result.Declarations.ByKind(types.DeclExtension) {
		if _, isProtocol := protocols[ext.Name]; !isProtocol {
			continue
		}
		scopeID, ok := typeScopeFor[ext.File+"|"+ext.Name+"|"+ext.Range.Start.String()]
		if !ok {
			continue
		}
		for _, m := range methodsByTypeScope[scopeID] {
			if defaultImpls[ext.Name] == nil {
				defaultImpls[ext.Name] = make(map[string]types.Declaration)
			}
			defaultImpls[ext.Name][m.Name] = m
		}
	}

	var edges []types.DependencyEdge
	for _, t := range result.Declarations.All() {
		if !t.Kind.IsType() || len(t.Conformances) == 0 {
			continue
		}
		typeScopeID, ok := typeScopeFor[t.File+"|"+t.Name+"|"+t.Range.Start.String()]
		if !ok {
			continue
		}
		typeMethods := methodsByTypeScope[typeScopeID]

		for _, conf := range t.Conformances {
			proto, ok := protocols[conf]
			if !ok {
				continue
			}
			protoScopeID, ok := typeScopeFor[proto.File+"|"+proto.Name+"|"+proto.Range.Start.String()]
			if !ok {
				continue
			}
			for _, req := range methodsByTypeScope[protoScopeID] {
				reqID, ok := ids.IDOf(req)
				if !ok {
					continue
				}
				for _, m := range typeMethods {
					if m.Name != req.Name {
						continue
					}
					if implID, ok := ids.IDOf(m); ok {
						edges = append(edges, types.DependencyEdge{From: implID, To: reqID, Reason: types.EdgeConformanceWitness})
						if def, ok := defaultImpls[conf][req.Name]; ok {
							if defID, ok := ids.IDOf(def); ok {
								edges = append(edges, types.DependencyEdge{From: implID, To: defID, Reason: types.EdgeDefaultImplementation})
							}
						}
					}
				}
			}
		}
	}
	return edges
}
