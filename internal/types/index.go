package types

import "sort"

// DeclarationIndex maps a declaration name to every declaration with that
// name, plus auxiliary lookup maps by kind and by file (spec §3). Bucket
// order is insertion order from the C2 walking pipeline; callers that need
// a stable order (e.g. C9's simpleName query) sort at read time.
type DeclarationIndex struct {
	byName map[string][]Declaration
	byKind map[DeclarationKind][]Declaration
	byFile map[string][]Declaration
}

// NewDeclarationIndex returns an empty index.
func NewDeclarationIndex() *DeclarationIndex {
	return &DeclarationIndex{
		byName: make(map[string][]Declaration),
		byKind: make(map[DeclarationKind][]Declaration),
		byFile: make(map[string][]Declaration),
	}
}

// Add inserts a declaration. Declarations are immutable once added.
func (idx *DeclarationIndex) Add(d Declaration) {
	idx.byName[d.Name] = append(idx.byName[d.Name], d)
	idx.byKind[d.Kind] = append(idx.byKind[d.Kind], d)
	idx.byFile[d.File] = append(idx.byFile[d.File], d)
}

// ByName returns every declaration with the given exact name.
func (idx *DeclarationIndex) ByName(name string) []Declaration {
	return idx.byName[name]
}

// ByKind returns every declaration of the given kind.
func (idx *DeclarationIndex) ByKind(kind DeclarationKind) []Declaration {
	return idx.byKind[kind]
}

// ByFile returns every declaration defined in the given file.
func (idx *DeclarationIndex) ByFile(file string) []Declaration {
	return idx.byFile[file]
}

// All returns every declaration in the index, sorted by (file, line,
// column) as required of read-time access (spec §3 invariants).
func (idx *DeclarationIndex) All() []Declaration {
	var out []Declaration
	for _, decls := range idx.byFile {
		out = append(out, decls...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location.Less(out[j].Location) })
	return out
}

// ReferenceIndex maps an identifier to every reference using it, plus the
// set of unique identifiers seen.
type ReferenceIndex struct {
	byIdentifier map[string][]Reference
}

// NewReferenceIndex returns an empty index.
func NewReferenceIndex() *ReferenceIndex {
	return &ReferenceIndex{byIdentifier: make(map[string][]Reference)}
}

// Add inserts a reference.
func (idx *ReferenceIndex) Add(r Reference) {
	idx.byIdentifier[r.Identifier] = append(idx.byIdentifier[r.Identifier], r)
}

// ByIdentifier returns every reference to the given identifier text.
func (idx *ReferenceIndex) ByIdentifier(identifier string) []Reference {
	return idx.byIdentifier[identifier]
}

// Identifiers returns the set of distinct identifier strings referenced.
func (idx *ReferenceIndex) Identifiers() []string {
	out := make([]string, 0, len(idx.byIdentifier))
	for id := range idx.byIdentifier {
		out = append(out, id)
	}
	return out
}

// All returns every reference in the index, in no particular order.
func (idx *ReferenceIndex) All() []Reference {
	var out []Reference
	for _, refs := range idx.byIdentifier {
		out = append(out, refs...)
	}
	return out
}

// ImportInfo is one `import X` declaration's resolved target, used by the
// unused classifier's importNotUsed reason.
type ImportInfo struct {
	Path     string
	Location Location
	File     string
}

// AnalysisResult is the project-wide merge of every per-file accumulator
// (C3's output). Safe to share read-only across goroutines once built.
type AnalysisResult struct {
	Declarations *DeclarationIndex
	References   *ReferenceIndex
	Scopes       *ScopeTree
	Files        []string
	Imports      []ImportInfo
}

// NewAnalysisResult returns an empty, ready-to-merge-into result.
func NewAnalysisResult() *AnalysisResult {
	return &AnalysisResult{
		Declarations: NewDeclarationIndex(),
		References:   NewReferenceIndex(),
		Scopes:       NewScopeTree(),
	}
}
