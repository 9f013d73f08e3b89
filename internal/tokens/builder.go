package tokens

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/swa/internal/swiftsyntax"
	"github.com/standardbeagle/swa/internal/types"
)

// commentKinds names the tree-sitter-swift leaf kinds that are trivia and
// never become tokens (spec §4.3: "comments and whitespace are dropped").
var commentKinds = map[string]bool{
	"comment":           true,
	"multiline_comment": true,
}

// literalKinds names named leaf kinds that classify as Literal.
var literalKinds = map[string]bool{
	"integer_literal": true,
	"real_literal":    true,
	"hex_literal":     true,
	"oct_literal":     true,
	"bin_literal":     true,
	"line_string_literal_content": true,
	"boolean_literal": true,
	"nil_literal":     true,
}

// identifierKinds names named leaf kinds that classify as Identifier.
var identifierKinds = map[string]bool{
	"simple_identifier": true,
	"identifier":        true,
	"type_identifier":   true,
	"property_identifier": true,
}

var punctuationSet = map[byte]bool{
	'(': true, ')': true, '{': true, '}': true, '[': true, ']': true,
	',': true, ';': true,
}

func classifyAnonymous(text string) Kind {
	if text == "" {
		return Unknown
	}
	isAlpha := true
	for _, r := range text {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r == '_') {
			isAlpha = false
			break
		}
	}
	if isAlpha {
		return Keyword
	}
	if punctuationSet[text[0]] {
		return Punctuation
	}
	return Operator
}

func classifyLeaf(node *sitter.Node, text string) (Kind, bool) {
	kind := node.Kind()
	if commentKinds[kind] {
		return Unknown, false
	}
	if !node.IsNamed() {
		return classifyAnonymous(text), true
	}
	if identifierKinds[kind] {
		return Identifier, true
	}
	if literalKinds[kind] {
		return Literal, true
	}
	if kind == "" || text == "" {
		return Unknown, false
	}
	// Other named leaves (e.g. custom operator glyphs the grammar names)
	// still carry meaningful text; classify by character class rather
	// than dropping them.
	return classifyAnonymous(text), true
}

// collectLeaves appends every leaf (zero-child) node under root, depth
// first, left to right — the traversal order the concatenated per-file
// stream depends on for deterministic clone detection (spec §3 invariant:
// "independent of file enumeration order" once files are processed in the
// same order every run).
func collectLeaves(node *sitter.Node, out *[]*sitter.Node) {
	if node == nil {
		return
	}
	if node.ChildCount() == 0 {
		*out = append(*out, node)
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		collectLeaves(node.Child(i), out)
	}
}

// Append tokenizes tree's leaves into s, in document order, after the
// boundary marker separating it from whatever was appended before it (the
// very first file gets no leading boundary).
func Append(s *Stream, tree *swiftsyntax.Tree) {
	if len(s.kind) > 0 {
		s.appendBoundary()
	}
	s.sources[tree.FileID] = tree.Content
	s.paths[tree.FileID] = tree.Path

	var leaves []*sitter.Node
	collectLeaves(tree.Root(), &leaves)

	for _, leaf := range leaves {
		text := tree.Text(leaf)
		k, ok := classifyLeaf(leaf, text)
		if !ok {
			continue
		}
		pos := leaf.StartPosition()
		s.appendToken(tree.FileID, k, uint32(leaf.StartByte()), uint32(leaf.EndByte()-leaf.StartByte()),
			int32(pos.Row)+1, int32(pos.Column)+1)
	}
}

// Build tokenizes every tree in order and returns the assembled stream.
// Mirrors the walker's "one pass per file" discipline but is a pure
// function over already-parsed trees, since the token view is built once
// the full file set's trees are available (spec §5: clone detection "runs
// on the fully assembled token stream").
func Build(trees []*swiftsyntax.Tree) *Stream {
	s := NewStream()
	for _, t := range trees {
		Append(s, t)
	}
	return s
}

// FileIDOf is a small helper so callers that only have a path can find the
// FileID already registered in the stream.
func FileIDOf(s *Stream, path string) (types.FileID, bool) {
	for id, p := range s.paths {
		if p == path {
			return id, true
		}
	}
	return 0, false
}
