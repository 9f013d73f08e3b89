// Package swiftsyntax wraps go-tree-sitter with the Swift grammar, giving
// internal/walker a syntax-tree provider: a parsed Tree plus byte-exact
// node text and (line, column) location lookups (spec §6's "external
// source of syntax trees" contract).
package swiftsyntax

import (
	"fmt"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_swift "github.com/alex-pinkus/tree-sitter-swift/bindings/go"

	"github.com/standardbeagle/swa/internal/types"
)

// Language returns the Swift tree-sitter language; each call constructs
// a new value.
func Language() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_swift.Language())
}

// Tree pairs a parsed tree-sitter tree with the file it was parsed from,
// so node positions can be converted back to types.Location without
// threading the file path and content through every walker call.
type Tree struct {
	FileID  types.FileID
	Path    string
	Content []byte
	inner   *sitter.Tree
}

// Parse parses content as Swift source, tagging every node with fileID and
// path for later Location conversion. The caller must call Close when
// done.
func Parse(fileID types.FileID, path string, content []byte) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(Language()); err != nil {
		return nil, fmt.Errorf("swiftsyntax: set language: %w", err)
	}

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, fmt.Errorf("swiftsyntax: parser returned nil tree")
	}

	return &Tree{FileID: fileID, Path: path, Content: content, inner: tree}, nil
}

// Close releases the underlying tree-sitter tree.
func (t *Tree) Close() {
	if t != nil && t.inner != nil {
		t.inner.Close()
	}
}

// Root returns the tree's root node.
func (t *Tree) Root() *sitter.Node {
	return t.inner.RootNode()
}

// Text returns the exact source bytes spanned by node, as a string.
func (t *Tree) Text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > uint(len(t.Content)) || end > uint(len(t.Content)) || start > end {
		return ""
	}
	return string(t.Content[start:end])
}

// Location converts node's start position into a types.Location. Both
// tree-sitter's row/column are 0-based; spec locations are 1-based.
func (t *Tree) Location(node *sitter.Node) types.Location {
	if node == nil {
		return types.Location{File: t.Path}
	}
	pos := node.StartPosition()
	return types.Location{
		File:       t.Path,
		Line:       int(pos.Row) + 1,
		Column:     int(pos.Column) + 1,
		ByteOffset: int(node.StartByte()),
	}
}

// EndLocation converts node's end position into a types.Location.
func (t *Tree) EndLocation(node *sitter.Node) types.Location {
	if node == nil {
		return types.Location{File: t.Path}
	}
	pos := node.EndPosition()
	return types.Location{
		File:       t.Path,
		Line:       int(pos.Row) + 1,
		Column:     int(pos.Column) + 1,
		ByteOffset: int(node.EndByte()),
	}
}

// commentKinds holds every node kind the grammar uses for a comment;
// tree-sitter-swift surfaces comments as ordinary siblings rather than
// attached trivia, so leading-comment lookup walks PrevSibling manually
// (mirrors unified_extractor.go's extractDocCommentBeforeNode, generalized
// from "one immediate predecessor" to a full contiguous run).
var commentKinds = map[string]bool{
	"comment":           true,
	"line_comment":      true,
	"block_comment":     true,
	"multiline_comment": true,
}

// LeadingTrivia returns the text of every contiguous comment node
// immediately preceding node, in source order, joined by newlines. This
// is the "leading trivia of the nearest following declaration" spec §6
// describes ignore-directives as being discovered in.
func (t *Tree) LeadingTrivia(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	var parts []string
	for cur := node.PrevSibling(); cur != nil && commentKinds[cur.Kind()]; cur = cur.PrevSibling() {
		parts = append(parts, t.Text(cur))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "\n")
}

// FirstChildOfKind returns the first direct child of node whose Kind()
// matches kind, or nil.
func FirstChildOfKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// ChildrenOfKind returns every direct child of node whose Kind() matches
// kind.
func ChildrenOfKind(node *sitter.Node, kind string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			out = append(out, child)
		}
	}
	return out
}

// FieldOrNil is ChildByFieldName with a nil-safe receiver, so callers don't
// need to guard every lookup against a nil node.
func FieldOrNil(node *sitter.Node, field string) *sitter.Node {
	if node == nil {
		return nil
	}
	return node.ChildByFieldName(field)
}
