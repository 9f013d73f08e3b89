// Package walker implements the tree walker (C2): one pass per file over a
// parsed syntax tree that emits declarations, references, scopes, and
// imports into a types.FileAccumulator. The walker holds no process-wide
// mutable state, so many files can be walked concurrently (spec §4.1,
// §4.2, §5) — mirroring internal/symbollinker/go_extractor.go's
// per-call BaseExtractor/ScopeManager shape, generalized to Swift's
// declaration and attribute grammar.
package walker

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	swaerrors "github.com/standardbeagle/swa/internal/errors"
	"github.com/standardbeagle/swa/internal/swiftsyntax"
	"github.com/standardbeagle/swa/internal/types"
)

// defaultViewProtocols is the default "view-like" conformance set recognized for
// RootViewLikeType / Declaration.IsViewLike (spec §4.7's
// treatSwiftUIViewsAsRoot policy). Configurable via config.RootPolicy;
// this is the walker's built-in fallback when no policy is supplied.
var defaultViewProtocols = map[string]bool{
	"View":              true,
	"UIViewController":  true,
	"NSViewController":  true,
	"App":               true,
	"Scene":             true,
}

// ignoreDirectivePattern matches a `swa:<directive>` marker anywhere within
// a comment's text (spec §6 "Ignore-directive format"). Directives are not
// required to open the comment — S2 embeds one after other doc text — so
// this scans rather than anchors.
var ignoreDirectivePattern = regexp.MustCompile(`swa:([a-z][a-z-]*(?::[a-z]+)?)`)

// parseIgnoreDirectives scans comment text for every `swa:` marker and
// returns the resulting category set. ignore-duplicates:begin/end both map
// to IgnoreDuplicates; the begin/end region-bracketing behavior itself is
// a clone-detector concern (§6), not a per-declaration one.
func parseIgnoreDirectives(text string) types.IgnoreSet {
	var set types.IgnoreSet
	for _, m := range ignoreDirectivePattern.FindAllStringSubmatch(text, -1) {
		switch m[1] {
		case "ignore":
			set = set.With(types.IgnoreAll)
		case "ignore-unused":
			set = set.With(types.IgnoreUnused)
		case "ignore-unused-cases":
			set = set.With(types.IgnoreUnusedCases)
		case "ignore-duplicates", "ignore-duplicates:begin", "ignore-duplicates:end":
			set = set.With(types.IgnoreDuplicates)
		}
	}
	return set
}

// inheritableIgnore returns the subset of set that spreads to every nested
// declaration (spec §6: "all children inherit the parent's ignore/
// ignore-unused categories"). ignore-unused-cases propagates only from an
// enum to its own cases, handled separately in walkEnumDecl; it is not a
// general-purpose inherited category.
func inheritableIgnore(set types.IgnoreSet) types.IgnoreSet {
	var out types.IgnoreSet
	if set.Has(types.IgnoreAll) {
		out = out.With(types.IgnoreAll)
	}
	if set.Has(types.IgnoreUnused) {
		out = out.With(types.IgnoreUnused)
	}
	return out
}

// scopeStack tracks the current lexical scope chain during one file's
// walk, mirroring symbollinker.ScopeManager but keyed by types.ScopeID
// instead of a bespoke SymbolScope type.
type scopeStack struct {
	tree    *types.ScopeTree
	nextID  types.ScopeID
	current types.ScopeID
}

func newScopeStack() *scopeStack {
	return &scopeStack{tree: types.NewScopeTree(), nextID: types.GlobalScope + 1, current: types.GlobalScope}
}

func (s *scopeStack) push(kind types.ScopeKind, name string, rng types.Range, file string) types.ScopeID {
	id := s.nextID
	s.nextID++
	s.tree.Insert(types.Scope{
		ID: id, Kind: kind, Name: name, Parent: s.current, HasParent: true, Range: rng, File: file,
	})
	s.current = id
	return id
}

func (s *scopeStack) pop(to types.ScopeID) { s.current = to }

// ctx bundles the two pieces of state every recursive walk step threads
// alongside the node itself: which lexical scope encloses it, and which
// ignore categories it inherits from an enclosing declaration (spec §6,
// Testable Property #2).
type ctx struct {
	scope     types.ScopeID
	inherited types.IgnoreSet
}

func (c ctx) withScope(s types.ScopeID) ctx { c.scope = s; return c }
func (c ctx) withInherited(i types.IgnoreSet) ctx {
	c.inherited = i
	return c
}

// Walker walks one file's syntax tree. Each Walker instance is used for
// exactly one file and discarded; construct a fresh one per file.
type Walker struct {
	tree       *swiftsyntax.Tree
	acc        *types.FileAccumulator
	scopes     *scopeStack
	viewProtos map[string]bool
	errs       []error
}

// New returns a Walker ready to walk tree, recording declarations and
// references against file.
func New(tree *swiftsyntax.Tree, viewProtocols []string) *Walker {
	protos := defaultViewProtocols
	if len(viewProtocols) > 0 {
		protos = make(map[string]bool, len(viewProtocols))
		for _, p := range viewProtocols {
			protos[p] = true
		}
	}
	return &Walker{
		tree:       tree,
		acc:        types.NewFileAccumulator(tree.Path),
		scopes:     newScopeStack(),
		viewProtos: protos,
	}
}

// Walk runs the walker over the whole file and returns the accumulated
// declarations/references/imports, the per-file scope tree, and any
// recovered parse errors (never fatal — spec §7).
func (w *Walker) Walk() (*types.FileAccumulator, *types.ScopeTree, []error) {
	root := w.tree.Root()
	if root == nil {
		w.errs = append(w.errs, swaerrors.NewParseError(w.tree.FileID, w.tree.Path, 1, 1, "", errNilRoot))
		return w.acc, w.scopes.tree, w.errs
	}
	w.walkChildren(root, ctx{scope: types.GlobalScope})
	return w.acc, w.scopes.tree, w.errs
}

var errNilRoot = parseErrSentinel("empty syntax tree")

type parseErrSentinel string

func (e parseErrSentinel) Error() string { return string(e) }

func (w *Walker) recordParseError(node *sitter.Node, msg string) {
	loc := w.tree.Location(node)
	w.errs = append(w.errs, swaerrors.NewParseError(w.tree.FileID, w.tree.Path, loc.Line, loc.Column, node.Kind(), parseErrSentinel(msg)))
}

// ownIgnore parses node's own leading-trivia ignore directives, independent
// of anything inherited from an enclosing declaration.
func (w *Walker) ownIgnore(node *sitter.Node) types.IgnoreSet {
	return parseIgnoreDirectives(w.tree.LeadingTrivia(node))
}

// walkChildren visits every direct child of node under c, dispatching
// declarations and descending into nested scopes as needed.
func (w *Walker) walkChildren(node *sitter.Node, c ctx) {
	if node == nil {
		return
	}
	if node.IsError() {
		w.recordParseError(node, "syntax error node")
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		w.walkNode(node.Child(i), c)
	}
}

func (w *Walker) walkNode(node *sitter.Node, c ctx) {
	if node == nil {
		return
	}
	switch node.Kind() {
	case "import_declaration":
		w.walkImport(node, c)
	case "class_declaration":
		w.walkTypeDecl(node, c, types.DeclClass, types.ScopeClass)
	case "struct_declaration":
		w.walkTypeDecl(node, c, types.DeclStruct, types.ScopeStruct)
	case "protocol_declaration":
		w.walkTypeDecl(node, c, types.DeclProtocol, types.ScopeProtocol)
	case "extension_declaration":
		w.walkTypeDecl(node, c, types.DeclExtension, types.ScopeExtension)
	case "class_body", "protocol_body", "enum_class_body":
		w.walkChildren(node, c)
	case "enum_declaration":
		w.walkEnumDecl(node, c)
	case "function_declaration":
		w.walkFunctionDecl(node, c, types.DeclFunction)
	case "init_declaration":
		w.walkFunctionDecl(node, c, types.DeclInitializer)
	case "property_declaration":
		w.walkPropertyDecl(node, c)
	case "typealias_declaration":
		w.walkTypeAlias(node, c)
	case "function_body", "computed_property", "statements":
		w.walkChildren(node, c)
	case "closure_expression":
		w.walkClosure(node, c)
	case "call_expression":
		w.walkCallExpression(node, c)
	case "navigation_expression":
		w.walkNavigationExpression(node, c)
	case "simple_identifier", "identifier":
		w.emitReference(node, c.scope, types.RefRead, false, "")
	default:
		w.walkChildren(node, c)
	}
}

func (w *Walker) walkImport(node *sitter.Node, c ctx) {
	pathNode := swiftsyntax.FirstChildOfKind(node, "identifier")
	path := w.tree.Text(pathNode)
	if path == "" {
		path = strings.TrimPrefix(strings.TrimSpace(w.tree.Text(node)), "import")
		path = strings.TrimSpace(path)
	}
	loc := w.tree.Location(node)
	w.acc.AddImport(types.ImportInfo{Path: path, Location: loc, File: w.tree.Path})
	w.acc.AddDeclaration(types.Declaration{
		Name: path, Kind: types.DeclImport, Access: types.AccessInternal,
		Location: loc, Range: types.Range{Start: loc, End: w.tree.EndLocation(node)},
		Scope: c.scope, File: w.tree.Path, Ignore: c.inherited | w.ownIgnore(node),
	})
}

// declModifiers collects access level, Modifier bitmask, attribute names,
// and property wrappers from a declaration's `modifiers`/attribute
// children, mirroring how php_extractor.go collects attributes separately
// from the declaration node itself.
type declModifiers struct {
	access     types.AccessLevel
	mods       types.Modifier
	attributes []string
	wrappers   []types.PropertyWrapper
}

func (w *Walker) collectModifiers(node *sitter.Node) declModifiers {
	dm := declModifiers{access: types.AccessInternal}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "modifiers":
			w.collectModifierList(child, &dm)
		case "attribute":
			w.collectAttribute(child, &dm)
		}
	}
	return dm
}

func (w *Walker) collectModifierList(node *sitter.Node, dm *declModifiers) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "attribute":
			w.collectAttribute(child, dm)
		default:
			text := w.tree.Text(child)
			switch text {
			case "private":
				dm.access = types.AccessPrivate
			case "fileprivate":
				dm.access = types.AccessFileprivate
			case "internal":
				dm.access = types.AccessInternal
			case "package":
				dm.access = types.AccessPackage
			case "public":
				dm.access = types.AccessPublic
			case "open":
				dm.access = types.AccessOpen
			case "static":
				dm.mods |= types.ModStatic
			case "final":
				dm.mods |= types.ModFinal
			case "override":
				dm.mods |= types.ModOverride
			case "lazy":
				dm.mods |= types.ModLazy
			case "mutating":
				dm.mods |= types.ModMutating
			case "convenience":
				dm.mods |= types.ModConvenience
			case "required":
				dm.mods |= types.ModRequired
			case "weak":
				dm.mods |= types.ModWeak
			case "unowned":
				dm.mods |= types.ModUnowned
			}
		}
	}
}

func (w *Walker) collectAttribute(node *sitter.Node, dm *declModifiers) {
	nameNode := swiftsyntax.FirstChildOfKind(node, "identifier")
	if nameNode == nil {
		nameNode = swiftsyntax.FirstChildOfKind(node, "user_type")
	}
	name := w.tree.Text(nameNode)
	if name == "" {
		return
	}
	dm.attributes = append(dm.attributes, name)
	if kind := types.ClassifyWrapper(name); kind != types.WrapperUnknown {
		argsNode := swiftsyntax.FirstChildOfKind(node, "value_arguments")
		dm.wrappers = append(dm.wrappers, types.PropertyWrapper{
			Kind: kind, Name: name, Arguments: w.tree.Text(argsNode),
		})
	}
}

// inheritanceClause finds node's conformance/superclass list, trying both
// tree-sitter-swift node names this grammar has used across versions.
func inheritanceClause(node *sitter.Node) *sitter.Node {
	clause := swiftsyntax.FirstChildOfKind(node, "inheritance_specifier")
	if clause == nil {
		clause = swiftsyntax.FirstChildOfKind(node, "type_inheritance_clause")
	}
	return clause
}

func (w *Walker) conformances(node *sitter.Node) []string {
	clause := inheritanceClause(node)
	if clause == nil {
		return nil
	}
	var out []string
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		if child != nil && (child.Kind() == "user_type" || child.Kind() == "identifier") {
			out = append(out, w.tree.Text(child))
		}
	}
	return out
}

// collectTypeIdentifiers recursively collects every "type_identifier" node
// within a type expression, so a reference is emitted for the named type
// even when it sits inside a generic/optional/array wrapper (e.g.
// `Array<Foo>` or `Foo?`).
func collectTypeIdentifiers(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	var out []*sitter.Node
	if node.Kind() == "type_identifier" {
		out = append(out, node)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		out = append(out, collectTypeIdentifiers(node.Child(i))...)
	}
	return out
}

// emitConformanceReferences emits an inheritance-context reference (spec
// §4.1) for every named type in node's conformance/superclass clause,
// attributed to scope — which must be the scope owned by the declaring
// type itself, so C6's enclosing_decl(r) resolves to that type rather
// than whatever lexically contains it.
func (w *Walker) emitConformanceReferences(node *sitter.Node, scope types.ScopeID) {
	clause := inheritanceClause(node)
	if clause == nil {
		return
	}
	for _, id := range collectTypeIdentifiers(clause) {
		w.emitReference(id, scope, types.RefInheritance, false, "")
	}
}

// emitTypeAnnotationReferences emits a typeAnnotation-context reference
// (spec §4.1) for every named type in node's `: Type` annotation, if any.
func (w *Walker) emitTypeAnnotationReferences(node *sitter.Node, scope types.ScopeID) {
	ann := swiftsyntax.FirstChildOfKind(node, "type_annotation")
	if ann == nil {
		return
	}
	for _, id := range collectTypeIdentifiers(ann) {
		w.emitReference(id, scope, types.RefTypeAnnotation, false, "")
	}
}

func (w *Walker) isViewLike(conformances []string) bool {
	for _, c := range conformances {
		if w.viewProtos[c] {
			return true
		}
	}
	return false
}

func (w *Walker) walkTypeDecl(node *sitter.Node, c ctx, kind types.DeclarationKind, scopeKind types.ScopeKind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = swiftsyntax.FirstChildOfKind(node, "type_identifier")
	}
	name := w.tree.Text(nameNode)
	dm := w.collectModifiers(node)
	conformances := w.conformances(node)
	loc := w.tree.Location(node)
	ignore := c.inherited | w.ownIgnore(node)

	w.acc.AddDeclaration(types.Declaration{
		Name: name, Kind: kind, Access: dm.access, Modifiers: dm.mods,
		Attributes: dm.attributes, PropertyWrappers: dm.wrappers, Conformances: conformances,
		IsViewLike: w.isViewLike(conformances),
		Location:   loc, Range: types.Range{Start: loc, End: w.tree.EndLocation(node)},
		Scope: c.scope, File: w.tree.Path, Ignore: ignore,
	})

	childScope := w.scopes.push(scopeKind, name, types.Range{Start: loc, End: w.tree.EndLocation(node)}, w.tree.Path)
	w.emitConformanceReferences(node, childScope)
	w.walkChildren(node, c.withScope(childScope).withInherited(inheritableIgnore(ignore)))
	w.scopes.pop(c.scope)
}

func (w *Walker) walkEnumDecl(node *sitter.Node, c ctx) {
	nameNode := node.ChildByFieldName("name")
	name := w.tree.Text(nameNode)
	dm := w.collectModifiers(node)
	conformances := w.conformances(node)
	loc := w.tree.Location(node)
	ignore := c.inherited | w.ownIgnore(node)

	w.acc.AddDeclaration(types.Declaration{
		Name: name, Kind: types.DeclEnum, Access: dm.access, Modifiers: dm.mods,
		Attributes: dm.attributes, Conformances: conformances,
		Location: loc, Range: types.Range{Start: loc, End: w.tree.EndLocation(node)},
		Scope: c.scope, File: w.tree.Path, Ignore: ignore,
	})

	childScope := w.scopes.push(types.ScopeEnum, name, types.Range{Start: loc, End: w.tree.EndLocation(node)}, w.tree.Path)
	w.emitConformanceReferences(node, childScope)

	bodyCtx := c.withScope(childScope).withInherited(inheritableIgnore(ignore))
	caseInherited := bodyCtx.inherited
	if ignore.Has(types.IgnoreUnusedCases) {
		caseInherited = caseInherited.With(types.IgnoreUnusedCases)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		if child.Kind() == "enum_entry" {
			w.walkEnumEntry(child, bodyCtx.withInherited(caseInherited))
			continue
		}
		w.walkNode(child, bodyCtx)
	}
	w.scopes.pop(c.scope)
}

func (w *Walker) walkEnumEntry(node *sitter.Node, c ctx) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == "simple_identifier" {
			loc := w.tree.Location(child)
			w.acc.AddDeclaration(types.Declaration{
				Name: w.tree.Text(child), Kind: types.DeclEnumCase, Access: types.AccessInternal,
				Location: loc, Range: types.Range{Start: loc, End: w.tree.EndLocation(child)},
				Scope: c.scope, File: w.tree.Path, Ignore: c.inherited | w.ownIgnore(child),
			})
		}
	}
}

func (w *Walker) walkTypeAlias(node *sitter.Node, c ctx) {
	nameNode := node.ChildByFieldName("name")
	dm := w.collectModifiers(node)
	loc := w.tree.Location(node)
	w.acc.AddDeclaration(types.Declaration{
		Name: w.tree.Text(nameNode), Kind: types.DeclTypeAlias, Access: dm.access,
		Attributes: dm.attributes,
		Location:   loc, Range: types.Range{Start: loc, End: w.tree.EndLocation(node)},
		Scope: c.scope, File: w.tree.Path, Ignore: c.inherited | w.ownIgnore(node),
	})
}

func (w *Walker) walkFunctionDecl(node *sitter.Node, c ctx, kind types.DeclarationKind) {
	nameNode := node.ChildByFieldName("name")
	name := w.tree.Text(nameNode)
	if kind == types.DeclInitializer && name == "" {
		name = "init"
	}
	dm := w.collectModifiers(node)
	if dm.mods.Has(types.ModStatic) {
		kind = types.DeclMethod
	}
	loc := w.tree.Location(node)
	rng := types.Range{Start: loc, End: w.tree.EndLocation(node)}
	ignore := c.inherited | w.ownIgnore(node)

	w.acc.AddDeclaration(types.Declaration{
		Name: name, Kind: kind, Access: dm.access, Modifiers: dm.mods,
		Attributes: dm.attributes,
		Location:   loc, Range: rng, Scope: c.scope, File: w.tree.Path, Ignore: ignore,
	})

	funcScope := w.scopes.push(types.ScopeFunction, name, rng, w.tree.Path)
	bodyCtx := c.withScope(funcScope).withInherited(inheritableIgnore(ignore))
	w.walkParameters(node, bodyCtx)
	if body := node.ChildByFieldName("body"); body != nil {
		w.walkChildren(body, bodyCtx)
	}
	w.scopes.pop(c.scope)
}

func (w *Walker) walkParameters(node *sitter.Node, c ctx) {
	params := swiftsyntax.FirstChildOfKind(node, "parameter")
	if params == nil {
		// parameters live as repeated "parameter" nodes under a
		// "parameter_clause"/"function_value_parameters" wrapper in most
		// tree-sitter Swift grammars; fall back to scanning all children.
		clause := node.ChildByFieldName("parameters")
		if clause != nil {
			for i := uint(0); i < clause.ChildCount(); i++ {
				w.walkParameter(clause.Child(i), c)
			}
		}
		return
	}
	w.walkParameter(params, c)
}

func (w *Walker) walkParameter(node *sitter.Node, c ctx) {
	if node == nil || node.Kind() != "parameter" {
		return
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		nameNode = swiftsyntax.FirstChildOfKind(node, "simple_identifier")
	}
	name := w.tree.Text(nameNode)
	if name == "_" {
		// spec §4.1 / Testable Property #3: parameters named `_` are
		// explicit "unused" and are never emitted as declarations.
		return
	}
	loc := w.tree.Location(node)
	w.acc.AddDeclaration(types.Declaration{
		Name: name, Kind: types.DeclParameter, Access: types.AccessInternal,
		Location: loc, Range: types.Range{Start: loc, End: w.tree.EndLocation(node)},
		Scope: c.scope, File: w.tree.Path, Ignore: c.inherited | w.ownIgnore(node),
	})
}

func (w *Walker) walkPropertyDecl(node *sitter.Node, c ctx) {
	dm := w.collectModifiers(node)
	kind := types.DeclVariable
	if strings.HasPrefix(strings.TrimSpace(w.tree.Text(node)), "let") {
		kind = types.DeclConstant
	}
	loc := w.tree.Location(node)
	rng := types.Range{Start: loc, End: w.tree.EndLocation(node)}

	patternNode := node.ChildByFieldName("name")
	if patternNode == nil {
		patternNode = swiftsyntax.FirstChildOfKind(node, "pattern")
	}
	name := w.tree.Text(patternNode)

	w.acc.AddDeclaration(types.Declaration{
		Name: name, Kind: kind, Access: dm.access, Modifiers: dm.mods,
		Attributes: dm.attributes, PropertyWrappers: dm.wrappers,
		Location: loc, Range: rng, Scope: c.scope, File: w.tree.Path,
		Ignore: c.inherited | w.ownIgnore(node),
	})

	w.emitTypeAnnotationReferences(node, c.scope)

	if value := node.ChildByFieldName("value"); value != nil {
		w.walkNode(value, c)
	}
	if computed := swiftsyntax.FirstChildOfKind(node, "computed_property"); computed != nil {
		w.walkChildren(computed, c)
	}
}

func (w *Walker) walkClosure(node *sitter.Node, c ctx) {
	loc := w.tree.Location(node)
	rng := types.Range{Start: loc, End: w.tree.EndLocation(node)}
	closureScope := w.scopes.push(types.ScopeClosure, "", rng, w.tree.Path)
	w.walkChildren(node, c.withScope(closureScope))
	w.scopes.pop(c.scope)
}

func (w *Walker) walkCallExpression(node *sitter.Node, c ctx) {
	callee := node.ChildByFieldName("function")
	if callee == nil {
		callee = node.Child(0)
	}
	if callee != nil && (callee.Kind() == "simple_identifier" || callee.Kind() == "identifier") {
		w.emitReference(callee, c.scope, types.RefCall, false, "")
	} else {
		w.walkNode(callee, c)
	}
	if args := node.ChildByFieldName("call_suffix"); args != nil {
		w.walkChildren(args, c)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child == callee {
			continue
		}
		if child.Kind() == "call_suffix" {
			continue
		}
		w.walkNode(child, c)
	}
}

func (w *Walker) walkNavigationExpression(node *sitter.Node, c ctx) {
	target := node.ChildByFieldName("target")
	suffix := node.ChildByFieldName("suffix")
	if target != nil {
		w.walkNode(target, c)
	}
	if suffix != nil {
		qualifier := w.tree.Text(target)
		member := swiftsyntax.FirstChildOfKind(suffix, "simple_identifier")
		if member != nil {
			w.emitReference(member, c.scope, types.RefMemberAccess, true, qualifier)
		}
	}
}

func (w *Walker) emitReference(node *sitter.Node, scope types.ScopeID, refCtx types.ReferenceContext, qualified bool, qualifier string) {
	if node == nil {
		return
	}
	loc := w.tree.Location(node)
	w.acc.AddReference(types.Reference{
		Identifier: w.tree.Text(node), Location: loc, Scope: scope, Context: refCtx,
		Qualified: qualified, Qualifier: qualifier, File: w.tree.Path,
	})
}
