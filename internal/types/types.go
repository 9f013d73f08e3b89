// Package types holds the immutable value types shared by every analysis
// stage: locations, ranges, scopes, declarations, references, and the
// small closed enums attached to them.
package types

import "fmt"

// FileID is a dense, per-run identifier for an indexed file.
type FileID uint32

// ScopeID names a lexical scope within a single analysis run. GlobalScope
// is the reserved id for the project root scope.
type ScopeID uint32

// GlobalScope is the scope id of the project root.
const GlobalScope ScopeID = 0

// Location points at the first significant character of a construct,
// skipping leading comment and whitespace trivia. This is a hard invariant
// relied on by every consumer that reports a position to a user.
type Location struct {
	File       string
	Line       int // 1-based
	Column     int // 1-based
	ByteOffset int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Less orders locations by (file, line, column), breaking location ties on
// byte offset so every sort in the engine has a total order.
func (l Location) Less(other Location) bool {
	if l.File != other.File {
		return l.File < other.File
	}
	if l.Line != other.Line {
		return l.Line < other.Line
	}
	if l.Column != other.Column {
		return l.Column < other.Column
	}
	return l.ByteOffset < other.ByteOffset
}

// Range is a half-open-by-convention span; End is always >= Start.
type Range struct {
	Start Location
	End   Location
}

// ScopeKind enumerates the kinds of lexical scope the walker recognizes.
type ScopeKind uint8

const (
	ScopeGlobal ScopeKind = iota
	ScopeFunction
	ScopeClass
	ScopeStruct
	ScopeEnum
	ScopeActor
	ScopeProtocol
	ScopeExtension
	ScopeClosure
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeClass:
		return "class"
	case ScopeStruct:
		return "struct"
	case ScopeEnum:
		return "enum"
	case ScopeActor:
		return "actor"
	case ScopeProtocol:
		return "protocol"
	case ScopeExtension:
		return "extension"
	case ScopeClosure:
		return "closure"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// Scope is one node of the per-file scope forest, rooted at GlobalScope.
type Scope struct {
	ID        ScopeID
	Kind      ScopeKind
	Name      string // empty for anonymous scopes (closures, blocks)
	Parent    ScopeID
	HasParent bool
	Range     Range
	File      string
}

// ScopeTree maps scope ids to scopes for one analysis run. Built once per
// file during walking, then merged read-only by the aggregator.
type ScopeTree struct {
	scopes map[ScopeID]Scope
}

// NewScopeTree returns an empty scope tree seeded with the global scope.
func NewScopeTree() *ScopeTree {
	return &ScopeTree{scopes: map[ScopeID]Scope{
		GlobalScope: {ID: GlobalScope, Kind: ScopeGlobal, HasParent: false},
	}}
}

// Insert adds or overwrites a scope. Scopes are otherwise append-only.
func (t *ScopeTree) Insert(s Scope) {
	t.scopes[s.ID] = s
}

// Lookup returns the scope for id and whether it exists.
func (t *ScopeTree) Lookup(id ScopeID) (Scope, bool) {
	s, ok := t.scopes[id]
	return s, ok
}

// Chain returns the list of scopes from id up to (and including) the global
// scope, innermost first. Used by the dependency extractor's scope-walk
// name resolution (spec C6) and by the walker's enclosing-declaration
// lookups.
func (t *ScopeTree) Chain(id ScopeID) []Scope {
	var chain []Scope
	cur, ok := t.scopes[id]
	for ok {
		chain = append(chain, cur)
		if !cur.HasParent {
			break
		}
		cur, ok = t.scopes[cur.Parent]
	}
	return chain
}

// Len reports the number of scopes held.
func (t *ScopeTree) Len() int { return len(t.scopes) }

// All returns every scope in the tree, in no particular order. Callers that
// need a stable order must sort the result themselves.
func (t *ScopeTree) All() []Scope {
	out := make([]Scope, 0, len(t.scopes))
	for _, s := range t.scopes {
		out = append(out, s)
	}
	return out
}

// DeclarationKind enumerates the named-construct kinds the walker emits.
type DeclarationKind uint8

const (
	DeclFunction DeclarationKind = iota
	DeclMethod
	DeclInitializer
	DeclVariable
	DeclConstant
	DeclParameter
	DeclClass
	DeclStruct
	DeclEnum
	DeclEnumCase
	DeclProtocol
	DeclExtension
	DeclTypeAlias
	DeclImport
)

func (k DeclarationKind) String() string {
	switch k {
	case DeclFunction:
		return "function"
	case DeclMethod:
		return "method"
	case DeclInitializer:
		return "initializer"
	case DeclVariable:
		return "variable"
	case DeclConstant:
		return "constant"
	case DeclParameter:
		return "parameter"
	case DeclClass:
		return "class"
	case DeclStruct:
		return "struct"
	case DeclEnum:
		return "enum"
	case DeclEnumCase:
		return "enumCase"
	case DeclProtocol:
		return "protocol"
	case DeclExtension:
		return "extension"
	case DeclTypeAlias:
		return "typeAlias"
	case DeclImport:
		return "import"
	default:
		return "unknown"
	}
}

// IsType reports whether the kind denotes a type declaration (as opposed to
// a function/variable/etc). Used by C6's protocol-witness and "view-like
// type" rules.
func (k DeclarationKind) IsType() bool {
	switch k {
	case DeclClass, DeclStruct, DeclEnum, DeclProtocol, DeclExtension:
		return true
	default:
		return false
	}
}

// AccessLevel is Swift's total-ordered visibility ladder.
type AccessLevel uint8

const (
	AccessPrivate AccessLevel = iota
	AccessFileprivate
	AccessInternal
	AccessPackage
	AccessPublic
	AccessOpen
)

func (a AccessLevel) String() string {
	switch a {
	case AccessPrivate:
		return "private"
	case AccessFileprivate:
		return "fileprivate"
	case AccessInternal:
		return "internal"
	case AccessPackage:
		return "package"
	case AccessPublic:
		return "public"
	case AccessOpen:
		return "open"
	default:
		return "internal"
	}
}

// AtLeast reports whether a is at least as visible as min in the
// private < fileprivate < internal < package < public < open order.
func (a AccessLevel) AtLeast(min AccessLevel) bool { return a >= min }

// Modifier is a declaration-level flag set as a bitmask so Declaration stays
// a small value type.
type Modifier uint16

const (
	ModStatic Modifier = 1 << iota
	ModFinal
	ModOverride
	ModLazy
	ModMutating
	ModConvenience
	ModRequired
	ModWeak
	ModUnowned
)

func (m Modifier) Has(flag Modifier) bool { return m&flag != 0 }

// PropertyWrapperKind is the closed set of well-known wrappers the walker
// recognizes, per spec §4.1. Wrappers outside this set classify as
// WrapperUnknown and never imply usage on their own.
type PropertyWrapperKind uint8

const (
	WrapperUnknown PropertyWrapperKind = iota
	WrapperState
	WrapperBinding
	WrapperEnvironment
	WrapperEnvironmentObject
	WrapperObservedObject
	WrapperStateObject
	WrapperPublished
	WrapperAppStorage
	WrapperFocusState
	WrapperGestureState
	WrapperNamespace
)

var wrapperNames = map[string]PropertyWrapperKind{
	"State":             WrapperState,
	"Binding":           WrapperBinding,
	"Environment":       WrapperEnvironment,
	"EnvironmentObject": WrapperEnvironmentObject,
	"ObservedObject":    WrapperObservedObject,
	"StateObject":       WrapperStateObject,
	"Published":         WrapperPublished,
	"AppStorage":        WrapperAppStorage,
	"FocusState":        WrapperFocusState,
	"GestureState":      WrapperGestureState,
	"Namespace":         WrapperNamespace,
}

// ClassifyWrapper maps an attribute name as written (without the leading
// '@') to its PropertyWrapperKind, or WrapperUnknown.
func ClassifyWrapper(attributeName string) PropertyWrapperKind {
	if k, ok := wrapperNames[attributeName]; ok {
		return k
	}
	return WrapperUnknown
}

// ImpliesUsage reports whether the wrapper kind alone should suppress an
// "unused" finding on the property it decorates (spec §4.9 SwiftUI-specific
// exclusions).
func (k PropertyWrapperKind) ImpliesUsage() bool {
	return k != WrapperUnknown
}

// PropertyWrapper is one `@Wrapper(args)` attached to a declaration, in
// source order.
type PropertyWrapper struct {
	Kind      PropertyWrapperKind
	Name      string // as written, even if Kind is WrapperUnknown
	Arguments string // raw argument text, empty if none
}

// IgnoreCategory is one `swa:` directive category (spec §6).
type IgnoreCategory uint8

const (
	IgnoreNone IgnoreCategory = iota
	IgnoreAll
	IgnoreUnused
	IgnoreUnusedCases
	IgnoreDuplicates
)

// IgnoreSet is a small fixed-size set of ignore categories; a map would be
// overkill for at most five members.
type IgnoreSet uint8

func (s IgnoreSet) Has(c IgnoreCategory) bool {
	if c == IgnoreNone {
		return false
	}
	return s&(1<<c) != 0
}

func (s IgnoreSet) With(c IgnoreCategory) IgnoreSet {
	if c == IgnoreNone {
		return s
	}
	return s | (1 << c)
}

// Declaration is a named construct emitted by the tree walker (spec §3).
// Declarations are immutable once inserted into a DeclarationIndex.
type Declaration struct {
	Name             string
	Kind             DeclarationKind
	Access           AccessLevel
	Modifiers        Modifier
	Attributes       []string
	PropertyWrappers []PropertyWrapper
	Conformances     []string // protocol/base-type names as written
	IsViewLike       bool     // type conforms to a configured "view" set
	Location         Location
	Range            Range
	Scope            ScopeID
	Ignore           IgnoreSet
	File             string
}

// HasAttribute reports whether name appears in Attributes (case-sensitive,
// as written, no leading '@').
func (d Declaration) HasAttribute(name string) bool {
	for _, a := range d.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// IsEntryPoint reports whether d carries one of the entry-point attributes
// that always become reachability roots (spec §4.7/§6).
func (d Declaration) IsEntryPoint() bool {
	return d.HasAttribute("main") || d.HasAttribute("UIApplicationMain") || d.HasAttribute("NSApplicationMain")
}

// ReferenceContext classifies how an identifier is used at a reference site.
type ReferenceContext uint8

const (
	RefCall ReferenceContext = iota
	RefRead
	RefWrite
	RefTypeAnnotation
	RefInheritance
	RefMemberAccess
	RefOther
)

func (c ReferenceContext) String() string {
	switch c {
	case RefCall:
		return "call"
	case RefRead:
		return "read"
	case RefWrite:
		return "write"
	case RefTypeAnnotation:
		return "typeAnnotation"
	case RefInheritance:
		return "inheritance"
	case RefMemberAccess:
		return "memberAccess"
	default:
		return "other"
	}
}

// Reference is one identifier use (spec §3).
type Reference struct {
	Identifier string
	Location   Location
	Scope      ScopeID
	Context    ReferenceContext
	Qualified  bool
	Qualifier  string // preceding segment's text, set iff Qualified
	File       string
}
