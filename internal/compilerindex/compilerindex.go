// Package compilerindex defines the optional external compiler index
// boundary (spec §6): an opaque, non-Sendable provider guarded by a
// single lock, used by the symbol resolver (C9) to enrich or replace
// syntax-only resolution. Grounded on internal/search/engine_test.go's
// MockIndexer, which plays the same "external indexer the resolver calls
// through an interface" role for the teacher's search engine.
package compilerindex

import "sync"

// Role is one occurrence's usage classification (spec §6).
type Role uint8

const (
	RoleDefinition Role = iota
	RoleDeclaration
	RoleReference
	RoleCall
	RoleRead
	RoleWrite
)

// Symbol is the compiler index's symbol identity: name, a stable
// Unified-Symbol-Resolution-like id, and its declaration kind as the
// index reports it (not necessarily the same enum as types.DeclarationKind,
// hence the plain string).
type Symbol struct {
	Name string
	USR  string
	Kind string
}

// Occurrence is one recorded use of a Symbol (spec §6).
type Occurrence struct {
	Symbol Symbol
	File   string
	Line   int
	Column int
	Roles  []Role
}

// HasRole reports whether o.Roles contains role.
func (o Occurrence) HasRole(role Role) bool {
	for _, r := range o.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Index is the external compiler index contract (spec §6). Implementations
// are assumed non-Sendable; callers must serialize access themselves (the
// symbol resolver does this via Locked).
type Index interface {
	FindOccurrencesByName(name string) ([]Occurrence, error)
	FindOccurrencesByUSR(usr string) ([]Occurrence, error)
	HasReferences(usr string) (bool, error)
	AllDefinitions() ([]Occurrence, error)
}

// Locked wraps an Index with a mutex, so the resolver never needs to
// reason about the backend's own thread-safety (spec §5's "single mutex
// serializes access, never held across suspension points").
type Locked struct {
	mu    sync.Mutex
	inner Index
}

// NewLocked wraps inner in a Locked. A nil inner means "no external index
// configured"; callers should check Locked == nil before calling through it.
func NewLocked(inner Index) *Locked {
	if inner == nil {
		return nil
	}
	return &Locked{inner: inner}
}

func (l *Locked) FindOccurrencesByName(name string) ([]Occurrence, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.FindOccurrencesByName(name)
}

func (l *Locked) FindOccurrencesByUSR(usr string) ([]Occurrence, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.FindOccurrencesByUSR(usr)
}

func (l *Locked) HasReferences(usr string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.HasReferences(usr)
}

func (l *Locked) AllDefinitions() ([]Occurrence, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inner.AllDefinitions()
}
