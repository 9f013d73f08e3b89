package walker

import (
	"testing"

	"github.com/standardbeagle/swa/internal/swiftsyntax"
	"github.com/standardbeagle/swa/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `import Foundation

public class Greeter: Equatable {
    private let name: String

    public init(name: String) {
        self.name = name
    }

    public func greet() -> String {
        return describe(name)
    }

    private func describe(_ value: String) -> String {
        return value
    }
}
`

func parseSample(t *testing.T, src string) *swiftsyntax.Tree {
	t.Helper()
	tree, err := swiftsyntax.Parse(types.FileID(1), "Greeter.swift", []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)
	return tree
}

func TestWalkEmitsImport(t *testing.T) {
	tree := parseSample(t, sample)
	acc, _, errs := New(tree, nil).Walk()
	assert.Empty(t, errs)
	require.Len(t, acc.Imports, 1)
	assert.Equal(t, "Foundation", acc.Imports[0].Path)
}

func TestWalkEmitsClassDeclaration(t *testing.T) {
	tree := parseSample(t, sample)
	acc, _, _ := New(tree, nil).Walk()

	var found *types.Declaration
	for i := range acc.Declarations {
		if acc.Declarations[i].Kind == types.DeclClass {
			found = &acc.Declarations[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Greeter", found.Name)
	assert.Equal(t, types.AccessPublic, found.Access)
	assert.Contains(t, found.Conformances, "Equatable")
}

func TestWalkEmitsMethodsWithAccess(t *testing.T) {
	tree := parseSample(t, sample)
	acc, _, _ := New(tree, nil).Walk()

	byName := map[string]types.Declaration{}
	for _, d := range acc.Declarations {
		if d.Kind == types.DeclFunction || d.Kind == types.DeclInitializer {
			byName[d.Name] = d
		}
	}
	require.Contains(t, byName, "greet")
	require.Contains(t, byName, "describe")
	require.Contains(t, byName, "init")

	assert.Equal(t, types.AccessPublic, byName["greet"].Access)
	assert.Equal(t, types.AccessPrivate, byName["describe"].Access)
}

func TestWalkBuildsNestedScopes(t *testing.T) {
	tree := parseSample(t, sample)
	_, scopeTree, _ := New(tree, nil).Walk()

	assert.Greater(t, scopeTree.Len(), 1, "class and function scopes should be recorded alongside the global scope")
}

func TestWalkEmitsPropertyWrapper(t *testing.T) {
	src := `struct ContentView: View {
    @State private var count: Int = 0
}
`
	tree, err := swiftsyntax.Parse(types.FileID(2), "ContentView.swift", []byte(src))
	require.NoError(t, err)
	defer tree.Close()

	acc, _, _ := New(tree, nil).Walk()

	var structDecl *types.Declaration
	var countDecl *types.Declaration
	for i := range acc.Declarations {
		d := &acc.Declarations[i]
		if d.Kind == types.DeclStruct {
			structDecl = d
		}
		if d.Name == "count" {
			countDecl = d
		}
	}
	require.NotNil(t, structDecl)
	assert.True(t, structDecl.IsViewLike)

	require.NotNil(t, countDecl)
	require.Len(t, countDecl.PropertyWrappers, 1)
	assert.Equal(t, types.WrapperState, countDecl.PropertyWrappers[0].Kind)
}

// TestWalkSkipsUnderscoreParameter covers spec §4.1 / Testable Property #3:
// a parameter whose resolved name is "_" (explicit "unused") must never be
// emitted as a declaration.
func TestWalkSkipsUnderscoreParameter(t *testing.T) {
	src := `func configure(with _: Int) {}
`
	tree, err := swiftsyntax.Parse(types.FileID(3), "Configure.swift", []byte(src))
	require.NoError(t, err)
	defer tree.Close()

	acc, _, _ := New(tree, nil).Walk()
	for _, d := range acc.Declarations {
		if d.Kind == types.DeclParameter {
			assert.NotEqual(t, "_", d.Name)
		}
	}
}

// TestWalkIgnoreDirectiveInheritance covers scenario S2: an enum carrying
// `swa:ignore-unused-cases` passes that category to every case it
// declares.
func TestWalkIgnoreDirectiveInheritance(t *testing.T) {
	src := `/// Reasons. // swa:ignore-unused-cases
public enum Reason { case a, b }
`
	tree, err := swiftsyntax.Parse(types.FileID(4), "Reason.swift", []byte(src))
	require.NoError(t, err)
	defer tree.Close()

	acc, _, _ := New(tree, nil).Walk()
	seen := 0
	for _, d := range acc.Declarations {
		if d.Kind == types.DeclEnumCase {
			seen++
			assert.True(t, d.Ignore.Has(types.IgnoreUnusedCases), "case %s should inherit ignore-unused-cases", d.Name)
		}
	}
	assert.Equal(t, 2, seen)
}

// TestWalkIgnoreAllInheritsToNestedDeclarations covers Testable Property
// #2's second clause: `ignore`/`ignore-unused` propagate to every nested
// declaration, not just enum cases.
func TestWalkIgnoreAllInheritsToNestedDeclarations(t *testing.T) {
	src := `// swa:ignore
struct Scratch {
    func helper() -> Int { return 1 }
}
`
	tree, err := swiftsyntax.Parse(types.FileID(5), "Scratch.swift", []byte(src))
	require.NoError(t, err)
	defer tree.Close()

	acc, _, _ := New(tree, nil).Walk()
	var helper *types.Declaration
	for i := range acc.Declarations {
		if acc.Declarations[i].Name == "helper" {
			helper = &acc.Declarations[i]
		}
	}
	require.NotNil(t, helper)
	assert.True(t, helper.Ignore.Has(types.IgnoreAll))
}

// TestWalkEmitsTypeAnnotationAndInheritanceReferences covers spec §4.1: a
// property's type annotation and a type's superclass/conformance clause
// both emit references usable by C6 to build "uses" edges, so a type
// referenced only in those positions is not falsely reported unreachable.
func TestWalkEmitsTypeAnnotationAndInheritanceReferences(t *testing.T) {
	src := `class Base {}

class Derived: Base {
    var helper: Base = Base()
}
`
	tree, err := swiftsyntax.Parse(types.FileID(6), "Derived.swift", []byte(src))
	require.NoError(t, err)
	defer tree.Close()

	acc, _, _ := New(tree, nil).Walk()

	var sawInheritance, sawTypeAnnotation bool
	for _, r := range acc.References {
		if r.Identifier != "Base" {
			continue
		}
		switch r.Context {
		case types.RefInheritance:
			sawInheritance = true
		case types.RefTypeAnnotation:
			sawTypeAnnotation = true
		}
	}
	assert.True(t, sawInheritance, "expected an inheritance-context reference to Base")
	assert.True(t, sawTypeAnnotation, "expected a typeAnnotation-context reference to Base")
}
