package swiftsyntax

import (
	"testing"

	"github.com/standardbeagle/swa/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `class Greeter {
    func greet(name: String) -> String {
        return "Hello, " + name
    }
}
`

func TestParseProducesRootNode(t *testing.T) {
	tree, err := Parse(types.FileID(1), "Greeter.swift", []byte(sampleSource))
	require.NoError(t, err)
	defer tree.Close()

	root := tree.Root()
	require.NotNil(t, root)
	assert.Equal(t, "source_file", root.Kind())
}

func TestTextRoundTripsSourceBytes(t *testing.T) {
	tree, err := Parse(types.FileID(2), "Greeter.swift", []byte(sampleSource))
	require.NoError(t, err)
	defer tree.Close()

	classDecl := FirstChildOfKind(tree.Root(), "class_declaration")
	require.NotNil(t, classDecl)
	assert.Contains(t, tree.Text(classDecl), "Greeter")
}

func TestLocationIsOneBased(t *testing.T) {
	tree, err := Parse(types.FileID(3), "Greeter.swift", []byte(sampleSource))
	require.NoError(t, err)
	defer tree.Close()

	classDecl := FirstChildOfKind(tree.Root(), "class_declaration")
	require.NotNil(t, classDecl)

	loc := tree.Location(classDecl)
	assert.Equal(t, "Greeter.swift", loc.File)
	assert.Equal(t, 1, loc.Line)
	assert.Equal(t, 1, loc.Column)
}
