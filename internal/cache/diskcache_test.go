package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/swa/internal/types"
)

func TestSaveThenLoadRoundTrips(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "swa-cache")
	c := Open(dir)

	files := map[string][]byte{"a.swift": []byte("struct A {}")}
	manifest := BuildManifest(files, map[string]time.Time{"a.swift": time.Unix(1000, 0)})
	payload := Payload{
		Declarations: []types.Declaration{{Name: "A", Kind: types.DeclStruct, File: "a.swift"}},
	}

	require.NoError(t, c.Save(manifest, payload))

	loadedManifest, loadedPayload, ok := c.Load()
	require.True(t, ok)
	assert.Equal(t, formatVersion, loadedManifest.Version)
	require.Len(t, loadedPayload.Declarations, 1)
	assert.Equal(t, "A", loadedPayload.Declarations[0].Name)
}

func TestLoadMissingDirectoryIsAColdMiss(t *testing.T) {
	c := Open(filepath.Join(t.TempDir(), "does-not-exist"))
	_, _, ok := c.Load()
	assert.False(t, ok)
}

func TestStaleDetectsChangedAndMissingFiles(t *testing.T) {
	manifest := Manifest{Version: formatVersion, Files: map[string]FileState{
		"a.swift": {ContentHash: HashContent([]byte("old"))},
	}}

	stale := Stale(manifest, map[string][]byte{
		"a.swift": []byte("new"), // changed
		"b.swift": []byte("b"),   // never seen before
	})
	assert.ElementsMatch(t, []string{"a.swift", "b.swift"}, stale)
}

func TestStaleIsEmptyWhenUnchanged(t *testing.T) {
	content := []byte("struct A {}")
	manifest := Manifest{Version: formatVersion, Files: map[string]FileState{
		"a.swift": {ContentHash: HashContent(content)},
	}}
	stale := Stale(manifest, map[string][]byte{"a.swift": content})
	assert.Empty(t, stale)
}
