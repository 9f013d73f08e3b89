package compilerindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLockedNilInnerReturnsNil(t *testing.T) {
	assert.Nil(t, NewLocked(nil))
}

func TestLockedDelegatesToInner(t *testing.T) {
	static := &StaticIndex{ByName: map[string][]Occurrence{
		"used": {{Symbol: Symbol{Name: "used", USR: "s:used"}, File: "a.swift", Line: 1, Column: 1, Roles: []Role{RoleDefinition}}},
	}}
	locked := NewLocked(static)
	require.NotNil(t, locked)

	occs, err := locked.FindOccurrencesByName("used")
	require.NoError(t, err)
	require.Len(t, occs, 1)
	assert.Equal(t, "s:used", occs[0].Symbol.USR)
}

func TestNullIndexReturnsEmpty(t *testing.T) {
	var idx NullIndex
	occs, err := idx.FindOccurrencesByName("anything")
	require.NoError(t, err)
	assert.Empty(t, occs)

	has, err := idx.HasReferences("s:anything")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestStaticIndexHasReferencesChecksRoles(t *testing.T) {
	static := &StaticIndex{ByUSR: map[string][]Occurrence{
		"s:x": {{Roles: []Role{RoleDefinition}}},
		"s:y": {{Roles: []Role{RoleCall}}},
	}}
	has, err := static.HasReferences("s:x")
	require.NoError(t, err)
	assert.False(t, has)

	has, err = static.HasReferences("s:y")
	require.NoError(t, err)
	assert.True(t, has)
}
