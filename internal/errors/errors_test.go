package errors

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/standardbeagle/swa/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigurationError(t *testing.T) {
	underlying := stderrors.New("must be >= 0")
	err := NewConfigurationError("similarityThreshold", "-1", underlying)

	assert.Equal(t, "similarityThreshold", err.Field)
	assert.Equal(t, "-1", err.Value)
	assert.True(t, stderrors.Is(err, underlying))
	assert.Equal(t, `configuration error: field "similarityThreshold" value "-1": must be >= 0`, err.Error())
	assert.False(t, IsRecoverable(err))
	assert.Equal(t, KindConfiguration, KindOf(err))
}

func TestIOError(t *testing.T) {
	underlying := stderrors.New("permission denied")
	err := NewIOError("read", "/path/to/file.swift", underlying)

	assert.Equal(t, "read", err.Operation)
	assert.Equal(t, "/path/to/file.swift", err.Path)
	assert.True(t, err.Recoverable)
	assert.True(t, stderrors.Is(err, underlying))
	assert.Equal(t, "io read failed for /path/to/file.swift: permission denied", err.Error())
	assert.True(t, IsRecoverable(err))

	fatal := NewIOError("mkdir", "/cache", underlying).WithRecoverable(false)
	assert.False(t, IsRecoverable(fatal))
}

func TestParseError(t *testing.T) {
	underlying := stderrors.New("unexpected token")
	err := NewParseError(types.FileID(7), "Sources/Foo.swift", 12, 4, "}", underlying)

	assert.Equal(t, types.FileID(7), err.FileID)
	assert.Equal(t, 12, err.Line)
	assert.Equal(t, 4, err.Column)
	assert.True(t, stderrors.Is(err, underlying))
	assert.Equal(t, `parse error at Sources/Foo.swift:12:4 (near token "}"): unexpected token`, err.Error())
	assert.True(t, IsRecoverable(err), "parse errors never abort the run")
	assert.Equal(t, KindParse, KindOf(err))
}

func TestExternalIndexError(t *testing.T) {
	underlying := stderrors.New("index schema version mismatch")
	err := NewExternalIndexError("stale sourcekitten output", underlying)

	assert.Contains(t, err.Error(), "stale sourcekitten output")
	assert.True(t, stderrors.Is(err, underlying))
	assert.True(t, IsRecoverable(err), "resolver downgrades to syntax-only instead of failing")

	noUnderlying := NewExternalIndexError("no compiler index configured", nil)
	assert.Equal(t, "external compiler index unavailable: no compiler index configured", noUnderlying.Error())
}

func TestCancellationError(t *testing.T) {
	err := NewCancellationError("bfs")

	require.True(t, stderrors.Is(err, context.Canceled))
	assert.Equal(t, "bfs", err.Stage)
	assert.False(t, IsRecoverable(err))
	assert.Equal(t, KindCancellation, KindOf(err))
}

func TestMultiError(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		err := NewMultiError(nil)
		assert.Equal(t, "no errors", err.Error())
	})

	t.Run("filters nils", func(t *testing.T) {
		only := NewIOError("read", "a.swift", stderrors.New("boom"))
		err := NewMultiError([]error{nil, only, nil})
		require.Len(t, err.Errors, 1)
		assert.Equal(t, only.Error(), err.Error())
	})

	t.Run("multiple", func(t *testing.T) {
		e1 := NewIOError("read", "a.swift", stderrors.New("boom"))
		e2 := NewIOError("read", "b.swift", stderrors.New("bang"))
		err := NewMultiError([]error{e1, e2})
		assert.Len(t, err.Errors, 2)
		assert.Contains(t, err.Error(), "2 errors")

		unwrapped := err.Unwrap()
		assert.Len(t, unwrapped, 2)
	})
}

func TestKindOfUnknown(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(stderrors.New("plain")))
}
