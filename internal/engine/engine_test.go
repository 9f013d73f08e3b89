package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/swa/internal/config"
	"github.com/standardbeagle/swa/internal/symbols"
)

const sampleA = `public struct A {}

private func unused() {
    print("never called")
}

private func used() {
    print(1)
}

@main
struct App {
    static func main() {
        used()
    }
}
`

func TestRunProducesFullPipelineOutput(t *testing.T) {
	cfg := config.Default()
	cfg.Unused.RootPolicy.TreatPublicAsRoot = true
	cfg.Concurrency.Workers = 2
	cfg.Concurrency.ParallelMode = config.ParallelModeSequential

	out, err := Run(context.Background(), []Input{{Path: "root.swift", Content: []byte(sampleA)}}, cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.NotEmpty(t, out.Result.Declarations.All())
	assert.NotNil(t, out.Graph)

	var sawUnused bool
	for _, f := range out.Unused {
		if f.Declaration.Name == "unused" {
			sawUnused = true
		}
		assert.NotEqual(t, "used", f.Declaration.Name)
		assert.NotEqual(t, "A", f.Declaration.Name)
	}
	assert.True(t, sawUnused)

	matches, err := out.Resolver.Resolve(
		symbols.Pattern{Kind: symbols.PatternSimpleName, Name: "used"},
		symbols.Filters{},
	)
	require.NoError(t, err)
	assert.NotEmpty(t, matches)
}

func TestRunRecordsNoticeForEmptyFile(t *testing.T) {
	cfg := config.Default()
	cfg.Concurrency.ParallelMode = config.ParallelModeSequential

	out, err := Run(context.Background(), []Input{{Path: "empty.swift", Content: nil}}, cfg, nil)
	require.NoError(t, err)
	require.Len(t, out.Notices, 1)
	assert.Equal(t, "empty.swift", out.Notices[0].File)
}
