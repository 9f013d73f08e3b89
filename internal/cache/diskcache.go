// Package cache implements the on-disk analysis cache (spec §6): a
// versioned sidecar recording per-file content hashes plus the merged
// declaration/reference/dependency-graph data, so a later run can skip
// re-walking files whose content hash is unchanged. Grounded on
// internal/cache/metrics_cache.go's load/save/staleness-check shape,
// generalized from an in-process sync.Map cache to a two-file on-disk
// format: a small TOML manifest (fast to read before committing to
// loading the bulk payload) plus a gob-encoded payload for the
// declaration/reference/graph data (DOMAIN STACK: go-toml/v2 + stdlib
// encoding/gob).
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/standardbeagle/swa/internal/types"
)

// formatVersion is bumped whenever the payload shape changes incompatibly;
// a manifest from an older version is treated as a full cache miss (spec
// §6: "format is invariant across runs of the same engine version").
const formatVersion = 1

const (
	manifestFileName = "manifest.toml"
	payloadFileName  = "payload.gob"
)

// FileState records one cached file's identity for staleness checks.
type FileState struct {
	ContentHash string `toml:"content_hash"` // FNV-1a 64, hex
	ModTime     int64  `toml:"mod_time"`
	Size        int64  `toml:"size"`
}

// Manifest is the small, fast-to-read header describing what a cache
// directory holds.
type Manifest struct {
	Version int                  `toml:"version"`
	Files   map[string]FileState `toml:"files"`
}

// Payload is the bulk cached data, gob-encoded separately from the
// manifest so a staleness check never needs to deserialize it.
type Payload struct {
	Declarations []types.Declaration
	References   []types.Reference
	Scopes       []types.Scope
	Imports      []types.ImportInfo
	Graph        types.DependencyGraph
}

// HashContent computes the FNV-1a 64 content hash spec §6 names for the
// manifest's per-file state.
func HashContent(content []byte) string {
	h := fnv.New64a()
	h.Write(content)
	return fmt.Sprintf("%016x", h.Sum64())
}

// Cache wraps a directory holding one manifest+payload pair.
type Cache struct {
	dir string
}

// Open returns a Cache rooted at dir. The directory is created lazily on
// Save, never on Open.
func Open(dir string) *Cache { return &Cache{dir: dir} }

// Load reads the manifest and payload from disk. A missing cache
// directory or any read/decode error is reported as a cold-cache miss
// (ok=false), never an error: per spec §7, a run-wide cache I/O problem
// degrades gracefully rather than aborting the run.
func (c *Cache) Load() (manifest Manifest, payload Payload, ok bool) {
	manifestBytes, err := os.ReadFile(filepath.Join(c.dir, manifestFileName))
	if err != nil {
		return Manifest{}, Payload{}, false
	}
	if err := toml.Unmarshal(manifestBytes, &manifest); err != nil {
		return Manifest{}, Payload{}, false
	}
	if manifest.Version != formatVersion {
		return Manifest{}, Payload{}, false
	}

	payloadBytes, err := os.ReadFile(filepath.Join(c.dir, payloadFileName))
	if err != nil {
		return Manifest{}, Payload{}, false
	}
	dec := gob.NewDecoder(bytes.NewReader(payloadBytes))
	if err := dec.Decode(&payload); err != nil {
		return Manifest{}, Payload{}, false
	}
	return manifest, payload, true
}

// Save writes manifest and payload to disk atomically enough for this
// module's purposes: payload is written before the manifest, so a reader
// never observes a manifest pointing at a missing/partial payload.
func (c *Cache) Save(manifest Manifest, payload Payload) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("cache: create directory: %w", err)
	}
	manifest.Version = formatVersion

	var payloadBuf bytes.Buffer
	if err := gob.NewEncoder(&payloadBuf).Encode(payload); err != nil {
		return fmt.Errorf("cache: encode payload: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, payloadFileName), payloadBuf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cache: write payload: %w", err)
	}

	manifestBytes, err := toml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("cache: encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(c.dir, manifestFileName), manifestBytes, 0o644); err != nil {
		return fmt.Errorf("cache: write manifest: %w", err)
	}
	return nil
}

// Stale reports which of the given files changed relative to manifest,
// by content hash. A file absent from the manifest counts as stale.
func Stale(manifest Manifest, files map[string][]byte) []string {
	var stale []string
	for path, content := range files {
		prior, ok := manifest.Files[path]
		if !ok || prior.ContentHash != HashContent(content) {
			stale = append(stale, path)
		}
	}
	return stale
}

// BuildManifest computes a fresh manifest entry per file from its current
// content and on-disk modification time.
func BuildManifest(files map[string][]byte, modTimes map[string]time.Time) Manifest {
	m := Manifest{Version: formatVersion, Files: make(map[string]FileState, len(files))}
	for path, content := range files {
		m.Files[path] = FileState{
			ContentHash: HashContent(content),
			ModTime:     modTimes[path].UnixNano(),
			Size:        int64(len(content)),
		}
	}
	return m
}
