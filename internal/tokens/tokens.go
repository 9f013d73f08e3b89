// Package tokens implements the normalized token view (C4): a zero-copy,
// structure-of-arrays token stream built once per run and shared read-only
// by every clone detector. Grounded on internal/core/string_pool.go's
// zero-copy slice-into-source interning and internal/core/trigram.go's
// fixed-width SoA index arrays, generalized from "interned strings" to
// "normalized source tokens" (spec §4.3).
package tokens

import (
	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/swa/internal/types"
)

// Kind is the normalized token classification spec §4.3 names, plus the
// FileBoundary sentinel inserted between concatenated per-file streams.
type Kind uint8

const (
	Keyword Kind = iota
	Identifier
	Literal
	Operator
	Punctuation
	Unknown
	FileBoundary
)

// Stream is the project-wide concatenated token stream: one boundary
// marker between each file's tokens, five parallel arrays, no copied text
// (every token indexes into its owning file's source bytes, per spec
// §4.3's "text is never copied").
type Stream struct {
	kind   []Kind
	offset []uint32
	length []uint32
	line   []int32
	column []int32
	fileID []types.FileID

	sources map[types.FileID][]byte
	paths   map[types.FileID]string
}

// NewStream returns an empty stream ready for Append to add files to.
func NewStream() *Stream {
	return &Stream{
		sources: make(map[types.FileID][]byte),
		paths:   make(map[types.FileID]string),
	}
}

// Count is the total number of entries, including FileBoundary markers.
func (s *Stream) Count() int { return len(s.kind) }

func (s *Stream) Kind(i int) Kind            { return s.kind[i] }
func (s *Stream) Offset(i int) uint32        { return s.offset[i] }
func (s *Stream) Length(i int) uint32        { return s.length[i] }
func (s *Stream) Line(i int) int32           { return s.line[i] }
func (s *Stream) Column(i int) int32         { return s.column[i] }
func (s *Stream) FileID(i int) types.FileID  { return s.fileID[i] }
func (s *Stream) Path(i int) string          { return s.paths[s.fileID[i]] }

// Text returns the exact source bytes a non-boundary token spans, as a
// string. Allocates; callers on the hot BFS/hash path should prefer
// ranges_equal/hash_range instead.
func (s *Stream) Text(i int) string {
	if s.kind[i] == FileBoundary {
		return ""
	}
	src := s.sources[s.fileID[i]]
	off, ln := s.offset[i], s.length[i]
	if int(off+ln) > len(src) {
		return ""
	}
	return string(src[off : off+ln])
}

// appendToken adds one non-boundary token. Called only by Append.
func (s *Stream) appendToken(fileID types.FileID, k Kind, offset, length uint32, line, col int32) {
	s.kind = append(s.kind, k)
	s.offset = append(s.offset, offset)
	s.length = append(s.length, length)
	s.line = append(s.line, line)
	s.column = append(s.column, col)
	s.fileID = append(s.fileID, fileID)
}

// appendBoundary inserts the fileBoundary marker between files.
func (s *Stream) appendBoundary() {
	s.kind = append(s.kind, FileBoundary)
	s.offset = append(s.offset, 0)
	s.length = append(s.length, 0)
	s.line = append(s.line, 0)
	s.column = append(s.column, 0)
	s.fileID = append(s.fileID, 0)
}

// rangeBytes concatenates each token's kind byte and text bytes over
// [i, j), skipping boundaries, as the input to the xxhash range hash, so
// tokens with identical text but different kinds hash differently (spec
// §4.3: "hash over the concatenation of token kind bytes and their
// textual bytes").
func (s *Stream) rangeBytes(i, j int) []byte {
	var out []byte
	for k := i; k < j; k++ {
		if s.kind[k] == FileBoundary {
			continue
		}
		out = append(out, byte(s.kind[k]))
		src := s.sources[s.fileID[k]]
		off, ln := s.offset[k], s.length[k]
		if int(off+ln) <= len(src) {
			out = append(out, src[off:off+ln]...)
		}
	}
	return out
}

// HashRange computes hash_range(i..j): a 64-bit hash over the
// concatenation of token kind bytes and their textual bytes, spec §4.3.
// xxhash is the teacher's high-throughput hash of choice for exactly this
// "hash a byte range fast" role (see DESIGN.md); FNV-1a is reserved for the
// on-disk cache's contentHash field, matching §6's literal naming there.
func (s *Stream) HashRange(i, j int) uint64 {
	return xxhash.Sum64(s.rangeBytes(i, j))
}

// RangesEqual compares [a,b) and [c,d) byte-exactly (kinds and text),
// spec §4.3. Returns false on length mismatch without touching memory.
func (s *Stream) RangesEqual(a, b, c, d int) bool {
	if b-a != d-c {
		return false
	}
	for k := 0; k < b-a; k++ {
		i, j := a+k, c+k
		if s.kind[i] != s.kind[j] {
			return false
		}
		if s.kind[i] == FileBoundary {
			continue
		}
		if s.length[i] != s.length[j] {
			return false
		}
		si, sj := s.sources[s.fileID[i]], s.sources[s.fileID[j]]
		oi, oj := s.offset[i], s.offset[j]
		if string(si[oi:oi+s.length[i]]) != string(sj[oj:oj+s.length[j]]) {
			return false
		}
	}
	return true
}

// CrossesBoundary reports whether any index in [i,j) is a FileBoundary
// marker — clone occurrences must never span one (spec §4.4, testable
// property 4).
func (s *Stream) CrossesBoundary(i, j int) bool {
	for k := i; k < j; k++ {
		if s.kind[k] == FileBoundary {
			return true
		}
	}
	return false
}

// TokensInLineRange returns the contiguous token index interval [lo, hi)
// within file whose tokens intersect source lines [loLine, hiLine]
// inclusive (spec §4.3).
func (s *Stream) TokensInLineRange(file types.FileID, loLine, hiLine int32) (int, int) {
	lo, hi := -1, -1
	for i := range s.kind {
		if s.kind[i] == FileBoundary || s.fileID[i] != file {
			continue
		}
		if s.line[i] < loLine || s.line[i] > hiLine {
			continue
		}
		if lo == -1 {
			lo = i
		}
		hi = i + 1
	}
	if lo == -1 {
		return 0, 0
	}
	return lo, hi
}

// Location reconstructs a types.Location for token i, for occurrence
// reporting.
func (s *Stream) Location(i int) types.Location {
	return types.Location{
		File:   s.paths[s.fileID[i]],
		Line:   int(s.line[i]),
		Column: int(s.column[i]),
	}
}
