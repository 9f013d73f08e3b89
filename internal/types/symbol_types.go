package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
)

// DeclID is a composite, dense identifier for a declaration: a FileID plus a
// per-file local ordinal assigned during walking. The reachability engine
// (C7) uses the same composite-id shape the teacher's DenseObjectID/
// CompositeSymbolID pair used, because a dependency graph and a symbol
// store both want array-dense ids, not map-keyed ones.
type DeclID struct {
	FileID  FileID
	LocalID uint32
}

// NewDeclID builds a DeclID from its components.
func NewDeclID(fileID FileID, localID uint32) DeclID {
	return DeclID{FileID: fileID, LocalID: localID}
}

// String is a human-readable debug form; CompactString is the dense form
// used in cache files and symbol-lookup ids.
func (d DeclID) String() string {
	return fmt.Sprintf("Decl[F:%d,L:%d]", d.FileID, d.LocalID)
}

func valueToChar(val uint64) byte {
	switch {
	case val < 26:
		return byte('A' + val)
	case val < 52:
		return byte('a' + (val - 26))
	case val < 62:
		return byte('0' + (val - 52))
	default:
		return '_'
	}
}

func charToValue(c rune) (uint64, error) {
	switch {
	case c >= 'A' && c <= 'Z':
		return uint64(c - 'A'), nil
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 26, nil
	case c >= '0' && c <= '9':
		return uint64(c-'0') + 52, nil
	case c == '_':
		return 62, nil
	default:
		return 0, fmt.Errorf("invalid character in compact id: %c", c)
	}
}

// CompactString returns a base-63 (A-Za-z0-9_) dense encoding of the id,
// used wherever a stable symbol id is surfaced externally (cache files,
// symbol-lookup usr-like ids).
func (d DeclID) CompactString() string {
	combined := uint64(d.FileID) | (uint64(d.LocalID) << 32)
	if combined == 0 {
		return ""
	}

	var result []byte
	const base = 63
	for combined > 0 {
		result = append(result, valueToChar(combined%base))
		combined /= base
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return string(result)
}

// ParseCompactString is the inverse of CompactString.
func ParseCompactString(compact string) (DeclID, error) {
	if compact == "" {
		return DeclID{}, errors.New("empty compact id")
	}
	var combined uint64
	const base = 63
	for _, c := range compact {
		val, err := charToValue(c)
		if err != nil {
			return DeclID{}, err
		}
		combined = combined*base + val
	}
	return DeclID{
		FileID:  FileID(combined & 0xFFFFFFFF),
		LocalID: uint32(combined >> 32),
	}, nil
}

// Hash returns a hash value suitable for use as a map key substitute when a
// caller wants to avoid struct-key map overhead (spec §4.8's dense-graph
// construction hashes DeclIDs while assigning contiguous integer ids).
func (d DeclID) Hash() uint64 {
	h := fnv.New64a()
	h.Write([]byte{
		byte(d.FileID >> 24), byte(d.FileID >> 16), byte(d.FileID >> 8), byte(d.FileID),
		byte(d.LocalID >> 24), byte(d.LocalID >> 16), byte(d.LocalID >> 8), byte(d.LocalID),
	})
	return h.Sum64()
}

// IsValid reports whether at least one component is populated.
func (d DeclID) IsValid() bool { return d.FileID != 0 || d.LocalID != 0 }

// MarshalJSON encodes the id in its compact external form.
func (d DeclID) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.CompactString())
}

// UnmarshalJSON decodes the compact external form.
func (d *DeclID) UnmarshalJSON(data []byte) error {
	var compact string
	if err := json.Unmarshal(data, &compact); err != nil {
		return err
	}
	parsed, err := ParseCompactString(compact)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
