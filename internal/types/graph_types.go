package types

// DependencyEdge is one (declaration -> declaration) "uses" edge produced by
// the dependency extractor (C6, spec §4.7). Edges are untyped beyond the
// reason they exist; Origin carries the reference that produced the edge so
// findings can point back at the source for debugging.
type DependencyEdge struct {
	From   DeclID
	To     DeclID
	Reason EdgeReason
	Origin *Reference // nil for conformance/witness edges with no single reference
}

// EdgeReason records why an edge exists, for debugging and for the
// protocol-witness "default implementation" extra-edge rule (spec §9).
type EdgeReason uint8

const (
	EdgeReference EdgeReason = iota
	EdgeConformanceWitness
	EdgeDefaultImplementation
	EdgeClosureCapture
)

func (r EdgeReason) String() string {
	switch r {
	case EdgeReference:
		return "reference"
	case EdgeConformanceWitness:
		return "conformance_witness"
	case EdgeDefaultImplementation:
		return "default_implementation"
	case EdgeClosureCapture:
		return "closure_capture"
	default:
		return "unknown"
	}
}

// DependencyGraph is the declaration-level "uses" graph (C6's output, C7's
// input) before it is compacted into the dense-indexed representation C7
// runs BFS over. Built once, read-only afterward.
type DependencyGraph struct {
	Nodes []DeclID
	Edges []DependencyEdge
}

// RootReason records why a declaration was selected as a reachability root
// (spec §4.7/§6), surfaced for diagnostics.
type RootReason uint8

const (
	RootEntryPointAttribute RootReason = iota
	RootPublicAccess
	RootObjcAttribute
	RootTest
	RootViewLikeType
	RootIgnoreDirective
)

func (r RootReason) String() string {
	switch r {
	case RootEntryPointAttribute:
		return "entry_point_attribute"
	case RootPublicAccess:
		return "public_access"
	case RootObjcAttribute:
		return "objc_attribute"
	case RootTest:
		return "test"
	case RootViewLikeType:
		return "view_like_type"
	case RootIgnoreDirective:
		return "ignore_directive"
	default:
		return "unknown"
	}
}

// Root is one member of the reachability root set, with the reason it was
// selected so the engine can explain its own output.
type Root struct {
	Decl   DeclID
	Reason RootReason
}

// CloneType is the kind of a clone group (spec §3).
type CloneType uint8

const (
	CloneExact CloneType = iota
	CloneNear
	CloneSemantic
)

func (t CloneType) String() string {
	switch t {
	case CloneExact:
		return "exact"
	case CloneNear:
		return "near"
	case CloneSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// CloneOccurrence is one span participating in a clone group.
type CloneOccurrence struct {
	File        string
	StartLine   int
	EndLine     int
	StartToken  int
	EndToken    int
	CodeSnippet string // optional, empty unless requested
}

// CloneGroup is a set of >= 2 occurrences judged to be copies of each other.
type CloneGroup struct {
	Type        CloneType
	Fingerprint uint64
	Similarity  float64
	Occurrences []CloneOccurrence
}

// UnusedReason classifies why a declaration is reported unused (spec §4.9).
type UnusedReason uint8

const (
	ReasonNeverReferenced UnusedReason = iota
	ReasonOnlyAssigned
	ReasonOnlySelfReferenced
	ReasonImportNotUsed
	ReasonParameterUnused
	ReasonDeadBranch // supplemented: sparse-conditional constant propagation
)

func (r UnusedReason) String() string {
	switch r {
	case ReasonNeverReferenced:
		return "neverReferenced"
	case ReasonOnlyAssigned:
		return "onlyAssigned"
	case ReasonOnlySelfReferenced:
		return "onlySelfReferenced"
	case ReasonImportNotUsed:
		return "importNotUsed"
	case ReasonParameterUnused:
		return "parameterUnused"
	case ReasonDeadBranch:
		return "deadBranch"
	default:
		return "unknown"
	}
}

// Confidence is the unused-finding confidence tier (spec §4.9).
type Confidence uint8

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "unknown"
	}
}

// ConfidenceForAccess maps an access level to its confidence tier, a pure
// function per spec §4.9 / testable property 9.
func ConfidenceForAccess(a AccessLevel) Confidence {
	switch {
	case a <= AccessFileprivate:
		return ConfidenceHigh
	case a <= AccessPackage:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// UnusedFinding is one reported dead declaration.
type UnusedFinding struct {
	Declaration Declaration
	Reason      UnusedReason
	Confidence  Confidence
	Suggestion  string
}
