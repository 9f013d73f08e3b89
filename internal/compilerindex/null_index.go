package compilerindex

// NullIndex is a test double that reports no occurrences for anything,
// used to exercise the "no external index configured" / "external
// returned empty" fallback path (spec §4.10 step 3) without a real
// compiler backend. Grounded on internal/search/engine_test.go's
// MockIndexer, trimmed to the four methods this module's Index needs.
type NullIndex struct{}

func (NullIndex) FindOccurrencesByName(string) ([]Occurrence, error) { return nil, nil }
func (NullIndex) FindOccurrencesByUSR(string) ([]Occurrence, error)  { return nil, nil }
func (NullIndex) HasReferences(string) (bool, error)                { return false, nil }
func (NullIndex) AllDefinitions() ([]Occurrence, error)              { return nil, nil }

// StaticIndex is a test double returning canned occurrences, keyed by
// name and by USR, for resolver tests that need non-empty external-index
// hits.
type StaticIndex struct {
	ByName map[string][]Occurrence
	ByUSR  map[string][]Occurrence
}

func (s *StaticIndex) FindOccurrencesByName(name string) ([]Occurrence, error) {
	return s.ByName[name], nil
}

func (s *StaticIndex) FindOccurrencesByUSR(usr string) ([]Occurrence, error) {
	return s.ByUSR[usr], nil
}

func (s *StaticIndex) HasReferences(usr string) (bool, error) {
	for _, occ := range s.ByUSR[usr] {
		if occ.HasRole(RoleReference) || occ.HasRole(RoleRead) || occ.HasRole(RoleWrite) || occ.HasRole(RoleCall) {
			return true, nil
		}
	}
	return false, nil
}

func (s *StaticIndex) AllDefinitions() ([]Occurrence, error) {
	var out []Occurrence
	for _, occs := range s.ByName {
		for _, occ := range occs {
			if occ.HasRole(RoleDefinition) {
				out = append(out, occ)
			}
		}
	}
	return out, nil
}
