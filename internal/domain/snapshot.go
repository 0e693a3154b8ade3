package domain

// Snapshot is a full copy of the store used for export and import
type Snapshot struct {
	// NextID is the counter value the next create would receive
	NextID    uint64                `json:"next_id" yaml:"next_id"`
	Languages []ProgrammingLanguage `json:"languages" yaml:"languages"`
	Repos     []Repo                `json:"repos" yaml:"repos"`
}

// MaxID returns the highest identifier held by any record, and false when
// the snapshot is empty
func (s *Snapshot) MaxID() (uint64, bool) {
	var max uint64
	found := false
	for _, l := range s.Languages {
		if !found || l.ID > max {
			max = l.ID
		}
		found = true
	}
	for _, r := range s.Repos {
		if !found || r.ID > max {
			max = r.ID
		}
		found = true
	}
	return max, found
}
