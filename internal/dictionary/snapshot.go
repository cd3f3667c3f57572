package dictionary

// Snapshot is the serializable content of a store, used to cache the result
// of Expand between runs
type Snapshot struct {
	Original []string `json:"original"`
	Expanded []string `json:"expanded"`
}

// Snapshot captures the current entries, sorted
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Original: s.Words(Original),
		Expanded: s.Words(Expanded),
	}
}

// Restore merges a snapshot into the store. Original entries overwrite;
// Expanded entries are only added where no entry exists.
func (s *Store) Restore(snap Snapshot) {
	for _, w := range snap.Original {
		s.entries[w] = Original
	}
	for _, w := range snap.Expanded {
		if _, ok := s.entries[w]; !ok {
			s.entries[w] = Expanded
		}
	}
}
