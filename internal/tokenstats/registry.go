// Package tokenstats holds the per-document flyweight table of word statistics.
//
// Every occurrence of the same lowercase word within one analyzed document
// shares a single model.TokenStats record: one occurrence counter and one
// classification decision. Tree tokens refer to their record by key (the
// folded word), so the table stays a plain indexed map that serializes as-is.
//
// A Registry is scoped to one document. It is not safe for concurrent use.
package tokenstats

import (
	"sort"

	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/tokenizer"
)

// Registry deduplicates words case-insensitively and counts occurrences
type Registry struct {
	index map[string]int
	stats []*model.TokenStats // first-seen order
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		index: make(map[string]int),
	}
}

// GetOrCreate returns the shared record for word, creating it with count 1 and
// classification Undecided on first sight, and incrementing the count otherwise.
func (r *Registry) GetOrCreate(word string) *model.TokenStats {
	key := tokenizer.Fold(word)
	if i, ok := r.index[key]; ok {
		st := r.stats[i]
		st.Count++
		return st
	}

	st := &model.TokenStats{
		Word:           key,
		Count:          1,
		Classification: model.Undecided,
	}
	r.index[key] = len(r.stats)
	r.stats = append(r.stats, st)
	return st
}

// Get returns the record for an already folded key without counting an occurrence
func (r *Registry) Get(key string) (*model.TokenStats, bool) {
	i, ok := r.index[key]
	if !ok {
		return nil, false
	}
	return r.stats[i], true
}

// Len returns the number of unique words
func (r *Registry) Len() int {
	return len(r.stats)
}

// All returns the shared records in first-seen order
func (r *Registry) All() []*model.TokenStats {
	out := make([]*model.TokenStats, len(r.stats))
	copy(out, r.stats)
	return out
}

// Table returns a copy of every record, most frequent first, ties by word
func (r *Registry) Table() []model.TokenStats {
	table := make([]model.TokenStats, len(r.stats))
	for i, st := range r.stats {
		table[i] = *st
	}
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Count != table[j].Count {
			return table[i].Count > table[j].Count
		}
		return table[i].Word < table[j].Word
	})
	return table
}

// TopByClassification returns up to n records with the given classification,
// most frequent first. n <= 0 returns all of them.
func (r *Registry) TopByClassification(c model.Classification, n int) []model.TokenStats {
	var out []model.TokenStats
	for _, st := range r.Table() {
		if st.Classification != c {
			continue
		}
		out = append(out, st)
		if n > 0 && len(out) == n {
			break
		}
	}
	return out
}
