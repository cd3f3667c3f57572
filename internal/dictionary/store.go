// Package dictionary holds the set of known words for one analysis run and
// derives additional recognizable forms through a language plugin.
//
// Usage follows a strict order: load the plugin, load every dictionary, call
// Expand once, then classify. After Expand the store is read-only and may be
// shared by every document of the run.
package dictionary

import (
	"sort"
	"strings"

	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/tokenizer"
)

// Provenance records how a word entered the store
type Provenance uint8

const (
	Original Provenance = iota + 1 // Loaded from a dictionary source
	Expanded                       // Derived by plugin rules
)

// String returns the provenance name
func (p Provenance) String() string {
	switch p {
	case Original:
		return "original"
	case Expanded:
		return "expanded"
	default:
		return "none"
	}
}

// Store maps lowercase words to their provenance
type Store struct {
	entries map[string]Provenance
	plugin  *Plugin
}

// NewStore creates an empty store without a plugin
func NewStore() *Store {
	return &Store{
		entries: make(map[string]Provenance),
	}
}

// SetPlugin installs a compiled plugin; nil removes expansion capability
func (s *Store) SetPlugin(p *Plugin) {
	s.plugin = p
}

// LoadPlugin compiles and installs a plugin definition
func (s *Store) LoadPlugin(def Definition) error {
	p, err := Compile(def)
	if err != nil {
		return err
	}
	s.plugin = p
	return nil
}

// Plugin returns the installed plugin, or nil
func (s *Store) Plugin() *Plugin {
	return s.plugin
}

// LoadDictionary tokenizes text and records every word, folded on its own,
// as an Original entry. Repeated loads merge. It returns the number of word
// tokens read.
func (s *Store) LoadDictionary(text string) int {
	words := tokenizer.Words(text)
	for _, w := range words {
		s.entries[tokenizer.Fold(w)] = Original
	}
	return len(words)
}

// Classify resolves a lowercase word: Original entries are Known, Expanded
// entries are Maybe, prefix-expandable words are Maybe, the rest Unknown.
func (s *Store) Classify(word string) model.Classification {
	switch s.entries[word] {
	case Original:
		return model.Known
	case Expanded:
		return model.Maybe
	}
	if s.IsExpandable(word) {
		return model.Maybe
	}
	return model.Unknown
}

// IsExpandable reports whether stripping one of the plugin prefixes from word
// leaves a dictionary entry of either provenance.
func (s *Store) IsExpandable(word string) bool {
	if s.plugin == nil {
		return false
	}
	for _, prefix := range s.plugin.Prefixes {
		if !strings.HasPrefix(word, prefix) {
			continue
		}
		if _, ok := s.entries[word[len(prefix):]]; ok {
			return true
		}
	}
	return false
}

// Lookup returns the provenance of word, if present
func (s *Store) Lookup(word string) (Provenance, bool) {
	p, ok := s.entries[word]
	return p, ok
}

// Len returns the number of entries
func (s *Store) Len() int {
	return len(s.entries)
}

// Count returns the number of entries with the given provenance
func (s *Store) Count(p Provenance) int {
	n := 0
	for _, ep := range s.entries {
		if ep == p {
			n++
		}
	}
	return n
}

// Words returns the sorted entries with the given provenance
func (s *Store) Words(p Provenance) []string {
	var words []string
	for w, ep := range s.entries {
		if ep == p {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words
}
