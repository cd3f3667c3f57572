// Package classifier resolves the classification of every word in a document.
package classifier

import (
	"github.com/ppiankov/wordgauge/internal/document"
	"github.com/ppiankov/wordgauge/internal/model"
)

// Dictionary resolves a lowercase word to Known, Maybe or Unknown
type Dictionary interface {
	Classify(word string) model.Classification
}

// Classifier assigns classifications using one dictionary for the whole run
type Classifier struct {
	dict Dictionary
}

// New creates a classifier over dict. dict must not change while classifying.
func New(dict Dictionary) *Classifier {
	return &Classifier{dict: dict}
}

// Classify visits every word token of doc in order and resolves each shared
// record still Undecided. Decisions land in the record, so every occurrence of
// the word sees them, and each unique word hits the dictionary once.
// Running it again is a no-op. It returns the number of records resolved.
func (c *Classifier) Classify(doc *document.Document) int {
	resolved := 0
	for tok := range document.Words(doc.Root) {
		st, ok := doc.Stat(tok)
		if !ok || st.Classification != model.Undecided {
			continue
		}
		st.Classification = c.dict.Classify(st.Word)
		resolved++
	}
	return resolved
}
