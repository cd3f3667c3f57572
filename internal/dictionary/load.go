package dictionary

import (
	"fmt"

	"github.com/ppiankov/wordgauge/internal/util"
)

// LoadDictionaryFile decodes a dictionary file and merges its words as
// Original entries. It returns the decoded text and the number of word tokens read.
func (s *Store) LoadDictionaryFile(path string, encoding string) (string, int, error) {
	text, err := util.ReadTextFile(path, encoding)
	if err != nil {
		return "", 0, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return text, s.LoadDictionary(text), nil
}
