package tokenizer

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Fold returns the dictionary key for a word: NFC-composed and lowercased
// with Unicode-aware rules. Dictionary loading and the token registry both
// key on Fold so decomposed input still matches composed dictionary entries.
func Fold(word string) string {
	// cases.Caser is stateful; never share one across goroutines.
	return cases.Lower(language.Und).String(norm.NFC.String(word))
}
