// Package tokenizer splits text into Word and NonWord spans.
//
// A Word is a run of letters, optionally followed by one connector mark
// (apostrophe-like quotes or the Hebrew geresh) and another run of letters,
// so elided compounds such as "l'homme" or "don't" stay in one token.
// Everything between words is emitted as a single NonWord span.
//
// Tokenization is a loss-less partition: concatenating the Text of every
// token in order reproduces the input exactly. No classification happens
// here.
package tokenizer

import (
	"fmt"
	"iter"
	"regexp"
)

// Kind distinguishes words from the spans around them
type Kind uint8

const (
	NonWord Kind = iota // Whitespace, punctuation, digits, symbols
	Word                // Letters with at most one embedded connector mark
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case NonWord:
		return "NonWord"
	case Word:
		return "Word"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Token is one lexical span of the input
type Token struct {
	Text string
	Kind Kind
}

// String returns a debug representation, e.g. Word("run")
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)", t.Kind, t.Text)
}

// connectors are the marks allowed between two letter runs of one word:
// ASCII apostrophe, left/right single quotes, grave, acute, Hebrew geresh.
const connectors = "'‘’`´׳"

// A letter starts a word; combining marks may follow letters so scripts with
// vowel signs (Devanagari, Hebrew points) are not split mid-word.
var wordPattern = regexp.MustCompile(`\p{L}[\p{L}\p{M}]*(?:[` + connectors + `]\p{L}[\p{L}\p{M}]*)?`)

// Tokens returns a lazy sequence of tokens over s. The sequence is restartable:
// each range over it tokenizes s from the beginning.
func Tokens(s string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		pos := 0
		for pos < len(s) {
			loc := wordPattern.FindStringIndex(s[pos:])
			if loc == nil {
				break
			}
			start, end := pos+loc[0], pos+loc[1]
			if start > pos {
				if !yield(Token{Text: s[pos:start], Kind: NonWord}) {
					return
				}
			}
			if !yield(Token{Text: s[start:end], Kind: Word}) {
				return
			}
			pos = end
		}
		if pos < len(s) {
			yield(Token{Text: s[pos:], Kind: NonWord})
		}
	}
}

// Tokenize returns all tokens of s. An empty input yields nil.
func Tokenize(s string) []Token {
	var tokens []Token
	for tok := range Tokens(s) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// Words returns only the Word token texts of s
func Words(s string) []string {
	var words []string
	for tok := range Tokens(s) {
		if tok.Kind == Word {
			words = append(words, tok.Text)
		}
	}
	return words
}
