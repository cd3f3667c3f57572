// Package document builds the per-file Document → Paragraph → Token tree and
// computes its aggregates.
//
// Nodes are a closed set of tagged variants. Leaf-ness is the KindToken tag,
// not an override: only a Document owns Paragraphs and only a Paragraph owns
// Tokens. Word tokens carry the registry key of their shared statistics
// record instead of a pointer, so the tree serializes as plain data.
//
// Aggregates are recomputed on every call by walking the tree; nothing is
// cached, so they always reflect the latest classification state.
package document

import (
	"fmt"
	"iter"

	"github.com/ppiankov/wordgauge/internal/model"
)

// Kind tags a node variant
type Kind uint8

const (
	KindDocument Kind = iota
	KindParagraph
	KindToken
)

// String returns the variant name
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindParagraph:
		return "paragraph"
	case KindToken:
		return "token"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Node is one element of the tree
type Node struct {
	Kind     Kind    `json:"kind"`
	Name     string  `json:"name,omitempty"` // KindDocument
	Text     string  `json:"text,omitempty"` // KindToken
	Word     bool    `json:"word,omitempty"` // KindToken
	Key      string  `json:"key,omitempty"`  // KindToken with Word set
	Children []*Node `json:"children,omitempty"`
}

// Lookup resolves a word token key to its shared statistics record
type Lookup interface {
	Get(key string) (*model.TokenStats, bool)
}

// Children returns the direct children of n. Tokens have none.
func Children(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if n == nil || n.Kind == KindToken {
			return
		}
		for _, c := range n.Children {
			if !yield(c) {
				return
			}
		}
	}
}

// Tokens lazily enumerates every token under n in document order. A token
// node yields itself.
func Tokens(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		walkTokens(n, yield)
	}
}

func walkTokens(n *Node, yield func(*Node) bool) bool {
	if n == nil {
		return true
	}
	if n.Kind == KindToken {
		return yield(n)
	}
	for _, c := range n.Children {
		if !walkTokens(c, yield) {
			return false
		}
	}
	return true
}

// Words lazily enumerates the word tokens under n in document order
func Words(n *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for t := range Tokens(n) {
			if t.Word && !yield(t) {
				return
			}
		}
	}
}

// Size counts the word tokens under n
func Size(n *Node) int {
	size := 0
	for range Words(n) {
		size++
	}
	return size
}

// Count counts the word tokens under n whose shared record has classification c
func Count(n *Node, stats Lookup, c model.Classification) int {
	count := 0
	for t := range Words(n) {
		if st, ok := stats.Get(t.Key); ok && st.Classification == c {
			count++
		}
	}
	return count
}

// Known counts the Known word tokens under n
func Known(n *Node, stats Lookup) int {
	return Count(n, stats, model.Known)
}

// Maybe counts the Maybe word tokens under n
func Maybe(n *Node, stats Lookup) int {
	return Count(n, stats, model.Maybe)
}
