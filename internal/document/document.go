package document

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ppiankov/wordgauge/internal/model"
	"github.com/ppiankov/wordgauge/internal/tokenizer"
	"github.com/ppiankov/wordgauge/internal/tokenstats"
)

// Document is the tree of one analyzed file together with its statistics
// registry. Both are fresh per file and never shared across files.
type Document struct {
	Root  *Node
	Stats *tokenstats.Registry
}

// New creates an empty document with its own registry
func New(name string) *Document {
	return &Document{
		Root:  &Node{Kind: KindDocument, Name: name},
		Stats: tokenstats.New(),
	}
}

// Build reads r line by line; each line becomes one paragraph
func Build(name string, r io.Reader) (*Document, error) {
	doc := New(name)

	// Lines have no length limit; a whole file may be a single paragraph
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			doc.AddParagraph(strings.TrimSuffix(line, "\r"))
		}
		if err == io.EOF {
			return doc, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
	}
}

// BuildText builds a document from in-memory text, one paragraph per line
func BuildText(name, text string) *Document {
	doc := New(name)
	if text == "" {
		return doc
	}
	for line := range strings.Lines(text) {
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		doc.AddParagraph(line)
	}
	return doc
}

// BuildParagraphs builds a document from already separated paragraphs
func BuildParagraphs(name string, paragraphs []string) *Document {
	doc := New(name)
	for _, p := range paragraphs {
		doc.AddParagraph(p)
	}
	return doc
}

// AddParagraph tokenizes text and appends it as a paragraph. Every word
// occurrence is counted in the registry.
func (d *Document) AddParagraph(text string) *Node {
	p := &Node{Kind: KindParagraph}
	for tok := range tokenizer.Tokens(text) {
		leaf := &Node{Kind: KindToken, Text: tok.Text}
		if tok.Kind == tokenizer.Word {
			leaf.Word = true
			leaf.Key = d.Stats.GetOrCreate(tok.Text).Word
		}
		p.Children = append(p.Children, leaf)
	}
	d.Root.Children = append(d.Root.Children, p)
	return p
}

// Name returns the document name
func (d *Document) Name() string {
	return d.Root.Name
}

// Paragraphs enumerates the paragraph nodes in order
func (d *Document) Paragraphs() iter.Seq[*Node] {
	return Children(d.Root)
}

// Stat returns the shared record of a word token
func (d *Document) Stat(token *Node) (*model.TokenStats, bool) {
	if token == nil || !token.Word {
		return nil, false
	}
	return d.Stats.Get(token.Key)
}

// Size returns the number of word tokens
func (d *Document) Size() int {
	return Size(d.Root)
}

// Known returns the number of Known word tokens
func (d *Document) Known() int {
	return Known(d.Root, d.Stats)
}

// Maybe returns the number of Maybe word tokens
func (d *Document) Maybe() int {
	return Maybe(d.Root, d.Stats)
}

// Unknown returns size - known - maybe. Undecided tokens fall in here too.
func (d *Document) Unknown() int {
	return d.Size() - d.Known() - d.Maybe()
}
