// Package extract reduces HTML pages to the plain paragraphs the analysis reads.
package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SkipFunc reports whether an element and its subtree should be ignored
type SkipFunc func(n *html.Node) bool

// blockElements each start a new paragraph
var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Blockquote: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Td: true, atom.Th: true, atom.Dd: true, atom.Dt: true, atom.Caption: true,
	atom.Section: true, atom.Article: true, atom.Header: true, atom.Footer: true,
	atom.Figcaption: true, atom.Tr: true, atom.Ul: true, atom.Ol: true, atom.Dl: true,
	atom.Table: true, atom.Address: true, atom.Hr: true, atom.Br: true,
}

// invisibleElements never contribute text
var invisibleElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Noscript: true, atom.Iframe: true,
	atom.Head: true, atom.Template: true, atom.Svg: true, atom.Math: true,
	atom.Object: true, atom.Canvas: true, atom.Select: true, atom.Button: true,
}

// ParagraphExtractor turns an HTML document into paragraphs of visible text
type ParagraphExtractor struct{}

// NewParagraphExtractor creates a new paragraph extractor
func NewParagraphExtractor() *ParagraphExtractor {
	return &ParagraphExtractor{}
}

// Extract parses htmlContent and returns its paragraphs
func (e *ParagraphExtractor) Extract(htmlContent string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, err
	}
	return Paragraphs(doc, nil), nil
}

// Paragraphs collects the visible text under n. Each block element closes the
// current paragraph; inline markup joins its text into it. Whitespace runs
// collapse to one space, except inside pre where every line is a paragraph.
// Empty paragraphs are dropped.
func Paragraphs(n *html.Node, skip SkipFunc) []string {
	c := &collector{skip: skip}
	c.walk(n)
	c.flush()
	return c.paragraphs
}

type collector struct {
	skip       SkipFunc
	paragraphs []string
	current    strings.Builder
}

func (c *collector) walk(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		c.current.WriteString(n.Data)
		return
	case html.ElementNode:
		if invisibleElements[n.DataAtom] || (c.skip != nil && c.skip(n)) {
			return
		}
		if n.DataAtom == atom.Pre {
			c.flush()
			c.preformatted(n)
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		c.flush()
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
	if block {
		c.flush()
	}
}

// preformatted emits one paragraph per line of a pre element
func (c *collector) preformatted(n *html.Node) {
	text := visibleText(n, c.skip)
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimRight(line, " \t\r"); strings.TrimSpace(line) != "" {
			c.paragraphs = append(c.paragraphs, line)
		}
	}
}

func (c *collector) flush() {
	text := strings.Join(strings.Fields(c.current.String()), " ")
	c.current.Reset()
	if text != "" {
		c.paragraphs = append(c.paragraphs, text)
	}
}

// visibleText concatenates the text nodes under n verbatim
func visibleText(n *html.Node, skip SkipFunc) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if invisibleElements[n.DataAtom] || (skip != nil && skip(n)) {
				return
			}
		}
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// Title returns the document title, or "" when there is none
func Title(n *html.Node) string {
	var title string

	var walk func(*html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Title {
			title = strings.Join(strings.Fields(visibleText(n, nil)), " ")
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return title
}
