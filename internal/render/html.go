// Package render turns a classified document into an annotated HTML page.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ppiankov/wordgauge/internal/document"
	"github.com/ppiankov/wordgauge/internal/model"
)

// DefaultStyleSheet is inlined when no style sheet is supplied
const DefaultStyleSheet = `body { font-family: Georgia, serif; max-width: 46em; margin: 2em auto; padding: 0 1em; line-height: 1.7; }
h1 { font-family: sans-serif; font-size: 1.4em; }
.known { color: #1a7f37; }
.maybe { color: #9a6700; background: #fff8c5; }
.unknown sub { font-size: 0.6em; color: #cf222e; margin-left: 1px; }
footer { margin-top: 3em; font-family: sans-serif; font-size: 0.8em; color: #57606a; }
`

// HTMLRenderer renders documents as self-contained pages
type HTMLRenderer struct {
	styleSheet    string
	includeFooter bool
}

// NewHTMLRenderer creates a renderer. An empty styleSheet selects DefaultStyleSheet.
func NewHTMLRenderer(styleSheet string, includeFooter bool) *HTMLRenderer {
	if styleSheet == "" {
		styleSheet = DefaultStyleSheet
	}
	return &HTMLRenderer{
		styleSheet:    styleSheet,
		includeFooter: includeFooter,
	}
}

// Render writes the annotated page for doc to w. The only errors are w's.
func (r *HTMLRenderer) Render(w io.Writer, doc *document.Document) error {
	return html.Render(w, r.page(doc))
}

// RenderString returns the annotated page for doc
func (r *HTMLRenderer) RenderString(doc *document.Document) (string, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *HTMLRenderer) page(doc *document.Document) *html.Node {
	root := &html.Node{Type: html.DocumentNode}
	root.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	htmlEl := element(atom.Html)
	root.AppendChild(htmlEl)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, html.Attribute{Key: "charset", Val: "utf-8"}))
	title := element(atom.Title)
	title.AppendChild(text(doc.Name()))
	head.AppendChild(title)
	style := element(atom.Style)
	style.AppendChild(text(r.styleSheet))
	head.AppendChild(style)
	htmlEl.AppendChild(head)

	body := element(atom.Body)
	h1 := element(atom.H1)
	h1.AppendChild(text(doc.Name()))
	body.AppendChild(h1)

	for p := range doc.Paragraphs() {
		body.AppendChild(paragraph(doc, p))
	}

	if r.includeFooter {
		body.AppendChild(footer(doc))
	}

	htmlEl.AppendChild(body)
	return root
}

// paragraph renders one paragraph: non-words as text, words as spans
func paragraph(doc *document.Document, p *document.Node) *html.Node {
	el := element(atom.P)
	for tok := range document.Tokens(p) {
		if !tok.Word {
			el.AppendChild(text(tok.Text))
			continue
		}

		class := model.Undecided
		count := 0
		if st, ok := doc.Stat(tok); ok {
			class = st.Classification
			count = st.Count
		}

		span := element(atom.Span, html.Attribute{Key: "class", Val: class.String()})
		span.AppendChild(text(tok.Text))
		if class == model.Unknown {
			n := strconv.Itoa(count)
			span.Attr = append(span.Attr, html.Attribute{Key: "data-count", Val: n})
			sub := element(atom.Sub)
			sub.AppendChild(text(n))
			span.AppendChild(sub)
		}
		el.AppendChild(span)
	}
	return el
}

func footer(doc *document.Document) *html.Node {
	size, known, maybe := doc.Size(), doc.Known(), doc.Maybe()
	el := element(atom.Footer)
	el.AppendChild(text(fmt.Sprintf("%d words: %d known, %d maybe, %d unknown", size, known, maybe, size-known-maybe)))
	return el
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
