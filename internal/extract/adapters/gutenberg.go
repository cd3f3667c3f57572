package adapters

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/wordgauge/internal/extract"
)

// GutenbergAdapter reads the text of Project Gutenberg HTML e-books,
// leaving out the license boilerplate, page numbers and tables of contents
type GutenbergAdapter struct {
	BaseAdapter
	domains     map[string]bool
	skipClasses []string
	skipIDs     map[string]bool
	markers     []string
}

// NewGutenbergAdapter creates a new Project Gutenberg adapter
func NewGutenbergAdapter() *GutenbergAdapter {
	return &GutenbergAdapter{
		domains: map[string]bool{
			"gutenberg.org":       true,
			"gutenberg.ca":        true,
			"gutenberg.net.au":    true,
			"gutenberg.pglaf.org": true,
		},
		skipClasses: []string{"pg-boilerplate", "pagenum", "toc", "figcenter", "footnotes", "transnote"},
		skipIDs:     map[string]bool{"pg-header": true, "pg-footer": true, "pg-machine-header": true},
		// Older books carry the license as preformatted text
		markers: []string{"*** START OF", "*** END OF", "PROJECT GUTENBERG LICENSE", "Project Gutenberg License"},
	}
}

// Name returns the adapter name
func (a *GutenbergAdapter) Name() string {
	return "gutenberg"
}

// CanHandle checks for Project Gutenberg hosts and their mirrors
func (a *GutenbergAdapter) CanHandle(rawURL string, contentType string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	for domain := range a.domains {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

// ExtractParagraphs extracts the book text
func (a *GutenbergAdapter) ExtractParagraphs(doc *html.Node, rawURL string) ([]string, error) {
	content := a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "body"
	})
	if content == nil {
		content = doc
	}

	return extract.Paragraphs(content, func(n *html.Node) bool {
		if a.skipIDs[a.GetAttribute(n, "id")] || a.HasAnyClass(n, a.skipClasses...) {
			return true
		}
		return n.Data == "pre" && a.isBoilerplate(a.ExtractText(n))
	}), nil
}

func (a *GutenbergAdapter) isBoilerplate(text string) bool {
	for _, marker := range a.markers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}
