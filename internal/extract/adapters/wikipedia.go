package adapters

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/wordgauge/internal/extract"
)

// WikipediaAdapter reads the article body of Wikipedia pages, leaving out
// infoboxes, navigation boxes, citations and the trailing reference sections
type WikipediaAdapter struct {
	BaseAdapter
	stopSections map[string]bool
	skipClasses  []string
}

// NewWikipediaAdapter creates a new Wikipedia adapter
func NewWikipediaAdapter() *WikipediaAdapter {
	return &WikipediaAdapter{
		// Heading ids are language specific; these cover the English wiki
		stopSections: map[string]bool{
			"References": true, "Notes": true, "See_also": true,
			"External_links": true, "Further_reading": true, "Bibliography": true,
			"Sources": true, "Citations": true,
		},
		skipClasses: []string{
			"infobox", "navbox", "vertical-navbox", "sidebar", "reflist", "references",
			"reference", "mw-editsection", "hatnote", "thumb", "metadata", "ambox",
			"toc", "mw-empty-elt", "noprint", "mw-references-wrap", "shortdescription",
		},
	}
}

// Name returns the adapter name
func (a *WikipediaAdapter) Name() string {
	return "wikipedia"
}

// CanHandle checks if this is a Wikipedia URL
func (a *WikipediaAdapter) CanHandle(rawURL string, contentType string) bool {
	return strings.Contains(rawURL, "wikipedia.org")
}

// ExtractParagraphs extracts the article paragraphs up to the first
// reference-style section
func (a *WikipediaAdapter) ExtractParagraphs(doc *html.Node, rawURL string) ([]string, error) {
	content := a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && a.HasClass(n, "mw-parser-output")
	})
	if content == nil {
		content = a.FindFirst(doc, func(n *html.Node) bool {
			return n.Type == html.ElementNode && a.GetAttribute(n, "id") == "mw-content-text"
		})
	}
	if content == nil {
		content = doc
	}

	stopped := false
	return extract.Paragraphs(content, func(n *html.Node) bool {
		if stopped {
			return true
		}
		if a.isStopHeading(n) {
			stopped = true
			return true
		}
		switch n.Data {
		case "figure", "sup":
			return true
		case "table":
			return a.HasClass(n, "wikitable") || a.HasAnyClass(n, a.skipClasses...)
		}
		return a.HasAnyClass(n, a.skipClasses...)
	}), nil
}

// isStopHeading matches h2 headings (bare or wrapped in div.mw-heading) that
// open a reference-style section
func (a *WikipediaAdapter) isStopHeading(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}

	var heading *html.Node
	switch {
	case n.Data == "h2":
		heading = n
	case n.Data == "div" && a.HasClass(n, "mw-heading2"):
		heading = a.FindFirst(n, func(c *html.Node) bool {
			return c.Type == html.ElementNode && c.Data == "h2"
		})
	}
	if heading == nil {
		return false
	}

	if a.stopSections[a.GetAttribute(heading, "id")] {
		return true
	}
	headline := a.FindFirst(heading, func(c *html.Node) bool {
		return c.Type == html.ElementNode && a.HasClass(c, "mw-headline")
	})
	return headline != nil && a.stopSections[a.GetAttribute(headline, "id")]
}
