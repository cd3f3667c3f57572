package adapters

import (
	"golang.org/x/net/html"

	"github.com/ppiankov/wordgauge/internal/extract"
)

// GenericAdapter is the fallback adapter for unknown sites. It prefers the
// main or article element when the page has one.
type GenericAdapter struct {
	BaseAdapter
}

// NewGenericAdapter creates a new generic adapter
func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

// Name returns the adapter name
func (a *GenericAdapter) Name() string {
	return "generic"
}

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(url string, contentType string) bool {
	return true
}

// ExtractParagraphs extracts every visible paragraph of the main content,
// skipping page chrome
func (a *GenericAdapter) ExtractParagraphs(doc *html.Node, url string) ([]string, error) {
	content := a.FindFirst(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && (n.Data == "main" || n.Data == "article")
	})
	if content == nil {
		content = doc
	}

	return extract.Paragraphs(content, func(n *html.Node) bool {
		switch n.Data {
		case "nav", "aside", "form":
			return true
		}
		return a.GetAttribute(n, "aria-hidden") == "true" || a.HasAttribute(n, "hidden") ||
			a.GetAttribute(n, "role") == "navigation"
	}), nil
}

// title returns the document title
func title(doc *html.Node) string {
	return extract.Title(doc)
}
