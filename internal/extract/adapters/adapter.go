package adapters

import (
	"strings"

	"golang.org/x/net/html"
)

// Adapter defines the interface for site-specific paragraph extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// CanHandle checks if this adapter can handle the given URL/content
	CanHandle(url string, contentType string) bool

	// ExtractParagraphs returns the readable paragraphs of the page
	ExtractParagraphs(doc *html.Node, url string) ([]string, error)
}

// Registry manages site adapters
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0),
	}

	registry.Register(NewWikipediaAdapter())
	registry.Register(NewGutenbergAdapter())

	registry.generic = NewGenericAdapter()

	return registry
}

// Register registers a new adapter; earlier registrations win
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter finds the best adapter for the given URL and content type
func (r *Registry) FindAdapter(url string, contentType string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(url, contentType) {
			return adapter
		}
	}

	return r.generic
}

// Extract parses htmlContent and extracts paragraphs with the matching
// adapter. It returns the page title, the paragraphs and the adapter name.
func (r *Registry) Extract(htmlContent, url, contentType string) (string, []string, string, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return "", nil, "", err
	}

	adapter := r.FindAdapter(url, contentType)
	paragraphs, err := adapter.ExtractParagraphs(doc, url)
	if err != nil {
		return "", nil, adapter.Name(), err
	}

	return title(doc), paragraphs, adapter.Name(), nil
}

// BaseAdapter provides common functionality for adapters
type BaseAdapter struct{}

// ExtractText extracts the whitespace-normalized text content of a node
func (b *BaseAdapter) ExtractText(n *html.Node) string {
	if n.Type == html.TextNode {
		return strings.TrimSpace(n.Data)
	}

	var buf strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		buf.WriteString(b.ExtractText(c))
		buf.WriteString(" ")
	}
	return strings.Join(strings.Fields(buf.String()), " ")
}

// HasClass checks if a node has a specific CSS class
func (b *BaseAdapter) HasClass(n *html.Node, className string) bool {
	if n.Type != html.ElementNode {
		return false
	}

	for _, attr := range n.Attr {
		if attr.Key == "class" {
			for _, class := range strings.Fields(attr.Val) {
				if class == className {
					return true
				}
			}
		}
	}
	return false
}

// HasAnyClass checks if a node has at least one of the classes
func (b *BaseAdapter) HasAnyClass(n *html.Node, classNames ...string) bool {
	for _, c := range classNames {
		if b.HasClass(n, c) {
			return true
		}
	}
	return false
}

// GetAttribute gets an attribute value from a node
func (b *BaseAdapter) GetAttribute(n *html.Node, attrKey string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return attr.Val
		}
	}
	return ""
}

// HasAttribute reports whether the attribute is present, even when empty
func (b *BaseAdapter) HasAttribute(n *html.Node, attrKey string) bool {
	for _, attr := range n.Attr {
		if attr.Key == attrKey {
			return true
		}
	}
	return false
}

// FindFirst finds the first node matching a predicate, depth first
func (b *BaseAdapter) FindFirst(n *html.Node, predicate func(*html.Node) bool) *html.Node {
	var result *html.Node

	var walk func(*html.Node) bool
	walk = func(node *html.Node) bool {
		if predicate(node) {
			result = node
			return true
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if walk(c) {
				return true
			}
		}
		return false
	}

	walk(n)
	return result
}
