// Package goquery implements pageqa.Extractor by parsing HTML with goquery
// and scoring the resulting tree with pageqa.ExtractPage.
package goquery

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cespare/xxhash/v2"
	"github.com/dyatlov/go-opengraph/opengraph"
	"github.com/fwojciec/pageqa"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pageqa.Extractor at compile time.
var _ pageqa.Extractor = (*Extractor)(nil)

// Extractor extracts the main content and metadata of an HTML page.
type Extractor struct {
	opts pageqa.ExtractOptions
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithScoring overrides the main-content scoring weights.
func WithScoring(s pageqa.Scoring) Option {
	return func(e *Extractor) {
		e.opts.Scoring = s
	}
}

// WithMaxLinks caps the number of related links returned.
func WithMaxLinks(n int) Option {
	return func(e *Extractor) {
		e.opts.MaxLinks = n
	}
}

// NewExtractor creates a new Extractor with pageqa.DefaultExtractOptions.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{opts: pageqa.DefaultExtractOptions()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract parses page and returns its main content, title, OpenGraph
// metadata, and links resolved against baseURL.
func (e *Extractor) Extract(page, baseURL string) (*pageqa.PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, pageqa.WrapError(err, pageqa.EEXTRACT, "failed to parse HTML")
	}

	// Metadata is optional; a page without OpenGraph tags is still usable.
	og := opengraph.NewOpenGraph()
	_ = og.ProcessHTML(strings.NewReader(page))

	root := doc.Find("body").First()
	if root.Length() == 0 {
		root = doc.Selection
	}
	tree := ConvertNode(root.Get(0))
	if tree == nil || tree.IsText() {
		return nil, pageqa.Errorf(pageqa.EEXTRACT, "page has no extractable content")
	}

	content, err := pageqa.ExtractPage(tree, baseURL, e.opts)
	if err != nil {
		return nil, err
	}

	content.Title = extractTitle(doc, og)
	content.Description = extractDescription(doc, og)
	content.SiteName = pageqa.NormalizeText(og.SiteName)
	content.ContentHash = fmt.Sprintf("%x", xxhash.Sum64String(content.MainText))
	return content, nil
}

// extractTitle prefers <title>, then og:title, then the first <h1>.
func extractTitle(doc *goquery.Document, og *opengraph.OpenGraph) string {
	if title := pageqa.NormalizeText(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if title := pageqa.NormalizeText(og.Title); title != "" {
		return title
	}
	return pageqa.NormalizeText(doc.Find("h1").First().Text())
}

// extractDescription prefers og:description over the description meta tag.
func extractDescription(doc *goquery.Document, og *opengraph.OpenGraph) string {
	if desc := pageqa.NormalizeText(og.Description); desc != "" {
		return desc
	}
	desc, _ := doc.Find("meta[name='description']").First().Attr("content")
	return pageqa.NormalizeText(desc)
}

// ConvertNode converts an x/net/html tree into a pageqa.Node tree.
// Comments, doctypes, and other non-content nodes are dropped; document
// nodes become a "body" element. Returns nil for dropped nodes.
func ConvertNode(n *html.Node) *pageqa.Node {
	if n == nil {
		return nil
	}

	switch n.Type {
	case html.TextNode:
		return pageqa.NewText(n.Data)
	case html.ElementNode:
		el := pageqa.NewElement(n.Data)
		for _, a := range n.Attr {
			if a.Namespace != "" {
				continue
			}
			el.SetAttr(strings.ToLower(a.Key), a.Val)
		}
		appendChildren(el, n)
		return el
	case html.DocumentNode:
		el := pageqa.NewElement("body")
		appendChildren(el, n)
		return el
	}
	return nil
}

func appendChildren(el *pageqa.Node, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if child := ConvertNode(c); child != nil {
			el.Children = append(el.Children, child)
		}
	}
}
