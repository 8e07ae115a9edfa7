// Package readability provides a pageqa.Extractor that pre-cleans pages
// with go-readability before handing them to another extractor.
package readability

import (
	"html"
	"net/url"
	"strings"

	"github.com/fwojciec/pageqa"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements pageqa.Extractor at compile time.
var _ pageqa.Extractor = (*Extractor)(nil)

// Extractor isolates the article with go-readability and delegates it to
// the next extractor. Pages readability cannot parse are passed on
// unchanged.
type Extractor struct {
	next pageqa.Extractor
}

// NewExtractor creates a new Extractor that delegates to next.
func NewExtractor(next pageqa.Extractor) *Extractor {
	return &Extractor{next: next}
}

// Extract pre-cleans rawHTML and extracts it with the next extractor.
func (e *Extractor) Extract(rawHTML, baseURL string) (*pageqa.PageContent, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, pageqa.Errorf(pageqa.EEXTRACT, "empty HTML input")
	}

	pageURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, pageqa.Errorf(pageqa.EINVALID, "invalid base URL %q", baseURL)
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil || strings.TrimSpace(article.Content) == "" {
		return e.next.Extract(rawHTML, baseURL)
	}

	doc := "<!DOCTYPE html><html><head><title>" + html.EscapeString(article.Title) + "</title></head><body>" + article.Content + "</body></html>"
	content, err := e.next.Extract(doc, baseURL)
	if err != nil {
		return nil, err
	}
	if content.Description == "" {
		content.Description = pageqa.NormalizeText(article.Excerpt)
	}
	if content.SiteName == "" {
		content.SiteName = pageqa.NormalizeText(article.SiteName)
	}
	return content, nil
}
