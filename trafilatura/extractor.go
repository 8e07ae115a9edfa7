// Package trafilatura provides a pageqa.Extractor that pre-cleans pages
// with go-trafilatura before handing them to another extractor.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/pageqa"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements pageqa.Extractor at compile time.
var _ pageqa.Extractor = (*Extractor)(nil)

// Extractor strips boilerplate with go-trafilatura and delegates the
// cleaned page to the next extractor. If trafilatura finds no content,
// the original page is passed on unchanged.
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

	opts := trafilatura.Options{
		EnableFallback: true,
		IncludeLinks:   true,
	}
	if u, err := url.Parse(baseURL); err == nil {
		opts.OriginalURL = u
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil || result == nil || result.ContentNode == nil {
		return e.next.Extract(rawHTML, baseURL)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, result.ContentNode); err != nil {
		return e.next.Extract(rawHTML, baseURL)
	}

	content, err := e.next.Extract(wrap(result.Metadata.Title, buf.String()), baseURL)
	if err != nil {
		return nil, err
	}
	if content.Description == "" {
		content.Description = pageqa.NormalizeText(result.Metadata.Description)
	}
	if content.SiteName == "" {
		content.SiteName = pageqa.NormalizeText(result.Metadata.Sitename)
	}
	return content, nil
}

// wrap embeds a cleaned content fragment in a minimal HTML document.
func wrap(title, body string) string {
	return "<!DOCTYPE html><html><head><title>" + html.EscapeString(title) + "</title></head><body>" + body + "</body></html>"
}
