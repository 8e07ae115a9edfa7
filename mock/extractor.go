package mock

import "github.com/fwojciec/pageqa"

var _ pageqa.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pageqa.Extractor.
type Extractor struct {
	ExtractFn func(html, baseURL string) (*pageqa.PageContent, error)
}

func (e *Extractor) Extract(html, baseURL string) (*pageqa.PageContent, error) {
	return e.ExtractFn(html, baseURL)
}
