// Package qa answers questions about web pages. It coordinates fetching,
// content extraction, the model call, and answer formatting.
package qa

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/pageqa"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages FetchContent fetches at once.
const DefaultConcurrency = 4

var (
	_ pageqa.QAService      = (*Service)(nil)
	_ pageqa.ContentService = (*Service)(nil)
)

// Service implements pageqa.QAService and pageqa.ContentService.
type Service struct {
	Fetcher   pageqa.Fetcher
	Extractor pageqa.Extractor
	Answerer  pageqa.Answerer

	// Converter, if set, fills PageContent.Markdown in FetchContent.
	Converter pageqa.Converter

	Concurrency int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Ask validates req, fetches and extracts the page, and formats the
// model's answer. Nothing is fetched if req is invalid.
func (s *Service) Ask(ctx context.Context, req *pageqa.QARequest) (*pageqa.QAResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	content, err := s.page(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	text, err := s.Answerer.Answer(ctx, content, req.Question)
	if err != nil {
		return nil, withCode(err, pageqa.EANSWER, "answer question")
	}

	result, err := pageqa.FormatAnswer(text)
	if err != nil {
		return nil, err
	}

	return &pageqa.QAResponse{
		URL:          req.URL,
		Title:        content.Title,
		QAResult:     *result,
		RelatedLinks: content.Links,
	}, nil
}

// FetchContent fetches and extracts urls concurrently and returns their
// content in request order. The first failure cancels the remaining pages.
func (s *Service) FetchContent(ctx context.Context, urls []string) ([]*pageqa.PageContent, error) {
	if len(urls) == 0 {
		return nil, pageqa.Errorf(pageqa.EINVALID, "at least one url required")
	}
	if len(urls) > pageqa.MaxContentURLs {
		return nil, pageqa.Errorf(pageqa.EINVALID, "at most %d urls allowed", pageqa.MaxContentURLs)
	}
	for _, u := range urls {
		if err := pageqa.ValidateURL(u); err != nil {
			return nil, err
		}
	}

	concurrency := s.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]*pageqa.PageContent, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, u := range urls {
		g.Go(func() error {
			content, err := s.page(gctx, u)
			if err != nil {
				return err
			}
			if s.Converter != nil {
				md, err := s.Converter.Convert(content.ContentHTML)
				if err != nil {
					return withCode(err, pageqa.EEXTRACT, "convert "+u)
				}
				content.Markdown = md
			}
			results[i] = content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// page fetches and extracts a single page.
func (s *Service) page(ctx context.Context, url string) (*pageqa.PageContent, error) {
	html, err := s.Fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, withCode(err, pageqa.EFETCH, "fetch "+url)
	}

	content, err := s.Extractor.Extract(html, url)
	if err != nil {
		return nil, withCode(err, pageqa.EEXTRACT, "extract "+url)
	}

	if content.Links == nil {
		content.Links = []pageqa.Link{}
	}
	content.FetchedAt = s.now()
	return content, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// withCode returns err unchanged if it already carries an error code, and
// otherwise wraps it with code. The wrapped error's text stays out of the
// message.
func withCode(err error, code, op string) error {
	var e *pageqa.Error
	if errors.As(err, &e) {
		return err
	}
	return pageqa.WrapError(err, code, "%s failed", op)
}
