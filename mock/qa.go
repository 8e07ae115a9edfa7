package mock

import (
	"context"

	"github.com/fwojciec/pageqa"
)

var _ pageqa.QAService = (*QAService)(nil)

// QAService is a mock implementation of pageqa.QAService.
type QAService struct {
	AskFn func(ctx context.Context, req *pageqa.QARequest) (*pageqa.QAResponse, error)
}

func (s *QAService) Ask(ctx context.Context, req *pageqa.QARequest) (*pageqa.QAResponse, error) {
	return s.AskFn(ctx, req)
}

var _ pageqa.ContentService = (*ContentService)(nil)

// ContentService is a mock implementation of pageqa.ContentService.
type ContentService struct {
	FetchContentFn func(ctx context.Context, urls []string) ([]*pageqa.PageContent, error)
}

func (s *ContentService) FetchContent(ctx context.Context, urls []string) ([]*pageqa.PageContent, error) {
	return s.FetchContentFn(ctx, urls)
}
