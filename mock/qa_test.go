package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/pageqa"
	"github.com/fwojciec/pageqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQAService_Ask(t *testing.T) {
	t.Parallel()

	t.Run("delegates to AskFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *pageqa.QARequest
		s := &mock.QAService{
			AskFn: func(_ context.Context, req *pageqa.QARequest) (*pageqa.QAResponse, error) {
				calledWith = req
				return &pageqa.QAResponse{URL: req.URL}, nil
			},
		}

		req := &pageqa.QARequest{URL: "https://example.com", Question: "Why?"}
		resp, err := s.Ask(context.Background(), req)

		require.NoError(t, err)
		assert.Same(t, req, calledWith)
		assert.Equal(t, "https://example.com", resp.URL)
	})

	t.Run("returns error from AskFn", func(t *testing.T) {
		t.Parallel()

		s := &mock.QAService{
			AskFn: func(_ context.Context, _ *pageqa.QARequest) (*pageqa.QAResponse, error) {
				return nil, pageqa.Errorf(pageqa.EFETCH, "connection refused")
			},
		}

		_, err := s.Ask(context.Background(), &pageqa.QARequest{})

		assert.Equal(t, pageqa.EFETCH, pageqa.ErrorCode(err))
	})
}
