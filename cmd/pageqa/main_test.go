package main_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/fwojciec/pageqa"
	main "github.com/fwojciec/pageqa/cmd/pageqa"
	"github.com/fwojciec/pageqa/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run(t *testing.T) {
	t.Parallel()

	t.Run("prints help", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "serve")
		assert.Contains(t, stdout.String(), "ask")
		assert.Contains(t, stdout.String(), "fetch")
		assert.Contains(t, stdout.String(), "--gemini-api-key")
	})

	t.Run("fails without a command", func(t *testing.T) {
		t.Parallel()

		stdout := &bytes.Buffer{}
		err := main.NewMain().Run(context.Background(), nil, stdout, &bytes.Buffer{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no command specified")
		assert.Contains(t, stdout.String(), "serve")
	})

	t.Run("fails on missing arguments", func(t *testing.T) {
		t.Parallel()

		m := &main.Main{QAService: &mock.QAService{}}
		err := m.Run(context.Background(), []string{"ask", "https://example.com"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})

	t.Run("runs ask with the configured service", func(t *testing.T) {
		t.Parallel()

		var got *pageqa.QARequest
		m := &main.Main{QAService: &mock.QAService{
			AskFn: func(_ context.Context, req *pageqa.QARequest) (*pageqa.QAResponse, error) {
				got = req
				return &pageqa.QAResponse{
					URL:      req.URL,
					Title:    "Cats",
					QAResult: pageqa.QAResult{Answer: "Cats sleep a lot."},
				}, nil
			},
		}}

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), []string{"ask", "https://example.com/cats", "Do cats sleep?"}, stdout, &bytes.Buffer{})

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "https://example.com/cats", got.URL)
		assert.Equal(t, "Do cats sleep?", got.Question)
		assert.Contains(t, stdout.String(), "Cats sleep a lot.")
	})

	t.Run("rejects an unknown extractor", func(t *testing.T) {
		t.Parallel()

		m := &main.Main{QAService: &mock.QAService{}}
		err := m.Run(context.Background(), []string{"--extractor=magic", "ask", "https://example.com", "Why?"}, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})
}
