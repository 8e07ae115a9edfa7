package qa_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fwojciec/pageqa"
	"github.com/fwojciec/pageqa/mock"
	"github.com/fwojciec/pageqa/qa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswerer_Answer(t *testing.T) {
	t.Parallel()

	content := &pageqa.PageContent{
		URL:      "https://example.com/cats",
		Title:    "Cats",
		MainText: strings.Repeat("Cats are mammals. ", 20),
	}

	t.Run("sends prompt with page and question", func(t *testing.T) {
		t.Parallel()

		var prompt string
		a := &qa.Answerer{
			Generator: &mock.Generator{
				GenerateFn: func(_ context.Context, p string) (string, error) {
					prompt = p
					return "## Answer\nMammals.", nil
				},
			},
			MaxPromptChars: 40,
		}

		text, err := a.Answer(context.Background(), content, "What are cats?")

		require.NoError(t, err)
		assert.Equal(t, "## Answer\nMammals.", text)
		assert.Contains(t, prompt, "<source>https://example.com/cats</source>")
		assert.Contains(t, prompt, "Question: What are cats?")
		assert.Contains(t, prompt, "<note>")
	})

	t.Run("rejects empty question", func(t *testing.T) {
		t.Parallel()

		a := &qa.Answerer{Generator: &mock.Generator{}}

		_, err := a.Answer(context.Background(), content, "")

		assert.Equal(t, pageqa.EINVALID, pageqa.ErrorCode(err))
	})

	t.Run("wraps generator errors", func(t *testing.T) {
		t.Parallel()

		a := &qa.Answerer{
			Generator: &mock.Generator{
				GenerateFn: func(_ context.Context, _ string) (string, error) {
					return "", errors.New("boom")
				},
			},
		}

		_, err := a.Answer(context.Background(), content, "Why?")

		assert.Equal(t, pageqa.EANSWER, pageqa.ErrorCode(err))
	})

	t.Run("empty response is an answer error", func(t *testing.T) {
		t.Parallel()

		a := &qa.Answerer{
			Generator: &mock.Generator{
				GenerateFn: func(_ context.Context, _ string) (string, error) {
					return "\n", nil
				},
			},
		}

		_, err := a.Answer(context.Background(), content, "Why?")

		assert.Equal(t, pageqa.EANSWER, pageqa.ErrorCode(err))
	})
}
