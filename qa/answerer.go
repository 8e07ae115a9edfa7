package qa

import (
	"context"
	"strings"

	"github.com/fwojciec/pageqa"
)

var _ pageqa.Answerer = (*Answerer)(nil)

// Answerer implements pageqa.Answerer with a single prompt to a Generator.
type Answerer struct {
	Generator pageqa.Generator

	// MaxPromptChars is the page text budget. Defaults to
	// pageqa.DefaultMaxPromptChars.
	MaxPromptChars int
}

// Answer asks the model question about content and returns its raw text.
func (a *Answerer) Answer(ctx context.Context, content *pageqa.PageContent, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", pageqa.Errorf(pageqa.EINVALID, "question required")
	}
	if content == nil || strings.TrimSpace(content.MainText) == "" {
		return "", pageqa.Errorf(pageqa.EEXTRACT, "page has no extractable content")
	}

	limit := a.MaxPromptChars
	if limit <= 0 {
		limit = pageqa.DefaultMaxPromptChars
	}

	text, err := a.Generator.Generate(ctx, pageqa.BuildPrompt(content, question, limit))
	if err != nil {
		return "", withCode(err, pageqa.EANSWER, "generate answer")
	}
	if strings.TrimSpace(text) == "" {
		return "", pageqa.Errorf(pageqa.EANSWER, "model returned an empty response")
	}
	return text, nil
}
