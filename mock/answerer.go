package mock

import (
	"context"

	"github.com/fwojciec/pageqa"
)

var _ pageqa.Generator = (*Generator)(nil)

// Generator is a mock implementation of pageqa.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}

var _ pageqa.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of pageqa.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, content *pageqa.PageContent, question string) (string, error)
}

func (a *Answerer) Answer(ctx context.Context, content *pageqa.PageContent, question string) (string, error) {
	return a.AnswerFn(ctx, content, question)
}
