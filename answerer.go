package pageqa

import "context"

// Generator produces text from a prompt using a hosted generative model.
// It is the only seam between prompt construction and the network.
type Generator interface {
	// Generate sends prompt to the model in a single attempt and returns
	// the generated text.
	// Returns EANSWER on authentication, quota, timeout, or empty-response
	// failures.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Answerer answers a question about extracted page content.
type Answerer interface {
	// Answer returns the model's raw markdown answer to question, grounded
	// in content.
	// Returns EINVALID for an empty question and EANSWER for model failures.
	Answer(ctx context.Context, content *PageContent, question string) (string, error)
}
