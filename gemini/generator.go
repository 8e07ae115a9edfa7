// Package gemini implements pageqa.Generator using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/pageqa"
	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTimeout bounds a single model call.
const DefaultTimeout = 60 * time.Second

// DefaultTemperature keeps answers close to the page text.
const DefaultTemperature = 0.2

const systemInstruction = "You answer questions about a single web page. Base every claim only on the page content provided and quote it word for word as evidence. If the content does not contain the answer, say so plainly."

// Ensure Generator implements pageqa.Generator at compile time.
var _ pageqa.Generator = (*Generator)(nil)

// Generator sends prompts to a Gemini model.
type Generator struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	temperature float32
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel sets the model name. Defaults to DefaultModel.
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

// WithTimeout sets the per-call timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float32) Option {
	return func(g *Generator) {
		g.temperature = t
	}
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client, opts ...Option) *Generator {
	g := &Generator{
		client:      client,
		model:       DefaultModel,
		timeout:     DefaultTimeout,
		temperature: DefaultTemperature,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate sends prompt to the model and returns the response text.
// All failures are returned as EANSWER errors.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(g.temperature),
	)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", pageqa.Errorf(pageqa.EANSWER, "model did not respond within %s", g.timeout)
		}
		return "", classify(err)
	}
	if result == nil {
		return "", pageqa.Errorf(pageqa.EANSWER, "gemini returned nil result")
	}
	if fb := result.PromptFeedback; fb != nil && fb.BlockReason != "" {
		return "", pageqa.Errorf(pageqa.EANSWER, "model blocked the prompt: %s", fb.BlockReason)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", pageqa.Errorf(pageqa.EANSWER, "model returned an empty response")
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
func BuildConfig(temperature float32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		Temperature: &temperature,
	}
}

// classify maps a Gemini client error to an EANSWER error with a message
// a user can act on.
func classify(err error) error {
	code, msg := 0, ""
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code, msg = apiErr.Code, apiErr.Message
	case errors.As(err, &apiErrPtr):
		code, msg = apiErrPtr.Code, apiErrPtr.Message
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			return pageqa.Errorf(pageqa.EANSWER, "model request timed out")
		}
		return pageqa.WrapError(err, pageqa.EANSWER, "model request failed")
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden || strings.Contains(msg, "API key"):
		return pageqa.Errorf(pageqa.EANSWER, "model authentication failed, check GEMINI_API_KEY")
	case code == http.StatusTooManyRequests:
		return pageqa.Errorf(pageqa.EANSWER, "model quota exceeded, try again later")
	}
	return pageqa.WrapError(err, pageqa.EANSWER, "model request failed with status %d", code)
}
