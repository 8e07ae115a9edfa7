package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/pageqa"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	QA      pageqa.QAService
	Content pageqa.ContentService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config `embed:""`

	Serve ServeCmd `cmd:"" help:"Run the HTTP API server"`
	Ask   AskCmd   `cmd:"" help:"Ask a question about a web page"`
	Fetch FetchCmd `cmd:"" help:"Print the extracted content of web pages"`
}

// Config holds process-wide settings. Every flag can also be set through
// its environment variable, and a .env file is loaded before parsing.
type Config struct {
	GeminiAPIKey string        `name:"gemini-api-key" env:"GEMINI_API_KEY" group:"Model" help:"Gemini API key"`
	Model        string        `name:"model" env:"GEMINI_MODEL" default:"gemini-2.5-flash" group:"Model" help:"Model used to answer questions"`
	Temperature  float32       `name:"temperature" env:"GEMINI_TEMPERATURE" default:"0.2" group:"Model" help:"Sampling temperature"`
	ModelTimeout time.Duration `name:"model-timeout" env:"MODEL_TIMEOUT" default:"60s" group:"Model" help:"Time limit for one model call"`

	MaxPromptChars int `name:"max-prompt-chars" env:"MAX_PROMPT_CHARS" default:"12000" group:"Model" help:"Page text budget per prompt, in characters"`

	Fetcher      string        `name:"fetcher" env:"PAGEQA_FETCHER" enum:"http,browser" default:"http" group:"Fetching" help:"Page fetcher (${enum})"`
	FetchTimeout time.Duration `name:"fetch-timeout" env:"FETCH_TIMEOUT" default:"10s" group:"Fetching" help:"Time limit for one page fetch"`
	MaxBodySize  int64         `name:"max-body-size" env:"MAX_BODY_SIZE" default:"5242880" group:"Fetching" help:"Largest page body read, in bytes"`
	Concurrency  int           `name:"concurrency" short:"c" env:"CONCURRENCY" default:"4" group:"Fetching" help:"Pages fetched at once by the fetch command and endpoint"`

	Extractor       string  `name:"extractor" env:"PAGEQA_EXTRACTOR" enum:"heuristic,trafilatura,readability" default:"heuristic" group:"Extraction" help:"Content extractor (${enum})"`
	MaxLinks        int     `name:"max-links" env:"MAX_LINKS" default:"20" group:"Extraction" help:"Related links kept per page"`
	MinTextLength   int     `name:"min-text-length" env:"MIN_TEXT_LENGTH" default:"10" group:"Extraction" help:"Characters a block needs to be selected"`
	TextWeight      float64 `name:"text-weight" default:"0.01" group:"Extraction" help:"Score per character of paragraph text"`
	ParagraphWeight float64 `name:"paragraph-weight" default:"1.0" group:"Extraction" help:"Score per paragraph"`
	LinkPenalty     float64 `name:"link-penalty" default:"1.0" group:"Extraction" help:"Penalty factor for link-heavy blocks"`
	AncestorDecay   float64 `name:"ancestor-decay" default:"0.5" group:"Extraction" help:"Share of a paragraph's score given to the grandparent block"`

	LogLevel string `name:"log-level" env:"LOG_LEVEL" enum:"debug,info,warn,error" default:"info" group:"Logging" help:"Log level (${enum})"`
	LogFile  string `name:"log-file" env:"LOG_FILE" type:"path" group:"Logging" help:"Write JSON logs to this rotated file instead of stderr"`
}

// Scoring returns the content scoring weights set in c.
func (c Config) Scoring() pageqa.Scoring {
	return pageqa.Scoring{
		TextWeight:      c.TextWeight,
		ParagraphWeight: c.ParagraphWeight,
		LinkPenalty:     c.LinkPenalty,
		AncestorDecay:   c.AncestorDecay,
		MinTextLength:   c.MinTextLength,
	}
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Host        string   `env:"HOST" default:"" help:"Interface to bind; empty binds all"`
	Port        int      `short:"p" env:"PORT" default:"3000" help:"Port to listen on"`
	CORSOrigins []string `name:"cors-origins" env:"CORS_ORIGINS" default:"*" help:"Allowed CORS origins, comma separated"`
}

// AskCmd is the "ask" subcommand.
type AskCmd struct {
	URL      string `arg:"" help:"Page URL"`
	Question string `arg:"" help:"Question to ask about the page"`
	JSON     bool   `name:"json" help:"Print the full response as JSON"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URLs []string `arg:"" name:"url" help:"Page URLs"`
	JSON bool     `name:"json" help:"Print the pages as JSON"`
}
