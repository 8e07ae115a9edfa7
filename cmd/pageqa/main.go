package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pageqa"
	"github.com/fwojciec/pageqa/gemini"
	"github.com/fwojciec/pageqa/goquery"
	"github.com/fwojciec/pageqa/htmltomarkdown"
	pageqahttp "github.com/fwojciec/pageqa/http"
	"github.com/fwojciec/pageqa/qa"
	"github.com/fwojciec/pageqa/readability"
	"github.com/fwojciec/pageqa/rod"
	pageqaslog "github.com/fwojciec/pageqa/slog"
	"github.com/fwojciec/pageqa/trafilatura"
	"github.com/joho/godotenv"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Services for end-to-end testing. When either is set, Run uses them
	// instead of wiring the real pipeline.
	QAService      pageqa.QAService
	ContentService pageqa.ContentService

	closers []io.Closer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the resources opened by Run.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pageqa"),
		kong.Description("Answer questions about web pages."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pageqa --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger, logCloser, err := NewLogger(cli.Config, stderr)
	if err != nil {
		return err
	}
	if logCloser != nil {
		m.closers = append(m.closers, logCloser)
	}
	deps.Logger = logger
	defer m.Close()

	if m.QAService != nil || m.ContentService != nil {
		deps.QA = m.QAService
		deps.Content = m.ContentService
		return kongCtx.Run(deps)
	}

	svc, err := m.newService(ctx, cli.Config, cmd != "fetch", logger, stderr)
	if err != nil {
		return err
	}
	deps.QA = svc
	deps.Content = svc

	return kongCtx.Run(deps)
}

// newService wires the fetch, extract, and answer pipeline from cfg. The
// model client is only created when withModel is set.
func (m *Main) newService(ctx context.Context, cfg Config, withModel bool, logger *slog.Logger, stderr io.Writer) (*qa.Service, error) {
	fetcher, err := newFetcher(cfg)
	if err != nil {
		if cfg.Fetcher == "browser" {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		}
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}
	m.closers = append(m.closers, fetcher)

	svc := &qa.Service{
		Fetcher:     pageqaslog.NewLoggingFetcher(fetcher, logger),
		Extractor:   pageqaslog.NewLoggingExtractor(newExtractor(cfg), logger),
		Converter:   htmltomarkdown.NewConverter(),
		Concurrency: cfg.Concurrency,
	}

	if withModel {
		if cfg.GeminiAPIKey == "" {
			fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
			return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cfg.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}

		generator := gemini.NewGenerator(client,
			gemini.WithModel(cfg.Model),
			gemini.WithTimeout(cfg.ModelTimeout),
			gemini.WithTemperature(cfg.Temperature),
		)
		svc.Answerer = &qa.Answerer{
			Generator:      pageqaslog.NewLoggingGenerator(generator, logger),
			MaxPromptChars: cfg.MaxPromptChars,
		}
	}

	return svc, nil
}

func newFetcher(cfg Config) (pageqa.Fetcher, error) {
	if cfg.Fetcher == "browser" {
		return rod.NewFetcher(rod.WithFetchTimeout(cfg.FetchTimeout))
	}
	return pageqahttp.NewFetcher(
		pageqahttp.WithTimeout(cfg.FetchTimeout),
		pageqahttp.WithMaxBodySize(cfg.MaxBodySize),
	), nil
}

func newExtractor(cfg Config) pageqa.Extractor {
	base := goquery.NewExtractor(
		goquery.WithScoring(cfg.Scoring()),
		goquery.WithMaxLinks(cfg.MaxLinks),
	)
	switch cfg.Extractor {
	case "trafilatura":
		return trafilatura.NewExtractor(base)
	case "readability":
		return readability.NewExtractor(base)
	}
	return base
}
