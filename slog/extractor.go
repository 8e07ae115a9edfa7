package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/pageqa"
)

// Ensure LoggingExtractor implements pageqa.Extractor.
var _ pageqa.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   pageqa.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next pageqa.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the size of the
// extracted text.
func (e *LoggingExtractor) Extract(html, baseURL string) (content *pageqa.PageContent, err error) {
	defer func(begin time.Time) {
		chars, links := 0, 0
		if content != nil {
			chars, links = len(content.MainText), len(content.Links)
		}
		e.logger.Info("extract",
			"url", baseURL,
			"chars", chars,
			"links", links,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, baseURL)
}
