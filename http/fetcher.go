// Package http provides the net/http implementation of pageqa.Fetcher and
// the HTTP API server.
package http

import (
	"context"
	"errors"
	"io"
	"mime"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/pageqa"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize caps the number of bytes read from a response body.
const DefaultMaxBodySize = 5 << 20

const acceptHeader = "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5"

// Ensure Fetcher implements pageqa.Fetcher at compile time.
var _ pageqa.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize sets how many bytes of a response body are read.
// Anything beyond is silently dropped.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   pageqa.BrowserUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the HTML content from the given URL, decoded to UTF-8.
//
// Returns EINVALID for a malformed URL and EFETCH for connection failures,
// timeouts, non-2xx responses, and non-HTML content.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := pageqa.ValidateURL(url); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", pageqa.Errorf(pageqa.EINVALID, "invalid url %q", url)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fetchError(url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", pageqa.Errorf(pageqa.EFETCH, "HTTP %d for %s", resp.StatusCode, url)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return "", pageqa.Errorf(pageqa.EFETCH, "%s is not an HTML page (content type %q)", url, contentType)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), contentType)
	if errors.Is(err, io.EOF) {
		// Empty body; the extractor reports the missing content.
		return "", nil
	} else if err != nil {
		return "", pageqa.WrapError(err, pageqa.EFETCH, "unsupported encoding for %s", url)
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return "", fetchError(url, err)
	}

	return string(b), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// isHTML reports whether contentType names an HTML document. A missing
// header is accepted; servers often omit it for static pages.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func fetchError(url string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return pageqa.Errorf(pageqa.EFETCH, "timed out fetching %s", url)
	}
	if errors.Is(err, context.Canceled) {
		return pageqa.Errorf(pageqa.EFETCH, "fetching %s was canceled", url)
	}
	return pageqa.WrapError(err, pageqa.EFETCH, "could not reach %s", url)
}
