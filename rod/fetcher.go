// Package rod implements pageqa.Fetcher with a headless Chrome browser,
// for pages that render their content with JavaScript.
package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/pageqa"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout is the default timeout for loading a page.
// Kept consistent with http.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements pageqa.Fetcher at compile time.
var _ pageqa.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager     *BrowserManager
	timeout     time.Duration
	userAgent   string
	managerOpts []ManagerOption
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the time allowed for a page to load.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent overrides the User-Agent sent by the browser.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithManagerOptions configures the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: pageqa.BrowserUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
//
// Returns EINVALID for a malformed URL and EFETCH when the page cannot be
// loaded in time or responds with a non-2xx status.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := pageqa.ValidateURL(url); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", pageqa.Errorf(pageqa.EFETCH, "fetching %s was canceled", url)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", pageqa.WrapError(err, pageqa.EFETCH, "could not open a browser page for %s", url)
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
		return "", loadError(ctx, url, err)
	}

	status := 0
	waitResponse := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		return true
	})

	if err := page.Navigate(url); err != nil {
		return "", loadError(ctx, url, err)
	}
	waitResponse()
	if ctx.Err() != nil {
		return "", loadError(ctx, url, ctx.Err())
	}
	if status < 200 || status > 299 {
		return "", pageqa.Errorf(pageqa.EFETCH, "HTTP %d for %s", status, url)
	}

	if err := page.WaitLoad(); err != nil {
		return "", loadError(ctx, url, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", loadError(ctx, url, err)
	}

	return html, nil
}

// Close releases browser resources.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}

func loadError(ctx context.Context, url string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return pageqa.Errorf(pageqa.EFETCH, "timed out fetching %s", url)
	}
	if errors.Is(err, context.Canceled) {
		return pageqa.Errorf(pageqa.EFETCH, "fetching %s was canceled", url)
	}
	return pageqa.WrapError(err, pageqa.EFETCH, "could not load %s", url)
}
