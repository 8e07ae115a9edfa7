package pageqa

import "context"

// BrowserUserAgent is the client identity sent with page requests. Many
// sites serve reduced or blocked content to obvious bot user agents.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch retrieves the HTML document at url in a single attempt.
	// The context controls cancellation; implementations also apply their
	// own timeout.
	// Returns EINVALID for malformed URLs and EFETCH for network, status,
	// or content-type failures.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
