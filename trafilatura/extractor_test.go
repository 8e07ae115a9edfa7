package trafilatura_test

import (
	"testing"

	"github.com/fwojciec/pageqa"
	"github.com/fwojciec/pageqa/mock"
	"github.com/fwojciec/pageqa/trafilatura"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Ensure Extractor implements pageqa.Extractor at compile time.
var _ pageqa.Extractor = (*trafilatura.Extractor)(nil)

// recorder returns a next extractor that records the HTML it receives.
func recorder(got *string) *mock.Extractor {
	return &mock.Extractor{
		ExtractFn: func(html, baseURL string) (*pageqa.PageContent, error) {
			*got = html
			return &pageqa.PageContent{URL: baseURL, MainText: "text"}, nil
		},
	}
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("delegates main content", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav><a href="/">Home</a><a href="/docs">Docs</a></nav>
<article>
<h1>Documentation</h1>
<p>This is important documentation content that should be extracted.</p>
<pre><code>func main() { fmt.Println("Hello") }</code></pre>
</article>
<aside>Sidebar content</aside>
<footer>Copyright 2024</footer>
</body>
</html>`

		var got string
		content, err := trafilatura.NewExtractor(recorder(&got)).Extract(html, "https://example.com/docs")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/docs", content.URL)
		assert.Contains(t, got, "important documentation content")
		assert.Contains(t, got, "func main()")
		assert.Contains(t, got, "<title>")
	})

	t.Run("removes navigation boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<nav class="main-nav">
<ul>
<li><a href="/">Home</a></li>
<li><a href="/about">About</a></li>
<li><a href="/docs">Documentation</a></li>
</ul>
</nav>
<main>
<h1>Main Content</h1>
<p>This paragraph contains the actual content we want.</p>
</main>
</body>
</html>`

		var got string
		_, err := trafilatura.NewExtractor(recorder(&got)).Extract(html, "https://example.com/")

		require.NoError(t, err)
		assert.Contains(t, got, "actual content we want")
		assert.NotContains(t, got, "main-nav")
	})

	t.Run("removes footer boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body>
<article>
<h1>Article Title</h1>
<p>Article body with substantive content for readers.</p>
</article>
<footer>
<p>Copyright 2024 Example Corp</p>
<nav>Privacy | Terms | Contact</nav>
</footer>
</body>
</html>`

		var got string
		_, err := trafilatura.NewExtractor(recorder(&got)).Extract(html, "https://example.com/")

		require.NoError(t, err)
		assert.Contains(t, got, "substantive content")
		assert.NotContains(t, got, "Copyright 2024 Example Corp")
	})

	t.Run("returns next extractor errors", func(t *testing.T) {
		t.Parallel()

		next := &mock.Extractor{
			ExtractFn: func(_, _ string) (*pageqa.PageContent, error) {
				return nil, pageqa.Errorf(pageqa.EEXTRACT, "page has no extractable content")
			},
		}

		_, err := trafilatura.NewExtractor(next).Extract("<html><body><p>Some text in a paragraph.</p></body></html>", "https://example.com/")

		assert.Equal(t, pageqa.EEXTRACT, pageqa.ErrorCode(err))
	})

	t.Run("rejects empty input", func(t *testing.T) {
		t.Parallel()

		_, err := trafilatura.NewExtractor(&mock.Extractor{}).Extract("  ", "https://example.com/")

		require.Error(t, err)
		assert.Equal(t, pageqa.EEXTRACT, pageqa.ErrorCode(err))
	})
}
